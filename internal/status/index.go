// Package status reads the registry index and generates the obsoleted,
// updated and has-errata annotations of each document.
package status

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrIndex indicates a registry index that cannot be read or parsed.
var ErrIndex = errors.New("invalid registry index")

// Entry is the status of one document in the registry index.
type Entry struct {
	DocID       string
	Title       string
	ObsoletedBy []string
	UpdatedBy   []string
	ErrataURL   string
}

// Index maps document ids to their registry entries.
// It is read-only after construction and safe for concurrent use.
type Index struct {
	entries map[string]Entry
}

// ParseIndex parses an rfc-index.xml document. Elements are matched by
// local name, so the index namespace does not matter.
func ParseIndex(r io.Reader) (*Index, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndex, err)
	}
	nodes, err := xmlquery.QueryAll(root, "//*[local-name()='rfc-entry']")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndex, err)
	}

	ix := &Index{entries: make(map[string]Entry, len(nodes))}
	for _, n := range nodes {
		e := Entry{
			DocID:       strings.ToUpper(childText(n, "doc-id")),
			Title:       childText(n, "title"),
			ObsoletedBy: docIDs(child(n, "obsoleted-by")),
			UpdatedBy:   docIDs(child(n, "updated-by")),
			ErrataURL:   childText(n, "errata-url"),
		}
		if e.DocID == "" {
			continue
		}
		ix.entries[NormalizeDocID(e.DocID)] = e
	}
	return ix, nil
}

// LoadIndex reads and parses the index file at path.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path) // #nosec G304 -- path from configuration
	if err != nil {
		return nil, fmt.Errorf("reading registry index: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseIndex(f)
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Lookup returns the entry of doc, given as "RFC1234", "rfc1234" or "1234".
func (ix *Index) Lookup(doc string) (Entry, bool) {
	if ix == nil {
		return Entry{}, false
	}
	e, ok := ix.entries[NormalizeDocID(doc)]
	return e, ok
}

// NormalizeDocID returns doc as an upper-case "RFC" id without leading
// zeros in the number: "rfc0791" and "791" both yield "RFC791".
func NormalizeDocID(doc string) string {
	doc = strings.ToUpper(strings.TrimSpace(doc))
	nr := strings.TrimPrefix(doc, "RFC")
	if trimmed := strings.TrimLeft(nr, "0"); trimmed != "" {
		nr = trimmed
	}
	return "RFC" + nr
}

func child(n *xmlquery.Node, name string) *xmlquery.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func childText(n *xmlquery.Node, name string) string {
	c := child(n, name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}

func docIDs(n *xmlquery.Node) []string {
	if n == nil {
		return nil
	}
	var ids []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "doc-id" {
			ids = append(ids, strings.ToUpper(strings.TrimSpace(c.InnerText())))
		}
	}
	return ids
}
