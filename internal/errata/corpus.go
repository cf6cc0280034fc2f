package errata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
)

// ErrCorpus indicates an errata corpus or patch file that cannot be decoded.
var ErrCorpus = errors.New("invalid errata data")

// Patches overrides erratum fields: document id, then erratum id, then field.
type Patches map[string]map[string]map[string]any

// Corpus is the patched errata corpus, indexed by document and id.
// It is read-only after construction and safe for concurrent use.
type Corpus struct {
	byDoc map[string][]Erratum
	byID  map[string]Erratum
}

// NewCorpus indexes list with patches applied. The input is not modified.
func NewCorpus(list []Erratum, patches Patches) *Corpus {
	c := &Corpus{
		byDoc: make(map[string][]Erratum),
		byID:  make(map[string]Erratum, len(list)),
	}
	for _, e := range list {
		doc := e.DocID()
		if p, ok := patches[doc][e.ID()]; ok {
			e = e.patched(p)
		}
		c.byDoc[doc] = append(c.byDoc[doc], e)
		c.byID[e.ID()] = e
	}
	for doc := range c.byDoc {
		slices.SortStableFunc(c.byDoc[doc], func(a, b Erratum) int {
			return compareIDs(a.ID(), b.ID())
		})
	}
	return c
}

func compareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na - nb
	}
	return strings.Compare(a, b)
}

// Len returns the number of errata.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

// ForDocument returns the errata of docID (e.g. "RFC9000") ordered by id.
func (c *Corpus) ForDocument(docID string) []Erratum {
	if c == nil {
		return nil
	}
	return slices.Clone(c.byDoc[strings.ToUpper(docID)])
}

// Lookup returns the erratum with the given id.
func (c *Corpus) Lookup(id string) (Erratum, bool) {
	if c == nil {
		return Erratum{}, false
	}
	e, ok := c.byID[strings.TrimSpace(id)]
	return e, ok
}

// Checksum returns the live checksum of erratum id, patches included.
func (c *Corpus) Checksum(id string) (string, bool) {
	e, ok := c.Lookup(id)
	if !ok {
		return "", false
	}
	return e.Checksum(), true
}

// ParseCorpus decodes a JSON list of errata.
func ParseCorpus(data []byte, patches Patches) (*Corpus, error) {
	var list []Erratum
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpus, err)
	}
	return NewCorpus(list, patches), nil
}

// LoadCorpus reads the errata JSON list at path.
func LoadCorpus(path string, patches Patches) (*Corpus, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided cache path
	if err != nil {
		return nil, fmt.Errorf("reading errata %s: %w", path, err)
	}
	c, err := ParseCorpus(data, patches)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParsePatches decodes a patch document. Numbers are kept exact.
func ParsePatches(data []byte) (Patches, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var p Patches
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: patches: %v", ErrCorpus, err)
	}
	return p, nil
}

// LoadPatches reads the patch file at path. A missing file means no patches.
func LoadPatches(path string) (Patches, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- caller-provided cache path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading patches %s: %w", path, err)
	}
	p, err := ParsePatches(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
