package main

// Notes:
// - This file contains fixtures and helpers shared by the command tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleDocument = "Network Working Group\n" +
	"\n" +
	"1.  Introduction\n" +
	"\n" +
	"   The quick brown fox jumps over\n" +
	"   the lazy dog.\n" +
	"\n" +
	"2.  Security Considerations\n" +
	"\n" +
	"   None.\n"

const sampleNotes = "#A Jane Doe\n#C On the fox\n#D 2024-03-01\n#S 1\n#\n<p>Watch the <b>fox</b>.</p>\n"

const sampleErrata = `[
  {"errata_id": "5", "doc-id": "RFC1234", "errata_status_code": "Verified", "errata_type_code": "Technical",
   "section": "1", "orig_text": "quick", "correct_text": "slow", "notes": null, "submitter_name": "Ann"}
]`

const sampleIndex = `<?xml version="1.0" encoding="UTF-8"?>
<rfc-index xmlns="https://www.rfc-editor.org/rfc-index">
  <rfc-entry>
    <doc-id>RFC1234</doc-id>
    <title>Foxes</title>
    <obsoleted-by>
      <doc-id>RFC2000</doc-id>
    </obsoleted-by>
    <errata-url>https://www.rfc-editor.org/errata/rfc1234</errata-url>
  </rfc-entry>
</rfc-index>
`

// testEnv returns an Environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}

// workspace is a temporary document tree.
type workspace struct {
	root   string
	docs   string
	notes  string
	out    string
	errata string
	index  string
}

// newWorkspace creates rfc1234.txt with one annotation file and cached sources.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	ws := &workspace{
		root:   root,
		docs:   filepath.Join(root, "docs"),
		notes:  filepath.Join(root, "notes"),
		out:    filepath.Join(root, "html"),
		errata: filepath.Join(root, "errata.json"),
		index:  filepath.Join(root, "rfc-index.xml"),
	}
	writeTestFile(t, filepath.Join(ws.docs, "rfc1234.txt"), sampleDocument)
	writeTestFile(t, filepath.Join(ws.notes, "rfc1234.fox"), sampleNotes)
	writeTestFile(t, ws.errata, sampleErrata)
	writeTestFile(t, ws.index, sampleIndex)
	return ws
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup write: %v", err)
	}
}

// runCmd runs the CLI with args and returns the exit code and outputs.
func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	env, stdout, stderr := testEnv()
	code := run(context.Background(), args, env)
	return code, stdout.String(), stderr.String()
}
