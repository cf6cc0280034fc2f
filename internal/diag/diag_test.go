package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestCollector_RecordsAndMirrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewCollector(logger)

	c.Warn(KindFormat, "rfc1.txt", "bad date %q", "2024-13-01")
	c.Error(KindSanitize, "", "stripped %s", "<script>")
	c.Info(KindChecksum, "rfc1.txt", "outdated")

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if got := c.Count(KindFormat); got != 1 {
		t.Errorf("Count(KindFormat) = %d, want 1", got)
	}
	items := c.Items()
	if items[0].Message != `bad date "2024-13-01"` {
		t.Errorf("Message = %q", items[0].Message)
	}
	if items[1].Level != slog.LevelError {
		t.Errorf("Level = %v, want ERROR", items[1].Level)
	}
	out := buf.String()
	if !strings.Contains(out, "kind=format") || !strings.Contains(out, "path=rfc1.txt") {
		t.Errorf("logger output missing attrs: %s", out)
	}
}

func TestCollector_NilIsSafe(t *testing.T) {
	t.Parallel()

	var c *Collector
	c.Warn(KindFormat, "", "ignored")
	if c.Len() != 0 || c.Items() != nil || c.Count(KindFormat) != 0 {
		t.Error("nil collector should record nothing")
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "with path",
			d:    Diagnostic{Kind: KindUnresolved, Path: "a/b", Message: "no match"},
			want: "unresolved: no match (a/b)",
		},
		{
			name: "without path",
			d:    Diagnostic{Kind: KindPolicy, Message: "missing"},
			want: "policy: missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.d.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
