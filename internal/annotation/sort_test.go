package annotation

import (
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSort
// ---------------------------------------------------------------------------

func TestSort(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Type: "", Caption: "untyped-1"},
		{Type: "example", Caption: "example"},
		{Type: TypeHasErrata, Caption: "errata"},
		{Type: "alpha", Caption: "alpha"},
		{Type: TypeObsoleted, Caption: "obsoleted"},
		{Type: "", Caption: "untyped-2"},
		{Type: TypeUpdated, Caption: "updated"},
	}
	Sort(records)

	want := []string{"obsoleted", "updated", "errata", "alpha", "example", "untyped-1", "untyped-2"}
	for i, r := range records {
		if r.Caption != want[i] {
			t.Errorf("records[%d].Caption = %q, want %q", i, r.Caption, want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// TestRemoveEclipsed
// ---------------------------------------------------------------------------

func TestRemoveEclipsed(t *testing.T) {
	t.Parallel()

	generated := filepath.Join("notes", "_generated", "rfc1.erratum.5")
	records := []Record{
		{ErrataID: "5", Path: generated, Caption: "generated-5"},
		{ErrataID: "6", Path: filepath.Join("notes", "_generated", "rfc1.erratum.6"), Caption: "generated-6"},
		{ErrataID: "5", Path: filepath.Join("notes", "rfc1.erratum.5"), Caption: "edited-5"},
		{Path: filepath.Join("notes", "rfc1.misc"), Caption: "misc"},
	}

	got := RemoveEclipsed(records)

	want := []string{"generated-6", "edited-5", "misc"}
	if len(got) != len(want) {
		t.Fatalf("RemoveEclipsed() returned %d records, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.Caption != want[i] {
			t.Errorf("got[%d].Caption = %q, want %q", i, r.Caption, want[i])
		}
	}
}

func TestRecord_Generated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("a", "_generated", "rfc1.x"), true},
		{"a/_generated/rfc1.x", true},
		{filepath.Join("a", "generated", "rfc1.x"), false},
		{"rfc1._generated", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := (Record{Path: tt.path}).Generated(); got != tt.want {
				t.Errorf("Generated() = %v, want %v", got, tt.want)
			}
		})
	}
}
