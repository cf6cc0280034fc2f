// Package annotation parses annotation files into records.
//
// An annotation file holds one or more entries separated by a line of
// twenty '#' characters. Each entry has metadata lines ("#A", "#C", "#D",
// "#F", "#L", "#S", "#T", "#X"), optional comment lines ("#" or "# ...")
// and a body. Metadata not set in an entry is inherited from the entry
// before it in the same file.
//
// Bodies are either plain text, raw HTML or, with "#X format:markdown",
// Markdown. Plain text is escaped; HTML and rendered Markdown go through
// the sanitizer. @@...@@ placeholders are resolved in every body kind.
package annotation
