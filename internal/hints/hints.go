// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-rfcnotes/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-rfcnotes") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForLocked returns hints when another run holds the output lock.
func ForLocked(lockPath string) string {
	return format("another rfcnotes run is writing here; wait for it or remove " + lockPath + " if it is stale")
}

// ForPolicyNotFound returns hints for sanitization policy not found errors.
func ForPolicyNotFound(available []string) string {
	return forAvailable(available)
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	return forAvailable(available)
}

// ForMissingSource returns hints for an unreadable cached source file
// (errata list, patches, document index). envVar and flag name the two ways
// of pointing at it.
func ForMissingSource(envVar, flag string) string {
	var hints []string

	if v := os.Getenv(envVar); v != "" {
		hints = append(hints, envVar+"="+v+" does not point to a readable file")
	} else {
		hints = append(hints, "set "+envVar+" or pass --"+flag)
	}
	hints = append(hints, "refresh the cache from the publisher before running")

	return formatHints(hints)
}

func forAvailable(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
