package rfcnotes

import "runtime"

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent documents; each holds its text and
	// rendered page in memory.
	MaxPoolSize = 32
)

// ResolvePoolSize determines how many documents to annotate in parallel.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return min(workers, MaxPoolSize)
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	return max(MinPoolSize, min(runtime.GOMAXPROCS(0), MaxPoolSize))
}
