package report

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Digest returns the xxhash64 of a report text as 16 hex digits. Equal
// reports share a digest, which the history store uses to spot reruns.
func Digest(summary string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(summary))
}
