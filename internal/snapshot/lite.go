package snapshot

import "github.com/aldengrove/nesgo/internal/core"

// ExcludeSet turns a list of block tag names (as they appear in the
// test script's "Disable State Blocks" array) into the set Serialize
// expects. Unrecognized names are kept in the set harmlessly: they
// simply never match any tag Serialize considers, so passing a stale
// or foreign name is a no-op rather than an error.
func ExcludeSet(tags []string) map[string]bool {
	out := make(map[string]bool, len(tags))
	for _, t := range tags {
		out[t] = true
	}
	return out
}

// Lite is Serialize with a named exclusion list, matching §4.8's
// "the same format, but with a caller-selected subset of blocks
// omitted" description of the lite snapshot.
func Lite(c *core.Core, excludeTags []string) []byte {
	return Serialize(c, ExcludeSet(excludeTags))
}

// Full is Serialize with no exclusions.
func Full(c *core.Core) []byte {
	return Serialize(c, nil)
}
