package games

import "strings"

// MatchKnown returns the first catalog entry, in catalog order, whose
// executable equals one of the snapshot names. Comparison is exact and
// case-insensitive; the snapshot order never affects the result.
func MatchKnown(snapshot []string, entries []CatalogEntry) (CatalogEntry, bool) {
	if len(snapshot) == 0 {
		return CatalogEntry{}, false
	}

	running := make(map[string]struct{}, len(snapshot))
	for _, name := range snapshot {
		running[strings.ToLower(name)] = struct{}{}
	}

	for _, entry := range entries {
		if _, ok := running[strings.ToLower(entry.Executable)]; ok {
			return entry, true
		}
	}

	return CatalogEntry{}, false
}
