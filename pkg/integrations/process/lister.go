package process

import (
	"context"
	"path"
	"strings"
)

// Lister returns the names of the processes currently visible to the OS
type Lister interface {
	ListProcessNames(ctx context.Context) ([]string, error)
}

// ListerFunc adapts a function to the Lister interface
type ListerFunc func(ctx context.Context) ([]string, error)

func (f ListerFunc) ListProcessNames(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// Snapshot returns the lower-cased process names reported by lister.
// It is best effort: any failure yields an empty snapshot instead of an error.
func Snapshot(ctx context.Context, lister Lister) []string {
	if lister == nil {
		return []string{}
	}

	names, err := lister.ListProcessNames(ctx)
	if err != nil {
		return []string{}
	}

	return Normalize(names)
}

// Normalize trims and lower-cases names, dropping empty entries.
// Absolute paths (as printed by ps on macOS) are reduced to their base name.
func Normalize(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if strings.HasPrefix(name, "/") {
			name = path.Base(name)
		}
		if name == "" {
			continue
		}
		out = append(out, strings.ToLower(name))
	}
	return out
}
