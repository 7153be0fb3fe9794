package process

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

// GopsutilLister enumerates processes through gopsutil instead of a child command
type GopsutilLister struct{}

func NewGopsutilLister() *GopsutilLister {
	return &GopsutilLister{}
}

func (l *GopsutilLister) ListProcessNames(ctx context.Context) ([]string, error) {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get process list: %w", err)
	}

	names := make([]string, 0, len(processes))
	for _, p := range processes {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // Skip processes we can't get names for
		}
		names = append(names, name)
	}

	return names, nil
}
