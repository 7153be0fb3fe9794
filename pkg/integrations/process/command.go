package process

import (
	"context"
	"fmt"
	"time"
)

// DefaultCommandTimeout bounds a single run of the process listing command
const DefaultCommandTimeout = 5 * time.Second

// CommandLister lists processes by running the platform listing command
// (tasklist on Windows, ps elsewhere).
type CommandLister struct {
	timeout time.Duration
}

func NewCommandLister(timeout time.Duration) *CommandLister {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &CommandLister{timeout: timeout}
}

func (l *CommandLister) ListProcessNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := listCommand(ctx)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", cmd.Path, err)
	}

	return parseListOutput(string(output)), nil
}

// Name returns the command used on this platform
func (l *CommandLister) Name() string {
	return listCommandName
}
