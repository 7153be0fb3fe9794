//go:build !windows

package process

import (
	"context"
	"os/exec"
)

const listCommandName = "ps"

func listCommand(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, "ps", "-eo", "comm=")
}

func parseListOutput(output string) []string {
	return ParsePS(output)
}
