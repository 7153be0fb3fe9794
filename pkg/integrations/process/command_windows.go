//go:build windows

package process

import (
	"context"
	"os/exec"
	"syscall"
)

const (
	listCommandName = "tasklist"
	createNoWindow  = 0x08000000
)

func listCommand(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "tasklist", "/fo", "csv", "/nh")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow,
	}
	return cmd
}

func parseListOutput(output string) []string {
	return ParseTasklistCSV(output)
}
