package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/process"
)

// ErrAlreadyRunning is returned by Acquire when another live instance owns the PID file
var ErrAlreadyRunning = errors.New("another instance is already running")

const (
	defaultStopTimeout = 5 * time.Second
	stopPollInterval   = 100 * time.Millisecond
	acquireAttempts    = 3

	// Linux truncates /proc/<pid>/comm to 15 bytes
	commNameLimit = 15
)

// Daemon is the single-instance guard of the tray application
type Daemon struct {
	pidFile     string
	self        string
	stopTimeout time.Duration
}

func New(pidFile string) *Daemon {
	return &Daemon{
		pidFile:     pidFile,
		self:        selfExecutable(),
		stopTimeout: defaultStopTimeout,
	}
}

func (d *Daemon) PIDFile() string {
	return d.pidFile
}

// WritePID records the current process, replacing any existing PID file atomically
func (d *Daemon) WritePID() error {
	tmp, err := d.writeTemp(d.pidFile, strconv.Itoa(os.Getpid()))
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	return os.Rename(tmp, d.pidFile)
}

// claim creates the PID file only if it does not exist yet. The file appears
// with its content complete, so readers never observe an empty PID.
func (d *Daemon) claim() (bool, error) {
	tmp, err := d.writeTemp(d.pidFile, strconv.Itoa(os.Getpid()))
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, d.pidFile); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create PID file: %w", err)
	}
	return true, nil
}

// writeTemp writes content to a new file beside target. CreateTemp opens it
// with mode 0600.
func (d *Daemon) writeTemp(target, content string) (string, error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create PID directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Base(target), err)
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", filepath.Base(target), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", filepath.Base(target), err)
	}
	return tmp.Name(), nil
}

// TokenFile holds the local API token of the running instance
func (d *Daemon) TokenFile() string {
	return d.pidFile + ".token"
}

// IssueToken creates a fresh local API token for this run and stores it
// next to the PID file, readable by the owner only
func (d *Daemon) IssueToken() (string, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")

	tmp, err := d.writeTemp(d.TokenFile(), token)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	if err := os.Rename(tmp, d.TokenFile()); err != nil {
		return "", fmt.Errorf("failed to store API token: %w", err)
	}
	return token, nil
}

// ReadToken returns the token of the running instance
func (d *Daemon) ReadToken() (string, error) {
	data, err := os.ReadFile(d.TokenFile())
	if err != nil {
		return "", fmt.Errorf("failed to read API token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("API token file %s is empty", d.TokenFile())
	}
	return token, nil
}

func (d *Daemon) RemoveToken() error {
	if err := os.Remove(d.TokenFile()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove API token: %w", err)
	}
	return nil
}

// ReadPID returns 0 when there is no PID file
func (d *Daemon) ReadPID() (int, error) {
	data, err := os.ReadFile(d.pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file %s: %q", d.pidFile, strings.TrimSpace(string(data)))
	}

	return pid, nil
}

func (d *Daemon) RemovePID() error {
	if err := os.Remove(d.pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// IsRunning reports whether the PID file points at a live instance of this
// program. A PID file naming a dead or unrelated process is removed.
func (d *Daemon) IsRunning() (bool, int, error) {
	pid, err := d.ReadPID()
	if err != nil {
		return false, 0, err
	}

	if pid == 0 {
		return false, 0, nil
	}

	if pid != os.Getpid() && !d.isInstance(pid) {
		_ = d.removeIfUnchanged(pid)
		return false, 0, nil
	}

	return true, pid, nil
}

// Acquire claims the PID file for the current process.
// It returns ErrAlreadyRunning with the owner's PID when another instance is alive.
func (d *Daemon) Acquire() (int, error) {
	self := os.Getpid()

	for attempt := 0; attempt < acquireAttempts; attempt++ {
		claimed, err := d.claim()
		if err != nil {
			return 0, err
		}
		if claimed {
			return self, nil
		}

		pid, err := d.ReadPID()
		switch {
		case err != nil:
			// Unreadable content cannot belong to a live instance
			if rmErr := d.RemovePID(); rmErr != nil {
				return 0, rmErr
			}
		case pid == 0:
			// Removed between claim and read
		case pid == self:
			return self, nil
		case d.isInstance(pid):
			return pid, ErrAlreadyRunning
		default:
			if err := d.removeIfUnchanged(pid); err != nil {
				return 0, err
			}
		}
	}

	return 0, fmt.Errorf("could not claim PID file %s", d.pidFile)
}

// removeIfUnchanged deletes a stale PID file unless another process has
// replaced it since it was judged stale
func (d *Daemon) removeIfUnchanged(stale int) error {
	pid, err := d.ReadPID()
	if err == nil && pid != stale {
		return nil
	}
	return d.RemovePID()
}

// OwnerName is the process name of the running instance, or "" when there is none
func (d *Daemon) OwnerName() string {
	running, pid, err := d.IsRunning()
	if err != nil || !running {
		return ""
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}
	name, err := proc.Name()
	if err != nil {
		return ""
	}
	return name
}

// Stop asks the running instance to terminate and waits for it to exit.
// The process is killed if it is still alive after the stop timeout.
func (d *Daemon) Stop() error {
	running, pid, err := d.IsRunning()
	if err != nil {
		return fmt.Errorf("error checking instance status: %w", err)
	}

	if !running {
		return fmt.Errorf("chitchat is not running or PID file is stale")
	}
	if pid == os.Getpid() {
		return fmt.Errorf("refusing to stop the current process")
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		_ = d.RemovePID()
		return fmt.Errorf("process already terminated: %w", err)
	}

	if err := proc.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate process %d: %w", pid, err)
	}

	if !waitForExit(pid, d.stopTimeout) {
		if err := proc.Kill(); err != nil {
			return fmt.Errorf("process %d did not exit and could not be killed: %w", pid, err)
		}
	}

	return d.RemovePID()
}

// isInstance reports whether pid is alive and runs the same program as this process
func (d *Daemon) isInstance(pid int) bool {
	if !alive(pid) {
		return false
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	name, _ := proc.Name()
	exe, _ := proc.Exe()
	return sameProgram(name, exe, d.self)
}

// sameProgram compares a process, given by its reported name and executable
// path, with the executable at self. Only base names are compared so an
// instance started from another install location still counts.
func sameProgram(name, exe, self string) bool {
	want := programName(self)
	if want == "" {
		return false
	}

	if exe != "" {
		return strings.EqualFold(programName(exe), want)
	}

	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	if name == "" {
		return false
	}
	if len(name) >= commNameLimit {
		return strings.HasPrefix(want, name)
	}
	return name == want
}

// programName is the lower-cased base name of an executable path without ".exe"
func programName(path string) string {
	base := filepath.Base(strings.TrimSuffix(path, " (deleted)"))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(base), ".exe")
}

func selfExecutable() string {
	if exe, err := os.Executable(); err == nil {
		return exe
	}
	return os.Args[0]
}

func alive(pid int) bool {
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}

func waitForExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !alive(pid) {
			return true
		}
		time.Sleep(stopPollInterval)
	}
	return !alive(pid)
}
