// Package daemon starts and stops the background service through a PID file.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/urltodo/internal/logger"
	"github.com/MrSnakeDoc/urltodo/internal/utils"
)

var (
	ErrAlreadyRunning = errors.New("service is already running")
	ErrNotRunning     = errors.New("service is not running")
)

// CommandFunc builds the process Start launches.
type CommandFunc func(ctx context.Context) (*exec.Cmd, error)

// Controller supervises one background process recorded in a PID file.
type Controller struct {
	name         string
	pidFile      string
	command      CommandFunc
	log          logger.Logger
	restartDelay time.Duration
}

func NewController(name, pidFile string, command CommandFunc, log logger.Logger) *Controller {
	return &Controller{
		name:         name,
		pidFile:      pidFile,
		command:      command,
		log:          log.With(logger.String("service", name)),
		restartDelay: time.Second,
	}
}

// SelfCommand re-runs the current executable with args, detached from
// the terminal session.
func SelfCommand(args ...string) CommandFunc {
	return func(ctx context.Context) (*exec.Cmd, error) {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		cmd := exec.Command(exe, args...)
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
		return cmd, nil
	}
}

// Name returns the service display name.
func (c *Controller) Name() string { return c.name }

// LogFile is where the service's stdout and stderr are appended, next to
// the PID file.
func (c *Controller) LogFile() string { return c.pidFile + ".log" }

// PID returns the recorded pid, or 0 when there is no PID file.
func (c *Controller) PID() (int, error) {
	data, err := os.ReadFile(c.pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("corrupt pid file %s: %q", c.pidFile, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// IsRunning reports whether the recorded process still exists.
// A corrupt PID file counts as not running.
func (c *Controller) IsRunning() bool {
	pid, err := c.PID()
	if err != nil || pid == 0 {
		return false
	}
	return processAlive(pid)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// Start launches the service unless it is already running and records its pid.
func (c *Controller) Start(ctx context.Context) (int, error) {
	if c.IsRunning() {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyRunning, c.name)
	}

	cmd, err := c.command(ctx)
	if err != nil {
		return 0, err
	}
	logFile, err := c.attachOutput(cmd)
	if err != nil {
		return 0, err
	}
	if logFile != nil {
		// The child keeps its own descriptor.
		defer utils.Close(logFile)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", c.name, err)
	}
	pid := cmd.Process.Pid

	if err := c.writePID(pid); err != nil {
		_ = cmd.Process.Kill()
		return 0, err
	}
	// The service outlives this process; nobody waits on it.
	_ = cmd.Process.Release()

	c.log.Info("service started", logger.Int("pid", pid), logger.String("log", c.LogFile()))
	return pid, nil
}

// attachOutput sends the child's unset stdout and stderr to LogFile.
func (c *Controller) attachOutput(cmd *exec.Cmd) (*os.File, error) {
	if cmd.Stdout != nil && cmd.Stderr != nil {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(c.LogFile()), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(c.LogFile(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open service log: %w", err)
	}
	if cmd.Stdout == nil {
		cmd.Stdout = f
	}
	if cmd.Stderr == nil {
		cmd.Stderr = f
	}
	return f, nil
}

// Stop terminates the recorded process and removes the PID file.
// A stale PID file is removed and reported as ErrNotRunning.
func (c *Controller) Stop() error {
	pid, err := c.PID()
	if err != nil {
		return err
	}
	if pid == 0 || !processAlive(pid) {
		if pid != 0 {
			c.log.Warn("removing stale pid file", logger.Int("pid", pid))
			_ = os.Remove(c.pidFile)
		}
		return fmt.Errorf("%w: %s", ErrNotRunning, c.name)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		if err := proc.Kill(); err != nil {
			return fmt.Errorf("failed to stop %s (pid %d): %w", c.name, pid, err)
		}
	}
	if err := os.Remove(c.pidFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove pid file: %w", err)
	}

	c.log.Info("service stopped", logger.Int("pid", pid))
	return nil
}

// Restart stops the service when it runs, waits briefly and starts it again.
func (c *Controller) Restart(ctx context.Context) (int, error) {
	if err := c.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return 0, err
	}

	select {
	case <-time.After(c.restartDelay):
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return c.Start(ctx)
}

func (c *Controller) writePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(c.pidFile), 0o755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}
	tmp := c.pidFile + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	if err := os.Rename(tmp, c.pidFile); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}
