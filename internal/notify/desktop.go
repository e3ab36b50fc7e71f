package notify

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// DefaultDesktopCommand is the freedesktop.org notification client.
const DefaultDesktopCommand = "notify-send"

// Desktop shows a desktop notification by running notify-send.
type Desktop struct {
	command string
	timeout time.Duration
	run     func(ctx context.Context, name string, args ...string) error
}

func NewDesktop() *Desktop {
	return &Desktop{
		command: DefaultDesktopCommand,
		timeout: 5 * time.Second,
		run:     runCommand,
	}
}

func (n *Desktop) Name() string { return "desktop" }

// Available reports whether the notification client is installed.
func (n *Desktop) Available() bool {
	_, err := exec.LookPath(n.command)
	return err == nil
}

func (n *Desktop) Notify(ctx context.Context, title, body string) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	// "--" keeps a body starting with a dash from being read as a flag.
	if err := n.run(ctx, n.command, "--app-name=urltodo", "--", title, body); err != nil {
		return fmt.Errorf("%s: %w", n.command, err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil && len(out) > 0 {
		return fmt.Errorf("%w: %s", err, out)
	}
	return err
}
