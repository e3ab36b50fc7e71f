package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/urltodo/internal/daemon"
)

func (r *runner) serviceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Control the background reminder service",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start the service in the background",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				pid, err := r.app.Daemon.Start(cmd.Context())
				if err != nil {
					return err
				}
				r.app.Console.Success("Service %s started (pid %d), output in %s.", r.app.Daemon.Name(), pid, r.app.Daemon.LogFile())
				return nil
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the background service",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := r.app.Daemon.Stop(); err != nil {
					if isNotRunning(err) {
						r.app.Console.Muted("Service %s is not running.", r.app.Daemon.Name())
						return nil
					}
					return err
				}
				r.app.Console.Success("Service %s stopped.", r.app.Daemon.Name())
				return nil
			},
		},
		&cobra.Command{
			Use:   "restart",
			Short: "Restart the background service",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				pid, err := r.app.Daemon.Restart(cmd.Context())
				if err != nil {
					return err
				}
				r.app.Console.Success("Service %s restarted (pid %d), output in %s.", r.app.Daemon.Name(), pid, r.app.Daemon.LogFile())
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether the service is running",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if !r.app.Daemon.IsRunning() {
					r.app.Console.Muted("Service %s is not running.", r.app.Daemon.Name())
					return nil
				}
				pid, err := r.app.Daemon.PID()
				if err != nil {
					return err
				}
				r.app.Console.Success("Service %s is running (pid %d).", r.app.Daemon.Name(), pid)
				return nil
			},
		},
		&cobra.Command{
			Use:    "run",
			Short:  "Run the service in the foreground",
			Hidden: true,
			Args:   cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.app.Serve(cmd.Context())
			},
		},
	)
	return cmd
}

func isNotRunning(err error) bool {
	return errors.Is(err, daemon.ErrNotRunning)
}
