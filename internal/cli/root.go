// Package cli defines the urltodo command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/urltodo/internal/app"
	"github.com/MrSnakeDoc/urltodo/internal/config"
	"github.com/MrSnakeDoc/urltodo/internal/logger"
)

// runner carries the state shared by every command of one invocation.
type runner struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	v          *viper.Viper
	configFile string

	cfg *config.Config
	log logger.Logger
	app *app.App
}

// Execute runs the command tree on the process streams and returns the
// error that ended it, already printed.
func Execute(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string) error {
	r := &runner{in: in, out: out, errOut: errOut, v: config.New()}
	root := r.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if closeErr := r.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return err
}

func (r *runner) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "urltodo",
		Short: "Keep a to-do list of URLs to read later",
		Long: `urltodo stores URLs with a description, a category and a read/unread status
in a local SQLite database, and exports or imports them as CSV, JSON, XML or YAML.

Run without a command to open the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.RunModules(cmd.Context())
		},
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoApp] == "true" {
			return nil
		}
		return r.setup(cmd)
	}

	flags := root.PersistentFlags()
	flags.StringVar(&r.configFile, "config", "", "config file (default ./urltodo.yaml or $URLTODO_CONFIG)")
	flags.String("database", "", "SQLite database file (default todos.db)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	_ = r.v.BindPFlag(config.KeyDatabase, flags.Lookup("database"))
	_ = r.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		r.runCommand(),
		r.addCommand(),
		r.listCommand(),
		r.markCommand(),
		r.updateCommand(),
		r.deleteCommand(),
		r.remindCommand(),
		r.exportCommand(),
		r.importCommand(),
		r.serviceCommand(),
		r.modulesCommand(),
		r.versionCommand(),
	)
	return root
}

// Commands annotated this way run without loading config or opening the store.
const annotationNoApp = "urltodo/no-app"

func (r *runner) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(r.v, r.configFile)
	if err != nil {
		return err
	}
	r.cfg = cfg

	log, err := logger.New(cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	r.log = log
	log.Debugf("config loaded: %+v", cfg.Redacted())

	a, err := app.New(cmd.Context(), app.Options{
		Config:      cfg,
		Logger:      log,
		In:          r.in,
		Out:         r.out,
		ServiceArgs: r.serviceArgs(cmd),
	})
	if err != nil {
		return err
	}
	r.app = a
	return nil
}

// serviceArgs forwards the settings given on this command line to the
// background service.
func (r *runner) serviceArgs(cmd *cobra.Command) []string {
	args := []string{"service", "run"}
	if r.configFile != "" {
		args = append(args, "--config", r.configFile)
	}
	for _, name := range []string{"database", "log-level"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			args = append(args, "--"+name, f.Value.String())
		}
	}
	return args
}

func (r *runner) close() error {
	var errs []error
	if r.app != nil {
		errs = append(errs, r.app.Close())
	}
	if r.log != nil {
		// Syncing stderr fails on some terminals.
		_ = r.log.Sync()
	}
	return errors.Join(errs...)
}
