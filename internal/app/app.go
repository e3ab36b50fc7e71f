package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/urltodo/internal/config"
	"github.com/MrSnakeDoc/urltodo/internal/console"
	"github.com/MrSnakeDoc/urltodo/internal/daemon"
	"github.com/MrSnakeDoc/urltodo/internal/logger"
	"github.com/MrSnakeDoc/urltodo/internal/module"
	"github.com/MrSnakeDoc/urltodo/internal/modules/urltodo"
	"github.com/MrSnakeDoc/urltodo/internal/notify"
	"github.com/MrSnakeDoc/urltodo/internal/redis"
	"github.com/MrSnakeDoc/urltodo/internal/scheduler"
	"github.com/MrSnakeDoc/urltodo/internal/store/sqlite"
	"github.com/MrSnakeDoc/urltodo/internal/todo"
	"github.com/MrSnakeDoc/urltodo/internal/version"
)

// Options are the inputs of New.
type Options struct {
	Config *config.Config
	Logger logger.Logger
	In     io.Reader
	Out    io.Writer
	// ServiceArgs are the arguments the background service is launched with.
	ServiceArgs []string
}

// App wires the store, the service and the shell around them.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	store       *sqlite.Store
	redisClient *goredis.Client

	Service  *todo.Service
	Console  *console.Console
	Registry *module.Registry
	Daemon   *daemon.Controller
	Notifier *notify.Dispatcher
}

// New opens the store and builds every component. A store that cannot
// be opened is the only error; notification backends that fail to come
// up are logged and left out.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, log := opts.Config, opts.Logger

	store, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Database, err)
	}
	log.Debug("database opened", logger.String("path", cfg.Database))

	a := &App{
		cfg:     cfg,
		logger:  log,
		store:   store,
		Console: console.New(opts.In, opts.Out),
	}

	a.Notifier = notify.NewDispatcher(log, a.notifiers(ctx, opts.Out)...)
	a.Service = todo.NewService(store, a.Notifier, log)

	a.Registry = module.NewRegistry()
	if err := a.Registry.Register(urltodo.New(a.Service, a.Console, log)); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Daemon = daemon.NewController(cfg.ServiceName, cfg.PIDFile, daemon.SelfCommand(opts.ServiceArgs...), log)
	return a, nil
}

func (a *App) notifiers(ctx context.Context, out io.Writer) []notify.Notifier {
	var backends []notify.Notifier
	for _, name := range a.cfg.Notifiers {
		switch name {
		case config.NotifierStdout:
			backends = append(backends, notify.NewWriter(out))
		case config.NotifierDesktop:
			d := notify.NewDesktop()
			if !d.Available() {
				a.logger.Warn("desktop notifications unavailable", logger.String("command", notify.DefaultDesktopCommand))
				continue
			}
			backends = append(backends, d)
		case config.NotifierRedis:
			client, err := redis.Connect(ctx, redis.OptionsFrom(a.cfg.Redis), a.logger)
			if err != nil {
				a.logger.Warn("redis notifier disabled", logger.Error(err))
				continue
			}
			a.redisClient = client
			backends = append(backends, notify.NewRedis(client, a.cfg.Redis.Channel))
		}
	}
	return backends
}

// RunModules runs the single configured module, or lets the user pick
// one from a menu until a module asks to quit.
func (a *App) RunModules(ctx context.Context) error {
	mods, err := a.Registry.Resolve(a.cfg.Modules)
	if err != nil {
		return err
	}

	if len(mods) == 1 {
		_, err := mods[0].Run(ctx)
		return err
	}

	labels := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		labels = append(labels, fmt.Sprintf("%s (v%s)", m.Name(), m.Version()))
	}
	labels = append(labels, "Exit")

	for {
		a.Console.Menu("Available Modules", labels)
		choice, err := a.Console.Prompt("Select a module to run (by number): ")
		if err != nil {
			if errors.Is(err, console.ErrNoInput) {
				return nil
			}
			return err
		}

		n, convErr := strconv.Atoi(strings.TrimSpace(choice))
		switch {
		case convErr != nil || n < 1 || n > len(labels):
			a.Console.Warn("Invalid module selection.")
			continue
		case n == len(labels):
			return nil
		}

		m := mods[n-1]
		a.logger.Debug("running module", logger.String("module", m.Name()))
		sig, err := m.Run(ctx)
		if err != nil {
			return fmt.Errorf("module %s: %w", m.Name(), err)
		}
		if sig == module.Quit {
			return nil
		}
	}
}

// Serve is the background service: it sends reading reminders on a
// schedule until SIGINT or SIGTERM. SIGHUP sends one right away.
func (a *App) Serve(ctx context.Context) error {
	a.logger.Infof("🚀 Starting %s %s (commit=%s, go=%s)",
		a.cfg.ServiceName, version.Version, version.Commit, version.GoVersion)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	trigger := make(chan struct{}, 1)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				select {
				case trigger <- struct{}{}:
				default:
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	reminders := scheduler.NewReminderScheduler(a.store, a.Service.Remind, a.logger, a.cfg.ReminderInterval, trigger)
	if err := reminders.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}
	a.logger.Info("reminder scheduler started", logger.Duration("interval", a.cfg.ReminderInterval))

	<-ctx.Done()
	a.logger.Info("⏳ Shutting down gracefully...")
	reminders.Stop()
	a.logger.Info("✅ Service stopped cleanly")
	return nil
}

// Close releases the store and the redis client.
func (a *App) Close() error {
	var errs []error
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
