// Package notify delivers reading reminders to the configured backends.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/urltodo/internal/logger"
)

// Notifier delivers one message.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Named backends show up in logs and error messages.
type Named interface {
	Name() string
}

// ErrNoBackend is returned by a Dispatcher without backends.
var ErrNoBackend = errors.New("no notification backend configured")

// Dispatcher fans a message out to every backend.
// A failing backend is logged and skipped; Notify only fails when the
// message reached no backend at all.
type Dispatcher struct {
	backends []Notifier
	log      logger.Logger
}

func NewDispatcher(log logger.Logger, backends ...Notifier) *Dispatcher {
	return &Dispatcher{backends: backends, log: log}
}

// Len returns the number of backends.
func (d *Dispatcher) Len() int { return len(d.backends) }

func (d *Dispatcher) Notify(ctx context.Context, title, body string) error {
	if len(d.backends) == 0 {
		return ErrNoBackend
	}

	var errs []error
	delivered := 0
	for _, b := range d.backends {
		if err := b.Notify(ctx, title, body); err != nil {
			name := nameOf(b)
			d.log.Warn("notification failed",
				logger.String("backend", name),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return errors.Join(errs...)
	}
	d.log.Debug("notification sent",
		logger.String("title", title),
		logger.Int("delivered", delivered),
		logger.Int("failed", len(errs)))
	return nil
}

func nameOf(n Notifier) string {
	if named, ok := n.(Named); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", n)
}
