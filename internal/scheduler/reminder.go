package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
	"github.com/MrSnakeDoc/urltodo/internal/logger"
)

// UnreadSource lists the records still to read.
type UnreadSource interface {
	FetchByStatus(ctx context.Context, read bool) ([]*domain.Record, error)
}

// RemindFunc sends a reminder for one record.
type RemindFunc func(ctx context.Context, id int64) error

// ReminderScheduler sends a reading reminder every interval, walking the
// unread URLs in id order and wrapping around at the end.
type ReminderScheduler struct {
	source        UnreadSource
	remind        RemindFunc
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}

	mu     sync.Mutex
	lastID int64

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewReminderScheduler creates a scheduler. manualTrigger may be nil.
func NewReminderScheduler(
	source UnreadSource,
	remind RemindFunc,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *ReminderScheduler {
	return &ReminderScheduler{
		source:        source,
		remind:        remind,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the periodic loop. The first reminder goes out after one interval.
func (rs *ReminderScheduler) Start(ctx context.Context) error {
	if rs.interval <= 0 {
		return fmt.Errorf("reminder interval must be > 0, got %v", rs.interval)
	}

	ticker := time.NewTicker(rs.interval)
	go func() {
		defer close(rs.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rs.tick(ctx)
			case <-rs.manualTrigger:
				rs.logger.Info("manual reminder triggered")
				rs.tick(ctx)
			case <-rs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the loop and waits for it to exit. Safe to call more than once.
func (rs *ReminderScheduler) Stop() {
	rs.stopOnce.Do(func() { close(rs.stopCh) })
	<-rs.done
}

// Done is closed once the loop has exited.
func (rs *ReminderScheduler) Done() <-chan struct{} {
	return rs.done
}

func (rs *ReminderScheduler) tick(ctx context.Context) {
	rec, err := rs.RemindNext(ctx)
	switch {
	case errors.Is(err, ErrNothingToRead):
		rs.logger.Debug("no unread urls, skipping reminder")
	case err != nil:
		rs.logger.Error("failed to send scheduled reminder", logger.Error(err))
	default:
		rs.logger.Info("scheduled reminder sent", logger.Int64("id", rec.ID))
	}
}

// ErrNothingToRead is returned by RemindNext when every URL is read.
var ErrNothingToRead = errors.New("no unread urls")

// RemindNext sends a reminder for the first unread record after the last
// one reminded, wrapping around to the lowest id.
func (rs *ReminderScheduler) RemindNext(ctx context.Context) (*domain.Record, error) {
	unread, err := rs.source.FetchByStatus(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread urls: %w", err)
	}
	if len(unread) == 0 {
		return nil, ErrNothingToRead
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	next := unread[0]
	for _, rec := range unread {
		if rec.ID > rs.lastID {
			next = rec
			break
		}
	}

	if err := rs.remind(ctx, next.ID); err != nil {
		return nil, err
	}
	rs.lastID = next.ID
	return next, nil
}
