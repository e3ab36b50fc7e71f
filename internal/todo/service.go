// Package todo is the operation boundary of the URL to-do list. Every
// entry point (interactive menu, CLI commands, imports) goes through
// Service so validation and logging happen once.
package todo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/urltodo/internal/codec"
	"github.com/MrSnakeDoc/urltodo/internal/domain"
	"github.com/MrSnakeDoc/urltodo/internal/logger"
	"github.com/MrSnakeDoc/urltodo/internal/notify"
	"github.com/MrSnakeDoc/urltodo/internal/query"
)

// Reminder texts.
const (
	ReminderTitle      = "Reading Reminder"
	reminderBodyPrefix = "Read URL: "
)

// Store is the persistence the service needs.
type Store interface {
	query.Reader

	Add(ctx context.Context, url, description, category string) (int64, error)
	Update(ctx context.Context, id int64, patch domain.Patch) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Record, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

type Service struct {
	store    Store
	notifier notify.Notifier
	log      logger.Logger
}

func NewService(store Store, notifier notify.Notifier, log logger.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log.With(logger.String("component", "todo")),
	}
}

// Add validates url and stores a new unread record.
func (s *Service) Add(ctx context.Context, url, description, category string) (int64, error) {
	url = strings.TrimSpace(url)
	if !domain.IsValidURL(url) {
		s.log.Warn("rejected invalid url", logger.String("url", url))
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidURL, url)
	}

	id, err := s.store.Add(ctx, url, domain.CleanText(description), domain.CleanText(category))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateURL) {
			s.log.Warn("url already exists", logger.String("url", url))
		} else {
			s.log.Error("failed to add url", logger.String("url", url), logger.Error(err))
		}
		return 0, err
	}

	s.log.Info("url added", logger.Int64("id", id), logger.String("url", url))
	return id, nil
}

// MarkRead sets the status of id to read.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, true)
}

// MarkUnread sets the status of id to unread.
func (s *Service) MarkUnread(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, false)
}

func (s *Service) setStatus(ctx context.Context, id int64, read bool) error {
	return s.apply(ctx, id, domain.Patch{Read: &read})
}

// Update changes description and status from raw user input.
// A blank input keeps the current value; a non-blank status is read
// only when it says "true".
func (s *Service) Update(ctx context.Context, id int64, description, status string) error {
	var patch domain.Patch
	if d := domain.CleanText(description); d != "" {
		patch.Description = &d
	}
	if st := strings.TrimSpace(status); st != "" {
		read := domain.ParseStatus(st)
		patch.Read = &read
	}
	return s.apply(ctx, id, patch)
}

func (s *Service) apply(ctx context.Context, id int64, patch domain.Patch) error {
	if err := s.store.Update(ctx, id, patch); err != nil {
		s.logFailure("update", id, err)
		return err
	}

	fields := []logger.Field{logger.Int64("id", id)}
	if patch.Description != nil {
		fields = append(fields, logger.String("description", *patch.Description))
	}
	if patch.Read != nil {
		fields = append(fields, logger.Bool("read", *patch.Read))
	}
	s.log.Info("url updated", fields...)
	return nil
}

// Delete removes id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logFailure("delete", id, err)
		return err
	}
	s.log.Info("url deleted", logger.Int64("id", id))
	return nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Record, error) {
	return s.store.Get(ctx, id)
}

// List runs a filtered read.
func (s *Service) List(ctx context.Context, f query.Filter) ([]*domain.Record, error) {
	records, err := query.Run(ctx, s.store, f)
	if err != nil {
		return nil, err
	}
	s.log.Debug("listed urls", logger.String("mode", string(f.Mode)), logger.Int("count", len(records)))
	return records, nil
}

// Stats counts records per status.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.store.Stats(ctx)
}

// Export writes every record to path and returns how many were written.
func (s *Service) Export(ctx context.Context, format codec.Format, path string) (int, error) {
	if !format.CanExport() {
		return 0, &domain.ExportError{Path: path, Format: format.String(), Err: fmt.Errorf("format %q cannot be exported", format)}
	}

	records, err := s.store.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	if err := codec.Export(path, format, records); err != nil {
		s.log.Error("export failed", logger.String("path", path), logger.String("format", format.String()), logger.Error(err))
		return 0, err
	}

	s.log.Info("export finished",
		logger.String("path", path),
		logger.String("format", format.String()),
		logger.Int("count", len(records)),
		logger.Duration("took", time.Since(start)))
	return len(records), nil
}

// ImportReport summarises one import.
type ImportReport struct {
	Added   []int64
	Skipped []SkippedEntry
}

// SkippedEntry is an entry that was not inserted.
type SkippedEntry struct {
	URL    string
	Reason error
}

// Total is the number of entries read from the file.
func (r *ImportReport) Total() int {
	return len(r.Added) + len(r.Skipped)
}

// Import decodes the whole file, then adds each entry. Invalid and
// duplicate URLs are skipped; a storage failure stops the import and is
// returned with the report of what was inserted so far.
// Status and timestamp are not carried over: imported records start unread.
func (s *Service) Import(ctx context.Context, format codec.Format, path string) (*ImportReport, error) {
	entries, err := codec.DecodeFile(path, format)
	if err != nil {
		s.log.Error("import failed", logger.String("path", path), logger.String("format", format.String()), logger.Error(err))
		return nil, err
	}

	report := &ImportReport{}
	for _, e := range entries {
		id, err := s.Add(ctx, e.URL, e.Description, e.Category)
		switch {
		case err == nil:
			report.Added = append(report.Added, id)
		case errors.Is(err, domain.ErrInvalidURL), errors.Is(err, domain.ErrDuplicateURL):
			report.Skipped = append(report.Skipped, SkippedEntry{URL: e.URL, Reason: err})
		default:
			return report, &domain.ImportError{Path: path, Format: format.String(), Err: err}
		}
	}

	s.log.Info("import finished",
		logger.String("path", path),
		logger.String("format", format.String()),
		logger.Int("added", len(report.Added)),
		logger.Int("skipped", len(report.Skipped)))
	return report, nil
}

// Remind sends a reading reminder for id.
func (s *Service) Remind(ctx context.Context, id int64) error {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		s.logFailure("remind", id, err)
		return err
	}

	if err := s.notifier.Notify(ctx, ReminderTitle, reminderBodyPrefix+rec.URL); err != nil {
		s.log.Error("reminder not delivered", logger.Int64("id", id), logger.Error(err))
		return fmt.Errorf("failed to send reminder for id %d: %w", id, err)
	}
	s.log.Info("reminder sent", logger.Int64("id", id), logger.String("url", rec.URL))
	return nil
}

func (s *Service) logFailure(op string, id int64, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("url not found", logger.String("op", op), logger.Int64("id", id))
		return
	}
	s.log.Error("operation failed", logger.String("op", op), logger.Int64("id", id), logger.Error(err))
}
