// Package query runs filtered reads over the record store.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

// ErrInvalidFilter is returned when a Filter cannot be run.
var ErrInvalidFilter = errors.New("invalid filter")

// Mode selects which records a Filter returns.
type Mode string

const (
	All       Mode = "all"
	Read      Mode = "read"
	Unread    Mode = "unread"
	Category  Mode = "category"
	TimeRange Mode = "time-range"
)

// Modes lists every mode in menu order.
var Modes = []Mode{All, Read, Unread, Category, TimeRange}

// Reader is the subset of the store a query needs.
type Reader interface {
	FetchAll(ctx context.Context) ([]*domain.Record, error)
	FetchByStatus(ctx context.Context, read bool) ([]*domain.Record, error)
	FetchByCategory(ctx context.Context, category string) ([]*domain.Record, error)
	FetchByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Record, error)
}

// Filter describes one read. Category is used by Category mode,
// Start and End (both inclusive) by TimeRange mode.
type Filter struct {
	Mode     Mode
	Category string
	Start    time.Time
	End      time.Time
}

// ParseMode accepts the mode names plus a few spellings users type.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "read":
		return Read, nil
	case "unread":
		return Unread, nil
	case "category":
		return Category, nil
	case "time-range", "timerange", "time_range", "time":
		return TimeRange, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidFilter, s)
	}
}

// Validate reports why f cannot be run.
func (f Filter) Validate() error {
	switch f.Mode {
	case All, Read, Unread:
		return nil
	case Category:
		if strings.TrimSpace(f.Category) == "" {
			return fmt.Errorf("%w: category must not be empty", ErrInvalidFilter)
		}
		return nil
	case TimeRange:
		if f.Start.IsZero() || f.End.IsZero() {
			return fmt.Errorf("%w: time range needs a start and an end", ErrInvalidFilter)
		}
		if f.End.Before(f.Start) {
			return fmt.Errorf("%w: end %s is before start %s", ErrInvalidFilter,
				f.End.Format(time.DateTime), f.Start.Format(time.DateTime))
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidFilter, f.Mode)
	}
}

// Run executes f against r. Nothing is cached, every call reads the store.
func Run(ctx context.Context, r Reader, f Filter) ([]*domain.Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	switch f.Mode {
	case Read:
		return r.FetchByStatus(ctx, true)
	case Unread:
		return r.FetchByStatus(ctx, false)
	case Category:
		return r.FetchByCategory(ctx, f.Category)
	case TimeRange:
		return r.FetchByTimeRange(ctx, f.Start, f.End)
	default:
		return r.FetchAll(ctx)
	}
}

// ParseTime reads a user supplied bound. Accepted layouts are
// "2006-01-02 15:04:05", "2006-01-02" and RFC 3339; times without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateTime, time.DateOnly, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse time %q", ErrInvalidFilter, s)
}

// ParseEndTime reads the upper bound of a range. A date without a time
// covers that whole day, up to its last second.
func ParseEndTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if day, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return day.AddDate(0, 0, 1).Add(-time.Second), nil
	}
	return ParseTime(s)
}
