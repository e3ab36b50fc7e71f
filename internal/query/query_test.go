package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
	"github.com/MrSnakeDoc/urltodo/internal/store/sqlite"
)

type fakeReader struct {
	calls []string
}

func (f *fakeReader) FetchAll(context.Context) ([]*domain.Record, error) {
	f.calls = append(f.calls, "all")
	return nil, nil
}

func (f *fakeReader) FetchByStatus(_ context.Context, read bool) ([]*domain.Record, error) {
	f.calls = append(f.calls, "status:"+domain.FormatStatus(read))
	return nil, nil
}

func (f *fakeReader) FetchByCategory(_ context.Context, category string) ([]*domain.Record, error) {
	f.calls = append(f.calls, "category:"+category)
	return nil, nil
}

func (f *fakeReader) FetchByTimeRange(context.Context, time.Time, time.Time) ([]*domain.Record, error) {
	f.calls = append(f.calls, "time-range")
	return nil, nil
}

func TestRunDispatch(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		filter Filter
		want   string
	}{
		{Filter{Mode: All}, "all"},
		{Filter{Mode: Read}, "status:true"},
		{Filter{Mode: Unread}, "status:false"},
		{Filter{Mode: Category, Category: "go"}, "category:go"},
		{Filter{Mode: TimeRange, Start: start, End: start.Add(time.Hour)}, "time-range"},
		{Filter{Mode: TimeRange, Start: start, End: start}, "time-range"},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter.Mode), func(t *testing.T) {
			r := &fakeReader{}
			_, err := Run(context.Background(), r, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, r.calls)
		})
	}
}

func TestRunInvalidFilter(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := map[string]Filter{
		"unknown mode":   {Mode: "starred"},
		"empty category": {Mode: Category, Category: "  "},
		"missing bounds": {Mode: TimeRange},
		"end before":     {Mode: TimeRange, Start: start, End: start.Add(-time.Second)},
	}

	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			r := &fakeReader{}
			_, err := Run(context.Background(), r, f)
			assert.True(t, errors.Is(err, ErrInvalidFilter), "got %v", err)
			assert.Empty(t, r.calls, "store must not be read")
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"", All},
		{"ALL", All},
		{" read ", Read},
		{"unread", Unread},
		{"category", Category},
		{"time-range", TimeRange},
		{"timerange", TimeRange},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseMode("favourites")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-04 05:06:07", time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"2024-03-04", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"2024-03-04T07:06:07+02:00", time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.input, got)
	}

	_, err := ParseTime("yesterday")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestParseEndTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-31", time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)},
		{" 2024-12-31 ", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"2024-01-31 12:00:00", time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)},
		{"2024-01-31T12:00:00Z", time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseEndTime(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.input, got)
	}

	_, err := ParseEndTime("tomorrow")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestTimeRangeDateOnlyEndCoversDay(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Add(ctx, "http://today.com", "", "")
	require.NoError(t, err)

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	day := all[0].Timestamp.UTC().Format(time.DateOnly)

	start, err := ParseTime(day)
	require.NoError(t, err)
	end, err := ParseEndTime(day)
	require.NoError(t, err)

	got, err := Run(ctx, store, Filter{Mode: TimeRange, Start: start, End: end})
	require.NoError(t, err)
	assert.Len(t, got, 1, "a record added during the end day must be included")
}

func TestRunAgainstStore(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for i, u := range []string{"http://a.com", "http://b.com", "http://c.com"} {
		id, err := store.Add(ctx, u, "", "news")
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, store.UpdateStatus(ctx, id, true))
		}
	}

	read, err := Run(ctx, store, Filter{Mode: Read})
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, "http://a.com", read[0].URL)

	unread, err := Run(ctx, store, Filter{Mode: Unread})
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	news, err := Run(ctx, store, Filter{Mode: Category, Category: "news"})
	require.NoError(t, err)
	assert.Len(t, news, 3)

	// Reads are never cached.
	_, err = store.Add(ctx, "http://d.com", "", "news")
	require.NoError(t, err)
	all, err := Run(ctx, store, Filter{Mode: All})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
