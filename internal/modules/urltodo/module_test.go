package urltodo

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/urltodo/internal/console"
	"github.com/MrSnakeDoc/urltodo/internal/domain"
	"github.com/MrSnakeDoc/urltodo/internal/logger"
	"github.com/MrSnakeDoc/urltodo/internal/module"
	"github.com/MrSnakeDoc/urltodo/internal/notify"
	"github.com/MrSnakeDoc/urltodo/internal/store/sqlite"
	"github.com/MrSnakeDoc/urltodo/internal/todo"
)

type harness struct {
	store *sqlite.Store
	out   *bytes.Buffer
	sent  *bytes.Buffer
}

// run feeds lines to a fresh menu and returns what it printed.
func (h *harness) run(t *testing.T, lines ...string) (module.ExitSignal, string) {
	t.Helper()
	h.out.Reset()
	con := console.New(strings.NewReader(strings.Join(lines, "\n")+"\n"), h.out)
	svc := todo.NewService(h.store, notify.NewWriter(h.sent), logger.NewNop())

	sig, err := New(svc, con, logger.NewNop()).Run(context.Background())
	require.NoError(t, err)
	return sig, h.out.String()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return &harness{store: store, out: &bytes.Buffer{}, sent: &bytes.Buffer{}}
}

func (h *harness) all(t *testing.T) []*domain.Record {
	t.Helper()
	records, err := h.store.FetchAll(context.Background())
	require.NoError(t, err)
	return records
}

func TestNameAndVersion(t *testing.T) {
	m := New(nil, nil, logger.NewNop())
	assert.Equal(t, "url_todo_list", m.Name())
	assert.Equal(t, "1.0.0", m.Version())
}

func TestExitAndEOF(t *testing.T) {
	h := newHarness(t)

	sig, out := h.run(t, "10")
	assert.Equal(t, module.Quit, sig)
	assert.Contains(t, out, "Exiting...")

	sig, _ = h.run(t)
	assert.Equal(t, module.Quit, sig, "end of input leaves the menu")
}

func TestInvalidSelection(t *testing.T) {
	h := newHarness(t)
	_, out := h.run(t, "42", "abc", "10")
	assert.Equal(t, 2, strings.Count(out, "Invalid selection."))
}

func TestAddFlow(t *testing.T) {
	h := newHarness(t)

	_, out := h.run(t,
		"1", "https://go.dev/blog", "Go blog", "golang",
		"1", "not-a-url", "", "",
		"1", "https://go.dev/blog", "again", "",
		"10",
	)

	records := h.all(t)
	require.Len(t, records, 1)
	assert.Equal(t, "Go blog", records[0].Description)
	assert.Equal(t, "golang", records[0].Category)

	assert.Contains(t, out, "added with ID 1")
	assert.Contains(t, out, "invalid url")
	assert.Contains(t, out, "url already exists")
}

func TestUpdateAndMarkFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id, err := h.store.Add(ctx, "http://a.com", "old", "")
	require.NoError(t, err)

	h.run(t, "4", "1", "new", "", "10")
	rec, err := h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", rec.Description)
	assert.False(t, rec.Read)

	h.run(t, "5", "1", "10")
	rec, err = h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, rec.Read)

	h.run(t, "6", "1", "10")
	rec, err = h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, rec.Read)

	h.run(t, "4", "1", "", "true", "10")
	rec, err = h.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", rec.Description)
	assert.True(t, rec.Read)

	_, out := h.run(t, "5", "99", "10")
	assert.Contains(t, out, "url not found")

	_, out = h.run(t, "5", "x", "10")
	assert.Contains(t, out, "invalid id")
}

func TestDeleteFlow(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Add(context.Background(), "http://a.com", "", "")
	require.NoError(t, err)

	h.run(t, "2", "1", "n", "10")
	assert.Len(t, h.all(t), 1, "declined confirmation keeps the record")

	_, out := h.run(t, "2", "1", "y", "10")
	assert.Empty(t, h.all(t))
	assert.Contains(t, out, "deleted")
}

func TestViewFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a, err := h.store.Add(ctx, "http://read.com", "", "news")
	require.NoError(t, err)
	require.NoError(t, h.store.UpdateStatus(ctx, a, true))
	_, err = h.store.Add(ctx, "http://unread.com", "", "blog")
	require.NoError(t, err)

	_, out := h.run(t, "3", "2", "10")
	assert.Contains(t, out, "http://read.com")
	assert.NotContains(t, out, "http://unread.com")

	_, out = h.run(t, "3", "4", "blog", "10")
	assert.Contains(t, out, "http://unread.com")
	assert.NotContains(t, out, "http://read.com")

	_, out = h.run(t, "3", "5", "2000-01-01", "2000-01-02", "10")
	assert.Contains(t, out, "No URLs found.")

	_, out = h.run(t, "3", "5", "2000-01-02", "2000-01-01", "10")
	assert.Contains(t, out, "invalid filter")

	_, out = h.run(t, "3", "9", "10")
	assert.Contains(t, out, "invalid filter")
}

func TestRemindFlow(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Add(context.Background(), "http://a.com", "", "")
	require.NoError(t, err)

	_, out := h.run(t, "7", "1", "10")
	assert.Contains(t, out, "Notification sent.")
	assert.Contains(t, h.sent.String(), "Reading Reminder: Read URL: http://a.com")
}

func TestExportImportFlow(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Add(context.Background(), "http://a.com", "a", "x")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	_, out := h.run(t, "8", "json", path, "10")
	assert.Contains(t, out, "1 URLs exported")
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, out = h.run(t, "8", "homepage", "10")
	assert.Contains(t, out, "not available")

	other := newHarness(t)
	_, out = other.run(t, "9", "2", path, "10")
	assert.Contains(t, out, "1 of 1 URLs imported.")
	require.Len(t, other.all(t), 1)

	_, out = other.run(t, "9", "json", path, "10")
	assert.Contains(t, out, "Skipped http://a.com")
	assert.Contains(t, out, "0 of 1 URLs imported.")
}
