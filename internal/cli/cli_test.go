package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
	"github.com/MrSnakeDoc/urltodo/internal/query"
)

type env struct {
	dir string
	db  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("URLTODO_CONFIG", "")
	t.Setenv("URLTODO_PID_FILE", filepath.Join(dir, "service.pid"))
	t.Setenv("URLTODO_LOG_LEVEL", "error")
	return &env{dir: dir, db: filepath.Join(dir, "todos.db")}
}

// run executes one invocation against the env database.
func (e *env) run(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--database", e.db}, args...)
	err := Execute(context.Background(), strings.NewReader(input), &out, &errOut, args)
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	newEnv(t)
	var out bytes.Buffer
	require.NoError(t, Execute(context.Background(), strings.NewReader(""), &out, &bytes.Buffer{}, []string{"version"}))
	assert.Contains(t, out.String(), "urltodo ")

	out.Reset()
	require.NoError(t, Execute(context.Background(), strings.NewReader(""), &out, &bytes.Buffer{}, []string{"version", "--short"}))
	assert.NotContains(t, out.String(), "commit=")
}

func TestRecordLifecycle(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "", "add", "https://go.dev/blog", "-d", "Go blog", "-c", "golang")
	require.NoError(t, err)
	assert.Contains(t, out, "with ID 1")

	_, _, err = e.run(t, "", "add", "https://example.com")
	require.NoError(t, err)

	out, _, err = e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "https://go.dev/blog")
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "2 URLs: 0 read, 2 unread")

	_, _, err = e.run(t, "", "mark", "1", "read")
	require.NoError(t, err)

	out, _, err = e.run(t, "", "list", "--filter", "read")
	require.NoError(t, err)
	assert.Contains(t, out, "https://go.dev/blog")
	assert.NotContains(t, out, "https://example.com")

	out, _, err = e.run(t, "", "list", "--filter", "category", "--category", "golang")
	require.NoError(t, err)
	assert.Contains(t, out, "https://go.dev/blog")

	_, _, err = e.run(t, "", "update", "2", "--description", "example", "--status", "true")
	require.NoError(t, err)

	out, _, err = e.run(t, "", "list", "--filter", "unread")
	require.NoError(t, err)
	assert.Contains(t, out, "No URLs found.")

	_, _, err = e.run(t, "", "delete", "1")
	require.NoError(t, err)

	_, errOut, err := e.run(t, "", "delete", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, errOut, "Error: url not found")
}

func TestAddErrors(t *testing.T) {
	e := newEnv(t)

	_, errOut, err := e.run(t, "", "add", "not a url")
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
	assert.Contains(t, errOut, "invalid url")

	_, _, err = e.run(t, "", "add", "http://a.com")
	require.NoError(t, err)
	_, _, err = e.run(t, "", "add", "http://a.com")
	assert.ErrorIs(t, err, domain.ErrDuplicateURL)
}

func TestArgumentErrors(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run(t, "", "mark", "1", "later")
	assert.Error(t, err)

	_, _, err = e.run(t, "", "mark", "abc", "read")
	assert.Error(t, err)

	_, _, err = e.run(t, "", "list", "--filter", "starred")
	assert.ErrorIs(t, err, query.ErrInvalidFilter)

	_, _, err = e.run(t, "", "list", "--filter", "time-range", "--since", "2024-02-01", "--until", "2024-01-01")
	assert.ErrorIs(t, err, query.ErrInvalidFilter)

	_, _, err = e.run(t, "", "export", "toml", "out.toml")
	assert.Error(t, err)
}

func TestListDateOnlyUntilCoversDay(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "", "add", "http://today.com")
	require.NoError(t, err)

	today := time.Now().UTC().Format(time.DateOnly)
	out, _, err := e.run(t, "", "list", "--filter", "time-range", "--since", today, "--until", today)
	require.NoError(t, err)
	assert.Contains(t, out, "http://today.com")
}

func TestExportImport(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "", "add", "http://a.com", "-d", "a, \"quoted\"")
	require.NoError(t, err)

	path := filepath.Join(e.dir, "urls.xml")
	out, _, err := e.run(t, "", "export", "xml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 URLs exported")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<urls>")

	other := filepath.Join(e.dir, "other.db")
	var buf bytes.Buffer
	err = Execute(context.Background(), strings.NewReader(""), &buf, &bytes.Buffer{},
		[]string{"--database", other, "import", "xml", path})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 of 1 URLs imported")

	out, _, err = e.run(t, "", "import", "xml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped http://a.com")
	assert.Contains(t, out, "0 of 1 URLs imported")
}

func TestRemind(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "", "add", "http://a.com")
	require.NoError(t, err)

	out, _, err := e.run(t, "", "remind", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading Reminder: Read URL: http://a.com")
}

func TestInteractiveDefault(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "1\nhttp://menu.com\n\n\n10\n")
	require.NoError(t, err)
	assert.Contains(t, out, "URL TODO LIST")
	assert.Contains(t, out, "added with ID 1")

	out, _, err = e.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "http://menu.com")
}

func TestModules(t *testing.T) {
	e := newEnv(t)
	out, _, err := e.run(t, "", "modules")
	require.NoError(t, err)
	assert.Contains(t, out, "url_todo_list")
	assert.Contains(t, out, "1.0.0")
	assert.Contains(t, out, "enabled")
}

func TestServiceStatusWhenStopped(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run(t, "", "service", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "is not running")

	out, _, err = e.run(t, "", "service", "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "is not running")
}

func TestStoreOpenFailure(t *testing.T) {
	newEnv(t)
	var errOut bytes.Buffer
	err := Execute(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &errOut,
		[]string{"--database", "/dev/null/x/todos.db", "list"})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "failed to open database")
}

func TestConfigFile(t *testing.T) {
	e := newEnv(t)
	cfgPath := filepath.Join(e.dir, "custom.yaml")
	db := filepath.Join(e.dir, "from-config.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database: "+db+"\nlog_level: error\n"), 0o644))

	err := Execute(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{},
		[]string{"--config", cfgPath, "add", "http://cfg.com"})
	require.NoError(t, err)
	_, err = os.Stat(db)
	assert.NoError(t, err, "database path must come from the config file")

	err = Execute(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{},
		[]string{"--config", filepath.Join(e.dir, "missing.yaml"), "list"})
	assert.Error(t, err)
}
