// Package console reads prompts and prints styled output for the
// interactive menu and the CLI commands.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

// ErrNoInput is returned by prompts when the input is exhausted.
var ErrNoInput = errors.New("no more input")

type Console struct {
	in     *bufio.Reader
	out    io.Writer
	styles Styles
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		styles: DefaultStyles(),
	}
}

// Prompt prints label and returns the next input line without its line ending.
// A last line without a newline is still returned; after that ErrNoInput.
func (c *Console) Prompt(label string) (string, error) {
	if label != "" {
		fmt.Fprint(c.out, label)
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				fmt.Fprintln(c.out)
				return "", ErrNoInput
			}
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptID asks for a record id.
func (c *Console) PromptID(label string) (int64, error) {
	raw, err := c.Prompt(label)
	if err != nil {
		return 0, err
	}
	id, err := ParseID(raw)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ParseID reads a positive record id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive number", strings.TrimSpace(raw))
	}
	return id, nil
}

// Confirm asks a yes/no question; only "y" or "yes" confirm.
func (c *Console) Confirm(label string) (bool, error) {
	raw, err := c.Prompt(label + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Title(msg string) {
	fmt.Fprintln(c.out, c.styles.Title.Render(msg))
}

func (c *Console) Success(format string, a ...any) {
	fmt.Fprintln(c.out, c.styles.Success.Render("✔ "+fmt.Sprintf(format, a...)))
}

func (c *Console) Warn(format string, a ...any) {
	fmt.Fprintln(c.out, c.styles.Warning.Render("! "+fmt.Sprintf(format, a...)))
}

func (c *Console) Error(err error) {
	fmt.Fprintln(c.out, c.styles.Error.Render("✖ "+err.Error()))
}

func (c *Console) Muted(format string, a ...any) {
	fmt.Fprintln(c.out, c.styles.Muted.Render(fmt.Sprintf(format, a...)))
}

// Menu prints numbered options under a title.
func (c *Console) Menu(title string, options []string) {
	c.Title(title)
	for i, opt := range options {
		fmt.Fprintf(c.out, "  %s %s\n", c.styles.Muted.Render(strconv.Itoa(i+1)+"."), opt)
	}
}

// Table renders rows under headers with a rounded border.
func (c *Console) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(c.styles.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.styles.Header
			}
			return c.styles.Cell
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(c.out, t.Render())
}

// RecordHeaders are the columns of Records.
var RecordHeaders = []string{"ID", "URL", "Description", "Category", "Status", "Added"}

// Records renders records as a table, or a short notice when there are none.
func (c *Console) Records(records []*domain.Record) {
	if len(records) == 0 {
		c.Muted("No URLs found.")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, RecordRow(r))
	}
	c.Table(RecordHeaders, rows)
}

// RecordRow formats one record in RecordHeaders order.
func RecordRow(r *domain.Record) []string {
	added := ""
	if !r.Timestamp.IsZero() {
		added = r.Timestamp.UTC().Format(time.DateTime)
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.URL,
		r.Description,
		r.Category,
		r.StatusLabel(),
		added,
	}
}

// Stats prints the status counts on one line.
func (c *Console) Stats(st domain.Stats) {
	c.Muted("%d URLs: %d read, %d unread", st.Total, st.Read, st.Unread)
}
