// Package urltodo is the interactive URL to-do list menu.
package urltodo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/urltodo/internal/codec"
	"github.com/MrSnakeDoc/urltodo/internal/console"
	"github.com/MrSnakeDoc/urltodo/internal/logger"
	"github.com/MrSnakeDoc/urltodo/internal/module"
	"github.com/MrSnakeDoc/urltodo/internal/query"
	"github.com/MrSnakeDoc/urltodo/internal/todo"
)

const (
	Name    = "url_todo_list"
	Version = "1.0.0"
)

type action struct {
	label string
	run   func(ctx context.Context) error
}

// Module runs the main menu until the user exits or input ends.
type Module struct {
	svc *todo.Service
	con *console.Console
	log logger.Logger
}

func New(svc *todo.Service, con *console.Console, log logger.Logger) *Module {
	return &Module{
		svc: svc,
		con: con,
		log: log.With(logger.String("module", Name)),
	}
}

func (m *Module) Name() string    { return Name }
func (m *Module) Version() string { return Version }

func (m *Module) actions() []action {
	return []action{
		{"Add URL", m.add},
		{"Delete URL", m.delete},
		{"View URLs", m.view},
		{"Update URL", m.update},
		{"Mark URL as read", m.markRead},
		{"Mark URL as unread", m.markUnread},
		{"Send reading reminder", m.remind},
		{"Export URLs", m.export},
		{"Import URLs", m.importFile},
	}
}

func (m *Module) Run(ctx context.Context) (module.ExitSignal, error) {
	actions := m.actions()
	labels := make([]string, 0, len(actions)+1)
	for _, a := range actions {
		labels = append(labels, a.label)
	}
	labels = append(labels, "Exit")

	m.log.Debug("menu started")
	for {
		if ctx.Err() != nil {
			return module.Quit, nil
		}

		m.con.Println()
		m.con.Menu("URL TODO LIST", labels)
		choice, err := m.con.Prompt("Select an option: ")
		if err != nil {
			return m.stop(err)
		}

		n, convErr := strconv.Atoi(strings.TrimSpace(choice))
		switch {
		case convErr != nil || n < 1 || n > len(labels):
			m.con.Warn("Invalid selection.")
			continue
		case n == len(labels):
			m.con.Muted("Exiting...")
			return module.Quit, nil
		}

		if err := actions[n-1].run(ctx); err != nil {
			if errors.Is(err, console.ErrNoInput) {
				return m.stop(err)
			}
			m.con.Error(err)
		}
	}
}

// stop ends the menu when input is exhausted.
func (m *Module) stop(err error) (module.ExitSignal, error) {
	if errors.Is(err, console.ErrNoInput) {
		m.log.Debug("input closed, leaving menu")
		return module.Quit, nil
	}
	return module.Quit, err
}

func (m *Module) add(ctx context.Context) error {
	url, err := m.con.Prompt("Enter the URL: ")
	if err != nil {
		return err
	}
	description, err := m.con.Prompt("Enter the description: ")
	if err != nil {
		return err
	}
	category, err := m.con.Prompt("Enter the category: ")
	if err != nil {
		return err
	}

	id, err := m.svc.Add(ctx, url, description, category)
	if err != nil {
		return err
	}
	m.con.Success("URL '%s' added with ID %d.", strings.TrimSpace(url), id)
	return nil
}

func (m *Module) delete(ctx context.Context) error {
	if err := m.showAll(ctx); err != nil {
		return err
	}
	id, err := m.con.PromptID("Enter the ID of the URL to delete: ")
	if err != nil {
		return err
	}
	ok, err := m.con.Confirm(fmt.Sprintf("Delete URL %d?", id))
	if err != nil {
		return err
	}
	if !ok {
		m.con.Muted("Nothing deleted.")
		return nil
	}
	if err := m.svc.Delete(ctx, id); err != nil {
		return err
	}
	m.con.Success("URL with ID %d deleted.", id)
	return nil
}

var viewOptions = []string{"All URLs", "Read URLs", "Unread URLs", "By category", "By time range"}

func (m *Module) view(ctx context.Context) error {
	m.con.Menu("View Options", viewOptions)
	choice, err := m.con.Prompt("Select a view option: ")
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(choice))
	if convErr != nil || n < 1 || n > len(query.Modes) {
		return fmt.Errorf("%w: invalid selection %q", query.ErrInvalidFilter, choice)
	}

	f := query.Filter{Mode: query.Modes[n-1]}
	switch f.Mode {
	case query.Category:
		if f.Category, err = m.con.Prompt("Enter the category: "); err != nil {
			return err
		}
	case query.TimeRange:
		if f.Start, err = m.promptTime("Start (YYYY-MM-DD [HH:MM:SS]): ", query.ParseTime); err != nil {
			return err
		}
		if f.End, err = m.promptTime("End (YYYY-MM-DD [HH:MM:SS]): ", query.ParseEndTime); err != nil {
			return err
		}
	}

	records, err := m.svc.List(ctx, f)
	if err != nil {
		return err
	}
	m.con.Records(records)
	return nil
}

func (m *Module) promptTime(label string, parse func(string) (time.Time, error)) (time.Time, error) {
	raw, err := m.con.Prompt(label)
	if err != nil {
		return time.Time{}, err
	}
	return parse(raw)
}

func (m *Module) update(ctx context.Context) error {
	if err := m.showAll(ctx); err != nil {
		return err
	}
	id, err := m.con.PromptID("Enter the ID of the URL to update: ")
	if err != nil {
		return err
	}
	description, err := m.con.Prompt("Enter new description (leave blank to keep the same): ")
	if err != nil {
		return err
	}
	status, err := m.con.Prompt("Enter new status (True/False) (leave blank to keep the same): ")
	if err != nil {
		return err
	}
	if err := m.svc.Update(ctx, id, description, status); err != nil {
		return err
	}
	m.con.Success("URL with ID %d updated.", id)
	return nil
}

func (m *Module) markRead(ctx context.Context) error {
	id, err := m.con.PromptID("Enter the ID of the URL to mark as read: ")
	if err != nil {
		return err
	}
	if err := m.svc.MarkRead(ctx, id); err != nil {
		return err
	}
	m.con.Success("URL marked as read.")
	return nil
}

func (m *Module) markUnread(ctx context.Context) error {
	id, err := m.con.PromptID("Enter the ID of the URL to mark as unread: ")
	if err != nil {
		return err
	}
	if err := m.svc.MarkUnread(ctx, id); err != nil {
		return err
	}
	m.con.Success("URL marked as unread.")
	return nil
}

func (m *Module) remind(ctx context.Context) error {
	id, err := m.con.PromptID("Enter the ID of the URL to be reminded of: ")
	if err != nil {
		return err
	}
	if err := m.svc.Remind(ctx, id); err != nil {
		return err
	}
	m.con.Success("Notification sent.")
	return nil
}

func (m *Module) export(ctx context.Context) error {
	format, err := m.promptFormat(codec.ExportFormats)
	if err != nil {
		return err
	}
	filename, err := m.con.Prompt(fmt.Sprintf("Enter the filename (default urls.%s): ", format))
	if err != nil {
		return err
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "urls." + format.String()
	}

	n, err := m.svc.Export(ctx, format, filename)
	if err != nil {
		return err
	}
	m.con.Success("%d URLs exported to %s.", n, filepath.Clean(filename))
	return nil
}

func (m *Module) importFile(ctx context.Context) error {
	format, err := m.promptFormat(codec.ImportFormats)
	if err != nil {
		return err
	}
	filename, err := m.con.Prompt("Enter the filename: ")
	if err != nil {
		return err
	}

	report, err := m.svc.Import(ctx, format, strings.TrimSpace(filename))
	if report != nil {
		for _, s := range report.Skipped {
			m.con.Warn("Skipped %s: %v", s.URL, s.Reason)
		}
	}
	if err != nil {
		return err
	}
	m.con.Success("%d of %d URLs imported.", len(report.Added), report.Total())
	return nil
}

// promptFormat accepts a format name or its number in formats.
func (m *Module) promptFormat(formats []codec.Format) (codec.Format, error) {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.String())
	}
	m.con.Menu("Formats", names)
	raw, err := m.con.Prompt("Select a format: ")
	if err != nil {
		return "", err
	}

	if n, convErr := strconv.Atoi(strings.TrimSpace(raw)); convErr == nil {
		if n < 1 || n > len(formats) {
			return "", fmt.Errorf("invalid format selection %d", n)
		}
		return formats[n-1], nil
	}
	format, err := codec.ParseFormat(raw)
	if err != nil {
		return "", err
	}
	for _, f := range formats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("format %q is not available here", format)
}

func (m *Module) showAll(ctx context.Context) error {
	records, err := m.svc.List(ctx, query.Filter{Mode: query.All})
	if err != nil {
		return err
	}
	m.con.Title("Existing URLs")
	m.con.Records(records)
	return nil
}
