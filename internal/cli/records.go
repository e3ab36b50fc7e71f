package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/urltodo/internal/console"
	"github.com/MrSnakeDoc/urltodo/internal/query"
)

func (r *runner) runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the interactive menu (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.RunModules(cmd.Context())
		},
	}
}

func (r *runner) addCommand() *cobra.Command {
	var description, category string
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a URL to read later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := r.app.Service.Add(cmd.Context(), args[0], description, category)
			if err != nil {
				return err
			}
			r.app.Console.Success("Added %s with ID %d.", strings.TrimSpace(args[0]), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "free text description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category")
	return cmd
}

func (r *runner) listCommand() *cobra.Command {
	var mode, category, since, until string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List URLs, optionally filtered",
		Example: `  urltodo list --filter unread
  urltodo list --filter category --category golang
  urltodo list --filter time-range --since 2024-01-01 --until 2024-01-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := query.ParseMode(mode)
			if err != nil {
				return err
			}
			f := query.Filter{Mode: m, Category: category}
			if m == query.TimeRange {
				if f.Start, err = query.ParseTime(since); err != nil {
					return err
				}
				if f.End, err = query.ParseEndTime(until); err != nil {
					return err
				}
			}

			records, err := r.app.Service.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			r.app.Console.Records(records)

			stats, err := r.app.Service.Stats(cmd.Context())
			if err != nil {
				return err
			}
			r.app.Console.Stats(stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "filter", "f", string(query.All), "all, read, unread, category or time-range")
	cmd.Flags().StringVar(&category, "category", "", "category for --filter category")
	cmd.Flags().StringVar(&since, "since", "", "start of --filter time-range (YYYY-MM-DD [HH:MM:SS], UTC)")
	cmd.Flags().StringVar(&until, "until", "", "end of --filter time-range, inclusive; a date alone covers the whole day")
	return cmd
}

func (r *runner) markCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "mark <id> read|unread",
		Short:     "Mark a URL as read or unread",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"read", "unread"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := console.ParseID(args[0])
			if err != nil {
				return err
			}
			switch strings.ToLower(args[1]) {
			case "read":
				err = r.app.Service.MarkRead(cmd.Context(), id)
			case "unread":
				err = r.app.Service.MarkUnread(cmd.Context(), id)
			default:
				return fmt.Errorf("unknown status %q: use read or unread", args[1])
			}
			if err != nil {
				return err
			}
			r.app.Console.Success("URL %d marked as %s.", id, strings.ToLower(args[1]))
			return nil
		},
	}
}

func (r *runner) updateCommand() *cobra.Command {
	var description, status string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the description and/or status of a URL",
		Long: `Change the description and/or status of a URL.
An omitted or blank flag keeps the current value; --status true marks the URL
as read, any other non-blank value marks it unread.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := console.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := r.app.Service.Update(cmd.Context(), id, description, status); err != nil {
				return err
			}
			r.app.Console.Success("URL %d updated.", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "new status: true or false")
	return cmd
}

func (r *runner) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a URL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := console.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := r.app.Service.Delete(cmd.Context(), id); err != nil {
				return err
			}
			r.app.Console.Success("URL %d deleted.", id)
			return nil
		},
	}
}

func (r *runner) remindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remind <id>",
		Short: "Send a reading reminder for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := console.ParseID(args[0])
			if err != nil {
				return err
			}
			return r.app.Service.Remind(cmd.Context(), id)
		},
	}
}
