package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/urltodo/internal/codec"
)

func formatNames(formats []codec.Format) string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

func (r *runner) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <format> <file>",
		Short: "Export every URL to a file (" + formatNames(codec.ExportFormats) + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := codec.ParseFormat(args[0])
			if err != nil {
				return err
			}
			n, err := r.app.Service.Export(cmd.Context(), format, args[1])
			if err != nil {
				return err
			}
			r.app.Console.Success("%d URLs exported to %s.", n, args[1])
			return nil
		},
	}
}

func (r *runner) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <format> <file>",
		Short: "Import URLs from a file (" + formatNames(codec.ImportFormats) + ")",
		Long: `Import URLs from a file. Every entry is added like "urltodo add" would:
invalid and already stored URLs are skipped, imported URLs start unread.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := codec.ParseFormat(args[0])
			if err != nil {
				return err
			}
			report, err := r.app.Service.Import(cmd.Context(), format, args[1])
			if report != nil {
				for _, s := range report.Skipped {
					r.app.Console.Warn("Skipped %s: %v", s.URL, s.Reason)
				}
			}
			if err != nil {
				return err
			}
			r.app.Console.Success("%d of %d URLs imported from %s.", len(report.Added), report.Total(), args[1])
			return nil
		},
	}
}
