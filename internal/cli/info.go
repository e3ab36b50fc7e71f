package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/urltodo/internal/version"
)

func (r *runner) modulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the registered modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled := make(map[string]bool, len(r.cfg.Modules))
			for _, name := range r.cfg.Modules {
				enabled[name] = true
			}

			rows := [][]string{}
			for _, name := range r.app.Registry.Names() {
				m, err := r.app.Registry.Get(name)
				if err != nil {
					return err
				}
				state := "available"
				if enabled[name] {
					state = "enabled"
				}
				rows = append(rows, []string{m.Name(), m.Version(), state})
			}
			r.app.Console.Table([]string{"Module", "Version", "State"}, rows)
			return nil
		},
	}
}

func (r *runner) versionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the version number only")
	return cmd
}
