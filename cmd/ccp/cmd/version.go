package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/ccp/pkg/core/version"
)

func newVersionCmd() *cobra.Command {
	var components bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, version.Info())
			if components {
				for _, name := range []string{"lexer", "parser", "journal", "server"} {
					fmt.Fprintf(out, "  %-11s %s\n", name+":", version.ComponentVersion(name))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&components, "components", false, "also list component versions")
	// version needs no configuration
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
	return cmd
}
