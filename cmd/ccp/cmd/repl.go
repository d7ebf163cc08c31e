package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/msto63/ccp/internal/tui/repl"
)

func newReplCmd(a *app) *cobra.Command {
	var (
		plain    bool
		noPrompt bool
		format   string
		noTokens bool
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Enter programs interactively",
		Long: `Read a program line by line; an empty line ends it and the program is
checked. On a terminal this opens a full-screen editor, otherwise lines
are read from standard input until it ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, err := a.reportOptions(format, "", noTokens)
			if err != nil {
				return err
			}
			store, err := a.openJournal()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			checker := a.checker(true)
			defer checker.Close()

			cfg := repl.Config{
				Checker:    checker,
				Report:     ropts,
				ShowPrompt: !noPrompt,
				OnResult:   a.recorder(store),
			}

			if !plain && stdinIsTerminal(cmd) {
				return repl.Run(cfg)
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			if err := repl.RunLines(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cfg); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "use the line reader even on a terminal")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "do not print the input prompt")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, styled, json, yaml")
	cmd.Flags().BoolVar(&noTokens, "no-tokens", false, "do not print the token listing")
	return cmd
}

// stdinIsTerminal reports whether the command reads from an interactive
// terminal.
func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
