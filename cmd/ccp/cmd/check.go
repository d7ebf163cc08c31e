package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	"github.com/msto63/ccp/internal/report"
	"github.com/msto63/ccp/internal/watch"
)

type checkOptions struct {
	format   string
	color    string
	noTokens bool
	watch    bool
}

func newCheckCmd(a *app) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check a program",
		Long: `Tokenize and parse a program, then print the token listing and either
"Parsing completed successfully." or the first error.

Without a file, or with "-", the program is read from standard input.
The exit status is 1 if the program is rejected.

Examples:
  ccp check prog.ccp
  echo 'int x; x = 1;' | ccp check --format json
  ccp check --watch prog.ccp`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: text, styled, json, yaml")
	cmd.Flags().StringVar(&opts.color, "color", "", "color for styled output: auto, always, never")
	cmd.Flags().BoolVar(&opts.noTokens, "no-tokens", false, "do not print the token listing")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-check the file whenever it changes")
	return cmd
}

func runCheck(cmd *cobra.Command, a *app, opts *checkOptions, args []string) error {
	ropts, err := a.reportOptions(opts.format, opts.color, opts.noTokens)
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
	record := a.recorder(store)
	checker := a.checker(opts.watch)
	defer checker.Close()
	out := cmd.OutOrStdout()

	if opts.watch {
		if len(args) == 0 || args[0] == "-" {
			return mdwerror.New("--watch needs a file argument").WithCode(mdwerror.CodeInvalidInput)
		}
		path := args[0]
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		return watch.Watch(ctx, path, func() {
			fmt.Fprintf(out, "== %s (%s) ==\n", filepath.Base(path), time.Now().Format("15:04:05"))
			src, err := readSource(cmd, path)
			if err != nil {
				printError(out, err)
				return
			}
			res := checker.Check(ctx, src)
			if record != nil {
				record(res)
			}
			if err := report.Write(out, res, ropts); err != nil {
				printError(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintln(out)
		})
	}

	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	src, err := readSource(cmd, name)
	if err != nil {
		return err
	}

	res := checker.Check(cmd.Context(), src)
	if record != nil {
		record(res)
	}
	if err := report.Write(out, res, ropts); err != nil {
		return err
	}
	if !res.OK() {
		return errRejected
	}
	return nil
}

// readSource reads the named file, or standard input for "-".
func readSource(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", mdwerror.Wrap(err, fmt.Sprintf("cannot read %s", name)).
			WithCode(mdwerror.CodeIOError).
			WithOperation("cmd.readSource")
	}
	return string(data), nil
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
