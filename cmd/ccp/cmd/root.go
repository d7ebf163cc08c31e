package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/journal"
	"github.com/msto63/ccp/internal/report"
	"github.com/msto63/ccp/internal/tui"
	"github.com/msto63/ccp/pkg/core/config"
	"github.com/msto63/ccp/pkg/core/logging"
)

// errRejected is returned when the checked source was not accepted. The
// diagnostic has already been printed, so only the exit status remains.
var errRejected = errors.New("source rejected")

// app carries the state shared by all subcommands
type app struct {
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *mdwlog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ccp",
		Short: "ccp - checker for a small expression language",
		Long: `ccp tokenizes and parses programs in a small expression language
and checks that every variable is declared before it is used.

  int x;
  x = (1 + 2) * 3;

Commands:
  check    - check a program and print its tokens and the verdict
  tokens   - print the token stream only
  repl     - enter programs interactively
  serve    - HTTP/WebSocket checking service
  history  - inspect the run journal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $CCP_CONFIG, ./ccp.toml, ~/.config/ccp/config.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newCheckCmd(a),
		newTokensCmd(a),
		newReplCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit status
func Execute() int {
	return run(newRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			printError(stderr, err)
		}
		return 1
	}
	return 0
}

// setup loads the configuration and builds the logger
func (a *app) setup() error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := a.cfg.General.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.NewLogger(logging.LoggerConfig{
		Name:   "ccp",
		Level:  level,
		Format: a.cfg.General.LogFormat,
	})
	mdwlog.SetDefault(a.logger)
	return nil
}

// checker builds the front end. Only long-running commands ask for the
// token cache; callers must Close the checker.
func (a *app) checker(cached bool) *frontend.Checker {
	opts := frontend.Options{
		Logger:         a.logger,
		MaxSourceBytes: a.cfg.Lexer.MaxSourceBytes,
	}
	if cached {
		opts.CacheSize = a.cfg.Lexer.CacheSize
		opts.CacheTTL = a.cfg.Lexer.CacheTTL.Duration
	}
	return frontend.New(opts)
}

// reportOptions merges the output section with flag overrides; empty
// overrides keep the configured value.
func (a *app) reportOptions(format, color string, noTokens bool) (report.Options, error) {
	if format == "" {
		format = a.cfg.Output.Format
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return report.Options{}, err
	}
	if color == "" {
		color = a.cfg.Output.Color
	}
	mode := tui.ColorMode(color)
	switch mode {
	case tui.ColorAuto, tui.ColorAlways, tui.ColorNever:
	default:
		return report.Options{}, mdwerror.New(fmt.Sprintf("unknown color mode: %s", color)).
			WithCode(mdwerror.CodeInvalidInput)
	}
	return report.Options{
		Format:     f,
		ShowTokens: a.cfg.Output.ShowTokens && !noTokens,
		Color:      mode,
	}, nil
}

// openJournal opens the run journal, or returns nil when it is disabled.
// Runs older than the retention period are pruned on open.
func (a *app) openJournal() (journal.Store, error) {
	if !a.cfg.Journal.Enabled {
		return nil, nil
	}
	store, err := journal.NewSQLiteStore(journal.SQLiteConfig{Path: a.cfg.Journal.Path})
	if err != nil {
		return nil, err
	}
	if retention := a.cfg.Journal.Retention.Duration; retention > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if n, err := store.Prune(ctx, retention); err != nil {
			a.logger.WarnWithErr("Failed to prune journal", err)
		} else if n > 0 {
			a.logger.Debug("Pruned journal", mdwlog.Fields{"removed": n})
		}
	}
	return store, nil
}

// requireJournal is openJournal for commands that cannot work without it.
func (a *app) requireJournal() (journal.Store, error) {
	store, err := a.openJournal()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, mdwerror.New("run journal is disabled (set journal.enabled = true in the config)").
			WithCode(mdwerror.CodeConfigError)
	}
	return store, nil
}

// recorder returns a callback that journals results, or nil.
func (a *app) recorder(store journal.Store) func(*frontend.Result) {
	if store == nil {
		return nil
	}
	return func(res *frontend.Result) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Record(ctx, journal.FromResult(res)); err != nil {
			a.logger.WarnWithErr("Failed to record run", err, mdwlog.Fields{"run_id": res.RunID})
		}
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
