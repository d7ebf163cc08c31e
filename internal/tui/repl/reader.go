// Package repl is the interactive front end: it collects a program line by
// line, ending at the first empty line, and checks it.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/report"
)

// Prompt is printed before each program in line mode
const Prompt = "Enter your program code (end input with an empty line):"

// ReadProgram reads lines from br until an empty line or the end of input
// and joins them with "\n". It returns io.EOF only if the input ended before
// any line was read.
func ReadProgram(br *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		eof := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if eof && len(lines) == 0 {
				return "", io.EOF
			}
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
		if eof {
			return strings.Join(lines, "\n"), nil
		}
	}
}

// Config configures both front ends
type Config struct {
	Checker    *frontend.Checker
	Report     report.Options
	ShowPrompt bool
	// OnResult is called with every result, e.g. to journal it.
	OnResult func(*frontend.Result)
}

// RunLines checks one program after another from in until the input ends
// or ctx is done. Results are written to out in cfg.Report's format.
func RunLines(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	br := bufio.NewReader(in)
	for ctx.Err() == nil {
		if cfg.ShowPrompt {
			fmt.Fprintln(out, Prompt)
		}
		src, err := ReadProgram(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		res := cfg.Checker.Check(ctx, src)
		if cfg.OnResult != nil {
			cfg.OnResult(res)
		}
		if cfg.ShowPrompt {
			fmt.Fprintln(out)
		}
		if err := report.Write(out, res, cfg.Report); err != nil {
			return err
		}
	}
	return ctx.Err()
}
