package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	"github.com/msto63/ccp/internal/report"
)

func newTokensCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a program",
		Long: `Run only the lexer and print one token per line as
(KIND, value, line, column). The program is not parsed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			src, err := readSource(cmd, name)
			if err != nil {
				return err
			}

			checker := a.checker(false)
			defer checker.Close()

			tokens, lexErr := checker.Tokenize(cmd.Context(), src)
			out := cmd.OutOrStdout()

			switch format {
			case "json", "yaml":
				listing := struct {
					Tokens []report.Token     `json:"tokens" yaml:"tokens"`
					Error  *report.Diagnostic `json:"error,omitempty" yaml:"error,omitempty"`
				}{report.Tokens(tokens), report.Diagnose(lexErr)}
				if format == "json" {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					err = enc.Encode(listing)
				} else {
					enc := yaml.NewEncoder(out)
					if err = enc.Encode(listing); err == nil {
						err = enc.Close()
					}
				}
				if err != nil {
					return err
				}
			case "", "text":
				for _, tok := range tokens {
					fmt.Fprintln(out, tok)
				}
				if lexErr != nil {
					fmt.Fprintf(out, "Error: %s\n", report.Message(lexErr))
				}
			default:
				return mdwerror.New(fmt.Sprintf("unknown token format: %s", format)).
					WithCode(mdwerror.CodeInvalidInput)
			}

			if lexErr != nil {
				return errRejected
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, yaml")
	return cmd
}
