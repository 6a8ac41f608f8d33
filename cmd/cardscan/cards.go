package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-scanner/internal/cards"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/config"
)

// newCardsCmd builds "cardscan cards": print the tag table, optionally checking it.
func newCardsCmd(opts *options) *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Print the tag identifier table",
		Long: `Print every known tag identifier with the card it decodes to, after any
cards: overrides from the config file are applied.

With --validate, also check that every code decodes and that the table covers
a full 52-card deck. Exits non-zero if the check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(getConfigPath(opts.configPath))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			table, err := cards.DefaultTable().WithOverrides(cfg.Cards)
			if err != nil {
				return fmt.Errorf("loading card table: %w", err)
			}

			printTable(cmd.OutOrStdout(), table)

			if !validate {
				return nil
			}
			return printValidation(cmd.OutOrStdout(), table.Validate())
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "check the table covers a full deck")

	return cmd
}

// printTable writes one line per identifier: tag, code, card. Red suits are
// printed in red when the output is a terminal.
func printTable(w io.Writer, table *cards.Table) {
	red := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, id := range table.Identifiers() {
		code, _ := table.Lookup(id)
		state, err := cards.ParseCode(code)

		card := state.String()
		switch {
		case err != nil:
			card = dim("undecodable")
		case state.Suit.IsRed():
			card = red(card)
		}

		fmt.Fprintf(w, "%-16s %-3s %s\n", id, code, card)
	}
	fmt.Fprintf(w, "%d tags\n", table.Len())
}

// printValidation reports the check result and returns an error if it failed.
func printValidation(w io.Writer, result cards.ValidationResult) error {
	fmt.Fprintln(w)

	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("warning:"), warn)
	}

	if result.Valid() {
		fmt.Fprintln(w, color.GreenString("table is valid: full 52-card deck"))
		return nil
	}

	for _, e := range result.Errors {
		fmt.Fprintf(w, "%s %s\n", color.RedString("error:"), e)
	}
	return fmt.Errorf("card table has %d errors", len(result.Errors))
}
