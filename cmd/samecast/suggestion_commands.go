package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"samecast/internal/comparison"
)

func newSuggestionsCommand(ctx *commandContext) *cobra.Command {
	suggestionsCmd := &cobra.Command{
		Use:     "suggestions",
		Aliases: []string{"suggestion"},
		Short:   "Manage curated comparison pairs",
	}

	suggestionsCmd.AddCommand(newSuggestionAddCommand(ctx))
	suggestionsCmd.AddCommand(newSuggestionListCommand(ctx))
	suggestionsCmd.AddCommand(newSuggestionToggleCommand(ctx, "disable", false))
	suggestionsCmd.AddCommand(newSuggestionToggleCommand(ctx, "enable", true))

	return suggestionsCmd
}

func newSuggestionAddCommand(ctx *commandContext) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "add <movie|tv>:<id> <movie|tv>:<id>",
		Short: "Add a suggested pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseTitleRef(args[0])
			if err != nil {
				return err
			}
			second, err := parseTitleRef(args[1])
			if err != nil {
				return err
			}
			if _, _, err := comparison.ValidatePair(first.ID, string(first.MediaType), second.ID, string(second.MediaType)); err != nil {
				return err
			}
			a, err := ctx.services()
			if err != nil {
				return err
			}
			sug, err := a.store.AddSuggestion(cmd.Context(), first, second, strings.TrimSpace(label))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added suggestion %d (%s vs %s)\n", sug.ID, sug.First, sug.Second)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Optional label shown with the pair")
	return cmd
}

func newSuggestionListCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List suggested pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.services()
			if err != nil {
				return err
			}
			suggestions, err := a.store.ListSuggestions(cmd.Context(), !all)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, suggestions)
			}
			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "No suggestions")
				return nil
			}
			rows := make([][]string, 0, len(suggestions))
			for _, s := range suggestions {
				rows = append(rows, []string{
					strconv.FormatInt(s.ID, 10),
					s.First.String(),
					s.Second.String(),
					dashIfEmpty(s.Label),
					yesNo(s.Active),
				})
			}
			fmt.Fprintln(out, renderTable("", []string{"ID", "First", "Second", "Label", "Active"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include disabled suggestions")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print suggestions as JSON")
	return cmd
}

func newSuggestionToggleCommand(ctx *commandContext, verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: labelCaser.String(verb) + " a suggested pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePositiveID(args[0])
			if err != nil {
				return err
			}
			a, err := ctx.services()
			if err != nil {
				return err
			}
			found, err := a.store.SetSuggestionActive(cmd.Context(), id, active)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("suggestion %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Suggestion %d %sd\n", id, verb)
			return nil
		},
	}
}
