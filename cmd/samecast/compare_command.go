package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"samecast/internal/comparison"
)

func newCompareCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "compare <movie|tv>:<id> <movie|tv>:<id>",
		Short:   "List the people two titles share",
		Example: "  samecast compare movie:603 movie:245891",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := parseTitleRef(args[0])
			if err != nil {
				return err
			}
			second, err := parseTitleRef(args[1])
			if err != nil {
				return err
			}
			typeA, typeB, err := comparison.ValidatePair(first.ID, string(first.MediaType), second.ID, string(second.MediaType))
			if err != nil {
				return err
			}
			a, err := ctx.services()
			if err != nil {
				return err
			}
			report, err := a.engine.FindShared(cmd.Context(), first.ID, typeA, second.ID, typeB)
			if err != nil {
				return fmt.Errorf("compare %s and %s: %w", first, second, err)
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the comparison report as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, report *comparison.Report) {
	out := cmd.OutOrStdout()
	t1, t2 := report.Title1, report.Title2
	heading(out, fmt.Sprintf("%s (%s) & %s (%s)", t1.Title, formatYear(t1.Year), t2.Title, formatYear(t2.Year)))

	if report.TotalShared == 0 {
		fmt.Fprintln(out, "No shared cast or crew")
		return
	}
	fmt.Fprintf(out, "Shared people: %d\n\n", report.TotalShared)

	if len(report.SharedCast) > 0 {
		rows := make([][]string, 0, len(report.SharedCast))
		for _, c := range report.SharedCast {
			rows = append(rows, []string{c.Name, dashIfEmpty(c.Role1), dashIfEmpty(c.Role2)})
		}
		fmt.Fprintln(out, renderTable("Shared cast", []string{"Name", t1.Title, t2.Title}, rows, nil))
	}
	if len(report.SharedCrew) > 0 {
		if len(report.SharedCast) > 0 {
			fmt.Fprintln(out)
		}
		rows := make([][]string, 0, len(report.SharedCrew))
		for _, c := range report.SharedCrew {
			rows = append(rows, []string{c.Name, dashIfEmpty(c.Department), dashIfEmpty(c.Role1), dashIfEmpty(c.Role2)})
		}
		fmt.Fprintln(out, renderTable("Shared crew", []string{"Name", "Department", t1.Title, t2.Title}, rows, nil))
	}
}

