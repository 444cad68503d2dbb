package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"samecast/internal/metadata"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search TMDB for movies and TV shows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.services()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			results, err := a.catalog.Search(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("search %q: %w", query, err)
			}
			if jsonOutput {
				return writeJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					string(r.MediaType) + ":" + strconv.FormatInt(r.ID, 10),
					r.Title,
					formatYear(r.ReleaseYear),
					mediaLabel(r.MediaType),
				})
			}
			fmt.Fprintln(out, renderTable("", []string{"Ref", "Title", "Year", "Type"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var crewLimit int

	cmd := &cobra.Command{
		Use:   "show <movie|tv> <id>",
		Short: "Show a title with its cast and crew",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaType, err := metadata.ParseMediaType(args[0])
			if err != nil {
				return err
			}
			id, err := parsePositiveID(args[1])
			if err != nil {
				return err
			}
			a, err := ctx.services()
			if err != nil {
				return err
			}
			details, err := a.catalog.GetDetails(cmd.Context(), id, mediaType)
			if err != nil {
				return fmt.Errorf("load %s %d: %w", mediaType, id, err)
			}
			if jsonOutput {
				return writeJSON(cmd, details)
			}
			printDetails(cmd, details, crewLimit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print details as JSON")
	cmd.Flags().IntVar(&crewLimit, "crew", 20, "Maximum crew rows to print (0 for all)")
	return cmd
}

func printDetails(cmd *cobra.Command, details *metadata.TitleDetails, crewLimit int) {
	out := cmd.OutOrStdout()
	heading(out, details.DisplayTitle())
	fmt.Fprintf(out, "Type:    %s\n", mediaLabel(details.MediaType))
	fmt.Fprintf(out, "TMDB ID: %d\n", details.ID)
	if overview := strings.TrimSpace(details.Overview); overview != "" {
		fmt.Fprintf(out, "\n%s\n", overview)
	}

	fmt.Fprintln(out)
	if len(details.Cast) == 0 {
		fmt.Fprintln(out, "Cast: none")
	} else {
		rows := make([][]string, 0, len(details.Cast))
		for _, c := range details.Cast {
			rows = append(rows, []string{strconv.Itoa(c.DisplayOrder), c.Name, dashIfEmpty(c.Character)})
		}
		fmt.Fprintln(out, renderTable("Cast", []string{"#", "Name", "Character"}, rows, []columnAlignment{alignRight}))
	}

	fmt.Fprintln(out)
	if len(details.Crew) == 0 {
		fmt.Fprintln(out, "Crew: none")
		return
	}
	crew := details.Crew
	if crewLimit > 0 && len(crew) > crewLimit {
		crew = crew[:crewLimit]
	}
	rows := make([][]string, 0, len(crew))
	for _, c := range crew {
		rows = append(rows, []string{c.Name, dashIfEmpty(c.Job), dashIfEmpty(c.Department)})
	}
	fmt.Fprintln(out, renderTable("Crew", []string{"Name", "Job", "Department"}, rows, nil))
	if hidden := len(details.Crew) - len(crew); hidden > 0 {
		fmt.Fprintf(out, "(%d more crew; use --crew 0 to list all)\n", hidden)
	}
}
