package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"samecast/internal/catalog"
	"samecast/internal/store"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the title cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.services()
			if err != nil {
				return err
			}
			stats, err := a.store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, stats)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", a.store.Path())
			printCacheStats(out, stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print stats as JSON")
	return cmd
}

func printCacheStats(out io.Writer, stats store.Stats) {
	const stampLayout = "2006-01-02 15:04"
	fmt.Fprintf(out, "Titles:   %d (%d movies, %d TV)\n", stats.Titles, stats.Movies, stats.TVShows)
	fmt.Fprintf(out, "People:   %d\n", stats.Persons)
	fmt.Fprintf(out, "Credits:  %d\n", stats.Credits)
	fmt.Fprintf(out, "Images:   %d posters, %d profiles\n", stats.PostersCached, stats.ProfilesCached)
	fmt.Fprintf(out, "Suggestions: %d active\n", stats.ActiveSuggestions)
	if stats.OldestCachedAt != nil && stats.NewestCachedAt != nil {
		fmt.Fprintf(out, "Cached:   %s .. %s\n",
			stats.OldestCachedAt.Local().Format(stampLayout),
			stats.NewestCachedAt.Local().Format(stampLayout))
	}
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached titles and whether they are still fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.services()
			if err != nil {
				return err
			}
			titles, err := a.store.ListTitles(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(titles) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}
			now := time.Now()
			rows := make([][]string, 0, len(titles))
			for _, t := range titles {
				rows = append(rows, []string{
					string(t.MediaType) + ":" + strconv.FormatInt(t.ID, 10),
					t.Title,
					formatYear(t.ReleaseYear),
					yesNo(catalog.IsFresh(t, now)),
					t.CachedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable("", []string{"Ref", "Title", "Year", "Fresh", "Cached"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Drop a cached title and its credits",
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
			removed, err := a.store.RemoveTitle(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("title %d is not cached", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed title %d\n", id)
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached title, person, and credit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to clear the cache without --yes")
			}
			a, err := ctx.services()
			if err != nil {
				return err
			}
			if err := a.store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared (suggestions kept)")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm clearing the cache")
	return cmd
}
