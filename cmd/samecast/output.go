package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"samecast/internal/metadata"
	"samecast/internal/store"
)

const (
	ansiBold  = "\033[1m"
	ansiBlue  = "\033[34m"
	ansiReset = "\033[0m"
)

var labelCaser = cases.Title(language.English)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// heading renders a section title, underlined, bold on terminals.
func heading(out io.Writer, title string) {
	rule := strings.Repeat("-", len([]rune(title)))
	if shouldColorize(out) {
		title = ansiBold + ansiBlue + title + ansiReset
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, rule)
}

func mediaLabel(mediaType metadata.MediaType) string {
	if mediaType == metadata.MediaTV {
		return "TV"
	}
	return labelCaser.String(string(mediaType))
}

func formatYear(year *int) string {
	if year == nil {
		return "-"
	}
	return strconv.Itoa(*year)
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// parseTitleRef accepts "movie:603" or "tv:1399".
func parseTitleRef(value string) (store.TitleRef, error) {
	kind, rawID, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return store.TitleRef{}, fmt.Errorf("invalid title %q: expected <movie|tv>:<id>", value)
	}
	mediaType, err := metadata.ParseMediaType(kind)
	if err != nil {
		return store.TitleRef{}, fmt.Errorf("invalid title %q: %w", value, err)
	}
	id, err := parsePositiveID(rawID)
	if err != nil {
		return store.TitleRef{}, fmt.Errorf("invalid title %q: %w", value, err)
	}
	return store.TitleRef{ID: id, MediaType: mediaType}, nil
}

func parsePositiveID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", value)
	}
	return id, nil
}
