package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"samecast/internal/comparison"
	"samecast/internal/metadata"
	"samecast/internal/store"
)

func TestConfigInitShowAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "samecast.db")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "<redacted>")
	if strings.Contains(out, `api_key = 'test'`) || strings.Contains(out, `api_key = "test"`) {
		t.Fatalf("config show leaked the api key:\n%s", out)
	}

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestSearchPrintsTable(t *testing.T) {
	env := setupCLITestEnv(t)
	env.stub.SetSearch(`{"page":1,"results":[
		{"id":603,"media_type":"movie","title":"The Matrix","release_date":"1999-03-31"},
		{"id":1399,"media_type":"tv","name":"Game of Thrones","first_air_date":"2011-04-17"}
	]}`)

	out, _, err := runCLI(t, []string{"search", "the", "matrix"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "movie:603")
	requireContains(t, out, "The Matrix")
	requireContains(t, out, "tv:1399")
	requireContains(t, out, "TV")
}

func TestShowPrintsCastAndCrew(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"show", "movie", "603"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if first, _, _ := strings.Cut(out, "\n"); first != "The Matrix (1999)" {
		t.Fatalf("unexpected heading %q", first)
	}
	requireContains(t, out, "Keanu Reeves")
	requireContains(t, out, "Morpheus")
	requireContains(t, out, "Lana Wachowski")

	out, _, err = runCLI(t, []string{"show", "movie", "603", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("show --json: %v", err)
	}
	var details metadata.TitleDetails
	if err := json.Unmarshal([]byte(out), &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if len(details.Cast) != 2 || len(details.Crew) != 1 {
		t.Fatalf("unexpected details %+v", details)
	}
	if calls := env.stub.Calls("movie/603"); calls != 1 {
		t.Fatalf("expected the second show to hit the cache, got %d upstream calls", calls)
	}
}

func TestShowHeadingWithoutYear(t *testing.T) {
	env := setupCLITestEnv(t)
	env.stub.SetDetails("tv", 77, `{"id": 77, "name": "Untitled Pilot", "first_air_date": "", "aggregate_credits": {"cast": [], "crew": []}}`)

	out, _, err := runCLI(t, []string{"show", "tv", "77"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if first, _, _ := strings.Cut(out, "\n"); first != "Untitled Pilot" {
		t.Fatalf("unexpected heading %q", first)
	}
	requireContains(t, out, "Cast: none")
}

func TestShowRejectsBadArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"show", "person", "1"}, env.configPath); err == nil {
		t.Fatal("expected media type error")
	}
	if _, _, err := runCLI(t, []string{"show", "movie", "-4"}, env.configPath); err == nil {
		t.Fatal("expected id error")
	}
}

func TestCompareJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"compare", "movie:603", "movie:245891", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	var report comparison.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TotalShared != 1 || len(report.SharedCast) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := report.SharedCast[0]; got.Role1 != "Neo" || got.Role2 != "John Wick" {
		t.Fatalf("unexpected shared cast %+v", got)
	}
}

func TestCompareTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"compare", "movie:603", "movie:245891"}, env.configPath)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	requireContains(t, out, "The Matrix (1999) & John Wick (2014)")
	requireContains(t, out, "Shared people: 1")
	requireContains(t, out, "Keanu Reeves")
}

func TestCompareRejectsSameTitle(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"compare", "movie:603", "movie:603"}, env.configPath)
	if err == nil || err.Error() != "Please pick two different titles!" {
		t.Fatalf("expected same-title error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"compare", "603", "movie:245891"}, env.configPath); err == nil {
		t.Fatal("expected malformed ref error")
	}
	if calls := env.stub.Calls("movie/603"); calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", calls)
	}
}

func TestCacheCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"show", "movie", "603"}, env.configPath); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	out, _, err := runCLI(t, []string{"cache", "stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	var stats store.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Titles != 1 || stats.Persons != 3 || stats.Credits != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	out, _, err = runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "movie:603")
	requireContains(t, out, "yes")

	out, _, err = runCLI(t, []string{"cache", "remove", "603"}, env.configPath)
	if err != nil {
		t.Fatalf("cache remove: %v", err)
	}
	requireContains(t, out, "Removed title 603")
	if _, _, err := runCLI(t, []string{"cache", "remove", "603"}, env.configPath); err == nil {
		t.Fatal("expected error removing an uncached title")
	}

	if _, _, err := runCLI(t, []string{"cache", "clear"}, env.configPath); err == nil {
		t.Fatal("expected clear to require --yes")
	}
	out, _, err = runCLI(t, []string{"cache", "clear", "--yes"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cache cleared")
}

func TestSuggestionCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"suggestions", "add", "movie:603", "movie:245891", "--label", "Keanu"}, env.configPath)
	if err != nil {
		t.Fatalf("suggestions add: %v", err)
	}
	requireContains(t, out, "Added suggestion 1 (movie:603 vs movie:245891)")

	if _, _, err := runCLI(t, []string{"suggestions", "add", "tv:1", "tv:1"}, env.configPath); err == nil {
		t.Fatal("expected identical pair to be rejected")
	}

	out, _, err = runCLI(t, []string{"suggestions", "disable", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("suggestions disable: %v", err)
	}
	requireContains(t, out, "Suggestion 1 disabled")

	out, _, err = runCLI(t, []string{"suggestions", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("suggestions list: %v", err)
	}
	requireContains(t, out, "No suggestions")

	out, _, err = runCLI(t, []string{"suggestions", "list", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("suggestions list --all: %v", err)
	}
	requireContains(t, out, "Keanu")
	requireContains(t, out, "no")

	if _, _, err := runCLI(t, []string{"suggestions", "enable", "42"}, env.configPath); err == nil {
		t.Fatal("expected missing suggestion error")
	}
}
