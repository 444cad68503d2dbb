package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"samecast/internal/config"
	"samecast/internal/testsupport"
)

const matrixBody = `{
	"id": 603,
	"title": "The Matrix",
	"release_date": "1999-03-31",
	"overview": "A hacker learns the truth.",
	"credits": {
		"cast": [
			{"id": 6384, "name": "Keanu Reeves", "character": "Neo", "order": 0},
			{"id": 2975, "name": "Laurence Fishburne", "character": "Morpheus", "order": 1}
		],
		"crew": [
			{"id": 9339, "name": "Lana Wachowski", "job": "Director", "department": "Directing"}
		]
	}
}`

const johnWickBody = `{
	"id": 245891,
	"title": "John Wick",
	"release_date": "2014-10-22",
	"credits": {
		"cast": [
			{"id": 6384, "name": "Keanu Reeves", "character": "John Wick", "order": 0}
		],
		"crew": []
	}
}`

type cliTestEnv struct {
	cfg        *config.Config
	stub       *testsupport.TMDBServer
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	stub := testsupport.NewTMDBServer(t)
	stub.SetDetails("movie", 603, matrixBody)
	stub.SetDetails("movie", 245891, johnWickBody)
	cfg := testsupport.NewConfig(t, testsupport.WithTMDBServer(stub))

	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TMDB_API_KEY", "")

	configPath := filepath.Join(testsupport.BaseDir(cfg), "samecast.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, stub: stub, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
