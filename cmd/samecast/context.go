package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"samecast/internal/catalog"
	"samecast/internal/comparison"
	"samecast/internal/config"
	"samecast/internal/images"
	"samecast/internal/logging"
	"samecast/internal/store"
	"samecast/internal/tmdb"
)

// app holds the wired services shared by the commands of one invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	tmdb    *tmdb.Client
	catalog *catalog.Catalog
	engine  *comparison.Engine
	images  *images.Cache
}

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	appOnce sync.Once
	app     *app
	appErr  error

	// stderrLogging sends logs to stderr as well as the log file; serve sets it.
	stderrLogging bool
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// services opens the store and builds the TMDB client, catalog, comparison
// engine, and image cache on first use.
func (c *commandContext) services() (*app, error) {
	c.appOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.appErr = err
			return
		}
		logger, err := c.newLogger(cfg)
		if err != nil {
			c.appErr = fmt.Errorf("init logger: %w", err)
			return
		}
		st, err := store.Open(cfg)
		if err != nil {
			c.appErr = fmt.Errorf("open cache: %w", err)
			return
		}
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
			tmdb.WithTimeout(cfg.TMDBRequestTimeout()),
			tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond, cfg.TMDB.Burst),
			tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
			tmdb.WithLogger(logger),
		)
		if err != nil {
			_ = st.Close()
			c.appErr = err
			return
		}
		titles := catalog.New(st, client,
			catalog.WithLogger(logger),
			catalog.WithSearchLimits(cfg.Search.MinQueryLength, cfg.Search.MaxResults),
		)
		c.app = &app{
			cfg:     cfg,
			logger:  logger,
			store:   st,
			tmdb:    client,
			catalog: titles,
			engine:  comparison.NewEngine(titles, logger),
			images:  images.New(cfg.Paths.ImageCacheDir, client, st, logger),
		}
	})
	return c.app, c.appErr
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	if c.stderrLogging {
		return logging.NewFromConfig(cfg)
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{cfg.LogPath()},
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
	})
}

func (c *commandContext) close() error {
	if c.app == nil || c.app.store == nil {
		return nil
	}
	err := c.app.store.Close()
	c.app.store = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
