package config

const (
	defaultConfigPath         = "~/.config/samecast/config.toml"
	defaultDataDir            = "~/.local/share/samecast"
	defaultLogDir             = "~/.local/share/samecast/logs"
	defaultImageCacheDir      = "~/.local/share/samecast/images"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL   = "https://image.tmdb.org/t/p"
	defaultTMDBLanguage       = "en-US"
	defaultTMDBTimeout        = 10
	defaultTMDBRequestsPerS   = 40
	defaultTMDBBurst          = 10
	defaultServerBind         = "127.0.0.1:7488"
	defaultServerReadTimeout  = 15
	defaultServerWriteTimeout = 30
	defaultSearchMaxResults   = 8
	defaultSearchMinQuery     = 2
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogMaxSizeMB       = 50
	defaultLogMaxBackups      = 5
	defaultLogMaxAgeDays      = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:       defaultDataDir,
			LogDir:        defaultLogDir,
			ImageCacheDir: defaultImageCacheDir,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			Language:          defaultTMDBLanguage,
			RequestTimeout:    defaultTMDBTimeout,
			RequestsPerSecond: defaultTMDBRequestsPerS,
			Burst:             defaultTMDBBurst,
		},
		Server: Server{
			Bind:         defaultServerBind,
			ReadTimeout:  defaultServerReadTimeout,
			WriteTimeout: defaultServerWriteTimeout,
		},
		Search: Search{
			MaxResults:     defaultSearchMaxResults,
			MinQueryLength: defaultSearchMinQuery,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
