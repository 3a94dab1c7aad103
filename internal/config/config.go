// Package config loads moodtrack configuration from config files, .env files
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/moodtrack/internal/core/database/pool"
)

// AppFs is the filesystem Load reads from.
var AppFs = afero.NewOsFs()

const (
	configName = ".moodtrack"
	envPrefix  = "MOODTRACK"
)

// Config holds the application configuration.
type Config struct {
	// DatabaseURL is the Postgres connection string. Empty means mock mode.
	DatabaseURL string
	// DatabaseURLSource names the variable DatabaseURL came from.
	DatabaseURLSource string

	Pool         pool.Config
	QueryTimeout time.Duration

	// UserID is the default user for CLI commands.
	UserID string
	Debug  bool

	// ConfigFile is the config file that was read, if any.
	ConfigFile string

	env map[string]string
}

// Configured reports whether a connection string is available.
func (c *Config) Configured() bool {
	return c.DatabaseURL != ""
}

// Lookup returns a variable from the layered environment Load saw.
func (c *Config) Lookup(name string) (string, bool) {
	v, ok := c.env[name]
	return v, ok && v != ""
}

// Loader reads configuration. The zero value reads the real filesystem,
// the process environment and the user's home directory.
type Loader struct {
	Fs afero.Fs
	// Environ lists KEY=VALUE pairs, like os.Environ.
	Environ func() []string
	// Dir holds .env, .env.local and .moodtrack.yaml. Defaults to ".".
	Dir string
	// Home overrides the home directory lookup.
	Home string
}

// Load loads configuration with the default Loader.
func Load() (*Config, error) {
	return Loader{}.Load()
}

// Load resolves configuration. Precedence, lowest first: defaults, config
// file, .env, process environment, .env.local.
func (l Loader) Load() (*Config, error) {
	fs := l.Fs
	if fs == nil {
		fs = AppFs
	}
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	dir := l.Dir
	if dir == "" {
		dir = "."
	}

	env, err := layeredEnv(fs, dir, environ())
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if home := l.home(); home != "" {
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "moodtrack"))
	}

	defaults := pool.DefaultConfig()
	v.SetDefault("max_open_conns", defaults.MaxOpenConns)
	v.SetDefault("max_idle_conns", defaults.MaxIdleConns)
	v.SetDefault("conn_max_lifetime", defaults.ConnMaxLifetime)
	v.SetDefault("conn_max_idle_time", defaults.ConnMaxIdleTime)
	v.SetDefault("health_check_interval", defaults.HealthCheckInterval)
	v.SetDefault("connect_timeout", defaults.ConnectTimeout)
	v.SetDefault("query_timeout", 30*time.Second)
	v.SetDefault("debug", false)
	v.SetDefault("user_id", "")
	v.SetDefault("database_url", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range v.AllKeys() {
		if value, ok := env[envPrefix+"_"+strings.ToUpper(key)]; ok && value != "" {
			v.Set(key, value)
		}
	}

	cfg := &Config{
		Pool: pool.Config{
			MaxOpenConns:        v.GetInt("max_open_conns"),
			MaxIdleConns:        v.GetInt("max_idle_conns"),
			ConnMaxLifetime:     v.GetDuration("conn_max_lifetime"),
			ConnMaxIdleTime:     v.GetDuration("conn_max_idle_time"),
			HealthCheckInterval: v.GetDuration("health_check_interval"),
			ConnectTimeout:      v.GetDuration("connect_timeout"),
		},
		QueryTimeout: v.GetDuration("query_timeout"),
		UserID:       v.GetString("user_id"),
		Debug:        v.GetBool("debug"),
		ConfigFile:   v.ConfigFileUsed(),
		env:          env,
	}

	switch {
	case env["DATABASE_URL"] != "":
		cfg.DatabaseURL, cfg.DatabaseURLSource = env["DATABASE_URL"], "DATABASE_URL"
	case env["NEON_DATABASE_URL"] != "":
		cfg.DatabaseURL, cfg.DatabaseURLSource = env["NEON_DATABASE_URL"], "NEON_DATABASE_URL"
	case env[envPrefix+"_DATABASE_URL"] != "":
		cfg.DatabaseURL, cfg.DatabaseURLSource = env[envPrefix+"_DATABASE_URL"], envPrefix+"_DATABASE_URL"
	case v.GetString("database_url") != "":
		cfg.DatabaseURL, cfg.DatabaseURLSource = v.GetString("database_url"), "config file"
	}

	return cfg, nil
}

func (l Loader) home() string {
	if l.Home != "" {
		return l.Home
	}
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return home
}

// layeredEnv merges .env, the process environment and .env.local, later
// sources overriding earlier ones. The process environment is not modified.
func layeredEnv(fs afero.Fs, dir string, environ []string) (map[string]string, error) {
	env, err := readDotenv(fs, filepath.Join(dir, ".env"))
	if err != nil {
		return nil, err
	}

	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}

	local, err := readDotenv(fs, filepath.Join(dir, ".env.local"))
	if err != nil {
		return nil, err
	}
	for key, value := range local {
		env[key] = value
	}

	return env, nil
}

func readDotenv(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	env, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return env, nil
}
