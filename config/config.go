// ABOUTME: Site configuration from flags, BLOCKSITE_* environment variables, and an optional blocksite.yaml.
// ABOUTME: A PORT variable switches the default bind to 0.0.0.0:$PORT for container deployments.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyRoot       = "root"
	KeyRoutesFile = "routes_file"
	KeyBind       = "bind"
	KeySiteTitle  = "site_title"
	KeyMetrics    = "metrics"
	KeyWatch      = "watch"
	KeyVerbose    = "verbose"
)

// EnvPrefix is prepended to every key when reading the environment.
const EnvPrefix = "BLOCKSITE"

// DefaultBind is the listen address when neither PORT nor bind is set.
const DefaultBind = "127.0.0.1:3000"

// Config is the resolved site configuration.
type Config struct {
	Root       string
	RoutesFile string
	Bind       string
	SiteTitle  string
	Metrics    bool
	Watch      bool
	Verbose    bool
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()

	bind := DefaultBind
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		bind = "0.0.0.0:" + port
	}

	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyRoutesFile, "data/routes.json")
	v.SetDefault(KeyBind, bind)
	v.SetDefault(KeySiteTitle, "Eng Manager")
	v.SetDefault(KeyMetrics, true)
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (configFile, or blocksite.yaml in the working
// directory or UserConfigDir when empty) into v and returns the resolved values. A missing
// default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("blocksite")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := UserConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Root:       v.GetString(KeyRoot),
		RoutesFile: v.GetString(KeyRoutesFile),
		Bind:       v.GetString(KeyBind),
		SiteTitle:  v.GetString(KeySiteTitle),
		Metrics:    v.GetBool(KeyMetrics),
		Watch:      v.GetBool(KeyWatch),
		Verbose:    v.GetBool(KeyVerbose),
	}
	if _, _, err := net.SplitHostPort(cfg.Bind); err != nil {
		return Config{}, fmt.Errorf("invalid bind address %q: %w", cfg.Bind, err)
	}
	return cfg, nil
}

// UserConfigDir returns the per-user config directory. It checks
// XDG_CONFIG_HOME first, then falls back to ~/.config/blocksite.
func UserConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "blocksite"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", "blocksite"), nil
}

// LoadDotEnv loads KEY=VALUE pairs from each existing file without
// overwriting variables already in the environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// IsLoopback reports whether bind only accepts local connections. Only
// 127.0.0.0/8, ::1 and "localhost" count; an empty host listens everywhere.
func IsLoopback(bind string) bool {
	host, _, err := net.SplitHostPort(bind)
	if err != nil || host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
