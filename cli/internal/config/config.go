// ABOUTME: CLI configuration backed by viper: flags, environment, and config file
// ABOUTME: Persists the API token under the XDG config directory

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName = "visionary"

	// DefaultAPIURL is the gateway used when nothing else is configured.
	DefaultAPIURL = "http://localhost:8080"

	KeyAPIURL = "api_url"
	KeyToken  = "token"
	KeyWebURL = "web_url"
	KeyDebug  = "debug"
)

// Dir returns the config directory under XDG_CONFIG_HOME or ~/.config.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// Config resolves settings in order: explicit overrides (flags), VISIONARY_*
// environment variables, the config file, then defaults.
type Config struct {
	v   *viper.Viper
	dir string
}

// Load reads config.yaml from dir if present. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VISIONARY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyWebURL, "")
	v.SetDefault(KeyDebug, false)

	if dir != "" {
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}
	return &Config{v: v, dir: dir}, nil
}

// Viper exposes the underlying instance for flag binding.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// APIURL is the gateway base URL without a trailing slash.
func (c *Config) APIURL() string {
	return strings.TrimRight(ensureScheme(strings.TrimSpace(c.v.GetString(KeyAPIURL))), "/")
}

// WebURL is the origin share links point at; it defaults to the gateway.
func (c *Config) WebURL() string {
	if web := strings.TrimSpace(c.v.GetString(KeyWebURL)); web != "" {
		return strings.TrimRight(ensureScheme(web), "/")
	}
	return c.APIURL()
}

// Token is the stored API token, or empty when signed out.
func (c *Config) Token() string {
	return strings.TrimSpace(c.v.GetString(KeyToken))
}

// Debug reports whether TUI debug logging is on.
func (c *Config) Debug() bool {
	return c.v.GetBool(KeyDebug)
}

// Dir is where the config file and debug log live.
func (c *Config) Dir() string {
	return c.dir
}

// File is the config file path.
func (c *Config) File() string {
	return filepath.Join(c.dir, "config.yaml")
}

// SaveToken writes token to the config file, readable only by the user.
// An empty token signs the CLI out.
func (c *Config) SaveToken(token string) error {
	if c.dir == "" {
		return errors.New("no config directory available")
	}
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Only persist what the user configured, not env or flag overrides.
	file := viper.New()
	file.SetConfigFile(c.File())
	if _, err := os.Stat(c.File()); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	file.Set(KeyToken, token)
	if err := file.WriteConfigAs(c.File()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Chmod(c.File(), 0600); err != nil {
		return fmt.Errorf("securing config: %w", err)
	}

	c.v.Set(KeyToken, token)
	return nil
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
