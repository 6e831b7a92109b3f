package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable hitcurl reads.
const EnvPrefix = "HITCURL_"

// Config holds defaults for flags that are tedious to repeat. Pointer
// fields distinguish "unset" from the zero value so layers can be merged.
type Config struct {
	UserAgent       string         `yaml:"user_agent,omitempty" env:"USER_AGENT"`
	Region          string         `yaml:"region,omitempty" env:"REGION"`
	Service         string         `yaml:"service,omitempty" env:"SERVICE"`
	Auth            string         `yaml:"auth,omitempty" env:"AUTH"`
	AccessKey       string         `yaml:"access_key,omitempty" env:"ACCESS_KEY"`
	SecretKey       string         `yaml:"secret_key,omitempty" env:"SECRET_KEY"`
	Expires         *time.Duration `yaml:"expires,omitempty" env:"EXPIRES"`
	Timeout         *time.Duration `yaml:"timeout,omitempty" env:"TIMEOUT"`
	FollowRedirects *bool          `yaml:"follow_redirects,omitempty" env:"FOLLOW_REDIRECTS"`
	MaxRedirects    int            `yaml:"max_redirects,omitempty" env:"MAX_REDIRECTS"`
	Insecure        *bool          `yaml:"insecure,omitempty" env:"INSECURE"`
	Proxy           string         `yaml:"proxy,omitempty" env:"PROXY"`
	Pretty          *bool          `yaml:"pretty,omitempty" env:"PRETTY"`
	NoColor         *bool          `yaml:"no_color,omitempty" env:"NO_COLOR"`
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

func getDuration(d *time.Duration, defaultVal time.Duration) time.Duration {
	if d == nil {
		return defaultVal
	}
	return *d
}

// GetFollowRedirects returns the follow redirects setting, defaulting to false
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, false)
}

// GetInsecure returns the insecure setting, defaulting to false
func (c *Config) GetInsecure() bool {
	return getBool(c.Insecure, false)
}

// GetPretty returns the pretty setting, defaulting to false
func (c *Config) GetPretty() bool {
	return getBool(c.Pretty, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetTimeout returns the request timeout, defaulting to DefaultTimeout
func (c *Config) GetTimeout() time.Duration {
	return getDuration(c.Timeout, DefaultTimeout)
}

// GetExpires returns the signature lifetime, defaulting to DefaultExpires
func (c *Config) GetExpires() time.Duration {
	return getDuration(c.Expires, DefaultExpires)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitcurl.yaml",
	".hitcurl.yml",
}

// Load reads the config file and applies HITCURL_* environment variables
// on top. With an empty path the working directory and then the home
// directory are searched; finding nothing is not an error.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	fromEnv, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	return cfg.Merge(fromEnv), nil
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	cfg, found, err := FindAndLoadConfig(".")
	if err != nil || found {
		return cfg, err
	}

	if home, err := os.UserHomeDir(); err == nil {
		cfg, _, err = FindAndLoadConfig(home)
		return cfg, err
	}
	return DefaultConfig(), nil
}

// FindAndLoadConfig searches for a config file in the given directory.
// It returns the defaults and false when there is none.
func FindAndLoadConfig(dir string) (*Config, bool, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			cfg, err := loadConfigFromFile(configPath)
			return cfg, true, err
		}
	}

	return DefaultConfig(), false, nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrConfigUnreadable, err, "%s", path)
	}

	fromFile := &Config{}
	if err := yaml.Unmarshal(data, fromFile); err != nil {
		return nil, errs.Wrap(errs.ErrInvalidConfig, err, "%s", path)
	}

	return DefaultConfig().Merge(fromFile), nil
}

// LoadEnv reads HITCURL_* variables. Unset variables leave fields unset.
func LoadEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errs.Wrap(errs.ErrInvalidConfig, err, "%s* environment", EnvPrefix)
	}
	return cfg, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.UserAgent != "" {
		result.UserAgent = other.UserAgent
	}
	if other.Region != "" {
		result.Region = other.Region
	}
	if other.Service != "" {
		result.Service = other.Service
	}
	if other.Auth != "" {
		result.Auth = other.Auth
	}
	// Keys travel as a pair so a file and the environment never mix halves.
	if other.AccessKey != "" || other.SecretKey != "" {
		result.AccessKey = other.AccessKey
		result.SecretKey = other.SecretKey
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}

	// Pointer fields - only override if explicitly set in other config
	if other.Expires != nil {
		result.Expires = other.Expires
	}
	if other.Timeout != nil {
		result.Timeout = other.Timeout
	}
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.Insecure != nil {
		result.Insecure = other.Insecure
	}
	if other.Pretty != nil {
		result.Pretty = other.Pretty
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}
