package config

import "time"

const (
	DefaultTimeout      = 30 * time.Second
	DefaultExpires      = time.Hour
	DefaultMaxRedirects = 10
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		MaxRedirects: DefaultMaxRedirects,
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.UserAgent == defaults.UserAgent &&
		c.Region == defaults.Region &&
		c.Service == defaults.Service &&
		c.Auth == defaults.Auth &&
		c.AccessKey == defaults.AccessKey &&
		c.SecretKey == defaults.SecretKey &&
		c.Expires == nil &&
		c.Timeout == nil &&
		c.FollowRedirects == nil &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.Insecure == nil &&
		c.Proxy == defaults.Proxy &&
		c.Pretty == nil &&
		c.NoColor == nil
}
