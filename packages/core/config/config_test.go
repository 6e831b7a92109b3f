package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitcurl/packages/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func durationPtr(d time.Duration) *time.Duration { return &d }

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".hitcurl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IsDefault())
	assert.Equal(t, DefaultTimeout, cfg.GetTimeout())
	assert.Equal(t, time.Hour, cfg.GetExpires())
	assert.False(t, cfg.GetFollowRedirects())
	assert.False(t, cfg.GetInsecure())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
user_agent: hitcurl-test
region: eu-west-1
service: execute-api
auth: sigv4
access_key: AK
secret_key: SK
expires: 15m
timeout: 5s
follow_redirects: true
insecure: true
proxy: http://proxy.local:3128
pretty: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "hitcurl-test", cfg.UserAgent)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "execute-api", cfg.Service)
	assert.Equal(t, "sigv4", cfg.Auth)
	assert.Equal(t, "AK", cfg.AccessKey)
	assert.Equal(t, "SK", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.GetExpires())
	assert.Equal(t, 5*time.Second, cfg.GetTimeout())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetInsecure())
	assert.True(t, cfg.GetPretty())
	assert.Equal(t, "http://proxy.local:3128", cfg.Proxy)
	assert.Equal(t, DefaultMaxRedirects, cfg.MaxRedirects)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConfigUnreadable))
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "timeout: [not, a, duration]\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidConfig))
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		cfg, found, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.False(t, found)
		assert.True(t, cfg.IsDefault())
	})

	t.Run("yml extension", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hitcurl.yml"), []byte("region: ap-south-1\n"), 0644))

		cfg, found, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "ap-south-1", cfg.Region)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("HITCURL_REGION", "us-west-2")
	t.Setenv("HITCURL_TIMEOUT", "2s")
	t.Setenv("HITCURL_INSECURE", "true")

	cfg, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, 2*time.Second, cfg.GetTimeout())
	assert.True(t, cfg.GetInsecure())
	assert.Nil(t, cfg.FollowRedirects)
}

func TestLoadEnv_Invalid(t *testing.T) {
	t.Setenv("HITCURL_TIMEOUT", "soon")

	_, err := LoadEnv()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidConfig))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "region: eu-west-1\nservice: s3\naccess_key: FILEAK\nsecret_key: FILESK\n")
	t.Setenv("HITCURL_REGION", "us-east-2")
	t.Setenv("HITCURL_ACCESS_KEY", "ENVAK")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "us-east-2", cfg.Region)
	assert.Equal(t, "s3", cfg.Service)
	// keys are taken as a pair from the higher layer
	assert.Equal(t, "ENVAK", cfg.AccessKey)
	assert.Empty(t, cfg.SecretKey)
}

func TestMerge(t *testing.T) {
	base := &Config{
		Region:          "eu-west-1",
		FollowRedirects: boolPtr(true),
		Timeout:         durationPtr(time.Second),
		MaxRedirects:    10,
	}
	other := &Config{
		Region:          "us-east-1",
		FollowRedirects: boolPtr(false),
	}

	merged := base.Merge(other)

	assert.Equal(t, "us-east-1", merged.Region)
	assert.False(t, merged.GetFollowRedirects())
	assert.Equal(t, time.Second, merged.GetTimeout())
	assert.Equal(t, 10, merged.MaxRedirects)
	assert.Equal(t, "eu-west-1", base.Region)
	assert.Same(t, base, base.Merge(nil))
}
