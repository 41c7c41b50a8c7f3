// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "descry", cfg.Logger.ServiceName)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, time.Second, cfg.Browser.PostLoadWait)
	assert.True(t, cfg.Output.Pretty)
	assert.True(t, cfg.Output.EmitCode)
	assert.Empty(t, cfg.Output.Path)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("logger.format", "json")
	v.Set("browser.headless", false)
	v.Set("browser.navigation_timeout", "90s")
	v.Set("output.path", "out.json")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Logger.Format)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 90*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, "out.json", cfg.Output.Path)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"unknown logger format",
			func(c *Config) { c.Logger.Format = "xml" },
			"logger.format",
		},
		{
			"negative navigation timeout",
			func(c *Config) { c.Browser.NavigationTimeout = -time.Second },
			"navigation_timeout",
		},
		{
			"negative post-load wait",
			func(c *Config) { c.Browser.PostLoadWait = -time.Second },
			"post_load_wait",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(viper.New())
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
