package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100.0, cfg.SalaryCap)
	assert.Equal(t, 4, cfg.MaxTeamGolfers)
	assert.Equal(t, 2, cfg.MaxBenchGolfers)
	assert.Equal(t, 4, cfg.RoundsPerEvent)
	assert.Equal(t, 500.0, cfg.SalaryDivisor)
	assert.Equal(t, 10*time.Second, cfg.ExternalAPITimeout)
	assert.False(t, cfg.EnableBackgroundJobs)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SALARY_CAP", "120")
	t.Setenv("ENV", "production")
	t.Setenv("ENABLE_BACKGROUND_JOBS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 120.0, cfg.SalaryCap)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.EnableBackgroundJobs)
	assert.Equal(t, 120.0, cfg.RosterRules().SalaryCap)
}

func TestConfig_Validate(t *testing.T) {
	base := Config{SalaryCap: 100, MaxTeamGolfers: 4, MaxBenchGolfers: 2, RoundsPerEvent: 4, SalaryDivisor: 500}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero cap", func(c *Config) { c.SalaryCap = 0 }},
		{"no team seats", func(c *Config) { c.MaxTeamGolfers = 0 }},
		{"negative bench", func(c *Config) { c.MaxBenchGolfers = -1 }},
		{"no rounds", func(c *Config) { c.RoundsPerEvent = 0 }},
		{"zero divisor", func(c *Config) { c.SalaryDivisor = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultRosterRules(t *testing.T) {
	rules := DefaultRosterRules()
	assert.Equal(t, RosterRules{SalaryCap: 100, MaxActive: 4, MaxBench: 2, RoundsPerEvent: 4}, rules)
}
