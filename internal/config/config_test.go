package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwatch/timeclock-backend-go/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25, cfg.Database.MaxConns)
	assert.Equal(t, 5, cfg.Database.MinConns)
	assert.Equal(t, 6, cfg.WorkDay.CutoffHour)
	assert.Equal(t, "Europe/Paris", cfg.WorkDay.DefaultTimezone)
	assert.Equal(t, 5, cfg.Thresholds.MinSignificantMinutes)
}

func TestValidateRejectsBadPoolBounds(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "10")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
