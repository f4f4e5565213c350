package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "SPY", cfg.Scan.BenchmarkTicker)
	assert.Equal(t, []string{"leading_stocks", "hot_stocks"}, cfg.Scan.Lists)
	assert.Equal(t, 180, cfg.Scan.LookbackDays)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, "https://stooq.com", cfg.MarketData.BarsBaseURL)
	assert.Equal(t, 30*time.Second, cfg.MarketData.RequestTimeout)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("BENCHMARK_TICKER", "QQQ")
	t.Setenv("SCAN_LISTS", "leading_stocks, custom_list ,")
	t.Setenv("SCAN_LOOKBACK_DAYS", "250")
	t.Setenv("MARKET_DATA_RPS", "0.5")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "QQQ", cfg.Scan.BenchmarkTicker)
	assert.Equal(t, []string{"leading_stocks", "custom_list"}, cfg.Scan.Lists)
	assert.Equal(t, 250, cfg.Scan.LookbackDays)
	assert.InDelta(t, 0.5, cfg.MarketData.RequestsPerSec, 1e-9)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_RejectsBadEnv(t *testing.T) {
	t.Setenv("ENV", "qa")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be one of")
}

func TestLoad_RejectsShortLookback(t *testing.T) {
	// 80 trading bars need well over 80 calendar days of history.
	t.Setenv("SCAN_LOOKBACK_DAYS", "90")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCAN_LOOKBACK_DAYS")
}

func TestGetEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("SCAN_WORKERS", "lots")
	t.Setenv("MARKET_DATA_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, 30*time.Second, cfg.MarketData.RequestTimeout)
}
