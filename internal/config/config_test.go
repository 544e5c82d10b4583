package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truenorthpos/pricing-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":                  "",
		"PORT":                     "",
		"PRICING_DEFAULT_PROVINCE": "",
		"PRICING_DEFAULT_TIER":     "",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "ON", cfg.DefaultProvince)
	require.Equal(t, "retail", cfg.DefaultTier)
	require.Equal(t, 500, cfg.MaxOrderLines)
	require.True(t, cfg.SecurityHeaders)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"PORT":                     "9090",
		"PRICING_DEFAULT_PROVINCE": "qc",
		"PRICING_DEFAULT_TIER":     "Wholesale",
		"PRICING_MAX_ORDER_LINES":  "50",
		"CORS_ALLOWED_ORIGINS":     "https://pos.example.com, https://admin.example.com",
		"SECURE_HEADERS_ENABLED":   "false",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "QC", cfg.DefaultProvince)
	require.Equal(t, "wholesale", cfg.DefaultTier)
	require.Equal(t, 50, cfg.MaxOrderLines)
	require.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	require.False(t, cfg.SecurityHeaders)
}
