package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
forecast:
  base_url: http://forecast.local
`

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.True(t, c.Server.CORS)
	assert.Equal(t, 30*time.Second, c.Forecast.Timeout)
	assert.Equal(t, SupersedeLatestSubmit, c.Dashboard.SupersedePolicy)
	assert.Empty(t, c.Dashboard.Countries)
	assert.Equal(t, "memory", c.RateLimit.Backend)
	assert.Equal(t, -1, c.Events.RequiredAcks)
	assert.False(t, c.Events.Enabled)
}

func TestParseExplicitFalseWins(t *testing.T) {
	c, err := Parse([]byte(minimalYAML + `
server:
  cors: false
rate_limit:
  enabled: false
`))
	require.NoError(t, err)
	assert.False(t, c.Server.CORS)
	assert.False(t, c.RateLimit.Enabled)
}

func TestParseInvalid(t *testing.T) {
	testData := map[string]struct {
		yaml string
		msg  string
	}{
		"missing base url": {
			"environment: test\n",
			"forecast.base_url is required",
		},
		"unknown supersede policy": {
			minimalYAML + "dashboard:\n  supersede_policy: newest\n",
			"dashboard.supersede_policy",
		},
		"negative max horizon": {
			minimalYAML + "dashboard:\n  max_horizon_months: -1\n",
			"max_horizon_months",
		},
		"unknown rate limit backend": {
			minimalYAML + "rate_limit:\n  backend: memcached\n",
			"rate_limit.backend",
		},
		"events without brokers": {
			minimalYAML + "events:\n  enabled: true\n",
			"events.brokers",
		},
		"malformed yaml": {
			"forecast: [",
			"parse config",
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(td.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), td.msg)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	env := map[string]string{
		"FORECAST_SERVICE_URL": "https://forecast.example.com",
		"COUNTRIES":            "France, Japan,,UK",
		"SUPERSEDE_POLICY":     SupersedeLastSettled,
		"HTTP_PORT":            "9090",
		"KAFKA_BROKERS":        "k1:9092,k2:9092",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	require.NoError(t, c.ApplyEnv(lookup))

	assert.Equal(t, "https://forecast.example.com", c.Forecast.BaseURL)
	assert.Equal(t, []string{"France", "Japan", "UK"}, c.Dashboard.Countries)
	assert.Equal(t, SupersedeLastSettled, c.Dashboard.SupersedePolicy)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Events.Brokers)
}

func TestApplyEnvWildcardCountries(t *testing.T) {
	c, err := Parse([]byte(minimalYAML + "dashboard:\n  countries: [France]\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"France"}, c.Dashboard.Countries)

	err = c.ApplyEnv(func(k string) (string, bool) {
		if k == "COUNTRIES" {
			return "*", true
		}
		return "", false
	})
	require.NoError(t, err)
	assert.Nil(t, c.Dashboard.Countries)
}

func TestApplyEnvBadPort(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	err = c.ApplyEnv(func(k string) (string, bool) {
		if k == "HTTP_PORT" {
			return "eighty", true
		}
		return "", false
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
}
