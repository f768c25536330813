package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

func envViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetEnvPrefix("REDSUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, registerDefaults(v, model.DefaultConfig()))
	return v
}

func TestRegisterDefaults_RoundTrip(t *testing.T) {
	v := envViper(t)

	cfg := &model.Config{}
	require.NoError(t, v.Unmarshal(cfg))

	want := model.DefaultConfig()
	assert.Equal(t, want.HTTP.Timeout, cfg.HTTP.Timeout)
	assert.Equal(t, want.Fetch.RetryDelay, cfg.Fetch.RetryDelay)
	assert.Equal(t, want.Geocode.RegionQualifiers, cfg.Geocode.RegionQualifiers)
	assert.Equal(t, want.Pipeline, cfg.Pipeline)
	assert.Equal(t, "wikitable", cfg.Extract.TableClass)
}

func TestRegisterDefaults_EnvOverrides(t *testing.T) {
	t.Setenv("REDSUB_PIPELINE_WORKERS", "9")
	t.Setenv("REDSUB_FETCH_REQUEST_DELAY", "2500ms")
	t.Setenv("REDSUB_GEOCODE_EMAIL", "ops@example.org")
	t.Setenv("REDSUB_STORE_MONGO_URI", "mongodb://localhost:27017")
	v := envViper(t)

	cfg := model.DefaultConfig()
	require.NoError(t, v.Unmarshal(cfg))

	assert.Equal(t, 9, cfg.Pipeline.Workers)
	assert.Equal(t, 2500*time.Millisecond, cfg.Fetch.RequestDelay)
	assert.Equal(t, "ops@example.org", cfg.Geocode.Email)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.MongoURI)
}

func TestFlatten(t *testing.T) {
	got := map[string]any{}
	flatten("", map[string]any{
		"a": map[string]any{"b": 1, "c": map[string]any{"d": "x"}},
		"e": true,
	}, func(k string, v any) { got[k] = v })

	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, got)
}
