package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ADDR", "STORE", "SUBMIT_DELAY", "LOCATION_INTERVAL", "NOTIFICATION_TTL", "MAX_UPLOAD_BYTES", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	env := LoadEnv()

	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, StoreMySQL, env.Store)
	assert.Equal(t, 2*time.Second, env.SubmitDelay)
	assert.Equal(t, 10*time.Second, env.LocationInterval)
	assert.Equal(t, 5*time.Second, env.NotificationTTL)
	assert.Equal(t, int64(5<<20), env.MaxUploadBytes)
	assert.Empty(t, env.CORSAllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("STORE", "Memory")
	t.Setenv("SUBMIT_DELAY", "250ms")
	t.Setenv("LOCATION_INTERVAL", "bogus")
	t.Setenv("MAX_UPLOAD_BYTES", "-1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	env := LoadEnv()

	assert.Equal(t, ":9090", env.AppAddr)
	assert.Equal(t, StoreMemory, env.Store)
	assert.Equal(t, 250*time.Millisecond, env.SubmitDelay)
	assert.Equal(t, 10*time.Second, env.LocationInterval, "invalid duration falls back")
	assert.Equal(t, int64(5<<20), env.MaxUploadBytes, "non-positive size falls back")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, env.CORSAllowedOrigins)
}
