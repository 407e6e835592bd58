package config

import (
	"testing"
	"time"

	v "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()

	v.Reset()
	setDefaults()
	v.Set("security.jwt_secret", "test-secret")
	t.Cleanup(v.Reset)
}

func TestDefaultsAreValid(t *testing.T) {
	reset(t)

	require.NoError(t, validate())
	assert.Equal(t, 8080, v.GetInt("host.port"))
	assert.Equal(t, time.Hour, v.GetDuration("security.reset_token_ttl"))
	assert.Equal(t, "argon2id", v.GetString("security.hash_algorithm"))
	assert.Equal(t, "http://localhost:8080/reset-password.html", v.GetString("mail.reset_url"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"log level", "app.log_level", "verbose"},
		{"port", "host.port", 0},
		{"driver", "database.driver", "mysql"},
		{"hash", "security.hash_algorithm", "md5"},
		{"rate limit", "security.rate_limit", -1},
		{"reset ttl", "security.reset_token_ttl", "0s"},
		{"cache type", "cache.type", "memcached"},
		{"ssl without cert", "host.ssl.enabled", true},
		{"mail without host", "mail.enabled", true},
		{"turnstile without secret", "turnstile.enabled", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset(t)
			v.Set(tt.key, tt.val)

			assert.Error(t, validate())
		})
	}
}

func TestValidateMissingSecret(t *testing.T) {
	reset(t)
	v.Set("security.jwt_secret", "")

	assert.ErrorIs(t, validate(), errMissingSecret)
}

func TestGenSecret(t *testing.T) {
	a, b := genSecret(), genSecret()

	assert.Len(t, a, 128)
	assert.NotEqual(t, a, b)
}
