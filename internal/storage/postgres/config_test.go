package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"player-profiles/internal/storage"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"missing host", Config{Database: "d", Username: "u"}, "PostgreSQL host is required"},
		{"missing database", Config{Host: "h", Username: "u"}, "PostgreSQL database name is required"},
		{"missing user", Config{Host: "h", Database: "d"}, "PostgreSQL username is required"},
		{"valid", Config{Host: "h", Database: "d", Username: "u"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 5432, tt.config.Port)
			assert.Equal(t, "prefer", tt.config.SSLMode)
		})
	}
}

func TestConfig_ConnectionStringRoundTrip(t *testing.T) {
	cfg := &Config{Host: "db", Port: 6543, Database: "players", Username: "svc", Password: "p@ss", SSLMode: "disable"}

	parsed, err := NewConfigFromURL(cfg.GetConnectionString())
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestConfigFrom(t *testing.T) {
	cfg, err := configFrom(storage.GenericConfig{"connection_string": "postgres://u:p@host/db?sslmode=require"})
	require.NoError(t, err)
	assert.Equal(t, "host", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "db", cfg.Database)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, "p", cfg.Password)
	assert.Equal(t, "require", cfg.SSLMode)

	_, err = configFrom(storage.GenericConfig{"connection_string": "mysql://x"})
	assert.Error(t, err)
}
