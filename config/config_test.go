package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "inmemory", cfg.StorageMode)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "iambic", cfg.Mongo.DBName)
	assert.False(t, cfg.LogJSON)
}

func TestLoad_StorageModes(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"sqlite", map[string]string{"STORAGE_MODE": "sqlite"}, false},
		{"mongo", map[string]string{"STORAGE_MODE": "mongo", "MONGO_URL": "mongodb://db:27017"}, false},
		{"mongo without url", map[string]string{"STORAGE_MODE": "mongo"}, true},
		{"cached without redis", map[string]string{"STORAGE_MODE": "cached", "MONGO_URL": "mongodb://db:27017"}, true},
		{"cached", map[string]string{"STORAGE_MODE": "cached", "MONGO_URL": "mongodb://db:27017", "REDIS_URL": "redis:6379"}, false},
		{"unknown", map[string]string{"STORAGE_MODE": "floppy"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Origins(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ALLOWED_ORIGINS": "http://a.example,http://b.example",
		"LOG_JSON":        "true",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.LogJSON)
}

func TestMustLoadComposer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "composer.yaml")
	body := []byte("base_url: http://api:8080\nerror_display: 5s\nvalidate_debounce: 400ms\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg := MustLoadComposer(path)
	assert.Equal(t, "http://api:8080", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.ErrorDisplay)
	assert.Equal(t, 400*time.Millisecond, cfg.ValidateDebounce)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout, "unset keys keep defaults")
}

func TestMustLoadComposer_Defaults(t *testing.T) {
	cfg := MustLoadComposer("")
	assert.Equal(t, 3*time.Second, cfg.ErrorDisplay)
	assert.Zero(t, cfg.ValidateDebounce)
}

func TestMustLoadComposer_Missing(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadComposer(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
