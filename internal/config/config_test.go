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

	assert.Equal(t, 5*time.Second, cfg.Render.PollInterval)
	assert.True(t, cfg.Render.StopOnTerminal)
	assert.Equal(t, "file", cfg.Render.UploadField)
	assert.Equal(t, "127.0.0.1:3000", cfg.Server.Addr())
	assert.Equal(t, OutputBackendLocal, cfg.Output.Backend)
	assert.Equal(t, 4, cfg.Output.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("RENDER_BASE_URL", "http://localhost:5000/")
	t.Setenv("RENDER_POLL_INTERVAL", "250ms")
	t.Setenv("RENDER_POLL_STOP_ON_TERMINAL", "false")
	t.Setenv("OUTPUT_BACKEND", "s3")
	t.Setenv("OUTPUT_CONCURRENCY", "0")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Render.PollInterval)
	assert.False(t, cfg.Render.StopOnTerminal)
	assert.Equal(t, OutputBackendS3, cfg.Output.Backend)
	assert.Equal(t, 1, cfg.Output.Concurrency)
	assert.True(t, cfg.S3.UseSSL)

	require.NoError(t, cfg.Render.Validate())
	assert.Equal(t, "http://localhost:5000", cfg.Render.BaseURL)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("OUTPUT_BACKEND", "ftp")

	_, err := Load()
	assert.Error(t, err)
}

func TestRenderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RenderConfig
		want    string
		wantErr bool
	}{
		{
			name: "trailing slash trimmed",
			cfg:  RenderConfig{BaseURL: "https://render.example.com/", PollInterval: time.Second},
			want: "https://render.example.com",
		},
		{
			name: "path prefix kept",
			cfg:  RenderConfig{BaseURL: "http://127.0.0.1:5000/api", PollInterval: time.Second},
			want: "http://127.0.0.1:5000/api",
		},
		{
			name:    "empty",
			cfg:     RenderConfig{PollInterval: time.Second},
			wantErr: true,
		},
		{
			name:    "bad scheme",
			cfg:     RenderConfig{BaseURL: "ftp://host", PollInterval: time.Second},
			wantErr: true,
		},
		{
			name:    "no host",
			cfg:     RenderConfig{BaseURL: "http://", PollInterval: time.Second},
			wantErr: true,
		},
		{
			name:    "zero interval",
			cfg:     RenderConfig{BaseURL: "http://host"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BaseURL)
		})
	}
}
