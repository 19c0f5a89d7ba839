package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facade.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.False(t, cfg.GRPC.Enabled)
}

func TestLoadYAMLKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: "127.0.0.1:9000"
  readTimeout: 3s
grpc:
  enabled: true
  addr: "vsock://5000"
rateLimit:
  enabled: true
  rps: 5
  burst: 10
cors:
  allowedOrigins: ["https://app.example"]
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	require.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, Default().HTTP.WriteTimeout, cfg.HTTP.WriteTimeout)
	require.True(t, cfg.GRPC.Enabled)
	require.Equal(t, "vsock://5000", cfg.GRPC.Addr)
	require.Equal(t, 5.0, cfg.RateLimit.RPS)
	require.Equal(t, []string{"https://app.example"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "http:\n  addr: \":7000\"\n")
	t.Setenv("FACADE_HTTP_ADDR", ":7100")
	t.Setenv("FACADE_GRPC_ENABLED", "true")
	t.Setenv("FACADE_RATE_LIMIT_BURST", "7")
	t.Setenv("FACADE_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("FACADE_SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7100", cfg.HTTP.Addr)
	require.True(t, cfg.GRPC.Enabled)
	require.Equal(t, 7, cfg.RateLimit.Burst)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, Default().ShutdownTimeout, cfg.ShutdownTimeout)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "http: [1, 2"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "log:\n  format: xml\n"))
	require.ErrorContains(t, err, "log.format")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Addr = ""
	cfg.GRPC.Enabled = true
	cfg.GRPC.Addr = ""
	cfg.Metrics.Path = "metrics"
	err := cfg.Validate()
	require.ErrorContains(t, err, "http.addr")
	require.ErrorContains(t, err, "grpc.addr")
	require.ErrorContains(t, err, "metrics.path")
}
