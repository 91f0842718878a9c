package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 25, cfg.MaxQueries)
	assert.Equal(t, 3600.0, cfg.SessionTimeoutSeconds)
}

func TestValidate_CorrectsNonsenseValues(t *testing.T) {
	cfg := Config{MaxQueries: -1, SessionTimeoutSeconds: 0}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 25, cfg.MaxQueries)
	assert.Equal(t, 3600.0, cfg.SessionTimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := Config{API: APIConfig{Port: 70000}}
	err := cfg.Validate()
	assert.Error(t, err)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	yamlBody := []byte(`
max_queries: 5
skip_all_auth: true
skip_addl:
  - 203.0.113.9
listen:
  udp_addr: "127.0.0.1:5353"
`)
	require.NoError(t, os.WriteFile(path, yamlBody, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxQueries)
	assert.True(t, cfg.SkipAllAuth)
	assert.Equal(t, "127.0.0.1:5353", cfg.Listen.UDPAddr)
	assert.True(t, cfg.SkipAddlResponder("203.0.113.9"))
	assert.False(t, cfg.SkipAddlResponder("203.0.113.10"))
}

func TestLoad_YAMLTCPUpstreamAddrOptional(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	yamlBody := []byte(`
listen:
  tcp_addr: "127.0.0.1:5300"
  tcp_upstream_addr: "127.0.0.1:53"
`)
	require.NoError(t, os.WriteFile(path, yamlBody, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:53", cfg.Listen.TCPUpstreamAddr)

	cfg2 := Default()
	assert.Empty(t, cfg2.Listen.TCPUpstreamAddr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/policy.yaml")
	assert.Error(t, err)
}

func TestSessionTimeout_ConvertsSecondsToDuration(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "1h0m0s", cfg.SessionTimeout().String())
}
