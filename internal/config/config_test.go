package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.StateDir)
	assert.Equal(t, "eth0", cfg.NAT.HostInterface)
	assert.Equal(t, "info", cfg.Log.Level)

	d, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestLoadHCL(t *testing.T) {
	hclContent := `
state_dir = "/tmp/vpcctl-test"
op_timeout = "10s"
metrics_textfile = "/var/lib/node_exporter/vpcctl.prom"

log {
  level = "debug"
  json  = true
}

nat {
  host_interface = "enp1s0"
}

audit {
  path           = "/tmp/vpcctl-test/audit.db"
  retention_days = 7
}
`
	cfg, err := LoadBytes("test.hcl", []byte(hclContent))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vpcctl-test", cfg.StateDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "enp1s0", cfg.NAT.HostInterface)
	assert.Equal(t, 7, cfg.Audit.RetentionDays)
	assert.Equal(t, "/var/lib/node_exporter/vpcctl.prom", cfg.MetricsTextfile)

	d, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}

func TestLoadJSON(t *testing.T) {
	jsonContent := `{
  "state_dir": "/tmp/vpcctl-json",
  "nat": {"host_interface": "wan0"}
}`
	cfg, err := LoadBytes("test.json", []byte(jsonContent))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vpcctl-json", cfg.StateDir)
	assert.Equal(t, "wan0", cfg.NAT.HostInterface)
	// Untouched fields keep defaults.
	assert.Equal(t, "30s", cfg.OpTimeout)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadBytes("test.hcl", []byte(`op_timeout = "1m"`))
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.NAT.HostInterface)
	d, err := cfg.Timeout()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
}

func TestLoadBadTimeout(t *testing.T) {
	_, err := LoadBytes("test.hcl", []byte(`op_timeout = "soon"`))
	assert.Error(t, err)
}

func TestLoadBadHCL(t *testing.T) {
	_, err := LoadBytes("test.hcl", []byte(`state_dir = `))
	assert.Error(t, err)
}
