package vpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRuleFileYAML(t *testing.T) {
	path := writeRules(t, "rules.yaml", `
ingress:
  - port: 443
  - port: 53
    protocol: udp
    action: allow
  - port: 23
    action: deny
`)
	rf, err := LoadRuleFile(path)
	require.NoError(t, err)
	require.Len(t, rf.Ingress, 3)

	// Defaults filled in.
	assert.Equal(t, IngressRule{Port: 443, Protocol: "tcp", Action: "allow"}, rf.Ingress[0])
	assert.Equal(t, IngressRule{Port: 53, Protocol: "udp", Action: "allow"}, rf.Ingress[1])
	assert.Equal(t, IngressRule{Port: 23, Protocol: "tcp", Action: "deny"}, rf.Ingress[2])
}

func TestLoadRuleFileJSON(t *testing.T) {
	path := writeRules(t, "rules.json", `{
  "ingress": [
    {"port": 8443, "protocol": "tcp", "action": "allow"}
  ]
}`)
	rf, err := LoadRuleFile(path)
	require.NoError(t, err)
	require.Len(t, rf.Ingress, 1)
	assert.Equal(t, 8443, rf.Ingress[0].Port)
}

func TestLoadRuleFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad-port", "ingress:\n  - port: 70000\n"},
		{"zero-port", "ingress:\n  - port: 0\n"},
		{"bad-protocol", "ingress:\n  - port: 80\n    protocol: icmp\n"},
		{"bad-action", "ingress:\n  - port: 80\n    action: reject\n"},
		{"not-yaml", "{{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRules(t, "rules.yaml", tt.content)
			_, err := LoadRuleFile(path)
			assert.ErrorIs(t, err, ErrRuleFile)
		})
	}
}

func TestLoadRuleFileMissing(t *testing.T) {
	_, err := LoadRuleFile("/does/not/exist.yaml")
	assert.ErrorIs(t, err, ErrRuleFile)
}

func TestLoadRuleFileEmptyIngress(t *testing.T) {
	path := writeRules(t, "rules.yaml", "ingress: []\n")
	rf, err := LoadRuleFile(path)
	require.NoError(t, err)
	assert.Empty(t, rf.Ingress)
}
