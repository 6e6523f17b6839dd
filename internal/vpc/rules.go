package vpc

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// IngressRule is one entry of a firewall rules file.
type IngressRule struct {
	Port     int    `json:"port" yaml:"port"`
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"` // default tcp
	Action   string `json:"action,omitempty" yaml:"action,omitempty"`     // allow or deny, default allow
}

// RuleFile is the external firewall policy document.
type RuleFile struct {
	Ingress []IngressRule `json:"ingress" yaml:"ingress"`
}

// LoadRuleFile reads and validates a rules file. YAML is assumed unless
// the filename ends in .json. Defaults are filled in: protocol tcp,
// action allow. Any read, parse, or validation failure is ErrRuleFile.
func LoadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuleFile, err)
	}

	rf := &RuleFile{}
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, rf)
	} else {
		err = yaml.Unmarshal(data, rf)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrRuleFile, path, err)
	}

	for i := range rf.Ingress {
		r := &rf.Ingress[i]
		if r.Protocol == "" {
			r.Protocol = "tcp"
		}
		if r.Action == "" {
			r.Action = "allow"
		}
		if r.Port < 1 || r.Port > 65535 {
			return nil, fmt.Errorf("%w: ingress[%d]: port %d out of range", ErrRuleFile, i, r.Port)
		}
		if r.Protocol != "tcp" && r.Protocol != "udp" {
			return nil, fmt.Errorf("%w: ingress[%d]: unknown protocol %q", ErrRuleFile, i, r.Protocol)
		}
		if r.Action != "allow" && r.Action != "deny" {
			return nil, fmt.Errorf("%w: ingress[%d]: unknown action %q", ErrRuleFile, i, r.Action)
		}
	}
	return rf, nil
}
