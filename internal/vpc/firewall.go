package vpc

import (
	"context"

	"grimm.is/vpcctl/internal/driver"
)

// ApplyFirewall installs the packet-filter policy in a subnet's
// namespace. The previous policy is flushed first, because rule appends
// accumulate. Order: default-deny policies, allow established inbound,
// allow loopback, then the optional rules file, then the fixed SSH and
// HTTP allows.
//
// A rules file that cannot be read or parsed aborts the operation with
// ErrRuleFile; rules already applied at that point stay in place.
func (m *Manager) ApplyFirewall(ctx context.Context, vpcName, subnetName, rulesFile string) error {
	start := m.clk.Now()
	details := map[string]any{}
	if rulesFile != "" {
		details["rules_file"] = rulesFile
	}
	return m.finish("apply-firewall", vpcName+"/"+subnetName, start, details,
		m.applyFirewall(ctx, vpcName, subnetName, rulesFile))
}

func (m *Manager) applyFirewall(ctx context.Context, vpcName, subnetName, rulesFile string) error {
	unlock := m.locks.lock(vpcName)
	defer unlock()

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	_, sn, err := m.getSubnet(vpcName, subnetName)
	if err != nil {
		return err
	}
	ns := sn.Namespace
	log := m.log.WithFields(map[string]any{"vpc": vpcName, "subnet": subnetName})

	if err := m.driver.FlushFirewallRules(ns); err != nil {
		log.Warn("firewall flush failed, continuing", "error", err)
	}

	policy := driver.FilterPolicy{
		Input:   driver.VerdictDrop,
		Forward: driver.VerdictDrop,
		Output:  driver.VerdictAccept,
	}
	if err := m.driver.SetFilterPolicy(ns, policy); err != nil {
		log.Warn("set filter policy failed, continuing", "error", err)
	}

	base := []driver.FirewallRule{
		{Namespace: ns, Chain: driver.ChainInput, Established: true, Verdict: driver.VerdictAccept},
		{Namespace: ns, Chain: driver.ChainInput, InInterface: "lo", Verdict: driver.VerdictAccept},
	}
	for _, r := range base {
		if err := m.driver.AppendFirewallRule(r); err != nil {
			log.Warn("firewall rule append failed, continuing", "error", err)
		}
	}

	if rulesFile != "" {
		rf, err := LoadRuleFile(rulesFile)
		if err != nil {
			return err
		}
		for _, ir := range rf.Ingress {
			verdict := driver.VerdictAccept
			if ir.Action == "deny" {
				verdict = driver.VerdictDrop
			}
			rule := driver.FirewallRule{
				Namespace: ns,
				Chain:     driver.ChainInput,
				Protocol:  ir.Protocol,
				DestPort:  uint16(ir.Port),
				Verdict:   verdict,
			}
			if err := m.driver.AppendFirewallRule(rule); err != nil {
				log.Warn("ingress rule append failed, continuing",
					"port", ir.Port, "error", err)
			}
		}
	}

	if err := m.checkCtx(ctx); err != nil {
		return err
	}

	// SSH and HTTP are always allowed last, regardless of the custom
	// policy above.
	for _, port := range []uint16{22, 80} {
		rule := driver.FirewallRule{
			Namespace: ns,
			Chain:     driver.ChainInput,
			Protocol:  "tcp",
			DestPort:  port,
			Verdict:   driver.VerdictAccept,
		}
		if err := m.driver.AppendFirewallRule(rule); err != nil {
			log.Warn("default allow append failed, continuing", "port", port, "error", err)
		}
	}

	log.Info("firewall applied", "namespace", ns)
	return nil
}
