package vpc

import (
	"context"
	"fmt"

	"grimm.is/vpcctl/internal/driver"
	"grimm.is/vpcctl/internal/validation"
)

// SetupNAT gives a VPC outbound connectivity through a host interface:
// global IP forwarding, a masquerade rule covering the VPC CIDR, and
// forward-accept rules between the bridge and the host interface with
// the return path restricted to established connections.
//
// Each side effect is best-effort: a failed step is logged and the rest
// still run. Repeated calls append duplicate rules.
func (m *Manager) SetupNAT(ctx context.Context, vpcName, subnetName, hostIface string) error {
	start := m.clk.Now()
	details := map[string]any{"interface": hostIface}
	return m.finish("setup-nat", vpcName+"/"+subnetName, start, details,
		m.setupNAT(ctx, vpcName, subnetName, hostIface))
}

func (m *Manager) setupNAT(ctx context.Context, vpcName, subnetName, hostIface string) error {
	if err := validation.ValidateInterfaceName(hostIface); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	unlock := m.locks.lock(vpcName)
	defer unlock()

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	rec, _, err := m.getSubnet(vpcName, subnetName)
	if err != nil {
		return err
	}
	log := m.log.WithFields(map[string]any{"vpc": vpcName, "subnet": subnetName})

	if err := m.driver.SetSysctl("net.ipv4.ip_forward", "1"); err != nil {
		log.Warn("enable ip forwarding failed, continuing", "error", err)
	}

	rules := []driver.FirewallRule{
		{
			Chain:        driver.ChainPostrouting,
			SourceCIDR:   rec.CIDR,
			OutInterface: hostIface,
			Verdict:      driver.VerdictMasquerade,
		},
		{
			Chain:        driver.ChainForward,
			InInterface:  rec.Bridge,
			OutInterface: hostIface,
			Verdict:      driver.VerdictAccept,
		},
		{
			Chain:        driver.ChainForward,
			InInterface:  hostIface,
			OutInterface: rec.Bridge,
			Established:  true,
			Verdict:      driver.VerdictAccept,
		},
	}
	for _, r := range rules {
		if err := m.checkCtx(ctx); err != nil {
			return err
		}
		if err := m.driver.AppendFirewallRule(r); err != nil {
			log.Warn("firewall rule append failed, continuing",
				"chain", r.Chain, "error", err)
		}
	}

	log.Info("NAT configured", "interface", hostIface, "cidr", rec.CIDR)
	return nil
}
