package cmd

import (
	"context"
	"fmt"
)

// RunSetupNAT configures outbound NAT for a VPC through a host interface.
func RunSetupNAT(ctx context.Context, flags GlobalFlags, vpcName, subnetName, hostIface string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		iface := hostIface
		if iface == "" {
			iface = r.cfg.NAT.HostInterface
		}
		if err := r.manager.SetupNAT(ctx, vpcName, subnetName, iface); err != nil {
			return err
		}
		fmt.Printf("NAT configured for VPC %s via %s\n", vpcName, iface)
		return nil
	})(ctx)
}
