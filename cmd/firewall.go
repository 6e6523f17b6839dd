package cmd

import (
	"context"
	"fmt"
)

// RunApplyFirewall applies the packet-filter policy in a subnet's
// namespace, optionally extended with rules from a file.
func RunApplyFirewall(ctx context.Context, flags GlobalFlags, vpcName, subnetName, rulesFile string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		if err := r.manager.ApplyFirewall(ctx, vpcName, subnetName, rulesFile); err != nil {
			return err
		}
		fmt.Printf("Firewall applied to %s/%s\n", vpcName, subnetName)
		return nil
	})(ctx)
}
