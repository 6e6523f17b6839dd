package cmd

import (
	"context"
	"fmt"
)

// RunCreateVPC creates a VPC and its bridge.
func RunCreateVPC(ctx context.Context, flags GlobalFlags, name, cidr string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		if err := r.manager.CreateVPC(ctx, name, cidr); err != nil {
			return err
		}
		fmt.Printf("VPC %s created (%s)\n", name, cidr)
		return nil
	})(ctx)
}

// RunDeleteVPC tears down a VPC, its subnets, and its bridge.
func RunDeleteVPC(ctx context.Context, flags GlobalFlags, name string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		if err := r.manager.DeleteVPC(ctx, name); err != nil {
			return err
		}
		fmt.Printf("VPC %s deleted\n", name)
		return nil
	})(ctx)
}
