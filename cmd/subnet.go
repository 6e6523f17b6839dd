package cmd

import (
	"context"
	"fmt"
)

// RunCreateSubnet provisions a subnet inside an existing VPC.
func RunCreateSubnet(ctx context.Context, flags GlobalFlags, vpcName, name, cidr, subnetType string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		if err := r.manager.CreateSubnet(ctx, vpcName, name, cidr, subnetType); err != nil {
			return err
		}
		fmt.Printf("Subnet %s created in VPC %s (%s, %s)\n", name, vpcName, cidr, subnetType)
		return nil
	})(ctx)
}

// RunDeleteSubnet removes a subnet and its namespace.
func RunDeleteSubnet(ctx context.Context, flags GlobalFlags, vpcName, name string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		if err := r.manager.DeleteSubnet(ctx, vpcName, name); err != nil {
			return err
		}
		fmt.Printf("Subnet %s deleted from VPC %s\n", name, vpcName)
		return nil
	})(ctx)
}
