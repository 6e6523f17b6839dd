package cmd

import (
	"context"
	"fmt"
)

// RunCheck compares the inventory against actual kernel state and prints
// the drift as a unified diff. A drifted host exits nonzero so the
// command is usable from monitoring scripts.
func RunCheck(ctx context.Context, flags GlobalFlags, vpcName string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		report, err := r.manager.Check(ctx, vpcName)
		if err != nil {
			return err
		}
		if report.Clean {
			fmt.Println("No drift detected")
			return nil
		}
		fmt.Print(report.Diff)
		return fmt.Errorf("drift detected between inventory and kernel state")
	})(ctx)
}
