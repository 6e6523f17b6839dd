package cmd

import (
	"context"
	"fmt"
	"os"
)

// RunExec runs a shell command inside a subnet's namespace. Both output
// streams are printed regardless of exit status; a nonzero exit code
// becomes this process's exit code.
func RunExec(ctx context.Context, flags GlobalFlags, vpcName, subnetName, command string) error {
	return withRuntime(flags, true, func(ctx context.Context, r *runtime) error {
		res, err := r.manager.Exec(ctx, vpcName, subnetName, command)
		if res.Stdout != "" {
			fmt.Print(res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Fprint(os.Stderr, res.Stderr)
		}
		if err != nil {
			return err
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("command exited with code %d", res.ExitCode)
		}
		return nil
	})(ctx)
}
