package vpc

import (
	"context"
	"errors"

	"grimm.is/vpcctl/internal/driver"
)

// Exec runs a shell command inside a subnet's namespace and returns its
// captured output and exit code. A nonzero exit code is reported in the
// result, not as an error; errors mean the command could not run at all.
func (m *Manager) Exec(ctx context.Context, vpcName, subnetName, command string) (driver.ExecResult, error) {
	start := m.clk.Now()
	res, err := m.execInSubnet(ctx, vpcName, subnetName, command)
	details := map[string]any{"command": command, "exit_code": res.ExitCode}
	return res, m.finish("exec", vpcName+"/"+subnetName, start, details, err)
}

func (m *Manager) execInSubnet(ctx context.Context, vpcName, subnetName, command string) (driver.ExecResult, error) {
	_, sn, err := m.getSubnet(vpcName, subnetName)
	if err != nil {
		return driver.ExecResult{}, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	res, err := m.driver.ExecInNamespace(ctx, sn.Namespace, command)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, ErrTimeout
	}
	if err != nil {
		return res, errDriver(err)
	}

	m.log.Debug("command executed",
		"vpc", vpcName, "subnet", subnetName, "command", command, "exit_code", res.ExitCode)
	return res, nil
}
