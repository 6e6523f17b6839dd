package vpc

import (
	"context"
	"fmt"

	"grimm.is/vpcctl/internal/store"
	"grimm.is/vpcctl/internal/validation"
)

// CreateVPC creates the bridge for a VPC and persists its record. The
// call is idempotent with respect to the bridge: an existing bridge is
// accepted as-is. The record is overwritten unconditionally.
func (m *Manager) CreateVPC(ctx context.Context, name, cidr string) error {
	start := m.clk.Now()
	details := map[string]any{"cidr": cidr}
	return m.finish("create-vpc", name, start, details, m.createVPC(ctx, name, cidr))
}

func (m *Manager) createVPC(ctx context.Context, name, cidr string) error {
	if err := validation.ValidateVPCName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if err := validation.ValidateCIDR(cidr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCIDR, err)
	}

	unlock := m.locks.lock(name)
	defer unlock()

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	log := m.log.WithFields(map[string]any{"vpc": name, "cidr": cidr})
	bridge := BridgeName(name)

	exists, err := m.driver.BridgeExists(bridge)
	if err != nil {
		return errDriver(err)
	}

	created := false
	if exists {
		log.Debug("bridge already exists", "bridge", bridge)
	} else {
		if err := m.driver.BridgeCreate(bridge); err != nil {
			return errDriver(err)
		}
		created = true
	}
	if err := m.driver.BridgeSetUp(bridge); err != nil {
		m.rollbackBridge(created, bridge)
		return errDriver(err)
	}

	if err := m.checkCtx(ctx); err != nil {
		m.rollbackBridge(created, bridge)
		return err
	}

	rec := &store.VPC{
		Name:    name,
		CIDR:    cidr,
		Bridge:  bridge,
		Subnets: make(map[string]store.Subnet),
	}
	if err := m.store.Put(rec); err != nil {
		// The bridge exists but the record does not; undo our own
		// creation so the host is not left with an untracked bridge.
		m.rollbackBridge(created, bridge)
		return errStore(err)
	}

	log.Info("VPC created", "bridge", bridge)
	return nil
}

// rollbackBridge removes a bridge this operation created. Pre-existing
// bridges are left alone.
func (m *Manager) rollbackBridge(created bool, bridge string) {
	if !created {
		return
	}
	if err := m.driver.BridgeDelete(bridge); err != nil {
		m.log.Warn("rollback: bridge delete failed", "bridge", bridge, "error", err)
	}
}

// DeleteVPC tears down a VPC: every subnet first, then the bridge, then
// the record. Subnet and bridge failures are logged and the teardown
// continues; the record is removed last so a partial teardown stays
// visible and retryable.
func (m *Manager) DeleteVPC(ctx context.Context, name string) error {
	start := m.clk.Now()
	return m.finish("delete-vpc", name, start, nil, m.deleteVPC(ctx, name))
}

func (m *Manager) deleteVPC(ctx context.Context, name string) error {
	unlock := m.locks.lock(name)
	defer unlock()

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	rec, err := m.getVPC(name)
	if err != nil {
		return err
	}
	log := m.log.WithFields(map[string]any{"vpc": name})

	for _, subnetName := range rec.SubnetNames() {
		if err := m.checkCtx(ctx); err != nil {
			return err
		}
		sn := rec.Subnets[subnetName]
		if err := m.driver.NamespaceDelete(sn.Namespace); err != nil {
			log.Warn("subnet namespace delete failed, continuing",
				"subnet", subnetName, "namespace", sn.Namespace, "error", err)
		} else {
			log.Info("subnet deleted", "subnet", subnetName)
		}
	}

	if err := m.driver.BridgeSetDown(rec.Bridge); err != nil {
		log.Warn("bridge down failed, continuing", "bridge", rec.Bridge, "error", err)
	}
	if err := m.driver.BridgeDelete(rec.Bridge); err != nil {
		log.Warn("bridge delete failed, continuing", "bridge", rec.Bridge, "error", err)
	}

	if err := m.store.Delete(name); err != nil {
		return errStore(err)
	}

	log.Info("VPC deleted")
	return nil
}
