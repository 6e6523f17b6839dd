package vpc

import (
	"context"
	"fmt"

	"grimm.is/vpcctl/internal/store"
	"grimm.is/vpcctl/internal/validation"
)

// CreateSubnet provisions a subnet inside a VPC: a namespace, a veth pair
// bridged to the VPC bridge, addressing, and a default route via the
// derived gateway. On a hard failure every object this call created is
// removed again before the error is returned.
func (m *Manager) CreateSubnet(ctx context.Context, vpcName, subnetName, cidr, subnetType string) error {
	start := m.clk.Now()
	details := map[string]any{"cidr": cidr, "type": subnetType}
	resource := vpcName + "/" + subnetName
	return m.finish("create-subnet", resource, start, details,
		m.createSubnet(ctx, vpcName, subnetName, cidr, subnetType))
}

func (m *Manager) createSubnet(ctx context.Context, vpcName, subnetName, cidr, subnetType string) error {
	if err := validation.ValidateSubnetName(subnetName); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	if err := validation.ValidateCIDR(cidr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCIDR, err)
	}
	if subnetType != store.SubnetPublic && subnetType != store.SubnetPrivate {
		return fmt.Errorf("%w: subnet type %q (must be %s or %s)",
			ErrInvalidName, subnetType, store.SubnetPublic, store.SubnetPrivate)
	}
	gateway, err := GatewayAddress(cidr)
	if err != nil {
		return err
	}

	unlock := m.locks.lock(vpcName)
	defer unlock()

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	rec, err := m.getVPC(vpcName)
	if err != nil {
		return err
	}

	ns := NamespaceName(vpcName, subnetName)
	vethHost, vethNS := VethNames(subnetName)
	log := m.log.WithFields(map[string]any{"vpc": vpcName, "subnet": subnetName})

	exists, err := m.driver.NamespaceExists(ns)
	if err != nil {
		return errDriver(err)
	}
	nsCreated := false
	if exists {
		log.Debug("namespace already exists", "namespace", ns)
	} else {
		if err := m.driver.NamespaceCreate(ns); err != nil {
			return errDriver(err)
		}
		nsCreated = true
	}

	// From here on, a hard failure unwinds what we created. Deleting the
	// namespace destroys any veth end inside it; the host end goes down
	// with its peer, so the explicit VethDelete is for the window before
	// the move.
	fail := func(err error) error {
		m.rollbackSubnet(nsCreated, ns, vethHost)
		return err
	}

	if err := m.driver.VethCreate(vethHost, vethNS); err != nil {
		m.rollbackSubnet(nsCreated, ns, "")
		return errDriver(err)
	}
	if err := m.driver.MoveToNamespace(vethNS, ns); err != nil {
		return fail(errDriver(err))
	}

	if err := m.driver.SetMaster(vethHost, rec.Bridge); err != nil {
		return fail(errDriver(err))
	}
	if err := m.driver.SetLinkUp("", vethHost); err != nil {
		return fail(errDriver(err))
	}

	if err := m.driver.SetLinkUp(ns, "lo"); err != nil {
		return fail(errDriver(err))
	}
	if err := m.driver.SetLinkUp(ns, vethNS); err != nil {
		return fail(errDriver(err))
	}
	if err := m.driver.AssignAddress(ns, vethNS, cidr); err != nil {
		return fail(errDriver(err))
	}
	if err := m.driver.AddDefaultRoute(ns, gateway); err != nil {
		return fail(errDriver(err))
	}

	if err := m.checkCtx(ctx); err != nil {
		return fail(err)
	}

	rec.Subnets[subnetName] = store.Subnet{
		CIDR:      cidr,
		Type:      subnetType,
		Namespace: ns,
		VethHost:  vethHost,
		VethNS:    vethNS,
	}
	if err := m.store.Put(rec); err != nil {
		return fail(errStore(err))
	}

	log.Info("subnet created",
		"namespace", ns, "cidr", cidr, "type", subnetType, "gateway", gateway)
	return nil
}

// rollbackSubnet removes the objects createSubnet made before failing.
// The namespace is only removed when this call created it.
func (m *Manager) rollbackSubnet(nsCreated bool, ns, vethHost string) {
	if vethHost != "" {
		if err := m.driver.VethDelete(vethHost); err != nil {
			m.log.Debug("rollback: veth delete failed", "veth", vethHost, "error", err)
		}
	}
	if nsCreated {
		if err := m.driver.NamespaceDelete(ns); err != nil {
			m.log.Warn("rollback: namespace delete failed", "namespace", ns, "error", err)
		}
	}
}

// DeleteSubnet removes a subnet's namespace and its record entry.
// Deleting the namespace destroys the veth pair end inside it, which
// takes the host end with it. A failed namespace delete is logged and
// the record entry is removed anyway.
func (m *Manager) DeleteSubnet(ctx context.Context, vpcName, subnetName string) error {
	start := m.clk.Now()
	return m.finish("delete-subnet", vpcName+"/"+subnetName, start, nil,
		m.deleteSubnet(ctx, vpcName, subnetName))
}

func (m *Manager) deleteSubnet(ctx context.Context, vpcName, subnetName string) error {
	unlock := m.locks.lock(vpcName)
	defer unlock()

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	rec, sn, err := m.getSubnet(vpcName, subnetName)
	if err != nil {
		return err
	}
	log := m.log.WithFields(map[string]any{"vpc": vpcName, "subnet": subnetName})

	if err := m.driver.NamespaceDelete(sn.Namespace); err != nil {
		log.Warn("namespace delete failed, removing record anyway",
			"namespace", sn.Namespace, "error", err)
	}

	if err := m.checkCtx(ctx); err != nil {
		return err
	}

	delete(rec.Subnets, subnetName)
	if err := m.store.Put(rec); err != nil {
		return errStore(err)
	}

	log.Info("subnet deleted", "namespace", sn.Namespace)
	return nil
}
