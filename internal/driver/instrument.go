package driver

import (
	"context"

	"grimm.is/vpcctl/internal/metrics"
)

// Instrumented wraps a Driver and counts every call in the metrics
// collector. It changes no behavior.
type Instrumented struct {
	next Driver
	m    *metrics.Collector
}

// Instrument wraps d with call counting. A nil collector returns d
// unchanged.
func Instrument(d Driver, m *metrics.Collector) Driver {
	if m == nil {
		return d
	}
	return &Instrumented{next: d, m: m}
}

func (i *Instrumented) BridgeExists(name string) (bool, error) {
	ok, err := i.next.BridgeExists(name)
	i.m.ObserveDriverCall("BridgeExists", err)
	return ok, err
}
func (i *Instrumented) BridgeCreate(name string) error {
	err := i.next.BridgeCreate(name)
	i.m.ObserveDriverCall("BridgeCreate", err)
	return err
}
func (i *Instrumented) BridgeDelete(name string) error {
	err := i.next.BridgeDelete(name)
	i.m.ObserveDriverCall("BridgeDelete", err)
	return err
}
func (i *Instrumented) BridgeSetUp(name string) error {
	err := i.next.BridgeSetUp(name)
	i.m.ObserveDriverCall("BridgeSetUp", err)
	return err
}
func (i *Instrumented) BridgeSetDown(name string) error {
	err := i.next.BridgeSetDown(name)
	i.m.ObserveDriverCall("BridgeSetDown", err)
	return err
}
func (i *Instrumented) NamespaceExists(name string) (bool, error) {
	ok, err := i.next.NamespaceExists(name)
	i.m.ObserveDriverCall("NamespaceExists", err)
	return ok, err
}
func (i *Instrumented) NamespaceCreate(name string) error {
	err := i.next.NamespaceCreate(name)
	i.m.ObserveDriverCall("NamespaceCreate", err)
	return err
}
func (i *Instrumented) NamespaceDelete(name string) error {
	err := i.next.NamespaceDelete(name)
	i.m.ObserveDriverCall("NamespaceDelete", err)
	return err
}
func (i *Instrumented) VethCreate(hostName, peerName string) error {
	err := i.next.VethCreate(hostName, peerName)
	i.m.ObserveDriverCall("VethCreate", err)
	return err
}
func (i *Instrumented) VethDelete(name string) error {
	err := i.next.VethDelete(name)
	i.m.ObserveDriverCall("VethDelete", err)
	return err
}
func (i *Instrumented) MoveToNamespace(iface, ns string) error {
	err := i.next.MoveToNamespace(iface, ns)
	i.m.ObserveDriverCall("MoveToNamespace", err)
	return err
}
func (i *Instrumented) SetMaster(iface, bridge string) error {
	err := i.next.SetMaster(iface, bridge)
	i.m.ObserveDriverCall("SetMaster", err)
	return err
}
func (i *Instrumented) SetLinkUp(ns, iface string) error {
	err := i.next.SetLinkUp(ns, iface)
	i.m.ObserveDriverCall("SetLinkUp", err)
	return err
}
func (i *Instrumented) AssignAddress(ns, iface, cidr string) error {
	err := i.next.AssignAddress(ns, iface, cidr)
	i.m.ObserveDriverCall("AssignAddress", err)
	return err
}
func (i *Instrumented) AddDefaultRoute(ns, gateway string) error {
	err := i.next.AddDefaultRoute(ns, gateway)
	i.m.ObserveDriverCall("AddDefaultRoute", err)
	return err
}
func (i *Instrumented) SetSysctl(key, value string) error {
	err := i.next.SetSysctl(key, value)
	i.m.ObserveDriverCall("SetSysctl", err)
	return err
}
func (i *Instrumented) AppendFirewallRule(rule FirewallRule) error {
	err := i.next.AppendFirewallRule(rule)
	i.m.ObserveDriverCall("AppendFirewallRule", err)
	return err
}
func (i *Instrumented) SetFilterPolicy(ns string, policy FilterPolicy) error {
	err := i.next.SetFilterPolicy(ns, policy)
	i.m.ObserveDriverCall("SetFilterPolicy", err)
	return err
}
func (i *Instrumented) FlushFirewallRules(ns string) error {
	err := i.next.FlushFirewallRules(ns)
	i.m.ObserveDriverCall("FlushFirewallRules", err)
	return err
}
func (i *Instrumented) ExecInNamespace(ctx context.Context, ns, command string) (ExecResult, error) {
	res, err := i.next.ExecInNamespace(ctx, ns, command)
	i.m.ObserveDriverCall("ExecInNamespace", err)
	return res, err
}
