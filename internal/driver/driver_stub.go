//go:build !linux
// +build !linux

package driver

import (
	"context"

	"grimm.is/vpcctl/internal/logging"
)

// Stub is the non-Linux driver; every operation fails with ErrUnsupported.
type Stub struct{}

// New returns the platform driver.
func New(log *logging.Logger) Driver {
	return &Stub{}
}

func (s *Stub) BridgeExists(name string) (bool, error)    { return false, ErrUnsupported }
func (s *Stub) BridgeCreate(name string) error            { return ErrUnsupported }
func (s *Stub) BridgeDelete(name string) error            { return ErrUnsupported }
func (s *Stub) BridgeSetUp(name string) error             { return ErrUnsupported }
func (s *Stub) BridgeSetDown(name string) error           { return ErrUnsupported }
func (s *Stub) NamespaceExists(name string) (bool, error) { return false, ErrUnsupported }
func (s *Stub) NamespaceCreate(name string) error         { return ErrUnsupported }
func (s *Stub) NamespaceDelete(name string) error         { return ErrUnsupported }
func (s *Stub) VethCreate(hostName, peerName string) error { return ErrUnsupported }
func (s *Stub) VethDelete(name string) error              { return ErrUnsupported }
func (s *Stub) MoveToNamespace(iface, ns string) error    { return ErrUnsupported }
func (s *Stub) SetMaster(iface, bridge string) error      { return ErrUnsupported }
func (s *Stub) SetLinkUp(ns, iface string) error          { return ErrUnsupported }
func (s *Stub) AssignAddress(ns, iface, cidr string) error { return ErrUnsupported }
func (s *Stub) AddDefaultRoute(ns, gateway string) error  { return ErrUnsupported }
func (s *Stub) SetSysctl(key, value string) error         { return ErrUnsupported }
func (s *Stub) AppendFirewallRule(rule FirewallRule) error { return ErrUnsupported }
func (s *Stub) SetFilterPolicy(ns string, policy FilterPolicy) error { return ErrUnsupported }
func (s *Stub) FlushFirewallRules(ns string) error        { return ErrUnsupported }

func (s *Stub) ExecInNamespace(ctx context.Context, ns, command string) (ExecResult, error) {
	return ExecResult{}, ErrUnsupported
}
