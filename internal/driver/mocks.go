package driver

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDriver is a mock implementation of the Driver interface.
type MockDriver struct {
	mock.Mock
}

func (m *MockDriver) BridgeExists(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}
func (m *MockDriver) BridgeCreate(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockDriver) BridgeDelete(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockDriver) BridgeSetUp(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockDriver) BridgeSetDown(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockDriver) NamespaceExists(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}
func (m *MockDriver) NamespaceCreate(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockDriver) NamespaceDelete(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockDriver) VethCreate(hostName, peerName string) error {
	args := m.Called(hostName, peerName)
	return args.Error(0)
}
func (m *MockDriver) VethDelete(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
func (m *MockDriver) MoveToNamespace(iface, ns string) error {
	args := m.Called(iface, ns)
	return args.Error(0)
}
func (m *MockDriver) SetMaster(iface, bridge string) error {
	args := m.Called(iface, bridge)
	return args.Error(0)
}
func (m *MockDriver) SetLinkUp(ns, iface string) error {
	args := m.Called(ns, iface)
	return args.Error(0)
}
func (m *MockDriver) AssignAddress(ns, iface, cidr string) error {
	args := m.Called(ns, iface, cidr)
	return args.Error(0)
}
func (m *MockDriver) AddDefaultRoute(ns, gateway string) error {
	args := m.Called(ns, gateway)
	return args.Error(0)
}
func (m *MockDriver) SetSysctl(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}
func (m *MockDriver) AppendFirewallRule(rule FirewallRule) error {
	args := m.Called(rule)
	return args.Error(0)
}
func (m *MockDriver) SetFilterPolicy(ns string, policy FilterPolicy) error {
	args := m.Called(ns, policy)
	return args.Error(0)
}
func (m *MockDriver) FlushFirewallRules(ns string) error {
	args := m.Called(ns)
	return args.Error(0)
}
func (m *MockDriver) ExecInNamespace(ctx context.Context, ns, command string) (ExecResult, error) {
	args := m.Called(ctx, ns, command)
	return args.Get(0).(ExecResult), args.Error(1)
}
