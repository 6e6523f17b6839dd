// Package driver abstracts the OS-level network object operations the
// lifecycle managers depend on: bridges, namespaces, veth pairs,
// addressing, routes, sysctls and firewall rules.
//
// On Linux it wraps netlink/netns/nftables calls. Tests inject MockDriver
// instead of making real syscalls. All arguments are structured; nothing
// here is interpreted by a shell except the command string passed to
// ExecInNamespace, which is documented as shell input.
package driver

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by every operation on non-Linux builds.
var ErrUnsupported = errors.New("network driver not supported on this platform")

// ExecResult is the outcome of a command run inside a namespace.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Verdict is what a firewall rule does with a matching packet.
type Verdict string

const (
	VerdictAccept     Verdict = "accept"
	VerdictDrop       Verdict = "drop"
	VerdictMasquerade Verdict = "masquerade"
)

// Chain names a firewall hook point.
type Chain string

const (
	ChainInput       Chain = "input"
	ChainForward     Chain = "forward"
	ChainPostrouting Chain = "postrouting"
)

// FirewallRule is one structured firewall rule. Zero-valued match fields
// are not matched on. Namespace "" means the host.
type FirewallRule struct {
	Namespace    string
	Chain        Chain
	Protocol     string // "tcp" or "udp"
	DestPort     uint16
	SourceCIDR   string
	InInterface  string
	OutInterface string
	Established  bool // match ct state established,related
	Verdict      Verdict
}

// FilterPolicy holds the default verdicts for the filter chains of one
// namespace.
type FilterPolicy struct {
	Input   Verdict
	Forward Verdict
	Output  Verdict
}

// Driver is the injected capability for all kernel networking mutations.
// Each call may fail; the managers decide which failures are fatal.
type Driver interface {
	// Bridges (host only)
	BridgeExists(name string) (bool, error)
	BridgeCreate(name string) error
	BridgeDelete(name string) error
	BridgeSetUp(name string) error
	BridgeSetDown(name string) error

	// Network namespaces
	NamespaceExists(name string) (bool, error)
	NamespaceCreate(name string) error
	NamespaceDelete(name string) error

	// Veth pairs and link state. ns "" addresses the host namespace.
	VethCreate(hostName, peerName string) error
	VethDelete(name string) error
	MoveToNamespace(iface, ns string) error
	SetMaster(iface, bridge string) error
	SetLinkUp(ns, iface string) error

	// Addressing
	AssignAddress(ns, iface, cidr string) error
	AddDefaultRoute(ns, gateway string) error

	// Host tunables
	SetSysctl(key, value string) error

	// Firewall. Appends accumulate; FlushFirewallRules removes everything
	// this tool installed in the namespace.
	AppendFirewallRule(rule FirewallRule) error
	SetFilterPolicy(ns string, policy FilterPolicy) error
	FlushFirewallRules(ns string) error

	// ExecInNamespace runs command through a shell inside ns and captures
	// its output. The command string is shell input by contract.
	ExecInNamespace(ctx context.Context, ns, command string) (ExecResult, error)
}
