//go:build linux
// +build linux

package driver

import (
	"fmt"
	"net"

	"github.com/google/nftables"
	"github.com/google/nftables/binaryutil"
	"github.com/google/nftables/expr"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"
)

// tableName is the nftables table this tool owns, in the host namespace
// and in every subnet namespace. Flushing means deleting this table only;
// rules installed by anything else are left alone.
const tableName = "vpcctl"

// IPv4 header offsets (RFC 791).
const (
	ipv4SrcOffset = 12
	ipv4AddrLen   = 4
)

// nftConn opens an nftables connection scoped to ns ("" = host).
func nftConn(ns string) (*nftables.Conn, func(), error) {
	if ns == "" {
		conn, err := nftables.New()
		if err != nil {
			return nil, nil, fmt.Errorf("open nftables: %w", err)
		}
		return conn, func() {}, nil
	}
	nsh, err := netns.GetFromName(ns)
	if err != nil {
		return nil, nil, fmt.Errorf("open netns %s: %w", ns, err)
	}
	conn, err := nftables.New(nftables.WithNetNSFd(int(nsh)))
	if err != nil {
		nsh.Close()
		return nil, nil, fmt.Errorf("open nftables in %s: %w", ns, err)
	}
	return conn, func() { nsh.Close() }, nil
}

func findTable(conn *nftables.Conn) (*nftables.Table, error) {
	tables, err := conn.ListTablesOfFamily(nftables.TableFamilyINet)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	for _, t := range tables {
		if t.Name == tableName {
			return t, nil
		}
	}
	return nil, nil
}

func ensureTable(conn *nftables.Conn) (*nftables.Table, error) {
	t, err := findTable(conn)
	if err != nil {
		return nil, err
	}
	if t != nil {
		return t, nil
	}
	return conn.AddTable(&nftables.Table{
		Family: nftables.TableFamilyINet,
		Name:   tableName,
	}), nil
}

func chainSpec(c Chain) (*nftables.ChainHook, *nftables.ChainPriority, nftables.ChainType) {
	switch c {
	case ChainPostrouting:
		return nftables.ChainHookPostrouting, nftables.ChainPriorityNATSource, nftables.ChainTypeNAT
	case ChainForward:
		return nftables.ChainHookForward, nftables.ChainPriorityFilter, nftables.ChainTypeFilter
	default:
		return nftables.ChainHookInput, nftables.ChainPriorityFilter, nftables.ChainTypeFilter
	}
}

func ensureChain(conn *nftables.Conn, table *nftables.Table, name Chain, policy *nftables.ChainPolicy) (*nftables.Chain, error) {
	chains, err := conn.ListChainsOfTableFamily(nftables.TableFamilyINet)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	for _, c := range chains {
		if c.Table.Name == table.Name && c.Name == string(name) {
			return c, nil
		}
	}
	hook, prio, typ := chainSpec(name)
	return conn.AddChain(&nftables.Chain{
		Name:     string(name),
		Table:    table,
		Type:     typ,
		Hooknum:  hook,
		Priority: prio,
		Policy:   policy,
	}), nil
}

// AppendFirewallRule appends one rule. Repeated appends accumulate; the
// managers flush first when they need a clean slate.
func (d *Linux) AppendFirewallRule(rule FirewallRule) error {
	conn, done, err := nftConn(rule.Namespace)
	if err != nil {
		return err
	}
	defer done()

	table, err := ensureTable(conn)
	if err != nil {
		return err
	}
	chain, err := ensureChain(conn, table, rule.Chain, nil)
	if err != nil {
		return err
	}

	exprs, err := buildExprs(rule)
	if err != nil {
		return err
	}
	conn.AddRule(&nftables.Rule{
		Table: table,
		Chain: chain,
		Exprs: exprs,
	})
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("apply firewall rule: %w", err)
	}
	return nil
}

// SetFilterPolicy creates the filter chains with the given default
// verdicts. Call after FlushFirewallRules; recreating an existing chain
// with a different policy is refused by the kernel.
func (d *Linux) SetFilterPolicy(ns string, policy FilterPolicy) error {
	conn, done, err := nftConn(ns)
	if err != nil {
		return err
	}
	defer done()

	table, err := ensureTable(conn)
	if err != nil {
		return err
	}
	for _, c := range []struct {
		name    Chain
		verdict Verdict
	}{
		{ChainInput, policy.Input},
		{ChainForward, policy.Forward},
		{"output", policy.Output},
	} {
		pol := nftables.ChainPolicyAccept
		if c.verdict == VerdictDrop {
			pol = nftables.ChainPolicyDrop
		}
		hook := nftables.ChainHookOutput
		prio := nftables.ChainPriorityFilter
		if c.name == ChainInput {
			hook = nftables.ChainHookInput
		} else if c.name == ChainForward {
			hook = nftables.ChainHookForward
		}
		conn.AddChain(&nftables.Chain{
			Name:     string(c.name),
			Table:    table,
			Type:     nftables.ChainTypeFilter,
			Hooknum:  hook,
			Priority: prio,
			Policy:   &pol,
		})
	}
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("set filter policy in %q: %w", ns, err)
	}
	return nil
}

// FlushFirewallRules deletes this tool's table in the namespace, removing
// every rule and chain it installed. Missing table is not an error.
func (d *Linux) FlushFirewallRules(ns string) error {
	conn, done, err := nftConn(ns)
	if err != nil {
		return err
	}
	defer done()

	table, err := findTable(conn)
	if err != nil {
		return err
	}
	if table == nil {
		return nil
	}
	conn.DelTable(table)
	if err := conn.Flush(); err != nil {
		return fmt.Errorf("flush firewall rules in %q: %w", ns, err)
	}
	return nil
}

// buildExprs translates a structured rule into nftables expressions.
func buildExprs(rule FirewallRule) ([]expr.Any, error) {
	var exprs []expr.Any

	if rule.InInterface != "" {
		exprs = append(exprs,
			&expr.Meta{Key: expr.MetaKeyIIFNAME, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(rule.InInterface)},
		)
	}
	if rule.OutInterface != "" {
		exprs = append(exprs,
			&expr.Meta{Key: expr.MetaKeyOIFNAME, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ifname(rule.OutInterface)},
		)
	}

	if rule.SourceCIDR != "" {
		_, ipNet, err := net.ParseCIDR(rule.SourceCIDR)
		if err != nil {
			return nil, fmt.Errorf("parse source CIDR %s: %w", rule.SourceCIDR, err)
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("source CIDR %s: only IPv4 is supported", rule.SourceCIDR)
		}
		// Guard on the IP version: in an inet table an IPv4 payload match
		// must not be evaluated against IPv6 packets.
		exprs = append(exprs,
			&expr.Meta{Key: expr.MetaKeyNFPROTO, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: []byte{unix.NFPROTO_IPV4}},
			&expr.Payload{
				DestRegister: 1,
				Base:         expr.PayloadBaseNetworkHeader,
				Offset:       ipv4SrcOffset,
				Len:          ipv4AddrLen,
			},
			&expr.Bitwise{
				SourceRegister: 1,
				DestRegister:   1,
				Len:            ipv4AddrLen,
				Mask:           ipNet.Mask,
				Xor:            []byte{0, 0, 0, 0},
			},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: ip4.Mask(ipNet.Mask)},
		)
	}

	if rule.Protocol != "" {
		proto := byte(unix.IPPROTO_TCP)
		if rule.Protocol == "udp" {
			proto = unix.IPPROTO_UDP
		}
		exprs = append(exprs,
			&expr.Meta{Key: expr.MetaKeyL4PROTO, Register: 1},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: []byte{proto}},
		)
	}

	if rule.DestPort != 0 {
		exprs = append(exprs,
			&expr.Payload{
				DestRegister: 1,
				Base:         expr.PayloadBaseTransportHeader,
				Offset:       2, // destination port
				Len:          2,
			},
			&expr.Cmp{Op: expr.CmpOpEq, Register: 1, Data: binaryutil.BigEndian.PutUint16(rule.DestPort)},
		)
	}

	if rule.Established {
		exprs = append(exprs,
			&expr.Ct{Register: 1, Key: expr.CtKeySTATE},
			&expr.Bitwise{
				SourceRegister: 1,
				DestRegister:   1,
				Len:            4,
				Mask:           binaryutil.NativeEndian.PutUint32(expr.CtStateBitESTABLISHED | expr.CtStateBitRELATED),
				Xor:            binaryutil.NativeEndian.PutUint32(0),
			},
			&expr.Cmp{Op: expr.CmpOpNeq, Register: 1, Data: []byte{0, 0, 0, 0}},
		)
	}

	switch rule.Verdict {
	case VerdictMasquerade:
		exprs = append(exprs, &expr.Masq{})
	case VerdictDrop:
		exprs = append(exprs, &expr.Verdict{Kind: expr.VerdictDrop})
	default:
		exprs = append(exprs, &expr.Verdict{Kind: expr.VerdictAccept})
	}

	return exprs, nil
}

// ifname encodes an interface name the way nftables expects: IFNAMSIZ
// bytes, NUL padded.
func ifname(name string) []byte {
	b := make([]byte, 16)
	copy(b, name)
	return b
}
