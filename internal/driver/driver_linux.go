//go:build linux
// +build linux

package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"

	"grimm.is/vpcctl/internal/logging"
)

// Linux is the real Driver: netlink for links/addresses/routes, netns for
// namespaces, nftables for firewall rules, /proc/sys writes for sysctls.
type Linux struct {
	log *logging.Logger
}

// NewLinux creates the Linux driver.
func NewLinux(log *logging.Logger) *Linux {
	if log == nil {
		log = logging.Default()
	}
	return &Linux{log: log.WithComponent("driver")}
}

// New returns the platform driver.
func New(log *logging.Logger) Driver {
	return NewLinux(log)
}

// --- Bridges ---

func (d *Linux) BridgeExists(name string) (bool, error) {
	_, err := netlink.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("query bridge %s: %w", name, err)
	}
	return true, nil
}

func (d *Linux) BridgeCreate(name string) error {
	br := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: name}}
	if err := netlink.LinkAdd(br); err != nil {
		return fmt.Errorf("create bridge %s: %w", name, err)
	}
	d.log.Debug("bridge created", "name", name)
	return nil
}

func (d *Linux) BridgeDelete(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("find bridge %s: %w", name, err)
	}
	if err := netlink.LinkDel(link); err != nil {
		return fmt.Errorf("delete bridge %s: %w", name, err)
	}
	return nil
}

func (d *Linux) BridgeSetUp(name string) error {
	return d.setLinkState(name, true)
}

func (d *Linux) BridgeSetDown(name string) error {
	return d.setLinkState(name, false)
}

func (d *Linux) setLinkState(name string, up bool) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("find link %s: %w", name, err)
	}
	if up {
		err = netlink.LinkSetUp(link)
	} else {
		err = netlink.LinkSetDown(link)
	}
	if err != nil {
		return fmt.Errorf("set link %s state: %w", name, err)
	}
	return nil
}

// --- Namespaces ---

func (d *Linux) NamespaceExists(name string) (bool, error) {
	ns, err := netns.GetFromName(name)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("query namespace %s: %w", name, err)
	}
	ns.Close()
	return true, nil
}

// NamespaceCreate creates a named namespace. netns.NewNamed switches the
// calling thread into the new namespace, so the thread is locked and
// switched back before returning.
func (d *Linux) NamespaceCreate(name string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origns, err := netns.Get()
	if err != nil {
		return fmt.Errorf("get current netns: %w", err)
	}
	defer origns.Close()

	newns, err := netns.NewNamed(name)
	if err != nil {
		return fmt.Errorf("create netns %s: %w", name, err)
	}
	newns.Close()

	if err := netns.Set(origns); err != nil {
		return fmt.Errorf("return to original netns: %w", err)
	}
	d.log.Debug("namespace created", "name", name)
	return nil
}

func (d *Linux) NamespaceDelete(name string) error {
	if err := netns.DeleteNamed(name); err != nil {
		return fmt.Errorf("delete netns %s: %w", name, err)
	}
	return nil
}

// --- Veth pairs and links ---

func (d *Linux) VethCreate(hostName, peerName string) error {
	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: hostName},
		PeerName:  peerName,
	}
	if err := netlink.LinkAdd(veth); err != nil {
		return fmt.Errorf("create veth pair %s/%s: %w", hostName, peerName, err)
	}
	return nil
}

func (d *Linux) VethDelete(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("find veth %s: %w", name, err)
	}
	if err := netlink.LinkDel(link); err != nil {
		return fmt.Errorf("delete veth %s: %w", name, err)
	}
	return nil
}

func (d *Linux) MoveToNamespace(iface, ns string) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("find link %s: %w", iface, err)
	}
	nsh, err := netns.GetFromName(ns)
	if err != nil {
		return fmt.Errorf("open netns %s: %w", ns, err)
	}
	defer nsh.Close()

	if err := netlink.LinkSetNsFd(link, int(nsh)); err != nil {
		return fmt.Errorf("move %s into netns %s: %w", iface, ns, err)
	}
	return nil
}

func (d *Linux) SetMaster(iface, bridge string) error {
	link, err := netlink.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("find link %s: %w", iface, err)
	}
	br, err := netlink.LinkByName(bridge)
	if err != nil {
		return fmt.Errorf("find bridge %s: %w", bridge, err)
	}
	if err := netlink.LinkSetMaster(link, br); err != nil {
		return fmt.Errorf("enslave %s to %s: %w", iface, bridge, err)
	}
	return nil
}

func (d *Linux) SetLinkUp(ns, iface string) error {
	h, done, err := d.handleFor(ns)
	if err != nil {
		return err
	}
	defer done()

	link, err := h.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("find link %s in %q: %w", iface, ns, err)
	}
	if err := h.LinkSetUp(link); err != nil {
		return fmt.Errorf("set link %s up: %w", iface, err)
	}
	return nil
}

// --- Addressing ---

func (d *Linux) AssignAddress(ns, iface, cidr string) error {
	h, done, err := d.handleFor(ns)
	if err != nil {
		return err
	}
	defer done()

	link, err := h.LinkByName(iface)
	if err != nil {
		return fmt.Errorf("find link %s in %q: %w", iface, ns, err)
	}
	addr, err := netlink.ParseAddr(cidr)
	if err != nil {
		return fmt.Errorf("parse address %s: %w", cidr, err)
	}
	if err := h.AddrAdd(link, addr); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("assign %s to %s: %w", cidr, iface, err)
	}
	return nil
}

func (d *Linux) AddDefaultRoute(ns, gateway string) error {
	h, done, err := d.handleFor(ns)
	if err != nil {
		return err
	}
	defer done()

	gw := net.ParseIP(gateway)
	if gw == nil {
		return fmt.Errorf("parse gateway %s: invalid IP", gateway)
	}
	route := &netlink.Route{
		Scope: netlink.SCOPE_UNIVERSE,
		Gw:    gw,
	}
	if err := h.RouteAdd(route); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("add default route via %s: %w", gateway, err)
	}
	return nil
}

// handleFor returns a netlink handle scoped to the named namespace, or the
// host namespace for "".
func (d *Linux) handleFor(ns string) (*netlink.Handle, func(), error) {
	if ns == "" {
		h, err := netlink.NewHandle()
		if err != nil {
			return nil, nil, fmt.Errorf("open netlink handle: %w", err)
		}
		return h, h.Close, nil
	}
	nsh, err := netns.GetFromName(ns)
	if err != nil {
		return nil, nil, fmt.Errorf("open netns %s: %w", ns, err)
	}
	h, err := netlink.NewHandleAt(nsh)
	if err != nil {
		nsh.Close()
		return nil, nil, fmt.Errorf("open netlink handle in %s: %w", ns, err)
	}
	return h, func() {
		h.Close()
		nsh.Close()
	}, nil
}

// --- Sysctls ---

func (d *Linux) SetSysctl(key, value string) error {
	path := "/proc/sys/" + strings.ReplaceAll(key, ".", "/")
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("sysctl %s=%s: %w", key, value, err)
	}
	return nil
}

// --- Exec ---

// ExecInNamespace runs command via `ip netns exec <ns> sh -c <command>`.
// Output is captured regardless of exit status; a non-zero exit is not an
// error, it is reported in the result.
func (d *Linux) ExecInNamespace(ctx context.Context, ns, command string) (ExecResult, error) {
	d.log.Debug("exec in namespace", "namespace", ns, "command", command)
	cmd := exec.CommandContext(ctx, "ip", "netns", "exec", ns, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, fmt.Errorf("exec in netns %s: %w", ns, err)
	}
	return res, nil
}
