package vpc

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Kernel object names are derived from the VPC and subnet names, never
// stored user input. The validation package bounds the inputs so every
// derived name fits IFNAMSIZ.

// BridgeName returns the bridge interface name for a VPC.
func BridgeName(vpcName string) string {
	return "br-" + vpcName
}

// NamespaceName returns the network namespace name for a subnet.
func NamespaceName(vpcName, subnetName string) string {
	return "ns-" + vpcName + "-" + subnetName
}

// VethNames returns the host-side and namespace-side veth interface names
// for a subnet.
func VethNames(subnetName string) (host, ns string) {
	return "veth-" + subnetName + "-host", "veth-" + subnetName + "-ns"
}

// GatewayAddress derives the subnet gateway: the network address with the
// last octet set to 1. The convention only holds for octet-aligned masks
// of /24 or coarser, so finer masks are rejected rather than silently
// producing an address outside the subnet.
func GatewayAddress(cidr string) (string, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidCIDR, cidr)
	}
	ones, bits := ipnet.Mask.Size()
	if bits != 32 {
		return "", fmt.Errorf("%w: %s is not IPv4", ErrInvalidCIDR, cidr)
	}
	if ones > 24 {
		return "", fmt.Errorf("%w: cannot derive gateway for /%d (finer than /24)", ErrInvalidCIDR, ones)
	}

	network := ipnet.IP.To4()
	octets := []string{
		strconv.Itoa(int(network[0])),
		strconv.Itoa(int(network[1])),
		strconv.Itoa(int(network[2])),
		"1",
	}
	return strings.Join(octets, "."), nil
}
