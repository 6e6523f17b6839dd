// Package validation checks user-supplied names and CIDRs before any
// kernel or store mutation happens.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// IFNAMSIZ minus the trailing NUL: the kernel rejects longer names.
	maxInterfaceName = 15

	// Derived interface names must fit IFNAMSIZ:
	//   bridge:    br-<vpc>           -> vpc name <= 12
	//   veth host: veth-<subnet>-host -> subnet name <= 5
	MaxVPCNameLen    = maxInterfaceName - len("br-")
	MaxSubnetNameLen = maxInterfaceName - len("veth-") - len("-host")
)

var (
	// Valid identifier: alphanumeric, dash, underscore
	identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// Valid interface name additionally allows dots (VLAN subinterfaces)
	interfaceNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,15}$`)
)

// ValidateCIDR validates an IPv4 CIDR: four dotted octets in [0,255] and a
// mask in [0,32]. Host bits need not be zero; no alignment check is done.
func ValidateCIDR(cidr string) error {
	ip, maskStr, ok := strings.Cut(cidr, "/")
	if !ok {
		return fmt.Errorf("invalid CIDR %q: missing /mask", cidr)
	}

	mask, err := strconv.Atoi(maskStr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %q: non-numeric mask", cidr)
	}
	if mask < 0 || mask > 32 {
		return fmt.Errorf("invalid CIDR %q: mask %d out of range [0,32]", cidr, mask)
	}

	octets := strings.Split(ip, ".")
	if len(octets) != 4 {
		return fmt.Errorf("invalid CIDR %q: expected 4 octets, got %d", cidr, len(octets))
	}
	for _, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil {
			return fmt.Errorf("invalid CIDR %q: non-numeric octet %q", cidr, o)
		}
		if n < 0 || n > 255 {
			return fmt.Errorf("invalid CIDR %q: octet %d out of range [0,255]", cidr, n)
		}
	}

	return nil
}

// ValidateVPCName validates a VPC name. Names become part of kernel
// interface names, so the charset is restricted and the length bounded.
func ValidateVPCName(name string) error {
	return validateIdentifier(name, MaxVPCNameLen, "VPC name")
}

// ValidateSubnetName validates a subnet name. The tight length limit comes
// from the derived veth interface names, which must fit IFNAMSIZ.
func ValidateSubnetName(name string) error {
	return validateIdentifier(name, MaxSubnetNameLen, "subnet name")
}

// ValidateInterfaceName validates a host network interface name.
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("interface name cannot be empty")
	}
	if !interfaceNameRegex.MatchString(name) {
		return fmt.Errorf("invalid interface name: %s (must be alphanumeric with -_., max %d characters)", name, maxInterfaceName)
	}
	return nil
}

func validateIdentifier(name string, maxLen int, what string) error {
	if name == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if len(name) > maxLen {
		return fmt.Errorf("%s too long (max %d characters): %s", what, maxLen, name)
	}
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("invalid %s: %s (must be alphanumeric with -_)", what, name)
	}
	return nil
}
