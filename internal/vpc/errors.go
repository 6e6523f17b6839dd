package vpc

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lifecycle operations. Callers match with
// errors.Is; the wrapped message carries the specifics.
var (
	// ErrInvalidCIDR is returned for malformed or unusable CIDRs.
	ErrInvalidCIDR = errors.New("invalid CIDR")

	// ErrInvalidName is returned for VPC or subnet names that cannot be
	// turned into kernel interface names.
	ErrInvalidName = errors.New("invalid name")

	// ErrNotFound is returned when the named VPC or subnet has no record.
	ErrNotFound = errors.New("not found")

	// ErrDriver is returned when a kernel-object operation failed and the
	// operation could not continue.
	ErrDriver = errors.New("resource driver error")

	// ErrStore is returned when the inventory could not be read or written.
	ErrStore = errors.New("store error")

	// ErrRuleFile is returned when a firewall rules file cannot be read or
	// parsed. Rules applied before the failure stay applied.
	ErrRuleFile = errors.New("rule file error")

	// ErrTimeout is returned when an operation exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")
)

func errVPCNotFound(name string) error {
	return fmt.Errorf("VPC %q: %w", name, ErrNotFound)
}

func errSubnetNotFound(vpcName, subnetName string) error {
	return fmt.Errorf("subnet %q in VPC %q: %w", subnetName, vpcName, ErrNotFound)
}

func errDriver(err error) error {
	return fmt.Errorf("%w: %v", ErrDriver, err)
}

func errStore(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}
