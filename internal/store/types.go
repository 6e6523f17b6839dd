package store

import "sort"

// VPC is the persisted record for one virtual network. The JSON field
// names are kept stable; they are the on-disk format.
type VPC struct {
	Name    string            `json:"name"`
	CIDR    string            `json:"cidr"`
	Bridge  string            `json:"bridge"`
	Subnets map[string]Subnet `json:"subnets"`
}

// Subnet is one sub-division of a VPC, keyed by name in the parent record.
type Subnet struct {
	CIDR      string `json:"cidr"`
	Type      string `json:"type"`
	Namespace string `json:"namespace"`
	VethHost  string `json:"veth_host"`
	VethNS    string `json:"veth_ns"`
}

// Subnet types.
const (
	SubnetPublic  = "public"
	SubnetPrivate = "private"
)

// SubnetNames returns the subnet names in sorted order, so that cascading
// operations are deterministic.
func (v *VPC) SubnetNames() []string {
	names := make([]string, 0, len(v.Subnets))
	for name := range v.Subnets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the record. Managers mutate clones and
// persist them, never the store's own copy.
func (v *VPC) Clone() *VPC {
	out := *v
	out.Subnets = make(map[string]Subnet, len(v.Subnets))
	for name, sn := range v.Subnets {
		out.Subnets[name] = sn
	}
	return &out
}
