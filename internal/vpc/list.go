package vpc

import (
	"context"

	"grimm.is/vpcctl/internal/store"
)

// SubnetSummary is one subnet line of the inventory listing.
type SubnetSummary struct {
	Name      string `json:"name"`
	CIDR      string `json:"cidr"`
	Type      string `json:"type"`
	Namespace string `json:"namespace"`
}

// VPCSummary is one VPC of the inventory listing.
type VPCSummary struct {
	Name    string          `json:"name"`
	CIDR    string          `json:"cidr"`
	Bridge  string          `json:"bridge"`
	Subnets []SubnetSummary `json:"subnets"`
}

// List returns a summary of every persisted VPC, sorted by name, with
// subnets sorted by name. An empty inventory returns an empty slice.
func (m *Manager) List(ctx context.Context) ([]VPCSummary, error) {
	if err := m.checkCtx(ctx); err != nil {
		return nil, err
	}

	recs, err := m.store.List()
	if err != nil {
		return nil, errStore(err)
	}

	summaries := make([]VPCSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, summarize(rec))
	}
	return summaries, nil
}

func summarize(rec *store.VPC) VPCSummary {
	s := VPCSummary{
		Name:    rec.Name,
		CIDR:    rec.CIDR,
		Bridge:  rec.Bridge,
		Subnets: make([]SubnetSummary, 0, len(rec.Subnets)),
	}
	for _, name := range rec.SubnetNames() {
		sn := rec.Subnets[name]
		s.Subnets = append(s.Subnets, SubnetSummary{
			Name:      name,
			CIDR:      sn.CIDR,
			Type:      sn.Type,
			Namespace: sn.Namespace,
		})
	}
	return s
}
