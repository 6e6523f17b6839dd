package vpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// CheckReport is the outcome of a drift check between the inventory and
// the kernel.
type CheckReport struct {
	// Clean is true when every recorded object exists in the kernel.
	Clean bool
	// Diff is a unified diff of desired vs actual state, empty when Clean.
	Diff string
}

// Check compares the persisted inventory against actual kernel state and
// reports the drift as a unified diff. With a name it checks one VPC,
// otherwise all of them. Only existence is checked; addresses, routes
// and firewall rules are out of scope for the drift report.
func (m *Manager) Check(ctx context.Context, name string) (*CheckReport, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	var recs []VPCSummary
	if name != "" {
		rec, err := m.getVPC(name)
		if err != nil {
			return nil, err
		}
		recs = []VPCSummary{summarize(rec)}
	} else {
		var err error
		recs, err = m.List(ctx)
		if err != nil {
			return nil, err
		}
	}

	var desired, actual []string
	for _, rec := range recs {
		if err := m.checkCtx(ctx); err != nil {
			return nil, err
		}

		line := fmt.Sprintf("vpc %s bridge %s: present", rec.Name, rec.Bridge)
		desired = append(desired, line)
		exists, err := m.driver.BridgeExists(rec.Bridge)
		if err != nil {
			return nil, errDriver(err)
		}
		actual = append(actual, presence(line, exists))

		for _, sn := range rec.Subnets {
			line := fmt.Sprintf("vpc %s subnet %s namespace %s: present", rec.Name, sn.Name, sn.Namespace)
			desired = append(desired, line)
			exists, err := m.driver.NamespaceExists(sn.Namespace)
			if err != nil {
				return nil, errDriver(err)
			}
			actual = append(actual, presence(line, exists))
		}
	}

	report := &CheckReport{Clean: true}
	for i := range desired {
		if desired[i] != actual[i] {
			report.Clean = false
			break
		}
	}
	if !report.Clean {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(strings.Join(desired, "\n")),
			B:        difflib.SplitLines(strings.Join(actual, "\n")),
			FromFile: "desired",
			ToFile:   "actual",
			Context:  3,
		})
		if err != nil {
			return nil, fmt.Errorf("render drift diff: %w", err)
		}
		report.Diff = diff
	}
	return report, nil
}

func presence(desiredLine string, exists bool) string {
	if exists {
		return desiredLine
	}
	return strings.TrimSuffix(desiredLine, "present") + "MISSING"
}
