// Package vpc implements the lifecycle managers: VPC and subnet
// provisioning, NAT and firewall configuration, in-namespace command
// execution, and the inventory listing. All kernel mutations go through
// the injected driver; all persistence goes through the injected store.
package vpc

import (
	"context"
	"errors"
	"time"

	"grimm.is/vpcctl/internal/audit"
	"grimm.is/vpcctl/internal/clock"
	"grimm.is/vpcctl/internal/driver"
	"grimm.is/vpcctl/internal/logging"
	"grimm.is/vpcctl/internal/metrics"
	"grimm.is/vpcctl/internal/store"
)

// DefaultTimeout bounds each lifecycle operation.
const DefaultTimeout = 30 * time.Second

// Manager orchestrates all lifecycle operations. Mutations on the same
// VPC are serialized by a per-name lock.
type Manager struct {
	store   store.Store
	driver  driver.Driver
	log     *logging.Logger
	clk     clock.Clock
	auditor *audit.Store
	metrics *metrics.Collector
	locks   *keyedMutex
	timeout time.Duration
}

// Options configures a Manager. Store and Driver are required; the rest
// default to sensible values.
type Options struct {
	Store   store.Store
	Driver  driver.Driver
	Logger  *logging.Logger
	Clock   clock.Clock
	Auditor *audit.Store // nil disables auditing
	Metrics *metrics.Collector
	Timeout time.Duration
}

// New creates a Manager.
func New(opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = &clock.RealClock{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		store:   opts.Store,
		driver:  opts.Driver,
		log:     log,
		clk:     clk,
		auditor: opts.Auditor,
		metrics: opts.Metrics,
		locks:   newKeyedMutex(),
		timeout: timeout,
	}
}

// opContext derives the per-operation deadline context.
func (m *Manager) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}

// checkCtx translates a tripped deadline into ErrTimeout between steps of
// a multi-step operation.
func (m *Manager) checkCtx(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return nil
}

// finish records the outcome of one operation in the audit log and the
// metrics collector, then returns err unchanged.
func (m *Manager) finish(op, resource string, start time.Time, details map[string]any, err error) error {
	if m.metrics != nil {
		m.metrics.ObserveOperation(op, err)
	}
	if m.auditor != nil {
		if details == nil {
			details = map[string]any{}
		}
		details["duration_ms"] = m.clk.Now().Sub(start).Milliseconds()
		status := audit.StatusSuccess
		if err != nil {
			status = audit.StatusFailure
			details["error"] = err.Error()
		}
		if aerr := m.auditor.Record(op, resource, details, status); aerr != nil {
			m.log.Warn("audit record failed", "op", op, "error", aerr)
		}
	}
	return err
}

// getVPC loads a record, mapping a missing record to ErrNotFound.
func (m *Manager) getVPC(name string) (*store.VPC, error) {
	rec, err := m.store.Get(name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errVPCNotFound(name)
	}
	if err != nil {
		return nil, errStore(err)
	}
	return rec, nil
}

// getSubnet loads a record and the named subnet entry.
func (m *Manager) getSubnet(vpcName, subnetName string) (*store.VPC, store.Subnet, error) {
	rec, err := m.getVPC(vpcName)
	if err != nil {
		return nil, store.Subnet{}, err
	}
	sn, ok := rec.Subnets[subnetName]
	if !ok {
		return nil, store.Subnet{}, errSubnetNotFound(vpcName, subnetName)
	}
	return rec, sn, nil
}
