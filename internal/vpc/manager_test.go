package vpc

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"grimm.is/vpcctl/internal/audit"
	"grimm.is/vpcctl/internal/clock"
	"grimm.is/vpcctl/internal/driver"
	"grimm.is/vpcctl/internal/logging"
	"grimm.is/vpcctl/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.MemoryStore, *driver.MockDriver) {
	t.Helper()

	st := store.NewMemoryStore()
	drv := &driver.MockDriver{}
	m := New(Options{
		Store:   st,
		Driver:  drv,
		Logger:  logging.New(logging.Config{Level: logging.LevelError, Output: io.Discard}),
		Clock:   clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Timeout: 5 * time.Second,
	})
	return m, st, drv
}

// seedVPC plants a record directly in the store, bypassing the driver.
func seedVPC(t *testing.T, st *store.MemoryStore, name, cidr string, subnets map[string]store.Subnet) {
	t.Helper()
	if subnets == nil {
		subnets = map[string]store.Subnet{}
	}
	err := st.Put(&store.VPC{
		Name:    name,
		CIDR:    cidr,
		Bridge:  BridgeName(name),
		Subnets: subnets,
	})
	if err != nil {
		t.Fatalf("seed VPC: %v", err)
	}
}

func TestOperationsAudited(t *testing.T) {
	st := store.NewMemoryStore()
	drv := &driver.MockDriver{}
	auditor, err := audit.NewStore(filepath.Join(t.TempDir(), "audit.db"), 30)
	require.NoError(t, err)
	t.Cleanup(func() { auditor.Close() })

	m := New(Options{
		Store:   st,
		Driver:  drv,
		Logger:  logging.New(logging.Config{Level: logging.LevelError, Output: io.Discard}),
		Auditor: auditor,
	})

	drv.On("BridgeExists", "br-test").Return(false, nil).Once()
	drv.On("BridgeCreate", "br-test").Return(nil).Once()
	drv.On("BridgeSetUp", "br-test").Return(nil).Once()

	require.NoError(t, m.CreateVPC(context.Background(), "test", "10.1.0.0/16"))
	require.Error(t, m.CreateVPC(context.Background(), "test", "garbage"))

	events, err := auditor.Query(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), "create-vpc", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first: the failed call, then the successful one.
	assert.Equal(t, audit.StatusFailure, events[0].Status)
	assert.Contains(t, events[0].Details, "error")
	assert.Equal(t, audit.StatusSuccess, events[1].Status)
	assert.Equal(t, "10.1.0.0/16", events[1].Details["cidr"])
	assert.Contains(t, events[1].Details, "duration_ms")
}

// anyRule matches any FirewallRule argument.
func anyRule() any {
	return mock.AnythingOfType("driver.FirewallRule")
}

// anyPolicy matches any FilterPolicy argument.
func anyPolicy() any {
	return mock.AnythingOfType("driver.FilterPolicy")
}

func seedSubnet(name, cidr, typ, vpcName string) store.Subnet {
	host, ns := VethNames(name)
	return store.Subnet{
		CIDR:      cidr,
		Type:      typ,
		Namespace: NamespaceName(vpcName, name),
		VethHost:  host,
		VethNS:    ns,
	}
}
