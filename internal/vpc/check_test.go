package vpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/vpcctl/internal/store"
)

func TestCheckClean(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", map[string]store.Subnet{
		"web": seedSubnet("web", "10.1.1.0/24", store.SubnetPublic, "test"),
	})

	drv.On("BridgeExists", "br-test").Return(true, nil).Once()
	drv.On("NamespaceExists", "ns-test-web").Return(true, nil).Once()

	report, err := m.Check(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, report.Clean)
	assert.Empty(t, report.Diff)
}

func TestCheckDrift(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", map[string]store.Subnet{
		"web": seedSubnet("web", "10.1.1.0/24", store.SubnetPublic, "test"),
	})

	drv.On("BridgeExists", "br-test").Return(true, nil).Once()
	drv.On("NamespaceExists", "ns-test-web").Return(false, nil).Once()

	report, err := m.Check(context.Background(), "test")
	require.NoError(t, err)
	assert.False(t, report.Clean)
	assert.Contains(t, report.Diff, "MISSING")
	assert.Contains(t, report.Diff, "ns-test-web")
	assert.Contains(t, report.Diff, "--- desired")
	assert.Contains(t, report.Diff, "+++ actual")
}

func TestCheckNotFound(t *testing.T) {
	m, _, _ := newTestManager(t)

	_, err := m.Check(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckEmptyInventory(t *testing.T) {
	m, _, _ := newTestManager(t)

	report, err := m.Check(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, report.Clean)
}
