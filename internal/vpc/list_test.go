package vpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/vpcctl/internal/store"
)

func TestListEmpty(t *testing.T) {
	m, _, _ := newTestManager(t)

	summaries, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestListSorted(t *testing.T) {
	m, st, _ := newTestManager(t)
	seedVPC(t, st, "prod", "10.2.0.0/16", map[string]store.Subnet{
		"web": seedSubnet("web", "10.2.1.0/24", store.SubnetPublic, "prod"),
		"db":  seedSubnet("db", "10.2.2.0/24", store.SubnetPrivate, "prod"),
	})
	seedVPC(t, st, "dev", "10.1.0.0/16", nil)

	summaries, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "dev", summaries[0].Name)
	assert.Empty(t, summaries[0].Subnets)

	prod := summaries[1]
	assert.Equal(t, "prod", prod.Name)
	assert.Equal(t, "10.2.0.0/16", prod.CIDR)
	assert.Equal(t, "br-prod", prod.Bridge)
	require.Len(t, prod.Subnets, 2)
	assert.Equal(t, "db", prod.Subnets[0].Name)
	assert.Equal(t, store.SubnetPrivate, prod.Subnets[0].Type)
	assert.Equal(t, "web", prod.Subnets[1].Name)
	assert.Equal(t, "10.2.1.0/24", prod.Subnets[1].CIDR)
}

// Round trip through the real operations: create, list, delete, list.
func TestListRoundTrip(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", nil)

	drv.On("NamespaceExists", "ns-test-web").Return(false, nil).Once()
	drv.On("NamespaceCreate", "ns-test-web").Return(nil).Once()
	drv.On("VethCreate", "veth-web-host", "veth-web-ns").Return(nil).Once()
	drv.On("MoveToNamespace", "veth-web-ns", "ns-test-web").Return(nil).Once()
	drv.On("SetMaster", "veth-web-host", "br-test").Return(nil).Once()
	drv.On("SetLinkUp", "", "veth-web-host").Return(nil).Once()
	drv.On("SetLinkUp", "ns-test-web", "lo").Return(nil).Once()
	drv.On("SetLinkUp", "ns-test-web", "veth-web-ns").Return(nil).Once()
	drv.On("AssignAddress", "ns-test-web", "veth-web-ns", "10.1.1.0/24").Return(nil).Once()
	drv.On("AddDefaultRoute", "ns-test-web", "10.1.1.1").Return(nil).Once()
	drv.On("NamespaceDelete", "ns-test-web").Return(nil).Once()

	require.NoError(t, m.CreateSubnet(context.Background(), "test", "web", "10.1.1.0/24", store.SubnetPublic))

	summaries, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Len(t, summaries[0].Subnets, 1)
	assert.Equal(t, "web", summaries[0].Subnets[0].Name)
	assert.Equal(t, "10.1.1.0/24", summaries[0].Subnets[0].CIDR)
	assert.Equal(t, store.SubnetPublic, summaries[0].Subnets[0].Type)

	require.NoError(t, m.DeleteSubnet(context.Background(), "test", "web"))

	summaries, err = m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Empty(t, summaries[0].Subnets)
}
