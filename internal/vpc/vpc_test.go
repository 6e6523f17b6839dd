package vpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/vpcctl/internal/store"
)

func TestCreateVPC(t *testing.T) {
	m, st, drv := newTestManager(t)

	drv.On("BridgeExists", "br-test").Return(false, nil).Once()
	drv.On("BridgeCreate", "br-test").Return(nil).Once()
	drv.On("BridgeSetUp", "br-test").Return(nil).Once()

	require.NoError(t, m.CreateVPC(context.Background(), "test", "10.1.0.0/16"))
	drv.AssertExpectations(t)

	rec, err := st.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "10.1.0.0/16", rec.CIDR)
	assert.Equal(t, "br-test", rec.Bridge)
	assert.Empty(t, rec.Subnets)
}

func TestCreateVPCIdempotent(t *testing.T) {
	m, st, drv := newTestManager(t)

	drv.On("BridgeExists", "br-test").Return(false, nil).Once()
	drv.On("BridgeCreate", "br-test").Return(nil).Once()
	drv.On("BridgeExists", "br-test").Return(true, nil).Once()
	drv.On("BridgeSetUp", "br-test").Return(nil).Twice()

	require.NoError(t, m.CreateVPC(context.Background(), "test", "10.1.0.0/16"))
	require.NoError(t, m.CreateVPC(context.Background(), "test", "10.1.0.0/16"))
	drv.AssertExpectations(t)

	// Exactly one record, no BridgeCreate on the second call.
	recs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	drv.AssertNumberOfCalls(t, "BridgeCreate", 1)
}

func TestCreateVPCInvalidInput(t *testing.T) {
	m, _, drv := newTestManager(t)

	err := m.CreateVPC(context.Background(), "test", "10.1.0.0/33")
	assert.ErrorIs(t, err, ErrInvalidCIDR)

	err = m.CreateVPC(context.Background(), "test", "not-a-cidr")
	assert.ErrorIs(t, err, ErrInvalidCIDR)

	err = m.CreateVPC(context.Background(), "a-name-way-too-long", "10.1.0.0/16")
	assert.ErrorIs(t, err, ErrInvalidName)

	err = m.CreateVPC(context.Background(), "bad name", "10.1.0.0/16")
	assert.ErrorIs(t, err, ErrInvalidName)

	// No kernel mutation happened.
	drv.AssertExpectations(t)
	assert.Empty(t, drv.Calls)
}

func TestCreateVPCStoreFailureRollsBackOwnBridge(t *testing.T) {
	_, _, drv := newTestManager(t)
	failing := &failingStore{err: errors.New("disk full")}
	m := New(Options{Store: failing, Driver: drv})

	drv.On("BridgeExists", "br-test").Return(false, nil).Once()
	drv.On("BridgeCreate", "br-test").Return(nil).Once()
	drv.On("BridgeSetUp", "br-test").Return(nil).Once()
	drv.On("BridgeDelete", "br-test").Return(nil).Once()

	err := m.CreateVPC(context.Background(), "test", "10.1.0.0/16")
	assert.ErrorIs(t, err, ErrStore)
	drv.AssertExpectations(t)
}

func TestCreateVPCStoreFailureKeepsForeignBridge(t *testing.T) {
	_, _, drv := newTestManager(t)
	failing := &failingStore{err: errors.New("disk full")}
	m := New(Options{Store: failing, Driver: drv})

	drv.On("BridgeExists", "br-test").Return(true, nil).Once()
	drv.On("BridgeSetUp", "br-test").Return(nil).Once()

	err := m.CreateVPC(context.Background(), "test", "10.1.0.0/16")
	assert.ErrorIs(t, err, ErrStore)

	// The bridge pre-existed, so it is not deleted on rollback.
	drv.AssertExpectations(t)
	drv.AssertNotCalled(t, "BridgeDelete", "br-test")
}

func TestDeleteVPCNotFound(t *testing.T) {
	m, _, drv := newTestManager(t)

	err := m.DeleteVPC(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, drv.Calls)
}

func TestDeleteVPCCascades(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", map[string]store.Subnet{
		"db":  seedSubnet("db", "10.1.2.0/24", store.SubnetPrivate, "test"),
		"web": seedSubnet("web", "10.1.1.0/24", store.SubnetPublic, "test"),
	})

	drv.On("NamespaceDelete", "ns-test-db").Return(nil).Once()
	drv.On("NamespaceDelete", "ns-test-web").Return(nil).Once()
	drv.On("BridgeSetDown", "br-test").Return(nil).Once()
	drv.On("BridgeDelete", "br-test").Return(nil).Once()

	require.NoError(t, m.DeleteVPC(context.Background(), "test"))
	drv.AssertExpectations(t)

	_, err := st.Get("test")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Namespaces go before the bridge; the record goes last.
	var order []string
	for _, c := range drv.Calls {
		order = append(order, c.Method)
	}
	assert.Equal(t, []string{
		"NamespaceDelete", "NamespaceDelete", "BridgeSetDown", "BridgeDelete",
	}, order)
}

func TestDeleteVPCBestEffort(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", map[string]store.Subnet{
		"web": seedSubnet("web", "10.1.1.0/24", store.SubnetPublic, "test"),
	})

	// Every kernel step fails; the record is still removed.
	drv.On("NamespaceDelete", "ns-test-web").Return(errors.New("busy")).Once()
	drv.On("BridgeSetDown", "br-test").Return(errors.New("gone")).Once()
	drv.On("BridgeDelete", "br-test").Return(errors.New("gone")).Once()

	require.NoError(t, m.DeleteVPC(context.Background(), "test"))
	drv.AssertExpectations(t)

	_, err := st.Get("test")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// failingStore fails every write.
type failingStore struct {
	err error
}

func (s *failingStore) Get(name string) (*store.VPC, error) { return nil, store.ErrNotFound }
func (s *failingStore) Put(vpc *store.VPC) error            { return s.err }
func (s *failingStore) Delete(name string) error            { return s.err }
func (s *failingStore) List() ([]*store.VPC, error)         { return nil, nil }
