package vpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/vpcctl/internal/driver"
	"grimm.is/vpcctl/internal/store"
)

func TestSetupNAT(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", map[string]store.Subnet{
		"web": seedSubnet("web", "10.1.1.0/24", store.SubnetPublic, "test"),
	})

	drv.On("SetSysctl", "net.ipv4.ip_forward", "1").Return(nil).Once()
	drv.On("AppendFirewallRule", driver.FirewallRule{
		Chain:        driver.ChainPostrouting,
		SourceCIDR:   "10.1.0.0/16",
		OutInterface: "eth0",
		Verdict:      driver.VerdictMasquerade,
	}).Return(nil).Once()
	drv.On("AppendFirewallRule", driver.FirewallRule{
		Chain:        driver.ChainForward,
		InInterface:  "br-test",
		OutInterface: "eth0",
		Verdict:      driver.VerdictAccept,
	}).Return(nil).Once()
	drv.On("AppendFirewallRule", driver.FirewallRule{
		Chain:        driver.ChainForward,
		InInterface:  "eth0",
		OutInterface: "br-test",
		Established:  true,
		Verdict:      driver.VerdictAccept,
	}).Return(nil).Once()

	require.NoError(t, m.SetupNAT(context.Background(), "test", "web", "eth0"))
	drv.AssertExpectations(t)
}

func TestSetupNATNotFound(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", nil)

	err := m.SetupNAT(context.Background(), "ghost", "web", "eth0")
	assert.ErrorIs(t, err, ErrNotFound)

	err = m.SetupNAT(context.Background(), "test", "ghost", "eth0")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, drv.Calls)
}

func TestSetupNATInvalidInterface(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", map[string]store.Subnet{
		"web": seedSubnet("web", "10.1.1.0/24", store.SubnetPublic, "test"),
	})

	err := m.SetupNAT(context.Background(), "test", "web", "eth0; rm -rf /")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, drv.Calls)
}

func TestSetupNATBestEffort(t *testing.T) {
	m, st, drv := newTestManager(t)
	seedVPC(t, st, "test", "10.1.0.0/16", map[string]store.Subnet{
		"web": seedSubnet("web", "10.1.1.0/24", store.SubnetPublic, "test"),
	})

	// Every side effect fails; the operation still succeeds and every
	// step is attempted.
	drv.On("SetSysctl", "net.ipv4.ip_forward", "1").Return(errors.New("read-only fs")).Once()
	drv.On("AppendFirewallRule", anyRule()).Return(errors.New("nft unavailable")).Times(3)

	require.NoError(t, m.SetupNAT(context.Background(), "test", "web", "eth0"))
	drv.AssertExpectations(t)
}
