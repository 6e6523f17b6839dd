package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVPC(name string) *VPC {
	return &VPC{
		Name:   name,
		CIDR:   "10.1.0.0/16",
		Bridge: "br-" + name,
		Subnets: map[string]Subnet{
			"web": {
				CIDR:      "10.1.1.0/24",
				Type:      SubnetPublic,
				Namespace: "ns-" + name + "-web",
				VethHost:  "veth-web-host",
				VethNS:    "veth-web-ns",
			},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(testVPC("test")))

	got, err := s.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "test", got.Name)
	assert.Equal(t, "10.1.0.0/16", got.CIDR)
	assert.Equal(t, "br-test", got.Bridge)
	require.Contains(t, got.Subnets, "web")
	assert.Equal(t, SubnetPublic, got.Subnets["web"].Type)
}

func TestFileStoreGetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(testVPC("test")))
	require.NoError(t, s.Delete("test"))

	_, err = s.Get("test")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete("test"), ErrNotFound)
}

func TestFileStorePutOverwrites(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(testVPC("test")))

	updated := testVPC("test")
	updated.CIDR = "10.2.0.0/16"
	require.NoError(t, s.Put(updated))

	got, err := s.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "10.2.0.0/16", got.CIDR)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFileStoreList(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	all, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.Put(testVPC("beta")))
	require.NoError(t, s.Put(testVPC("alpha")))

	// Garbage in the state dir must not break listing.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{not json"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi"), 0600))

	all, err = s.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, "beta", all[1].Name)
}

func TestFileStoreNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(testVPC("test")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get("test")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(testVPC("test")))

	got, err := s.Get("test")
	require.NoError(t, err)

	// Mutating the returned record must not affect the stored copy.
	got.Subnets["db"] = Subnet{CIDR: "10.1.2.0/24", Type: SubnetPrivate}
	again, err := s.Get("test")
	require.NoError(t, err)
	assert.Len(t, again.Subnets, 1)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Delete("test"))
	assert.ErrorIs(t, s.Delete("test"), ErrNotFound)
}
