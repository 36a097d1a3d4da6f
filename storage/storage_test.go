package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.GetItem("lastClaimTime")
	require.NoError(t, err)
	assert.False(t, ok, "empty store should not hold the key")

	require.NoError(t, s.SetItem("lastClaimTime", "1700000000000"))
	v, ok, err := s.GetItem("lastClaimTime")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1700000000000", v)

	// overwrite
	require.NoError(t, s.SetItem("lastClaimTime", "1700000000001"))
	v, _, _ = s.GetItem("lastClaimTime")
	assert.Equal(t, "1700000000001", v)

	require.NoError(t, s.RemoveItem("lastClaimTime"))
	_, ok, err = s.GetItem("lastClaimTime")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing a missing key is not an error
	assert.NoError(t, s.RemoveItem("lastClaimTime"))
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	s, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetItem("lastClaimTime", "42"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, nil)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.GetItem("lastClaimTime")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{name: "default is sqlite", driver: ""},
		{name: "sqlite", driver: "sqlite"},
		{name: "memory", driver: "memory"},
		{name: "unknown", driver: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.driver, t.TempDir(), nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownDriver)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			testStore(t, s)
		})
	}
}
