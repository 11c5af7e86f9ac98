package geoip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}

func TestOpenNotAnMMDB(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.mmdb")
	require.NoError(t, os.WriteFile(p, []byte("not a maxmind database"), 0o644))
	_, err := Open(p)
	assert.Error(t, err)
}

// GEOIP_TEST_DB 指向真实 City 库时运行
func TestResolve(t *testing.T) {
	p := os.Getenv("GEOIP_TEST_DB")
	if p == "" {
		t.Skip("GEOIP_TEST_DB not set")
	}
	r, err := Open(p)
	require.NoError(t, err)
	defer r.Close()

	_, _, ok := r.Resolve("not-an-ip")
	assert.False(t, ok)
	_, _, ok = r.Resolve("127.0.0.1")
	assert.False(t, ok)
	lat, lon, ok := r.Resolve("81.2.69.142")
	if ok {
		assert.InDelta(t, 51.5, lat, 5)
		assert.InDelta(t, 0, lon, 5)
	}
}
