package storage

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMemoryKV_GetSetRemove(t *testing.T) {
	sut := NewMemoryKV()

	_, ok := sut.Get("missing")
	assert.False(t, ok)

	sut.Set("a", "1")
	v, ok := sut.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	sut.Set("a", "2")
	v, _ = sut.Get("a")
	assert.Equal(t, "2", v)

	sut.Remove("a")
	_, ok = sut.Get("a")
	assert.False(t, ok)

	// Removing an absent key is a no-op
	sut.Remove("a")
	assert.Equal(t, 0, sut.Len())
}

func TestBoltKV_GetSetRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	sut, err := OpenBolt(path, testLogger())
	require.NoError(t, err)
	defer sut.Close()

	_, ok := sut.Get("missing")
	assert.False(t, ok)

	sut.Set("token", "abc")
	v, ok := sut.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	sut.Remove("token")
	_, ok = sut.Get("token")
	assert.False(t, ok)
}

func TestBoltKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	first, err := OpenBolt(path, testLogger())
	require.NoError(t, err)
	first.Set("cart", `[{"product_id":1}]`)
	require.NoError(t, first.Close())

	second, err := OpenBolt(path, testLogger())
	require.NoError(t, err)
	defer second.Close()

	v, ok := second.Get("cart")
	assert.True(t, ok)
	assert.Equal(t, `[{"product_id":1}]`, v)
}
