package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPair struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

func TestCacheService_DeletePrefix(t *testing.T) {
	cs := NewCacheService(60, 120)

	cs.Set("discount:1:1:1", 1, time.Minute)
	cs.Set("discount:1:2:1", 2, time.Minute)
	cs.Set("catalog:complexes", 3, time.Minute)

	cs.DeletePrefix("discount:")

	_, found := cs.Get("discount:1:1:1")
	assert.False(t, found)
	_, found = cs.Get("discount:1:2:1")
	assert.False(t, found)
	val, found := cs.Get("catalog:complexes")
	assert.True(t, found)
	assert.Equal(t, 3, val)
}

func TestCacheService_GetOrSet(t *testing.T) {
	cs := NewCacheService(60, 120)
	calls := 0
	loader := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := cs.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = cs.GetOrSet("k", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)

	_, err = cs.GetOrSet("bad", time.Minute, func() (any, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	_, found := cs.Get("bad")
	assert.False(t, found, "failed loads are not cached")
}

func TestDecodeCached(t *testing.T) {
	typed, ok := DecodeCached[cachedPair](cachedPair{A: 1, B: 2})
	require.True(t, ok)
	assert.Equal(t, cachedPair{A: 1, B: 2}, typed)

	// What Redis hands back after a JSON round trip
	generic := map[string]interface{}{"a": 12.0, "b": 6.0}
	decoded, ok := DecodeCached[cachedPair](generic)
	require.True(t, ok)
	assert.Equal(t, cachedPair{A: 12, B: 6}, decoded)

	_, ok = DecodeCached[cachedPair]("not an object")
	assert.False(t, ok)
}
