package local_cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalCache(t *testing.T) {
	err := NewLocalCache(WithMaxCost(MaxCostForPages(2)))
	require.NoError(t, err)

	success := Cache().SetWithTTL("latest", "frame", 1, time.Minute)
	assert.True(t, success)
	Cache().Wait()

	val, success := Cache().Get("latest")
	assert.Equal(t, "frame", val)
	assert.True(t, success)
}

func TestNewCache_KeepsEveryPage(t *testing.T) {
	c, err := newCache(WithMaxCost(MaxCostForPages(3)))
	require.NoError(t, err)
	defer c.Close()

	keys := []string{"latest", "page:0", "page:1", "page:2"}
	for _, k := range keys {
		c.Set(k, k, 1)
	}
	c.Wait()

	for _, k := range keys {
		v, ok := c.Get(k)
		assert.True(t, ok, k)
		assert.Equal(t, k, v)
	}
}

func TestNewCache_Expires(t *testing.T) {
	c, err := newCache()
	require.NoError(t, err)
	defer c.Close()

	c.SetWithTTL("latest", 1, 1, 10*time.Millisecond)
	c.Wait()
	assert.Eventually(t, func() bool {
		_, ok := c.Get("latest")
		return !ok
	}, 3*time.Second, 10*time.Millisecond)
}
