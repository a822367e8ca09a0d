package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wepcomic/wepcomic-term/internal/logger"
)

func TestSetAndGet(t *testing.T) {
	c := NewMemoryCache[string, int](logger.Get())

	c.Set("a", 1, time.Minute)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := NewMemoryCache[string, int](logger.Get())

	c.Set("a", 1, time.Nanosecond)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestNonPositiveTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache[string, int](logger.Get())

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestDeleteAndClear(t *testing.T) {
	c := NewMemoryCache[string, int](logger.Get())

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
}
