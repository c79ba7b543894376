package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetPut(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("status")
	assert.False(t, ok)

	c.Put("status", 42)
	v, ok := c.Get("status")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Put("status", "stale soon")

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("status")
	assert.False(t, ok)
}

func TestInvalidateIsScopedToNamespace(t *testing.T) {
	c := New(time.Minute)
	c.Put("status", 1)
	c.Put("summary", 2)

	c.Invalidate("status")

	_, ok := c.Get("status")
	assert.False(t, ok)
	v, ok := c.Get("summary")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Put("status", 1)
	c.Put("summary", 2)

	c.Clear()

	_, ok := c.Get("status")
	assert.False(t, ok)
	_, ok = c.Get("summary")
	assert.False(t, ok)
}
