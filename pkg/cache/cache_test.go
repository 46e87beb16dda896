package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGetDelete(t *testing.T) {
	c := New(time.Minute, time.Minute)

	c.Set("page:/", "home")
	v, ok := c.Get("page:/")
	assert.True(t, ok)
	assert.Equal(t, "home", v)

	c.Delete("page:/")
	_, ok = c.Get("page:/")
	assert.False(t, ok)
}

func TestCacheExpiration(t *testing.T) {
	c := New(time.Minute, 0)
	c.SetWithExpiration("short", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
}

func TestCacheDeletePrefix(t *testing.T) {
	c := New(0, 0)
	c.Set("page:/companions?page=1", 1)
	c.Set("page:/companions?page=2", 2)
	c.Set("page:/", 3)

	var evicted []string
	c.SetOnEvicted(func(key string, _ any) { evicted = append(evicted, key) })

	assert.Equal(t, 2, c.DeletePrefix("page:/companions"))
	assert.Equal(t, 1, c.Count())
	assert.Len(t, evicted, 2)
	assert.Equal(t, time.Duration(-1), c.TTL())
}
