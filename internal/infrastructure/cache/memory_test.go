package cache

import (
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, time.Minute)

		c.Set("key", []byte("value"), time.Minute)

		got, found := c.Get("key")
		if !found {
			t.Fatal("Get() found = false, want true")
		}
		if string(got) != "value" {
			t.Errorf("Get() = %q, want value", got)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, time.Minute)

		if _, found := c.Get("absent"); found {
			t.Error("Get() found = true for absent key")
		}
	})

	t.Run("entries expire", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, time.Minute)

		c.Set("short", []byte("x"), 10*time.Millisecond)
		time.Sleep(30 * time.Millisecond)

		if _, found := c.Get("short"); found {
			t.Error("Get() found = true for expired key")
		}
	})

	t.Run("delete removes entry", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, time.Minute)

		c.Set("key", []byte("value"), time.Minute)
		c.Delete("key")

		if _, found := c.Get("key"); found {
			t.Error("Get() found = true after Delete")
		}
	})

	t.Run("clear removes everything", func(t *testing.T) {
		c := NewMemoryCache(time.Minute, time.Minute)

		c.Set("a", []byte("1"), time.Minute)
		c.Set("b", []byte("2"), time.Minute)
		c.Clear()

		if _, found := c.Get("a"); found {
			t.Error("Get(a) found = true after Clear")
		}
		if _, found := c.Get("b"); found {
			t.Error("Get(b) found = true after Clear")
		}
	})
}
