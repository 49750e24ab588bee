package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(1 * time.Second)

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1")
	}
	if val != "value1" {
		t.Errorf("Expected value1, got %v", val)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := New(100 * time.Millisecond)

	c.Set("key1", "value1")

	// Should exist immediately
	_, found := c.Get("key1")
	if !found {
		t.Error("Expected to find key1 immediately")
	}

	// Wait for expiration
	time.Sleep(150 * time.Millisecond)

	_, found = c.Get("key1")
	if found {
		t.Error("Expected key1 to be expired")
	}
}

func TestCache_Len(t *testing.T) {
	c := New(1 * time.Second)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)
	if c.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", c.Len())
	}

	c.SetWithTTL("a", 4, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	c.Get("a")
	c.Get("missing")
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}
}

func TestCache_GetOrLoad_CachesValue(t *testing.T) {
	c := New(1 * time.Second)
	calls := 0

	load := func() (interface{}, error) {
		calls++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if v != "loaded" {
			t.Errorf("Expected loaded, got %v", v)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 load, got %d", calls)
	}
}

func TestCache_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	c := New(1 * time.Second)
	boom := errors.New("boom")

	_, err := c.GetOrLoad("k", func() (interface{}, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected failed load not to be cached")
	}
}

func TestCache_GetOrLoad_CoalescesConcurrentLoads(t *testing.T) {
	c := New(1 * time.Second)
	var calls atomic.Int32
	release := make(chan struct{})

	load := func() (interface{}, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("k", load)
			if err != nil || v != 42 {
				t.Errorf("Expected 42, got %v (%v)", v, err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("Expected 1 load, got %d", n)
	}
}

func TestKeyFor(t *testing.T) {
	type req struct {
		A int
		B []float64
	}

	k1, err := KeyFor("sizing", req{A: 1, B: []float64{4, 8}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	k2, _ := KeyFor("sizing", req{A: 1, B: []float64{4, 8}})
	k3, _ := KeyFor("sizing", req{A: 2, B: []float64{4, 8}})
	k4, _ := KeyFor("footprint", req{A: 1, B: []float64{4, 8}})

	if k1 != k2 {
		t.Errorf("Expected equal keys for equal values, got %s and %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("Expected different keys for different values")
	}
	if k1 == k4 {
		t.Error("Expected namespace to change the key")
	}
}
