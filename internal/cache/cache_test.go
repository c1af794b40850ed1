package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRU(2)
	c.Add("a", "img-a")
	c.Add("b", "img-b")
	// 访问 a，使 b 成为最久未使用
	if v, ok := c.Get("a"); !ok || v != "img-a" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	c.Add("c", "img-c")

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRUCachesEmptyValue(t *testing.T) {
	c := NewLRU(4)
	c.Add("no-image", "")
	v, ok := c.Get("no-image")
	if !ok || v != "" {
		t.Fatalf("Get(no-image) = %q, %v; want empty hit", v, ok)
	}
}

func TestLRUConcurrentAccessStaysBounded(t *testing.T) {
	c := NewLRU(16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("k-%d-%d", g, i)
				c.Add(key, key)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Fatalf("Len = %d, exceeds capacity", c.Len())
	}
}
