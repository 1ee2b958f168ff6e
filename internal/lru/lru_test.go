package lru

import (
	"sync"
	"testing"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := New[string, int](3)

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if v, ok := cache.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v; want 2, true", v, ok)
	}
	if v, ok := cache.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %v, %v; want 3, true", v, ok)
	}

	if _, ok := cache.Get("d"); ok {
		t.Error("Get(d) should return false for missing key")
	}
}

func TestCache_Eviction(t *testing.T) {
	cache := New[string, int](2)

	cache.Put("a", 1)
	cache.Put("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	cache.Get("a")

	cache.Put("c", 3)

	if _, ok := cache.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("a should still exist, got %v, %v", v, ok)
	}
	if v, ok := cache.Get("c"); !ok || v != 3 {
		t.Errorf("c should exist, got %v, %v", v, ok)
	}
}

func TestCache_Update(t *testing.T) {
	cache := New[string, int](2)

	cache.Put("a", 1)
	cache.Put("a", 2)

	if v, ok := cache.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %v, %v; want 2, true", v, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d; want 1", cache.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	cache := New[string, int](3)

	cache.Put("a", 1)
	cache.Put("b", 2)

	if !cache.Delete("a") {
		t.Error("Delete(a) should return true")
	}
	if cache.Delete("a") {
		t.Error("Delete(a) again should return false")
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("a should be deleted")
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d; want 1", cache.Len())
	}
}

func TestCache_Clear(t *testing.T) {
	cache := New[string, int](3)

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("Len() = %d after Clear; want 0", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("a should not exist after Clear")
	}
}

func TestCache_Metrics(t *testing.T) {
	cache := New[string, int](2)

	cache.Put("a", 1)
	cache.Get("a") // Hit
	cache.Get("a") // Hit
	cache.Get("b") // Miss
	cache.Get("c") // Miss

	hits, misses := cache.Metrics()
	if hits != 2 {
		t.Errorf("hits = %d; want 2", hits)
	}
	if misses != 2 {
		t.Errorf("misses = %d; want 2", misses)
	}
}

func TestCache_MinCapacity(t *testing.T) {
	cache := New[string, int](0) // Corrected to 1

	cache.Put("a", 1)
	cache.Put("b", 2)

	if cache.Len() != 1 {
		t.Errorf("Len() = %d; want 1", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("a should have been evicted")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := New[int, int](100)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Put(base*100+j, j)
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Get(j)
			}
		}()
	}

	wg.Wait()

	if cache.Len() > 100 {
		t.Errorf("Len() = %d; want at most 100", cache.Len())
	}
}
