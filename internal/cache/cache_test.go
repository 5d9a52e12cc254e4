package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](100)
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v, want 42, true", val, ok)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}

	c.Set("key1", 7)
	if val, _ := c.Get("key1"); val != 7 {
		t.Errorf("overwritten value = %d, want 7", val)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() int {
		calls++
		return 100
	}

	if v := c.GetOrCreate("key1", create); v != 100 {
		t.Errorf("expected 100, got %d", v)
	}
	if v := c.GetOrCreate("key1", create); v != 100 {
		t.Errorf("expected 100, got %d", v)
	}
	if calls != 1 {
		t.Errorf("expected create called once, got %d", calls)
	}
}

func TestCacheDeleteClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Error("Delete(a) = false")
	}
	if c.Delete("a") {
		t.Error("second Delete(a) = true")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int, int](4)
	for i := range 4 {
		c.Set(i, i)
	}
	// Touch 0 so that 1 and 2 are the oldest.
	c.Get(0)
	c.Set(4, 4)

	// 5 entries > 4 triggers eviction down to 3.
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	for _, k := range []int{1, 2} {
		if _, ok := c.Get(k); ok {
			t.Errorf("key %d survived eviction", k)
		}
	}
	for _, k := range []int{0, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("key %d was evicted", k)
		}
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[string, int](50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := strconv.Itoa((g*31 + i) % 80)
				c.GetOrCreate(k, func() int { return i })
				c.Get(k)
			}
		}()
	}
	wg.Wait()
	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds soft limit", c.Len())
	}
}

func TestShardedSetIfAbsent(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	if !c.SetIfAbsent("k", 1) {
		t.Fatal("first SetIfAbsent = false")
	}
	if c.SetIfAbsent("k", 2) {
		t.Fatal("second SetIfAbsent = true")
	}
	if v, _ := c.Get("k"); v != 1 {
		t.Errorf("value = %d, want 1", v)
	}
	if !c.Delete("k") {
		t.Error("Delete = false")
	}
	if !c.SetIfAbsent("k", 3) {
		t.Error("SetIfAbsent after Delete = false")
	}
}

func TestShardedSetIfAbsentConcurrent(t *testing.T) {
	c := NewSharded[uint64, int](64, Uint64Hasher)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins = make(map[uint64]int)
	)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range uint64(32) {
				if c.SetIfAbsent(k, g) {
					mu.Lock()
					wins[k]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	for k := range uint64(32) {
		if wins[k] != 1 {
			t.Errorf("key %d claimed %d times", k, wins[k])
		}
	}
}

func TestShardedEvictionAndStats(t *testing.T) {
	c := NewSharded[uint64, int](2, func(uint64) uint64 { return 0 })
	for k := range uint64(5) {
		c.Set(k, int(k))
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(0); ok {
		t.Error("oldest key survived")
	}
	if _, ok := c.Get(4); !ok {
		t.Error("newest key evicted")
	}
	s := c.Stats()
	if s.Evictions != 3 || s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Stats = %+v", s)
	}
	if s.TotalCapacity != 2*ShardCount {
		t.Errorf("TotalCapacity = %d", s.TotalCapacity)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}

func TestListOrder(t *testing.T) {
	l := NewList[int]()
	a := l.PushFront(1)
	l.PushFront(2)
	c := l.PushFront(3)

	if got := l.Keys(); !equal(got, []int{3, 2, 1}) {
		t.Fatalf("Keys() = %v", got)
	}
	l.MoveToFront(a)
	if got := l.Keys(); !equal(got, []int{1, 3, 2}) {
		t.Fatalf("Keys() after MoveToFront = %v", got)
	}
	l.Remove(c)
	l.Remove(c)
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if k, _ := l.Oldest(); k != 2 {
		t.Errorf("Oldest() = %d, want 2", k)
	}
	if k, ok := l.RemoveOldest(); !ok || k != 2 {
		t.Errorf("RemoveOldest() = %d, %v", k, ok)
	}
}

func TestListOldestFunc(t *testing.T) {
	l := NewList[int]()
	for i := range 5 {
		l.PushFront(i)
	}
	// Oldest is 0; skip even keys.
	n := l.OldestFunc(func(k int) bool { return k%2 == 1 })
	if n == nil || n.Key != 1 {
		t.Fatalf("OldestFunc = %v", n)
	}
	if l.OldestFunc(func(int) bool { return false }) != nil {
		t.Error("OldestFunc with no match returned a node")
	}
}

func TestListEmptyOperations(t *testing.T) {
	l := NewList[string]()
	if _, ok := l.Oldest(); ok {
		t.Error("Oldest on empty list")
	}
	if _, ok := l.RemoveOldest(); ok {
		t.Error("RemoveOldest on empty list")
	}
	l.MoveToFront(nil)
	l.Remove(nil)
	l.Clear()
	if l.Len() != 0 {
		t.Error("empty list has nodes")
	}
}

func TestListForeignNode(t *testing.T) {
	a, b := NewList[int](), NewList[int]()
	n := a.PushFront(1)
	b.PushFront(2)
	b.MoveToFront(n)
	b.Remove(n)
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("lengths = %d, %d, want 1, 1", a.Len(), b.Len())
	}
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
