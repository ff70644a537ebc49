package atomiccell

import (
	"sync"
	"testing"
	"time"

	"rcbox/pkg/handle"
)

func TestLoadStoreRoundtrip(t *testing.T) {
	c := NewCell(handle.MakeValue(1))
	old := c.Store(handle.MakeValue(2))
	defer old.Close()
	v := c.Load()
	defer v.Close()
	p := handle.ExactPtr[int](v)
	if p == nil || *p != 2 {
		t.Fatalf("Load() = %v, want 2", p)
	}
	c.Close()
}

func TestCompareAndSwapStrongMatch(t *testing.T) {
	initial := handle.MakeValue(1)
	c := NewCell(initial.Clone())
	expected := initial
	desired := handle.MakeValue(2)
	ok := c.CompareAndSwapStrong(&expected, desired)
	if !ok {
		t.Fatal("CAS should succeed when expected matches current")
	}
	expected.Close()
	v := c.Load()
	defer v.Close()
	if p := handle.ExactPtr[int](v); p == nil || *p != 2 {
		t.Fatalf("cell value = %v, want 2", p)
	}
	c.Close()
}

func TestCompareAndSwapStrongMismatch(t *testing.T) {
	c := NewCell(handle.MakeValue(1))
	expected := handle.MakeValue(99)
	defer expected.Close()
	desired := handle.MakeValue(2)
	ok := c.CompareAndSwapStrong(&expected, desired)
	if ok {
		t.Fatal("CAS should fail when expected does not match current")
	}
	desired.Close()
	p := handle.ExactPtr[int](expected)
	if p == nil || *p != 1 {
		t.Fatalf("expected reloaded with current value, got %v", p)
	}
	c.Close()
}

func TestTryLockContention(t *testing.T) {
	c := NewCell(handle.Strong{})
	c.Lock()
	if c.TryLock() {
		t.Fatal("TryLock should fail while the cell is already locked")
	}
	c.Unlock()
	if !c.TryLock() {
		t.Fatal("TryLock should succeed once unlocked")
	}
	c.Unlock()
}

func TestWaitNotifyOne(t *testing.T) {
	c := NewCell(handle.MakeValue(false))
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Lock()
		c.Wait(func() bool {
			cur := c.Current()
			defer cur.Close()
			p := handle.ExactPtr[bool](cur)
			return p != nil && *p
		})
		c.Unlock()
	}()
	time.Sleep(5 * time.Millisecond)
	c.Lock()
	old := c.SwapLocked(handle.MakeValue(true))
	c.NotifyOne()
	c.Unlock()
	old.Close()
	wg.Wait()
	c.Close()
}
