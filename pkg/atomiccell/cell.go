// Package atomiccell implements a cell that simultaneously holds a handle
// and a four-state FREE/LOCKED/WAITING/CONDITION tag, giving atomic
// load/store/CAS, a spinlock-style mutex, and a condition variable over
// one word.
//
// A natural systems-language design packs the tag into the low two bits
// of the handle's own pointer representation, avoiding a separate mutex
// allocation. Go's garbage collector requires every live pointer to be a
// value the collector can recognize and scan, so stealing bits out of a
// real pointer (or smuggling one through a plain integer) is unsound
// across a Go safepoint. This type keeps a state field with the same four
// tag values but guards it with a conventional sync.Mutex plus sync.Cond
// pair rather than a CAS loop over a tagged word, the same approach an
// intention-lock style mutex takes when it needs park/wake semantics
// beyond a plain mutex. The field moves between Free, Locked and
// Condition only: goroutines contending for the lock park inside
// sync.Mutex, so the cell never enters Waiting. Mutual exclusion, CAS
// semantics and condition-variable wait/notify are provided by the
// mutex and condition variable.
package atomiccell

import (
	"sync"

	"rcbox/pkg/handle"
	"rcbox/pkg/rclog"
)

// Tag is one of the cell's four states.
type Tag int

const (
	Free Tag = iota
	Locked
	Waiting
	Condition
)

func (t Tag) String() string {
	switch t {
	case Free:
		return "FREE"
	case Locked:
		return "LOCKED"
	case Waiting:
		return "WAITING"
	case Condition:
		return "CONDITION"
	default:
		return "?"
	}
}

// Cell is the atomic cell: current handle value plus lock/wait/condition
// state, all mutated only while mu is held.
type Cell struct {
	mu   sync.Mutex
	cond sync.Cond
	tag  Tag
	val  handle.Strong

	once sync.Once
}

func (c *Cell) init() {
	c.once.Do(func() { c.cond.L = &c.mu })
}

// NewCell constructs a cell holding initial (ownership transfers in;
// NewCell does not clone it).
func NewCell(initial handle.Strong) *Cell {
	c := &Cell{val: initial}
	c.init()
	return c
}

// Tag reports the cell's state, for diagnostics. It acquires the mutex
// itself, so it waits while another goroutine holds the lock and reports
// Free or Condition, never Locked.
func (c *Cell) Tag() Tag {
	c.init()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tag
}

// Lock acquires the cell as a spinlock/mutex. The handle value stored in
// it is preserved across Lock/Unlock.
func (c *Cell) Lock() {
	c.init()
	c.mu.Lock()
	c.tag = Locked
}

// TryLock attempts to acquire the cell without blocking.
func (c *Cell) TryLock() bool {
	c.init()
	if c.mu.TryLock() {
		c.tag = Locked
		return true
	}
	rclog.Default().Named("atomiccell").Debug("TryLock contended, cell already locked")
	return false
}

// Unlock releases the cell, returning its tag to FREE.
func (c *Cell) Unlock() {
	c.tag = Free
	c.mu.Unlock()
}

// Load locks, clones the current handle, unlocks, and returns the clone.
func (c *Cell) Load() handle.Strong {
	c.Lock()
	v := c.val.Clone()
	c.Unlock()
	return v
}

// Store locks, swaps in h, unlocks, and returns the previous handle
// (caller owns and must eventually Close it). Exchange is its synonym.
func (c *Cell) Store(h handle.Strong) handle.Strong {
	c.Lock()
	old := c.val
	c.val = h
	c.Unlock()
	return old
}

// Exchange is a synonym for Store.
func (c *Cell) Exchange(h handle.Strong) handle.Strong { return c.Store(h) }

// Current clones the cell's value without acquiring the lock; the caller
// must already hold it (the intended use is reading the value from
// inside a Wait predicate, where re-locking would deadlock on the
// non-reentrant underlying mutex).
func (c *Cell) Current() handle.Strong { return c.val.Clone() }

// SwapLocked swaps in h and returns the previous value without
// acquiring or releasing the lock; the caller must already hold it.
// Lets a caller combine a store with a NotifyOne/NotifyAll under one
// critical section before unlocking.
func (c *Cell) SwapLocked(h handle.Strong) handle.Strong {
	old := c.val
	c.val = h
	return old
}

// CompareAndSwapStrong implements a compare-and-swap: on identity match
// with *expected, stores desired (transferring its ownership into the cell,
// releasing the cell's previous value) and returns true. On mismatch,
// leaves the cell unchanged, clones the cell's current value into
// *expected (releasing whatever *expected held before), and returns
// false.
func (c *Cell) CompareAndSwapStrong(expected *handle.Strong, desired handle.Strong) bool {
	c.Lock()
	defer c.Unlock()
	if c.val.Equal(*expected) {
		old := c.val
		c.val = desired
		old.Close()
		return true
	}
	rclog.Default().Named("atomiccell").Debug("compare-and-swap mismatch, reloading expected")
	prevExpected := *expected
	*expected = c.val.Clone()
	prevExpected.Close()
	return false
}

// CompareAndSwapWeak is the weak-CAS counterpart. This mutex-backed
// implementation never fails spuriously, so it is a plain synonym for
// CompareAndSwapStrong; kept as a distinct name so callers written
// against a weak/strong CAS pair compile unchanged.
func (c *Cell) CompareAndSwapWeak(expected *handle.Strong, desired handle.Strong) bool {
	return c.CompareAndSwapStrong(expected, desired)
}

// Wait is the condition-variable wait; precondition is that the lock is
// already held. It re-tests pred, parking on the
// cell (tagged CONDITION) whenever pred is false, and reacquires the
// lock before returning once pred holds.
func (c *Cell) Wait(pred func() bool) {
	for !pred() {
		c.tag = Condition
		c.cond.Wait()
	}
	c.tag = Locked
}

// NotifyOne wakes a single waiter parked in Wait. Precondition: caller
// holds the lock.
func (c *Cell) NotifyOne() { c.cond.Signal() }

// NotifyAll wakes every waiter parked in Wait.
func (c *Cell) NotifyAll() { c.cond.Broadcast() }

// Close releases whatever handle the cell currently holds, leaving it
// empty. Cell has no implicit destructor (Go has none to hook), so a
// caller that allocated a non-null initial value is responsible for
// calling Close, the same explicit-release discipline every other rcbox
// handle wrapper follows.
func (c *Cell) Close() {
	c.Lock()
	old := c.val
	c.val = handle.Strong{}
	c.Unlock()
	old.Close()
}
