// Package rc implements the control block and typed holders that every
// handle variety in rcbox shares a single allocation with. It collapses
// generation counters, owner/observer bookkeeping, and external/internal
// refcount splits explored elsewhere into a single strong/weak counting
// scheme.
//
// Go has no manual storage layout and no const-generic array length, so
// two liberties are taken relative to a systems-language rendition:
//
//   - the payload's runtime type identity is a reflect.Type rather than a
//     vtable slot; Go's own type system already gives "two holders of the
//     same type compare equal" for free.
//   - the fixed-array and variable-array holder variants collapse onto a
//     single runtime-length Array holder, since Go cannot parameterize a
//     type by an integer array length. The behavioral contract (K<=N
//     constructed elements, remaining value-initialized, reverse
//     destruction order) is preserved.
package rc

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Destroyer is implemented by payload types that need deterministic
// cleanup when a Strong Handle's count reaches zero. Types that do not
// implement it are simply dropped for the GC to reclaim.
type Destroyer interface{ Destroy() }

func destroyIfDestroyer(v any) {
	if d, ok := v.(Destroyer); ok {
		d.Destroy()
	}
}

// TypeTag is a runtime-unique type identity: two holders built for the
// same underlying type compare equal, holders of different types compare
// unequal.
type TypeTag struct{ t reflect.Type }

// TagOf returns the tag for the static type T.
func TagOf[T any]() TypeTag {
	var zero T
	return TypeTag{t: reflect.TypeOf(&zero).Elem()}
}

// TagForValue returns the tag for v's dynamic type. Used for callable
// holders, where the interesting identity is the captured func's type.
func TagForValue(v any) TypeTag { return TypeTag{t: reflect.TypeOf(v)} }

func (t TypeTag) Equal(o TypeTag) bool { return t.t == o.t }

func (t TypeTag) String() string {
	if t.t == nil {
		return "<null>"
	}
	return t.t.String()
}

// Block is the control block: atomic strong/weak counters plus the three
// virtual operations (type id, destroy payload, poll-for-expiry). Counter
// arithmetic only needs to be relaxed; Go's sync/atomic already gives the
// strong-1-to-0 edge the acquire/release ordering that transition needs.
type Block struct {
	strong       atomic.Int64
	weak         atomic.Int64
	tag          TypeTag
	destroy      func() // runs once, when strong hits zero
	free         func() // runs once, when weak hits zero after strong==0
	expiredOnce  sync.Once
	expired      chan struct{}
}

// NewBlock allocates a control block with strong=1, weak=1 (the payload's
// own weak token). destroy runs exactly
// once when the strong count reaches zero; free (optional) runs exactly
// once when the weak count subsequently reaches zero.
func NewBlock(tag TypeTag, destroy, free func()) *Block {
	b := &Block{tag: tag, destroy: destroy, free: free, expired: make(chan struct{})}
	b.strong.Store(1)
	b.weak.Store(1)
	return b
}

// Type reports the control block's recorded type tag.
func (b *Block) Type() TypeTag { return b.tag }

// StrongCount and WeakCount are diagnostic accessors; the core does not
// otherwise expose raw counter values.
func (b *Block) StrongCount() int64 { return b.strong.Load() }
func (b *Block) WeakCount() int64   { return b.weak.Load() }

// AddRefStrong is the unconditional strong-count increment.
func (b *Block) AddRefStrong() { b.strong.Add(1) }

// ReleaseStrong decrements the strong count; on the 1->0 edge it runs
// destroy, wakes any WaitExpired waiters, then releases the implicit
// weak token the live payload held.
func (b *Block) ReleaseStrong() {
	if b.strong.Add(-1) == 0 {
		if b.destroy != nil {
			b.destroy()
		}
		b.expiredOnce.Do(func() { close(b.expired) })
		b.ReleaseWeak()
	}
}

// AddRefWeak is the unconditional weak increment.
func (b *Block) AddRefWeak() { b.weak.Add(1) }

// ReleaseWeak decrements the weak count; on the edge to zero it runs
// free, which in this Go port is usually nil (the GC reclaims the
// backing storage once nothing references the *Block), but is exercised
// by the FAM and array holders to drop slice backing arrays promptly.
func (b *Block) ReleaseWeak() {
	if b.weak.Add(-1) == 0 {
		if b.free != nil {
			b.free()
		}
	}
}

// TryUpgrade loops CAS strong+1 while strong != 0; returns whether strong
// was > 0 at the moment of the successful CAS.
func (b *Block) TryUpgrade() bool {
	for {
		s := b.strong.Load()
		if s <= 0 {
			return false
		}
		if b.strong.CompareAndSwap(s, s+1) {
			return true
		}
	}
}

// WaitExpired blocks until the strong count has reached zero. The
// matching wake is ReleaseStrong's close(b.expired) on the 1->0 edge; a
// one-shot channel close is the idiomatic Go analogue of context.Done()
// for this kind of single-event wait.
func (b *Block) WaitExpired() {
	if b.strong.Load() <= 0 {
		return
	}
	<-b.expired
}

// ValueHolder is a control block immediately followed by a single value,
// the simplest holder variant.
type ValueHolder[T any] struct {
	Block
	Payload T
}

// NewValue allocates a value holder around v.
func NewValue[T any](v T) *ValueHolder[T] {
	h := &ValueHolder[T]{Payload: v}
	h.Block = *NewBlock(TagOf[T](), func() {
		destroyIfDestroyer(any(&h.Payload))
		var zero T
		h.Payload = zero
	}, nil)
	return h
}

// Any and AnyPtr give pkg/handle's casts uniform, holder-kind-agnostic
// access to the payload: Any for value-receiver interface checks
// (polymorphic cast), AnyPtr for the addressable interior pointer exact
// and unchecked casts return.
func (h *ValueHolder[T]) Any() any    { return h.Payload }
func (h *ValueHolder[T]) AnyPtr() any { return &h.Payload }

// ArrayHolder unifies the fixed-array and variable-array holder variants
// into a control block followed by a runtime-length slice of T. n >= 0
// constructs n value-initialized (or ctor-initialized) elements;
// destruction always runs index n-1 down to 0.
type ArrayHolder[T any] struct {
	Block
	Elems []T
}

// NewArray allocates an array holder of n elements. If ctor is non-nil it
// is called for indices [0, min(k, n)) to construct the first k elements;
// remaining elements, and all elements when ctor is nil, are left at T's
// zero value.
func NewArray[T any](n int, k int, ctor func(i int) T) *ArrayHolder[T] {
	elems := make([]T, n)
	if ctor != nil {
		if k > n {
			k = n
		}
		for i := 0; i < k; i++ {
			elems[i] = ctor(i)
		}
	}
	h := &ArrayHolder[T]{Elems: elems}
	h.Block = *NewBlock(TagOf[[]T](), func() {
		for i := len(h.Elems) - 1; i >= 0; i-- {
			destroyIfDestroyer(any(&h.Elems[i]))
		}
	}, func() {
		h.Elems = nil
	})
	return h
}

// Any and AnyPtr mirror ValueHolder's; the array holder's "payload" for
// casting purposes is its element slice.
func (h *ArrayHolder[T]) Any() any    { return h.Elems }
func (h *ArrayHolder[T]) AnyPtr() any { return &h.Elems }

// CallableHolder composes a fixed call slot over a reflect-boxed Go func
// value, giving a uniform call contract regardless of arity. Go cannot
// parameterize a single type by an arbitrary function arity, so
// the holder itself is untyped and the arity-specific Fn0/Fn1/Fn2 wrappers
// in pkg/fn recover type safety at the call site.
type CallableHolder struct {
	Block
	fn reflect.Value
}

// NewCallable boxes fn, which must be a Go func value, non-nil.
func NewCallable(fn any) (*CallableHolder, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errObjectNotFn()
	}
	h := &CallableHolder{fn: v}
	h.Block = *NewBlock(TagForValue(fn), func() {
		h.fn = reflect.Value{}
	}, nil)
	return h, nil
}

// Call invokes the boxed function with args, returning its outputs.
func (h *CallableHolder) Call(args ...any) ([]any, error) {
	if !h.fn.IsValid() {
		return nil, errObjectNotFn()
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.New(h.fn.Type().In(i)).Elem()
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	out := h.fn.Call(in)
	res := make([]any, len(out))
	for i, o := range out {
		res[i] = o.Interface()
	}
	return res, nil
}

// FuncType reports the reflect.Type of the boxed func, used by pkg/fn to
// verify a signature match when reconstructing a typed Fn wrapper from a
// generic Strong Handle.
func (h *CallableHolder) FuncType() reflect.Type {
	if !h.fn.IsValid() {
		return nil
	}
	return h.fn.Type()
}

// Any reports the boxed func value itself; callable holders are never
// targets of exact/polymorphic cast in this port (pkg/fn talks to them
// directly), but the method keeps CallableHolder satisfying the same
// shape as the other holder kinds.
func (h *CallableHolder) Any() any {
	if !h.fn.IsValid() {
		return nil
	}
	return h.fn.Interface()
}
func (h *CallableHolder) AnyPtr() any { return h.Any() }

// errObjectNotFn is a thin indirection so this package does not import
// pkg/errs (which would be a needless dependency edge for a core that
// otherwise has none); pkg/fn translates this sentinel into the public
// errs.ObjectNotFn() at the API boundary.
var errObjectNotFn = func() error { return errNotFn{} }

type errNotFn struct{}

func (errNotFn) Error() string { return "rc: not callable" }

// IsNotFn reports whether err is the sentinel NewCallable/Call return on
// a non-function value.
func IsNotFn(err error) bool { _, ok := err.(errNotFn); return ok }

// FamHolder is a head+trailing-array composite: one allocation, one
// control block, the trailing array constructed before the head (so the
// head's constructor may observe it) and destroyed after it (head first,
// then array in reverse).
type FamHolder[H any, E any] struct {
	Block
	Array []E
	Head  H
}

// NewFam allocates a FAM holder of n trailing elements. elemCtor
// constructs each element before headCtor runs with the finished slice
// visible to it.
func NewFam[H any, E any](n int, elemCtor func(i int) E, headCtor func(arr []E) H) *FamHolder[H, E] {
	f := &FamHolder[H, E]{}
	f.Array = make([]E, n)
	if elemCtor != nil {
		for i := 0; i < n; i++ {
			f.Array[i] = elemCtor(i)
		}
	}
	f.Head = headCtor(f.Array)
	f.Block = *NewBlock(TagOf[H](), func() {
		destroyIfDestroyer(any(&f.Head))
		for i := len(f.Array) - 1; i >= 0; i-- {
			destroyIfDestroyer(any(&f.Array[i]))
		}
		var zero H
		f.Head = zero
	}, func() {
		f.Array = nil
	})
	return f
}

// Any and AnyPtr expose the FAM's head value for casting purposes; the
// trailing array is reached through pkg/fam's Array accessor instead.
func (f *FamHolder[H, E]) Any() any    { return f.Head }
func (f *FamHolder[H, E]) AnyPtr() any { return &f.Head }
