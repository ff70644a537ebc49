// Package alias implements an Aliasing Pointer and Aliasing Reference: a
// Strong Handle paired with a raw interior pointer, so the handle can
// keep a control block alive while the caller addresses some location
// inside (or reachable from) its payload.
//
// Go has no pointer-to-member offset arithmetic to recover a control
// block from an arbitrary interior pointer, so this package takes the
// (ControlBlock, raw pointer) pair as the representation, rather than
// attempting unsound pointer arithmetic across Go's GC boundary.
package alias

import (
	"rcbox/pkg/errs"
	"rcbox/pkg/handle"
)

// Ptr is a nullable aliasing pointer: a Strong Handle plus an interior
// *T. The interior pointer's lifetime is guaranteed by the handle's
// strong ownership share for as long as the Ptr is live.
type Ptr[T any] struct {
	h handle.Strong
	p *T
}

// FromStrong builds an aliasing pointer whose interior pointer is the
// handle's own payload, obtained by exact cast (fails if h does not hold
// exactly a T).
func FromStrong[T any](h handle.Strong) (Ptr[T], error) {
	p, err := handle.ExactRef[T](h)
	if err != nil {
		return Ptr[T]{}, err
	}
	return Ptr[T]{h: h.Clone(), p: p}, nil
}

// FromRaw recovers a freshly owned Strong Handle from a raw pointer into
// a payload built with an embedded handle.Anchor (handle.MakeValue or
// array.New binds it automatically). It is the from_raw / shared-from-
// this primitive: it works whether or not the caller still holds another
// Strong Handle to the payload. It fails with BadObjectCast if ptr's type
// never embedded an Anchor, or if the Anchor was never bound (ptr was not
// produced by a binding constructor, e.g. a value still being built
// before MakeValue stores it). See handle.Anchor for what happens when it
// is called from the payload's own Destroy.
func FromRaw[T any](ptr *T) (handle.Strong, error) {
	a, ok := any(ptr).(interface{ Recover() handle.Strong })
	if !ok {
		return handle.Strong{}, errs.BadObjectCastNil()
	}
	s := a.Recover()
	if s.IsNull() {
		return handle.Strong{}, errs.BadObjectCastNil()
	}
	return s, nil
}

// FromRawPtr builds an aliasing pointer from an explicit interior
// pointer: h supplies lifetime, raw is taken verbatim. If raw is nil, the
// interior pointer is instead obtained by polymorphic cast of h to T.
func FromRawPtr[T any](h handle.Strong, raw *T) (Ptr[T], error) {
	if raw != nil {
		return Ptr[T]{h: h.Clone(), p: raw}, nil
	}
	v, ok := handle.Poly[T](h)
	if !ok {
		return Ptr[T]{}, errs.BadObjectCastNil()
	}
	return Ptr[T]{h: h.Clone(), p: &v}, nil
}

// IsNull reports whether p has no interior pointer.
func (p Ptr[T]) IsNull() bool { return p.p == nil }

// Get dereferences the aliasing pointer, failing with BadObjectCast if
// it is null.
func (p Ptr[T]) Get() (*T, error) {
	if p.p == nil {
		return nil, errs.BadObjectCastNil()
	}
	return p.p, nil
}

// Handle returns the underlying Strong Handle supplying lifetime,
// without cloning it.
func (p Ptr[T]) Handle() handle.Strong { return p.h }

// Close releases the handle's ownership share.
func (p *Ptr[T]) Close() {
	p.h.Close()
	p.p = nil
}

// Clone shares the underlying handle, producing an independent Ptr with
// the same interior pointer.
func (p Ptr[T]) Clone() Ptr[T] {
	return Ptr[T]{h: p.h.Clone(), p: p.p}
}

// Ref is the non-null variant of Ptr: construction fails if the interior
// pointer would be null.
type Ref[T any] struct {
	h handle.Strong
	p *T
}

// FromStrongRef builds a non-null aliasing reference via exact cast.
func FromStrongRef[T any](h handle.Strong) (Ref[T], error) {
	p, err := handle.ExactRef[T](h)
	if err != nil {
		return Ref[T]{}, err
	}
	return Ref[T]{h: h.Clone(), p: p}, nil
}

// FromRawPtrRef is FromRawPtr's non-null variant: a nil raw pointer that
// also fails polymorphic cast is rejected at construction.
func FromRawPtrRef[T any](h handle.Strong, raw *T) (Ref[T], error) {
	p, err := FromRawPtr(h, raw)
	if err != nil {
		return Ref[T]{}, err
	}
	if p.p == nil {
		p.Close()
		return Ref[T]{}, errs.BadObjectCastNil()
	}
	return Ref[T]{h: p.h, p: p.p}, nil
}

// Get dereferences the reference; it is never null by construction.
func (r Ref[T]) Get() *T { return r.p }

// Handle returns the underlying Strong Handle.
func (r Ref[T]) Handle() handle.Strong { return r.h }

// AsPtr returns a nullable aliasing pointer sharing this reference's
// handle and interior pointer.
func (r Ref[T]) AsPtr() Ptr[T] {
	return Ptr[T]{h: r.h.Clone(), p: r.p}
}

// Close releases the handle's ownership share.
func (r *Ref[T]) Close() {
	r.h.Close()
	r.p = nil
}

// Clone shares the underlying handle.
func (r Ref[T]) Clone() Ref[T] {
	return Ref[T]{h: r.h.Clone(), p: r.p}
}
