// Package array implements an Array View and a Variable-Array Handle.
// The fixed/variable-array distinction collapses onto a single
// runtime-length holder in this port (rc.ArrayHolder); this package only
// ever exposes the variable-length handle, and no separate fixed-array
// type exists.
package array

import (
	"unsafe"

	"rcbox/pkg/errs"
	"rcbox/pkg/handle"
	"rcbox/pkg/rc"
)

// View is a non-owning {pointer, length} view over a contiguous
// sequence. A Go slice already is a pointer+length+capacity triple, so
// View is a thin named-type wrapper rather than a hand-rolled struct,
// leaning on slices directly instead of reinventing them.
type View[T any] []T

// Len reports the view's length.
func (v View[T]) Len() int { return len(v) }

// At is the bounds-checked accessor, failing with OutOfRange instead of
// panicking the way plain indexing would.
func (v View[T]) At(i int) (*T, error) {
	if i < 0 || i >= len(v) {
		return nil, errs.OutOfRange(i, len(v))
	}
	return &v[i], nil
}

// First returns the leading n elements.
func (v View[T]) First(n int) View[T] { return v[:n] }

// Last returns the trailing n elements.
func (v View[T]) Last(n int) View[T] { return v[len(v)-n:] }

// Sub returns the [lo,hi) subspan.
func (v View[T]) Sub(lo, hi int) View[T] { return v[lo:hi] }

// ByteSize reports the view's size in bytes.
func (v View[T]) ByteSize() uintptr {
	var zero T
	return uintptr(len(v)) * unsafe.Sizeof(zero)
}

// Container is satisfied by anything exposing a contiguous []T, letting
// View be built from any contiguous container.
type Container[T any] interface{ Data() []T }

// FromContainer builds a view over c's contiguous storage.
func FromContainer[T any](c Container[T]) View[T] { return View[T](c.Data()) }

// FromSlice builds a view directly over an existing slice.
func FromSlice[T any](s []T) View[T] { return View[T](s) }

// Handle is a Variable-Array Handle: a Strong Handle constrained to
// array holders.
type Handle[T any] struct {
	s handle.Strong
}

// New allocates an array handle of n elements. ctor, if non-nil,
// constructs the first k elements (k clamped to n); the rest are the
// zero value of T. Elements of a type that embeds handle.Anchor are
// bound to this holder's control block before New returns, so Recover
// (and alias.FromRaw) work on the elements of the returned handle.
func New[T any](n, k int, ctor func(i int) T) Handle[T] {
	h := rc.NewArray(n, k, ctor)
	handle.BindArrayAnchors(h.Elems, h)
	return Handle[T]{s: handle.FromRaw(h)}
}

// IsNull reports whether the handle holds no array at all (as opposed to
// a zero-length one).
func (h Handle[T]) IsNull() bool { return h.s.IsNull() }

func (h Handle[T]) slice() []T {
	p := handle.ExactPtr[[]T](h.s)
	if p == nil {
		return nil
	}
	return *p
}

// Size reports the array's length.
func (h Handle[T]) Size() int { return len(h.slice()) }

// Data returns the live backing slice; mutating it mutates the handle's
// payload in place.
func (h Handle[T]) Data() []T { return h.slice() }

// At is the bounds-checked accessor.
func (h Handle[T]) At(i int) (*T, error) {
	s := h.slice()
	if i < 0 || i >= len(s) {
		return nil, errs.OutOfRange(i, len(s))
	}
	return &s[i], nil
}

// View returns an implicit non-owning view over the array.
func (h Handle[T]) View() View[T] { return View[T](h.slice()) }

// Strong returns the underlying Strong Handle, without cloning it.
func (h Handle[T]) Strong() handle.Strong { return h.s }

// Clone shares the underlying handle.
func (h Handle[T]) Clone() Handle[T] { return Handle[T]{s: h.s.Clone()} }

// Close releases the underlying handle.
func (h *Handle[T]) Close() { h.s.Close() }

// Emplace replaces the current payload with a freshly allocated array of
// length n (n=0 yields an empty, non-null array).
func (h *Handle[T]) Emplace(n int) {
	fresh := rc.NewArray[T](n, 0, nil)
	handle.BindArrayAnchors(fresh.Elems, fresh)
	old := h.s
	h.s = handle.FromRaw(fresh)
	old.Close()
}
