package handle

import (
	"rcbox/pkg/errs"
	"rcbox/pkg/rc"
)

// UncheckedPtr returns the payload address assuming the handle's dynamic
// type is exactly T, an unchecked cast. Violating the precondition panics
// via the underlying type assertion rather than invoking undefined
// behavior, which is the safer Go rendition of the same contract.
func UncheckedPtr[T any](h Strong) *T {
	return h.ctrl.AnyPtr().(*T)
}

// ExactPtr returns the payload address if h's dynamic type is exactly T,
// or nil otherwise. No base class acceptance: a value holding a Derived
// never exact-casts to Base.
func ExactPtr[T any](h Strong) *T {
	if h.ctrl == nil {
		return nil
	}
	p, _ := h.ctrl.AnyPtr().(*T)
	return p
}

// ExactRef is the reference form of ExactPtr: fails with BadObjectCast on
// mismatch or when h is null.
func ExactRef[T any](h Strong) (*T, error) {
	p := ExactPtr[T](h)
	if p == nil {
		return nil, exactCastErr[T](h)
	}
	return p, nil
}

// Poly resolves a polymorphic cast: is this payload convertible to B
// through its inheritance chain. Go has no exception unwind to borrow for
// this, but it has something better suited: B is itself expected to be
// an interface type, and Go's own type system already answers "does the
// concrete payload implement B".
func Poly[B any](h Strong) (B, bool) {
	var zero B
	if h.ctrl == nil {
		return zero, false
	}
	if v, ok := h.ctrl.AnyPtr().(B); ok {
		return v, true
	}
	if v, ok := h.ctrl.Any().(B); ok {
		return v, true
	}
	return zero, false
}

// PolyRef is the reference form of Poly: fails with BadObjectCast on
// mismatch or when h is null.
func PolyRef[B any](h Strong) (B, error) {
	v, ok := Poly[B](h)
	if !ok {
		return v, exactCastErr[B](h)
	}
	return v, nil
}

func exactCastErr[T any](h Strong) error {
	return errs.BadObjectCast(rc.TagOf[T]().String(), h.Type().String())
}
