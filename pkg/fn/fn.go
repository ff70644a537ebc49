// Package fn implements an owning callable handle and a non-owning
// callable reference.
//
// A signature like R(A...) needs variadic type parameters to express
// generically; Go has none, so this package provides the family for the
// arities actually exercised in practice (0, 1 and 2 arguments). Each
// arity is a thin, type-safe facade over the single untyped
// rc.CallableHolder, which does the real reflect-based dispatch, giving a
// uniform call contract recovered at the Go type-parameter boundary.
package fn

import (
	"reflect"

	"rcbox/pkg/errs"
	"rcbox/pkg/handle"
	"rcbox/pkg/rc"
)

func newCallable(v any) (handle.Strong, error) {
	ch, err := rc.NewCallable(v)
	if err != nil {
		return handle.Strong{}, errs.ObjectNotFn()
	}
	return handle.FromRaw(ch), nil
}

func asHolder(h handle.Strong) (*rc.CallableHolder, bool) {
	ch, ok := handle.AsAny(h).(*rc.CallableHolder)
	return ch, ok
}

// Fn0 owns a callable of signature func() R.
type Fn0[R any] struct{ s handle.Strong }

// New0 wraps f.
func New0[R any](f func() R) (Fn0[R], error) {
	s, err := newCallable(f)
	return Fn0[R]{s: s}, err
}

// FromStrong0 reconstructs a typed wrapper from a generic Strong Handle,
// failing with ObjectNotFn unless its runtime type is exactly func() R.
func FromStrong0[R any](h handle.Strong) (Fn0[R], error) {
	ch, ok := asHolder(h)
	if !ok || ch.FuncType() != reflect.TypeOf((func() R)(nil)) {
		return Fn0[R]{}, errs.ObjectNotFn()
	}
	return Fn0[R]{s: h.Clone()}, nil
}

// Call invokes the callable, failing with ObjectNotFn if f is empty.
func (f Fn0[R]) Call() (R, error) {
	var zero R
	if f.s.IsNull() {
		return zero, errs.ObjectNotFn()
	}
	ch, ok := asHolder(f.s)
	if !ok {
		return zero, errs.ObjectNotFn()
	}
	out, err := ch.Call()
	if err != nil {
		return zero, err
	}
	return out[0].(R), nil
}

// Emplace replaces f's contents with a newly constructed callable.
func (f *Fn0[R]) Emplace(g func() R) error {
	s, err := newCallable(g)
	if err != nil {
		return err
	}
	old := f.s
	f.s = s
	old.Close()
	return nil
}

func (f Fn0[R]) IsNull() bool      { return f.s.IsNull() }
func (f Fn0[R]) Clone() Fn0[R]     { return Fn0[R]{s: f.s.Clone()} }
func (f *Fn0[R]) Close()           { f.s.Close() }
func (f Fn0[R]) Equal(o Fn0[R]) bool { return f.s.Equal(o.s) }

// Ref0 is the non-owning callable reference over func() R.
type Ref0[R any] struct {
	fn    func() R
	owner *Fn0[R]
}

// RefFromOwning0 borrows f; ToOwning on the result succeeds.
func RefFromOwning0[R any](f Fn0[R]) (Ref0[R], error) {
	if f.s.IsNull() {
		return Ref0[R]{}, errs.ObjectNotFn()
	}
	owner := f
	return Ref0[R]{fn: func() R { r, err := f.Call(); if err != nil { panic(err) }; return r }, owner: &owner}, nil
}

// RefFromFunc0 borrows an arbitrary Go func directly; the reference does
// not own it and ToOwning always fails.
func RefFromFunc0[R any](fn func() R) Ref0[R] { return Ref0[R]{fn: fn} }

// Call invokes the borrowed callable.
func (r Ref0[R]) Call() (R, error) {
	var zero R
	if r.fn == nil {
		return zero, errs.ObjectNotFn()
	}
	return r.fn(), nil
}

// ToOwning recovers the owning handle, only possible when r was built
// with RefFromOwning0.
func (r Ref0[R]) ToOwning() (Fn0[R], error) {
	if r.owner == nil {
		return Fn0[R]{}, errs.ObjectNotFn()
	}
	return r.owner.Clone(), nil
}

// Fn1 owns a callable of signature func(A) R.
type Fn1[A, R any] struct{ s handle.Strong }

func New1[A, R any](f func(A) R) (Fn1[A, R], error) {
	s, err := newCallable(f)
	return Fn1[A, R]{s: s}, err
}

func FromStrong1[A, R any](h handle.Strong) (Fn1[A, R], error) {
	ch, ok := asHolder(h)
	if !ok || ch.FuncType() != reflect.TypeOf((func(A) R)(nil)) {
		return Fn1[A, R]{}, errs.ObjectNotFn()
	}
	return Fn1[A, R]{s: h.Clone()}, nil
}

func (f Fn1[A, R]) Call(a A) (R, error) {
	var zero R
	if f.s.IsNull() {
		return zero, errs.ObjectNotFn()
	}
	ch, ok := asHolder(f.s)
	if !ok {
		return zero, errs.ObjectNotFn()
	}
	out, err := ch.Call(a)
	if err != nil {
		return zero, err
	}
	return out[0].(R), nil
}

func (f *Fn1[A, R]) Emplace(g func(A) R) error {
	s, err := newCallable(g)
	if err != nil {
		return err
	}
	old := f.s
	f.s = s
	old.Close()
	return nil
}

func (f Fn1[A, R]) IsNull() bool        { return f.s.IsNull() }
func (f Fn1[A, R]) Clone() Fn1[A, R]    { return Fn1[A, R]{s: f.s.Clone()} }
func (f *Fn1[A, R]) Close()             { f.s.Close() }
func (f Fn1[A, R]) Equal(o Fn1[A, R]) bool { return f.s.Equal(o.s) }

// Ref1 is the non-owning callable reference over func(A) R.
type Ref1[A, R any] struct {
	fn    func(A) R
	owner *Fn1[A, R]
}

func RefFromOwning1[A, R any](f Fn1[A, R]) (Ref1[A, R], error) {
	if f.s.IsNull() {
		return Ref1[A, R]{}, errs.ObjectNotFn()
	}
	owner := f
	return Ref1[A, R]{fn: func(a A) R { r, err := f.Call(a); if err != nil { panic(err) }; return r }, owner: &owner}, nil
}

func RefFromFunc1[A, R any](fn func(A) R) Ref1[A, R] { return Ref1[A, R]{fn: fn} }

func (r Ref1[A, R]) Call(a A) (R, error) {
	var zero R
	if r.fn == nil {
		return zero, errs.ObjectNotFn()
	}
	return r.fn(a), nil
}

func (r Ref1[A, R]) ToOwning() (Fn1[A, R], error) {
	if r.owner == nil {
		return Fn1[A, R]{}, errs.ObjectNotFn()
	}
	return r.owner.Clone(), nil
}

// Fn2 owns a callable of signature func(A, B) R.
type Fn2[A, B, R any] struct{ s handle.Strong }

func New2[A, B, R any](f func(A, B) R) (Fn2[A, B, R], error) {
	s, err := newCallable(f)
	return Fn2[A, B, R]{s: s}, err
}

func FromStrong2[A, B, R any](h handle.Strong) (Fn2[A, B, R], error) {
	ch, ok := asHolder(h)
	if !ok || ch.FuncType() != reflect.TypeOf((func(A, B) R)(nil)) {
		return Fn2[A, B, R]{}, errs.ObjectNotFn()
	}
	return Fn2[A, B, R]{s: h.Clone()}, nil
}

func (f Fn2[A, B, R]) Call(a A, b B) (R, error) {
	var zero R
	if f.s.IsNull() {
		return zero, errs.ObjectNotFn()
	}
	ch, ok := asHolder(f.s)
	if !ok {
		return zero, errs.ObjectNotFn()
	}
	out, err := ch.Call(a, b)
	if err != nil {
		return zero, err
	}
	return out[0].(R), nil
}

func (f *Fn2[A, B, R]) Emplace(g func(A, B) R) error {
	s, err := newCallable(g)
	if err != nil {
		return err
	}
	old := f.s
	f.s = s
	old.Close()
	return nil
}

func (f Fn2[A, B, R]) IsNull() bool           { return f.s.IsNull() }
func (f Fn2[A, B, R]) Clone() Fn2[A, B, R]    { return Fn2[A, B, R]{s: f.s.Clone()} }
func (f *Fn2[A, B, R]) Close()                { f.s.Close() }
func (f Fn2[A, B, R]) Equal(o Fn2[A, B, R]) bool { return f.s.Equal(o.s) }

// Ref2 is the non-owning callable reference over func(A, B) R.
type Ref2[A, B, R any] struct {
	fn    func(A, B) R
	owner *Fn2[A, B, R]
}

func RefFromOwning2[A, B, R any](f Fn2[A, B, R]) (Ref2[A, B, R], error) {
	if f.s.IsNull() {
		return Ref2[A, B, R]{}, errs.ObjectNotFn()
	}
	owner := f
	return Ref2[A, B, R]{fn: func(a A, b B) R { r, err := f.Call(a, b); if err != nil { panic(err) }; return r }, owner: &owner}, nil
}

func RefFromFunc2[A, B, R any](fn func(A, B) R) Ref2[A, B, R] { return Ref2[A, B, R]{fn: fn} }

func (r Ref2[A, B, R]) Call(a A, b B) (R, error) {
	var zero R
	if r.fn == nil {
		return zero, errs.ObjectNotFn()
	}
	return r.fn(a, b), nil
}

func (r Ref2[A, B, R]) ToOwning() (Fn2[A, B, R], error) {
	if r.owner == nil {
		return Fn2[A, B, R]{}, errs.ObjectNotFn()
	}
	return r.owner.Clone(), nil
}
