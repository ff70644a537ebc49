// Package handle implements the Strong Handle and Weak Handle, plus
// typed casts over them.
//
// A Strong Handle is deliberately a plain Go value, not an automatically
// copied/destroyed RAII object (Go has neither copy constructors nor
// destructors): Clone shares, Close releases, Take models a C++-style
// move by transferring ownership out of the receiver without touching
// the counters. These are plain structs mutated through explicit methods
// rather than language-level lifetime hooks.
package handle

import (
	"rcbox/pkg/rc"
)

// control is the method set every rc holder type exposes through Go's
// embedded-field promotion (rc.Block's pointer-receiver methods, plus
// each holder's Any/AnyPtr). A Strong/Weak Handle needs nothing more
// than this interface to manage any holder kind uniformly.
type control interface {
	AddRefStrong()
	ReleaseStrong()
	AddRefWeak()
	ReleaseWeak()
	TryUpgrade() bool
	WaitExpired()
	Type() rc.TypeTag
	StrongCount() int64
	WeakCount() int64
	Any() any
	AnyPtr() any
}

// Strong is the fundamental owning handle. The zero value is the null
// handle.
type Strong struct {
	ctrl control
}

// MakeValue allocates a value holder around v and returns an owning
// handle to it (strong=1, weak=1). If T embeds Anchor, the copy of v
// stored in the holder is bound to this holder before MakeValue returns,
// so Recover works on that stored payload from then on. v itself, and
// any logic that ran while v was being built, sees an unbound Anchor.
func MakeValue[T any](v T) Strong {
	h := rc.NewValue(v)
	bindAnchor(h.AnyPtr(), h)
	return Strong{ctrl: h}
}

// MakeValueFunc is the in-place-construction form of MakeValue: Go has no
// forwarded variadic constructor arguments, so the idiomatic substitute
// is a zero-argument constructor closure, evaluated eagerly.
func MakeValueFunc[T any](ctor func() T) Strong {
	return MakeValue(ctor())
}

// IsNull reports whether h is the empty/null handle.
func (h Strong) IsNull() bool { return h.ctrl == nil }

// Type returns the handle's runtime type tag, or the null tag when h is
// empty.
func (h Strong) Type() rc.TypeTag {
	if h.ctrl == nil {
		return rc.TypeTag{}
	}
	return h.ctrl.Type()
}

// Clone shares ownership: the fundamental "copy" operation.
func (h Strong) Clone() Strong {
	if h.ctrl != nil {
		h.ctrl.AddRefStrong()
	}
	return h
}

// Close releases this handle's ownership share. Calling Close more than
// once on copies of the same Go value (rather than on independently
// Clone()'d handles) double-releases, exactly as a duplicated raw
// shared_ptr destructor call would; callers own one Close per Clone.
func (h *Strong) Close() {
	if h.ctrl != nil {
		h.ctrl.ReleaseStrong()
		h.ctrl = nil
	}
}

// Take transfers ownership out of h without touching the counters, a
// move, leaving h null.
func (h *Strong) Take() Strong {
	t := *h
	*h = Strong{}
	return t
}

// Set assigns other into h, closing h's previous contents. Implemented
// as clone-then-release so that Set(h) (self-assignment, including
// through an alias sharing the same control block) never observes a
// transient zero refcount: the new reference is acquired before the old
// one is released.
func (h *Strong) Set(other Strong) {
	cloned := other.Clone()
	old := *h
	*h = cloned
	old.Close()
}

// Equal compares handles by control-block identity, not payload value.
func (h Strong) Equal(o Strong) bool { return h.ctrl == o.ctrl }

// StrongCount and WeakCount are diagnostic accessors for the handle's
// refcounts.
func (h Strong) StrongCount() int64 {
	if h.ctrl == nil {
		return 0
	}
	return h.ctrl.StrongCount()
}

func (h Strong) WeakCount() int64 {
	if h.ctrl == nil {
		return 0
	}
	return h.ctrl.WeakCount()
}

// Release detaches the handle for FFI handoff: returns the raw control
// identity without decrementing, and leaves h null. The companion of
// FromRaw.
func (h *Strong) Release() any {
	c := h.ctrl
	h.ctrl = nil
	return c
}

// FromRaw reconstructs a Strong Handle from a value previously produced
// by Release, without incrementing (the caller's Release already
// accounted for the ownership unit being handed back in).
func FromRaw(raw any) Strong {
	c, _ := raw.(control)
	return Strong{ctrl: c}
}

// AsAny exposes the underlying control object as an opaque any, for
// sibling packages (fam, fn) that need the concrete holder
// pointer itself (e.g. to reach a FAM's trailing array) rather than the
// Any()/AnyPtr() payload view the casts below use.
func AsAny(h Strong) any { return h.ctrl }

// Anchor lets a payload type recover an independently owned Strong
// Handle to itself from nothing but a pointer into its own payload: the
// Go analogue of enable_shared_from_this. A type that wants this embeds
// Anchor by value; MakeValue and array.New bind it once, right after the
// holder is constructed, to a non-owning reference to that holder's own
// control block. bind never increments the strong count (the holder
// already starts life at strong=1), so embedding an Anchor costs nothing
// beyond its own storage.
//
// Recover works on a bound payload while its strong count is above zero,
// whether or not the caller holds any other Strong Handle to it. A value
// still being built, before MakeValue/array.New stores it, is unbound and
// Recover returns the null handle. Inside the payload's own Destroy the
// strong count is already zero: a handle recovered there raises it to
// one, and closing that handle runs the holder's destroy step again.
type Anchor struct {
	self Strong
}

func (a *Anchor) bind(ctrl control) { a.self = Strong{ctrl: ctrl} }

// Recover returns a new Strong Handle sharing the anchor's control
// block, with its own counted ownership share, or the null handle if
// the anchor was never bound (the payload was built some way other than
// MakeValue/array.New, e.g. a bare Go composite literal).
func (a *Anchor) Recover() Strong { return a.self.Clone() }

// anchorable is satisfied by payload types embedding Anchor, once *T's
// promoted method set includes Anchor's pointer-receiver bind.
type anchorable interface{ bind(control) }

// bindAnchor binds v's embedded Anchor, if it has one, to ctrl. Called
// once by every holder constructor that can carry an anchored payload.
func bindAnchor(v any, ctrl control) {
	if a, ok := v.(anchorable); ok {
		a.bind(ctrl)
	}
}

// BindArrayAnchors binds every element of elems, in place, to holder's
// control block, for element types that embed Anchor. holder must be the
// concrete array holder that owns elems (e.g. the *rc.ArrayHolder[T]
// array.New just built); elements whose type does not embed Anchor are
// left untouched. Exported so pkg/array can bind element anchors without
// reaching into handle's unexported control contract itself.
func BindArrayAnchors[T any](elems []T, holder any) {
	c, ok := holder.(control)
	if !ok {
		return
	}
	for i := range elems {
		bindAnchor(&elems[i], c)
	}
}
