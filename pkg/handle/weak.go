package handle

import (
	"rcbox/pkg/errs"
	"rcbox/pkg/rc"
	"rcbox/pkg/rclog"
)

// Weak is a non-owning observer handle. The zero value is the null weak
// handle (always expired, never locks).
type Weak struct {
	ctrl control
}

// NewWeak observes s, incrementing the weak count. A null Strong yields
// a null Weak.
func NewWeak(s Strong) Weak {
	if s.ctrl == nil {
		return Weak{}
	}
	s.ctrl.AddRefWeak()
	return Weak{ctrl: s.ctrl}
}

// Clone shares this weak observation.
func (w Weak) Clone() Weak {
	if w.ctrl != nil {
		w.ctrl.AddRefWeak()
	}
	return w
}

// Close releases this weak observation.
func (w *Weak) Close() {
	if w.ctrl != nil {
		w.ctrl.ReleaseWeak()
		w.ctrl = nil
	}
}

// Expired reports whether the observed strong count has reached zero
// (or whether w is the null weak handle).
func (w Weak) Expired() bool {
	if w.ctrl == nil {
		return true
	}
	return w.ctrl.StrongCount() <= 0
}

// Lock attempts to upgrade to a Strong Handle, returning the null handle
// on failure (the payload has already been destroyed).
func (w Weak) Lock() Strong {
	if w.ctrl == nil {
		return Strong{}
	}
	if w.ctrl.TryUpgrade() {
		return Strong{ctrl: w.ctrl}
	}
	return Strong{}
}

// ToStrong is the reference/conversion form of Lock: fails with
// BadWeakObject instead of returning a null handle.
func (w Weak) ToStrong() (Strong, error) {
	s := w.Lock()
	if s.ctrl == nil {
		rclog.Default().Named("handle").Debugf("weak handle upgrade failed, type=%s", w.Type())
		return s, errs.BadWeakObject()
	}
	return s, nil
}

// Type returns the type tag of the observed control block, or the null
// tag for a null weak handle. An expired weak handle still reports the
// tag recorded in its control block.
func (w Weak) Type() rc.TypeTag {
	if w.ctrl == nil {
		return rc.TypeTag{}
	}
	return w.ctrl.Type()
}

// WaitUntilExpired blocks until the observed strong count reaches zero.
// See rc.Block.WaitExpired for the notify side of this contract.
func (w Weak) WaitUntilExpired() {
	if w.ctrl != nil {
		w.ctrl.WaitExpired()
	}
}
