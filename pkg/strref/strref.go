// Package strref implements a String Handle: a reference-counted,
// null-terminated byte array exposed as a compact handle.
//
// A size-optimized rendition would make sizeof(handle) == sizeof(pointer)
// by reconstructing the control block from the character pointer through
// address arithmetic. Go's GC makes that unsound in general, so this
// package instead represents the handle as a normal (ControlBlock, char
// pointer) pair, a deliberate size/safety tradeoff rather than an
// oversight.
package strref

import (
	"rcbox/pkg/errs"
	"rcbox/pkg/handle"
	"rcbox/pkg/rc"
)

var nulByte byte

// Handle is the String Handle: a Strong Handle constrained to a
// variable-array-of-byte holder whose last element is zero.
type Handle struct {
	s handle.Strong
}

func wrap(h *rc.ArrayHolder[byte]) Handle { return Handle{s: handle.FromRaw(h)} }

// New builds a string handle from a raw Go string.
func New(str string) Handle {
	n := len(str)
	return wrap(rc.NewArray[byte](n+1, n+1, func(i int) byte {
		if i < n {
			return str[i]
		}
		return 0
	}))
}

// NewRepeat builds a string handle of count copies of ch.
func NewRepeat(count int, ch byte) Handle {
	return wrap(rc.NewArray[byte](count+1, count+1, func(i int) byte {
		if i < count {
			return ch
		}
		return 0
	}))
}

// FromStrong reconstructs a String Handle from a generic Strong Handle,
// failing with BadObjectCast unless the held type is a byte array with a
// terminating zero.
func FromStrong(h handle.Strong) (Handle, error) {
	p := handle.ExactPtr[[]byte](h)
	if p == nil || len(*p) == 0 || (*p)[len(*p)-1] != 0 {
		return Handle{}, errs.BadObjectCast("[]byte(NUL-terminated)", h.Type().String())
	}
	return Handle{s: h.Clone()}, nil
}

func (h Handle) slice() []byte {
	p := handle.ExactPtr[[]byte](h.s)
	if p == nil {
		return nil
	}
	return *p
}

// IsNull reports whether h is the null string handle.
func (h Handle) IsNull() bool { return h.s.IsNull() }

// Size and Length both report the string's length, excluding the
// terminator.
func (h Handle) Size() int {
	s := h.slice()
	if len(s) == 0 {
		return 0
	}
	return len(s) - 1
}
func (h Handle) Length() int { return h.Size() }

// Empty reports whether the string is zero-length.
func (h Handle) Empty() bool { return h.Size() == 0 }

// Data returns the backing bytes, including the trailing zero
// (invariant 10: data()[size()] == 0).
func (h Handle) Data() []byte { return h.slice() }

// CStr returns a pointer to the first character, or to a static zero
// character when h is null; never a nil pointer itself.
func (h Handle) CStr() *byte {
	s := h.slice()
	if len(s) == 0 {
		return &nulByte
	}
	return &s[0]
}

// String returns the content as a Go string (without the terminator).
func (h Handle) String() string {
	s := h.slice()
	if len(s) == 0 {
		return ""
	}
	return string(s[:len(s)-1])
}

// View returns the non-owning byte view, with the terminator stripped
// (callers wanting the Go string form should use String()).
func (h Handle) View() []byte {
	s := h.slice()
	if len(s) == 0 {
		return nil
	}
	return s[:len(s)-1]
}

// Equal compares by control-block identity, not by string content.
func (h Handle) Equal(o Handle) bool { return h.s.Equal(o.s) }

// Clone shares ownership.
func (h Handle) Clone() Handle { return Handle{s: h.s.Clone()} }

// Close releases this handle's ownership share.
func (h *Handle) Close() { h.s.Close() }

// Take transfers ownership out of h, leaving it null.
func (h *Handle) Take() Handle {
	t := *h
	*h = Handle{}
	return t
}

// Set assigns o into the receiver: clone-then-release. The receiver ends
// up sharing o's value and o keeps its own ownership share (copy-assign
// semantics; use Take for a move). Self-assignment is safe.
func (h *Handle) Set(o Handle) {
	cloned := o.s.Clone()
	old := h.s
	h.s = cloned
	old.Close()
}
