package fn

import "testing"

func TestFn0CallAndEmplace(t *testing.T) {
	f, err := New0(func() int { return 7 })
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, err := f.Call(); err != nil || v != 7 {
		t.Fatalf("Call() = %v, %v, want 7", v, err)
	}
	if err := f.Emplace(func() int { return 9 }); err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Call(); v != 9 {
		t.Fatalf("Call() after Emplace = %v, want 9", v)
	}
}

func TestFn1StatefulClosure(t *testing.T) {
	seed := 100
	f, err := New1(func(x int) int {
		r := x + seed
		seed++
		return r
	})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.Call(1); v != 101 {
		t.Fatalf("Call(1) = %d, want 101", v)
	}
	if v, _ := f.Call(1); v != 102 {
		t.Fatalf("Call(1) = %d, want 102", v)
	}
}

func TestRefFromOwningSharesState(t *testing.T) {
	seed := 0
	f, err := New1(func(x int) int {
		r := x + seed
		seed++
		return r
	})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r, err := RefFromOwning1[int, int](f)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Call(1); v != 1 {
		t.Fatalf("f.Call(1) = %d, want 1", v)
	}
	if v, _ := r.Call(1); v != 2 {
		t.Fatalf("r.Call(1) = %d, want 2", v)
	}
}

func TestRefToOwningRoundtrip(t *testing.T) {
	f, err := New0(func() int { return 42 })
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r, err := RefFromOwning0(f)
	if err != nil {
		t.Fatal(err)
	}
	owned, err := r.ToOwning()
	if err != nil {
		t.Fatal(err)
	}
	defer owned.Close()
	if f.s.StrongCount() != 2 {
		t.Fatalf("strong count = %d, want 2", f.s.StrongCount())
	}
}

func TestRefFromFuncCannotGoOwning(t *testing.T) {
	r := RefFromFunc1(func(x int) int { return x * 2 })
	if v, err := r.Call(3); err != nil || v != 6 {
		t.Fatalf("Call(3) = %v, %v, want 6", v, err)
	}
	if _, err := r.ToOwning(); err == nil {
		t.Fatal("ToOwning on a func-backed reference should fail")
	}
}

func TestCallOnNullFails(t *testing.T) {
	var f Fn1[int, int]
	if _, err := f.Call(1); err == nil {
		t.Fatal("Call on an empty Fn1 should fail")
	}
}

func TestNewRejectsNonFunc(t *testing.T) {
	if _, err := newCallable(5); err == nil {
		t.Fatal("newCallable(5) should fail")
	}
}
