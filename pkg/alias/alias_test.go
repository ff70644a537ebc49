package alias

import (
	"rcbox/pkg/handle"
	"testing"
)

type point struct{ X, Y int }

func TestFromStrongAliasesPayload(t *testing.T) {
	h := handle.MakeValue(point{X: 1, Y: 2})
	p, err := FromStrong[point](h)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	got, err := p.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got.X != 1 || got.Y != 2 {
		t.Fatalf("got %+v", got)
	}
	h.Close()
}

func TestAliasKeepsControlBlockAlive(t *testing.T) {
	destroyed := false
	h := handle.MakeValue(destroyer{&destroyed})
	p, err := FromStrong[destroyer](h)
	if err != nil {
		t.Fatal(err)
	}
	h.Close()
	if destroyed {
		t.Fatal("alias should keep the payload alive")
	}
	p.Close()
	if !destroyed {
		t.Fatal("payload should be destroyed once the alias releases too")
	}
}

type destroyer struct{ flag *bool }

func (d *destroyer) Destroy() { *d.flag = true }

func TestFromRawPtrExplicitInterior(t *testing.T) {
	h := handle.MakeValue(point{X: 5, Y: 6})
	defer h.Close()
	var y int
	p, err := FromRawPtr(h, &y)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	got, _ := p.Get()
	if got != &y {
		t.Fatal("FromRawPtr should use the explicit raw pointer, not the payload")
	}
}

func TestRefNeverNull(t *testing.T) {
	h := handle.MakeValue(point{X: 1, Y: 1})
	defer h.Close()
	r, err := FromStrongRef[point](h)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.Get() == nil {
		t.Fatal("Ref should never be null")
	}
}

type anchoredNode struct {
	handle.Anchor
	id int
}

func TestFromRawRecoversStrongHandle(t *testing.T) {
	h := handle.MakeValue(anchoredNode{id: 7})
	defer h.Close()
	n, err := handle.ExactRef[anchoredNode](h)
	if err != nil {
		t.Fatal(err)
	}
	recovered, err := FromRaw(n)
	if err != nil {
		t.Fatal(err)
	}
	defer recovered.Close()
	if recovered.StrongCount() != 2 {
		t.Fatalf("strong count = %d, want 2", recovered.StrongCount())
	}
	got, err := handle.ExactRef[anchoredNode](recovered)
	if err != nil {
		t.Fatal(err)
	}
	if got.id != 7 {
		t.Fatalf("got id %d, want 7", got.id)
	}
}

func TestFromRawRejectsUnanchoredType(t *testing.T) {
	h := handle.MakeValue(point{X: 1, Y: 2})
	defer h.Close()
	p, err := handle.ExactRef[point](h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromRaw(p); err == nil {
		t.Fatal("FromRaw on a type without an Anchor should fail")
	}
}

func TestRefAsPtr(t *testing.T) {
	h := handle.MakeValue(point{X: 3, Y: 4})
	defer h.Close()
	r, err := FromStrongRef[point](h)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	p := r.AsPtr()
	defer p.Close()
	if p.IsNull() {
		t.Fatal("AsPtr should not be null")
	}
}
