package rc

import "testing"

type destroyCounter struct{ n *int }

func (d *destroyCounter) Destroy() { *d.n++ }

func TestValueHolderDestroyOnce(t *testing.T) {
	n := 0
	h := NewValue(destroyCounter{n: &n})
	h.AddRefStrong()
	h.ReleaseStrong()
	if n != 0 {
		t.Fatalf("destroyed early, n=%d", n)
	}
	h.ReleaseStrong()
	if n != 1 {
		t.Fatalf("n=%d, want 1", n)
	}
}

type orderedElem struct {
	idx   int
	order *[]int
}

func (e *orderedElem) Destroy() { *e.order = append(*e.order, e.idx) }

func TestArrayHolderReverseDestroy(t *testing.T) {
	var order []int
	h := NewArray[orderedElem](3, 3, func(i int) orderedElem {
		return orderedElem{idx: i, order: &order}
	})
	h.ReleaseStrong()
	if len(order) != 3 || order[0] != 2 || order[1] != 1 || order[2] != 0 {
		t.Fatalf("destruction order = %v, want [2 1 0]", order)
	}
}

func TestArrayHolderPartialConstruction(t *testing.T) {
	h := NewArray[int](5, 2, func(i int) int { return i + 100 })
	if len(h.Elems) != 5 {
		t.Fatalf("len = %d, want 5", len(h.Elems))
	}
	if h.Elems[0] != 100 || h.Elems[1] != 101 {
		t.Fatalf("constructed elements wrong: %v", h.Elems[:2])
	}
	if h.Elems[2] != 0 || h.Elems[3] != 0 || h.Elems[4] != 0 {
		t.Fatalf("remaining elements not zero-valued: %v", h.Elems[2:])
	}
}

func TestBlockUpgradeFailsAfterExpiry(t *testing.T) {
	b := NewBlock(TagOf[int](), nil, nil)
	b.ReleaseStrong()
	if b.TryUpgrade() {
		t.Fatal("TryUpgrade succeeded after strong count reached zero")
	}
}

func TestBlockWaitExpired(t *testing.T) {
	b := NewBlock(TagOf[int](), nil, nil)
	done := make(chan struct{})
	go func() {
		b.WaitExpired()
		close(done)
	}()
	b.ReleaseStrong()
	<-done
}

func TestCallableHolderRejectsNonFunc(t *testing.T) {
	if _, err := NewCallable(42); err == nil {
		t.Fatal("expected error boxing a non-func value")
	}
}

func TestCallableHolderCall(t *testing.T) {
	h, err := NewCallable(func(a, b int) int { return a + b })
	if err != nil {
		t.Fatal(err)
	}
	out, err := h.Call(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].(int) != 5 {
		t.Fatalf("got %v, want 5", out[0])
	}
}

func TestFamHolderConstructionOrder(t *testing.T) {
	type head struct{ total int }
	f := NewFam[head, int](3, func(i int) int { return i + 1 }, func(arr []int) head {
		sum := 0
		for _, v := range arr {
			sum += v
		}
		return head{total: sum}
	})
	if f.Head.total != 6 {
		t.Fatalf("head.total = %d, want 6 (array visible to head ctor)", f.Head.total)
	}
}

func TestTypeTagEquality(t *testing.T) {
	if !TagOf[int]().Equal(TagOf[int]()) {
		t.Fatal("TagOf[int] should equal itself")
	}
	if TagOf[int]().Equal(TagOf[string]()) {
		t.Fatal("TagOf[int] should not equal TagOf[string]")
	}
}
