package rcdiag

import "testing"

func TestFindCyclesDetectsSimpleCycle(t *testing.T) {
	nodes := []Node{
		{ID: "a", Edges: []string{"b"}},
		{ID: "b", Edges: []string{"a"}},
		{ID: "c", Edges: nil},
	}
	cycles := FindCycles(nodes)
	if len(cycles) != 1 {
		t.Fatalf("FindCycles = %v, want exactly one cycle", cycles)
	}
	if len(cycles[0]) != 2 || cycles[0][0] != "a" || cycles[0][1] != "b" {
		t.Fatalf("cycle = %v, want [a b]", cycles[0])
	}
}

func TestFindCyclesAcyclicGraph(t *testing.T) {
	nodes := []Node{
		{ID: "a", Edges: []string{"b"}},
		{ID: "b", Edges: []string{"c"}},
		{ID: "c", Edges: nil},
	}
	if cycles := FindCycles(nodes); len(cycles) != 0 {
		t.Fatalf("FindCycles = %v, want none", cycles)
	}
}

func TestFindCyclesSelfLoop(t *testing.T) {
	nodes := []Node{{ID: "a", Edges: []string{"a"}}}
	cycles := FindCycles(nodes)
	if len(cycles) != 1 || len(cycles[0]) != 1 || cycles[0][0] != "a" {
		t.Fatalf("cycles = %v, want a single self-loop component", cycles)
	}
}

func TestLedgerChecksOutstandingObservations(t *testing.T) {
	l := NewLedger(false)
	obs := l.Observe("owner")
	if err := l.Check("owner"); err == nil {
		t.Fatal("Check should report the outstanding observation")
	}
	if err := obs.Release(); err != nil {
		t.Fatal(err)
	}
	if err := l.Check("owner"); err != nil {
		t.Fatalf("Check should pass once the observation releases: %v", err)
	}
}

func TestObservationDoubleReleaseFails(t *testing.T) {
	l := NewLedger(false)
	obs := l.Observe("owner")
	if err := obs.Release(); err != nil {
		t.Fatal(err)
	}
	if err := obs.Release(); err == nil {
		t.Fatal("double Release should fail")
	}
}

func TestLedgerAssertOnViolationPanics(t *testing.T) {
	l := NewLedger(true)
	l.Observe("owner")
	defer func() {
		if recover() == nil {
			t.Fatal("Check should panic when assertOnViolation is set")
		}
	}()
	l.Check("owner")
}
