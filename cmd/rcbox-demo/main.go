// Command rcbox-demo is a flag-driven scenario runner exercising each of
// the rcbox handle varieties: flag-parsed mode selection, -v verbosity,
// and a Usage banner with worked examples.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"rcbox/pkg/array"
	"rcbox/pkg/atomiccell"
	"rcbox/pkg/errs"
	"rcbox/pkg/fn"
	"rcbox/pkg/handle"
	"rcbox/pkg/rclog"
)

var (
	scenario = flag.String("s", "all", "scenario to run: s1..s7 or all")
	verbose  = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "rcbox-demo - scenario runner for the rcbox handle library\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -s s1        # run the refcount scenario only\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -v           # run every scenario with debug logging\n", os.Args[0])
	}
	flag.Parse()

	if *verbose {
		rclog.SetDefault(rclog.New(rclog.DebugLevel, os.Stderr))
	}

	scenarios := map[string]func() error{
		"s1": s1Refcount,
		"s2": s2WeakExpiry,
		"s3": s3Array,
		"s4": s4Polymorphic,
		"s5": s5Callable,
		"s6": s6AtomicHandoff,
		"s7": s7ConditionVariable,
	}

	run := func(name string) {
		fn, ok := scenarios[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown scenario %q\n", name)
			os.Exit(2)
		}
		if err := fn(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: FAIL: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("%s: ok\n", name)
	}

	if *scenario == "all" {
		for _, name := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"} {
			run(name)
		}
		return
	}
	run(*scenario)
}

type counter struct{ destroyed *int }

func (c counter) Destroy() { *c.destroyed++ }

func s1Refcount() error {
	destroyed := 0
	a := handle.MakeValue(counter{destroyed: &destroyed})
	b := a.Clone()
	c := a.Clone()
	if a.StrongCount() != 3 {
		return fmt.Errorf("strong count = %d, want 3", a.StrongCount())
	}
	b.Close()
	c.Close()
	a.Close()
	if destroyed != 1 {
		return fmt.Errorf("destroyed %d times, want 1", destroyed)
	}
	return nil
}

func s2WeakExpiry() error {
	a := handle.MakeValue(42)
	w := handle.NewWeak(a)
	if w.Expired() {
		return fmt.Errorf("weak handle expired before drop")
	}
	a.Close()
	if !w.Expired() {
		return fmt.Errorf("weak handle not expired after drop")
	}
	if !w.Lock().IsNull() {
		return fmt.Errorf("lock on expired weak handle returned non-null")
	}
	return nil
}

func s3Array() error {
	h := array.New[int](3, 3, func(i int) int { return i })
	if h.Size() != 3 {
		return fmt.Errorf("size = %d, want 3", h.Size())
	}
	for i := 0; i < 3; i++ {
		if _, err := h.At(i); err != nil {
			return fmt.Errorf("At(%d): %v", i, err)
		}
	}
	if _, err := h.At(3); errs.KindOf(err) != errs.KindOutOfRange {
		return fmt.Errorf("At(3) = %v, want OutOfRange", err)
	}
	h.Close()
	return nil
}

type base interface{ ID() int }
type derived struct{ I, J int }

func (d derived) ID() int { return d.J }

func s4Polymorphic() error {
	h := handle.MakeValue(derived{I: 11, J: 22})
	if _, err := handle.ExactRef[int](h); err == nil {
		return fmt.Errorf("exact_cast<int> unexpectedly succeeded")
	}
	b, err := handle.PolyRef[base](h)
	if err != nil {
		return fmt.Errorf("polymorphic_cast<base>: %v", err)
	}
	if b.ID() != 22 {
		return fmt.Errorf("ID() = %d, want 22", b.ID())
	}
	h.Close()
	return nil
}

func s5Callable() error {
	seed := 100
	f, err := fn.New1(func(x int) int {
		r := x + seed
		seed++
		return r
	})
	if err != nil {
		return err
	}
	if v, err := f.Call(1); err != nil || v != 101 {
		return fmt.Errorf("f(1) = %v, %v, want 101", v, err)
	}
	if v, err := f.Call(1); err != nil || v != 102 {
		return fmt.Errorf("f(1) = %v, %v, want 102", v, err)
	}
	g, err := fn.RefFromOwning1[int, int](f)
	if err != nil {
		return err
	}
	if v, err := g.Call(1); err != nil || v != 103 {
		return fmt.Errorf("g(1) = %v, %v, want 103", v, err)
	}
	if v, err := g.Call(1); err != nil || v != 104 {
		return fmt.Errorf("g(1) = %v, %v, want 104", v, err)
	}
	f.Close()
	return nil
}

func s6AtomicHandoff() error {
	cell := atomiccell.NewCell(handle.Strong{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		x := handle.MakeValue("x")
		old := cell.Store(x)
		old.Close()
	}()
	var seen handle.Strong
	go func() {
		defer wg.Done()
		for {
			cur := cell.Load()
			if !cur.IsNull() {
				seen = cur
				return
			}
			cur.Close()
			time.Sleep(time.Millisecond)
		}
	}()
	wg.Wait()
	if seen.IsNull() {
		return fmt.Errorf("reader never observed the written handle")
	}
	seen.Close()
	cell.Close()
	return nil
}

func s7ConditionVariable() error {
	cell := atomiccell.NewCell(handle.MakeValue(false))
	var wg sync.WaitGroup
	wg.Add(2)
	woke := false
	go func() {
		defer wg.Done()
		cell.Lock()
		cell.Wait(func() bool {
			cur := cell.Current()
			p := handle.ExactPtr[bool](cur)
			result := p != nil && *p
			cur.Close()
			return result
		})
		woke = true
		cell.Unlock()
	}()
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		cell.Lock()
		old := cell.SwapLocked(handle.MakeValue(true))
		cell.NotifyOne()
		cell.Unlock()
		old.Close()
	}()
	wg.Wait()
	if !woke {
		return fmt.Errorf("waiter never observed shutdown=true")
	}
	cell.Close()
	return nil
}
