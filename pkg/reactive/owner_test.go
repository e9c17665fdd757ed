package reactive

import "testing"

func TestOwnerDisposesEffects(t *testing.T) {
	s := NewSignal(0)
	runs := 0

	owner := NewOwner(nil)
	owner.Effect(func() Cleanup {
		_ = s.Get()
		runs++
		return nil
	})

	s.Set(1)
	owner.Dispose()
	s.Set(2)

	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
	if n := s.Subscribers(); n != 0 {
		t.Errorf("expected no subscribers after dispose, got %d", n)
	}
}

func TestOwnerDisposeOrder(t *testing.T) {
	var order []string

	root := NewOwner(nil)
	root.OnCleanup(func() { order = append(order, "root-1") })
	root.OnCleanup(func() { order = append(order, "root-2") })

	child := NewOwner(root)
	child.OnCleanup(func() { order = append(order, "child") })

	root.Dispose()

	want := []string{"child", "root-2", "root-1"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestOwnerDisposeIdempotent(t *testing.T) {
	calls := 0
	o := NewOwner(nil)
	o.OnCleanup(func() { calls++ })

	o.Dispose()
	o.Dispose()

	if calls != 1 {
		t.Errorf("cleanup should run once, ran %d times", calls)
	}
	if !o.IsDisposed() {
		t.Error("IsDisposed should be true")
	}
}

func TestOwnerChildDisposeDetaches(t *testing.T) {
	root := NewOwner(nil)
	child := NewOwner(root)
	child.Dispose()

	root.childrenMu.Lock()
	n := len(root.children)
	root.childrenMu.Unlock()

	if n != 0 {
		t.Errorf("disposed child should be removed from parent, %d left", n)
	}
}

func TestOnCleanupAfterDisposeRunsImmediately(t *testing.T) {
	o := NewOwner(nil)
	o.Dispose()

	ran := false
	o.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("OnCleanup on a disposed owner should run immediately")
	}
}

func TestEffectOnDisposedOwnerNeverRuns(t *testing.T) {
	o := NewOwner(nil)
	o.Dispose()

	ran := false
	e := o.Effect(func() Cleanup {
		ran = true
		return nil
	})

	if ran {
		t.Error("effect created under a disposed owner should not run")
	}
	if !e.Disposed() {
		t.Error("effect should be disposed")
	}
}

func TestWithOwnerRestores(t *testing.T) {
	o := NewOwner(nil)
	defer o.Dispose()

	WithOwner(o, func() {
		if CurrentOwner() != o {
			t.Error("CurrentOwner should be o inside WithOwner")
		}
	})

	if CurrentOwner() != nil {
		t.Error("owner should be restored after WithOwner")
	}
}
