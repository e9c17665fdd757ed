package reactive

import (
	"math"
	"testing"
)

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(0)

	s.Set(42)
	if got := s.Get(); got != 42 {
		t.Errorf("expected 42 after Set, got %d", got)
	}
}

func TestSignalUnchangedWriteSkipsSubscribers(t *testing.T) {
	count := NewSignal(1)
	runs := 0

	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	count.Set(1)
	if runs != 1 {
		t.Errorf("unchanged write should not re-run effect, runs=%d", runs)
	}

	count.Set(2)
	if runs != 2 {
		t.Errorf("changed write should re-run effect once, runs=%d", runs)
	}
}

func TestSignalGetOutsideEffectDoesNotSubscribe(t *testing.T) {
	s := NewSignal("a")
	_ = s.Get()
	if n := s.Subscribers(); n != 0 {
		t.Errorf("expected 0 subscribers, got %d", n)
	}
}

func TestSignalDuplicateReadsSubscribeOnce(t *testing.T) {
	s := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		_ = s.Get()
		_ = s.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	if n := s.Subscribers(); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}

	s.Set(1)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestSignalNotifiesInInsertionOrder(t *testing.T) {
	s := NewSignal(0)
	var order []string

	for _, name := range []string{"a", "b", "c"} {
		name := name
		e := CreateEffect(func() Cleanup {
			if s.Get() > 0 {
				order = append(order, name)
			}
			return nil
		})
		defer e.Dispose()
	}

	s.Set(1)

	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	s := NewSignal(0)
	runs := 0

	e := CreateEffect(func() Cleanup {
		_ = s.Peek()
		runs++
		return nil
	})
	defer e.Dispose()

	s.Set(1)
	if runs != 1 {
		t.Errorf("Peek should not subscribe, runs=%d", runs)
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewSignal(1)
	s.Update(func(n int) int { return n + 1 })
	if got := s.Peek(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestSignalWithEquals(t *testing.T) {
	type point struct{ X, Y int }
	s := NewSignal(point{1, 2}).WithEquals(func(a, b point) bool { return a.X == b.X })
	runs := 0

	e := CreateEffect(func() Cleanup {
		_ = s.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	s.Set(point{1, 5})
	if runs != 1 {
		t.Errorf("custom equality should suppress notification, runs=%d", runs)
	}
}

func TestIdentical(t *testing.T) {
	slice := []int{1, 2}
	m := map[string]int{"a": 1}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"int vs float", 1, 1.0, false},
		{"strings", "x", "x", true},
		{"nil nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"NaN", math.NaN(), math.NaN(), true},
		{"same slice", slice, slice, true},
		{"equal contents different slice", []int{1, 2}, []int{1, 2}, false},
		{"same map", m, m, true},
		{"different map", m, map[string]int{"a": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identical(tt.a, tt.b); got != tt.want {
				t.Errorf("Identical(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
