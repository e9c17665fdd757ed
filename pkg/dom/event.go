package dom

// Event is dispatched to listeners on a target and, when it bubbles, on the
// target's ancestors. Events cross from a shadow root to its host.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Detail        any
	Bubbles       bool

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates a bubbling event.
func NewEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail, Bubbles: true}
}

// StopPropagation stops dispatch to further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

type listener struct {
	fn      func(*Event)
	removed bool
}

// AddEventListener registers fn for events of type typ and returns a
// function removing it. Removing twice is a no-op.
func (n *Node) AddEventListener(typ string, fn func(*Event)) (remove func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)

	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := n.listeners[typ]
		for i, x := range list {
			if x == l {
				n.listeners[typ] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// Dispatch delivers ev to n and, if it bubbles, to n's ancestors. It returns
// false if a listener called PreventDefault.
func (n *Node) Dispatch(ev *Event) bool {
	ev.Target = n
	for cur := n; cur != nil; {
		ev.CurrentTarget = cur
		for _, l := range append([]*listener(nil), cur.listeners[ev.Type]...) {
			if !l.removed {
				l.fn(ev)
			}
		}
		if ev.stopped || !ev.Bubbles {
			break
		}
		if cur.parent == nil && cur.host != nil {
			cur = cur.host
		} else {
			cur = cur.parent
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}
