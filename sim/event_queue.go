package sim

import (
	"container/heap"
	"math"
)

// eventHeap implements heap.Interface with deterministic ordering.
// Ordering: moment → type priority → sequence number.
type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	ei, ej := h[i], h[j]

	// Primary: moment (earlier first)
	if ei.Moment() != ej.Moment() {
		return ei.Moment() < ej.Moment()
	}

	// Secondary: type priority (lower priority value = processed first)
	priI := EventTypePriority[ei.Type()]
	priJ := EventTypePriority[ej.Type()]
	if priI != priJ {
		return priI < priJ
	}

	// Tertiary: scheduling sequence (lower first, deterministic tie-breaker)
	return ei.Seq() < ej.Seq()
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(Event)) }

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// EventQueue orders pending events and owns the simulation clock. Schedule
// refuses events behind the clock, Next advances the clock to the popped
// event's moment, so the clock is monotonically non-decreasing by
// construction.
type EventQueue struct {
	clock   float64
	nextSeq uint64
	events  eventHeap
}

// NewEventQueue creates an empty queue with the clock at zero.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make(eventHeap, 0)}
	heap.Init(&q.events)
	return q
}

// Now returns the current simulated time.
func (q *EventQueue) Now() float64 { return q.clock }

// Len returns the number of pending events.
func (q *EventQueue) Len() int { return len(q.events) }

// Empty reports whether the simulation has run out of work.
func (q *EventQueue) Empty() bool { return len(q.events) == 0 }

// Schedule inserts an event at a moment no earlier than the current clock and
// stamps it with the next sequence number. An event behind the clock, or at a
// NaN moment, fails with CausalityViolation.
func (q *EventQueue) Schedule(e Event) error {
	m := e.Moment()
	if math.IsNaN(m) || m < q.clock {
		return &CausalityViolation{Kind: e.Type(), Moment: m, Now: q.clock}
	}
	q.nextSeq++
	e.stamp(q.nextSeq)
	heap.Push(&q.events, e)
	return nil
}

// Next pops the earliest pending event and advances the clock to its moment.
func (q *EventQueue) Next() (Event, bool) {
	if q.Empty() {
		return nil, false
	}
	e := heap.Pop(&q.events).(Event)
	q.clock = e.Moment()
	return e, true
}

// Peek returns the earliest pending event without removing it or moving the
// clock.
func (q *EventQueue) Peek() (Event, bool) {
	if q.Empty() {
		return nil, false
	}
	return q.events[0], true
}
