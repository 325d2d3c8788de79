package simulator

import "container/heap"

type eventKind int

const (
	arrivalEvent eventKind = iota
	departureEvent
)

func (k eventKind) String() string {
	switch k {
	case arrivalEvent:
		return "arrival"
	case departureEvent:
		return "departure"
	default:
		return "unknown"
	}
}

// event scheduled on the virtual clock
type event struct {
	at       float64   // virtual time
	seq      uint64    // scheduling order, breaks ties
	kind     eventKind // what happens
	customer *customer // departing customer (nil for arrivals)
}

// eventQueue implements heap.Interface as a min-priority queue on (at, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return x
}

func (q *eventQueue) push(e *event) { heap.Push(q, e) }

func (q *eventQueue) pop() *event { return heap.Pop(q).(*event) }
