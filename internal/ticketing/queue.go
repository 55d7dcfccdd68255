package ticketing

import "container/heap"

type queued struct {
	spectator Spectator
	seq       uint64
}

type requestHeap []queued

func (h requestHeap) Len() int { return len(h) }

func (h requestHeap) Less(i, j int) bool {
	pi, pj := h[i].spectator.Type.Priority(), h[j].spectator.Type.Priority()
	if pi != pj {
		return pi > pj
	}
	return h[i].seq < h[j].seq
}

func (h requestHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *requestHeap) Push(x any) { *h = append(*h, x.(queued)) }

func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue orders ticket requests by tier, then by arrival. It is not safe for
// concurrent use on its own.
type Queue struct {
	items requestHeap
	seq   uint64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(s Spectator) {
	q.seq++
	heap.Push(&q.items, queued{spectator: s, seq: q.seq})
}

// Dequeue removes the highest priority request. ok is false when empty.
func (q *Queue) Dequeue() (Spectator, bool) {
	if len(q.items) == 0 {
		return Spectator{}, false
	}
	return heap.Pop(&q.items).(queued).spectator, true
}

func (q *Queue) Len() int {
	return len(q.items)
}

// Pending lists the queued requests in the order they will be served.
func (q *Queue) Pending() []Spectator {
	c := make(requestHeap, len(q.items))
	copy(c, q.items)
	out := make([]Spectator, 0, len(c))
	for c.Len() > 0 {
		out = append(out, heap.Pop(&c).(queued).spectator)
	}
	return out
}
