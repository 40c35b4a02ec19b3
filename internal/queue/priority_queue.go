package queue

import "container/heap"

// priorityQueue orders ExtractionJobs by descending Priority, ties broken
// by earliest EnqueuedAt (FIFO within a priority band).
type priorityQueue []*ExtractionJob

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	if q[i].Priority != q[j].Priority {
		return q[i].Priority > q[j].Priority
	}
	return q[i].EnqueuedAt.Before(q[j].EnqueuedAt)
}

func (q priorityQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *priorityQueue) Push(x any) {
	*q = append(*q, x.(*ExtractionJob))
}

func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// newPriorityQueue returns an initialized, empty heap.
func newPriorityQueue() *priorityQueue {
	pq := &priorityQueue{}
	heap.Init(pq)
	return pq
}
