package sim

import (
	"container/heap"

	"github.com/yangl1996/strsim/lt"
)

// ArrivalQueue releases coded blocks in order of arrival time. Blocks with
// the same arrival time leave in the order they were pushed.
type ArrivalQueue struct {
	bq  blockQueue
	seq int
}

func (q *ArrivalQueue) Len() int {
	return len(q.bq)
}

func (q *ArrivalQueue) Push(b lt.CodedBlock) {
	heap.Push(&q.bq, queuedBlock{b, q.seq})
	q.seq += 1
}

// Pop removes and returns the earliest block. It panics on an empty queue.
func (q *ArrivalQueue) Pop() lt.CodedBlock {
	return heap.Pop(&q.bq).(queuedBlock).CodedBlock
}

func (q *ArrivalQueue) Reset() {
	q.bq = q.bq[:0]
	q.seq = 0
}

type queuedBlock struct {
	lt.CodedBlock
	seq int
}

type blockQueue []queuedBlock

func (pq blockQueue) Len() int { return len(pq) }

func (pq blockQueue) Less(i, j int) bool {
	if pq[i].ArrivalTime < pq[j].ArrivalTime {
		return true
	} else if pq[i].ArrivalTime == pq[j].ArrivalTime {
		return pq[i].seq < pq[j].seq
	}
	return false
}

func (pq blockQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *blockQueue) Push(x any) {
	*pq = append(*pq, x.(queuedBlock))
}

func (pq *blockQueue) Pop() any {
	idx := len(*pq) - 1
	res := (*pq)[idx]
	(*pq)[idx] = queuedBlock{}
	*pq = (*pq)[0:idx]
	return res
}
