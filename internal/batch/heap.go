package batch

type resultHeap []Result

func (h resultHeap) Len() int {
	return len(h)
}

func (h resultHeap) Less(i, j int) bool {
	return h[i].Job.Index < h[j].Job.Index
}

func (h resultHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *resultHeap) Push(x any) {
	*h = append(*h, x.(Result))
}

func (h *resultHeap) Pop() (x any) {
	last := len(*h) - 1
	x = (*h)[last]
	*h = (*h)[:last]
	return
}
