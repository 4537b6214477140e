package divsufsort

const stackSize = 64

type stackEntry struct {
	a, b, c, d int32
}

// stack replaces recursion in the sorts. Every sort pushes the larger partition and
// continues with the smaller one, so its depth stays logarithmic in the block size.
type stack struct {
	entries [stackSize]stackEntry
	size    int
}

func (s *stack) push(a, b, c, d int32) {
	if s.size == stackSize {
		panic("divsufsort: sort stack overflow")
	}
	s.entries[s.size] = stackEntry{a, b, c, d}
	s.size++
}

func (s *stack) pop() (a, b, c, d int32) {
	s.size--
	e := s.entries[s.size]
	return e.a, e.b, e.c, e.d
}

func (s *stack) empty() bool {
	return s.size == 0
}
