package divsufsort

// trGetC returns the rank of the rotation p positions past ISAd, wrapping around the end
// of the inverse suffix array.
func (s *sorter) trGetC(isa, isad, isan, p int32) int32 {
	if isad+p < isan {
		return s.sa[isad+p]
	}
	return s.sa[isa+(isad-isa+p)%(isan-isa)]
}

func (s *sorter) trFixdown(isa, isad, isan, base, i, size int32) {
	sa := s.sa
	v := sa[base+i]
	c := s.trGetC(isa, isad, isan, v)
	for j := 2*i + 1; j < size; j = 2*i + 1 {
		k := j
		j++
		d := s.trGetC(isa, isad, isan, sa[base+k])
		if e := s.trGetC(isa, isad, isan, sa[base+j]); d < e {
			k, d = j, e
		}
		if d <= c {
			break
		}
		sa[base+i] = sa[base+k]
		i = k
	}
	sa[base+i] = v
}

func (s *sorter) trHeapSort(isa, isad, isan, base, size int32) {
	sa := s.sa
	m := size
	if size%2 == 0 {
		m--
		if s.trGetC(isa, isad, isan, sa[base+m/2]) < s.trGetC(isa, isad, isan, sa[base+m]) {
			sa[base+m], sa[base+m/2] = sa[base+m/2], sa[base+m]
		}
	}

	for i := m/2 - 1; i >= 0; i-- {
		s.trFixdown(isa, isad, isan, base, i, m)
	}
	if size%2 == 0 {
		sa[base], sa[base+m] = sa[base+m], sa[base]
		s.trFixdown(isa, isad, isan, base, 0, m)
	}
	for i := m - 1; i > 0; i-- {
		t := sa[base]
		sa[base] = sa[base+i]
		s.trFixdown(isa, isad, isan, base, 0, i)
		sa[base+i] = t
	}
}

func (s *sorter) trInsertionSort(isa, isad, isan, first, last int32) {
	sa := s.sa
	for a := first + 1; a < last; a++ {
		t := sa[a]
		b := a - 1
		var r int32
		for {
			if r = s.trGetC(isa, isad, isan, t) - s.trGetC(isa, isad, isan, sa[b]); r >= 0 {
				break
			}
			for {
				sa[b+1] = sa[b]
				b--
				if b < first || sa[b] >= 0 {
					break
				}
			}
			if b < first {
				break
			}
		}
		if r == 0 {
			sa[b] = ^sa[b]
		}
		sa[b+1] = t
	}
}

func (s *sorter) trMedian3(isa, isad, isan, v1, v2, v3 int32) int32 {
	t1 := s.trGetC(isa, isad, isan, s.sa[v1])
	t2 := s.trGetC(isa, isad, isan, s.sa[v2])
	t3 := s.trGetC(isa, isad, isan, s.sa[v3])
	if t1 > t2 {
		v1, v2 = v2, v1
		t1, t2 = t2, t1
	}
	if t2 > t3 {
		if t1 > t3 {
			return v1
		}
		return v3
	}
	return v2
}

func (s *sorter) trMedian5(isa, isad, isan, v1, v2, v3, v4, v5 int32) int32 {
	t1 := s.trGetC(isa, isad, isan, s.sa[v1])
	t2 := s.trGetC(isa, isad, isan, s.sa[v2])
	t3 := s.trGetC(isa, isad, isan, s.sa[v3])
	t4 := s.trGetC(isa, isad, isan, s.sa[v4])
	t5 := s.trGetC(isa, isad, isan, s.sa[v5])
	if t2 > t3 {
		v2, v3 = v3, v2
		t2, t3 = t3, t2
	}
	if t4 > t5 {
		v4, v5 = v5, v4
		t4, t5 = t5, t4
	}
	if t2 > t4 {
		v4, t4 = v2, t2
		v3, v5 = v5, v3
		t3, t5 = t5, t3
	}
	if t1 > t3 {
		v1, v3 = v3, v1
		t1, t3 = t3, t1
	}
	if t1 > t4 {
		v4, t4 = v1, t1
		v3, t3 = v5, t5
	}
	if t3 > t4 {
		return v4
	}
	return v3
}

func (s *sorter) trPivot(isa, isad, isan, first, last int32) int32 {
	t := last - first
	middle := first + t/2

	if t <= 512 {
		if t <= 32 {
			return s.trMedian3(isa, isad, isan, first, middle, last-1)
		}
		t >>= 2
		return s.trMedian5(isa, isad, isan, first, first+t, middle, last-1-t, last-1)
	}
	t >>= 3
	return s.trMedian3(isa, isad, isan,
		s.trMedian3(isa, isad, isan, first, first+t, first+(t<<1)),
		s.trMedian3(isa, isad, isan, middle-t, middle, middle+t),
		s.trMedian3(isa, isad, isan, last-1-(t<<1), last-1-t, last-1))
}

// trPartition splits sa[first:last] into ranks below, equal to and above v and returns
// the bounds of the equal group. When every rank equals v it returns first, last.
func (s *sorter) trPartition(isa, isad, isan, first, last, v int32) (int32, int32) {
	sa := s.sa
	var x int32

	b := first
	for ; b < last; b++ {
		if x = s.trGetC(isa, isad, isan, sa[b]); x != v {
			break
		}
	}
	a := b
	if a < last && x < v {
		for b++; b < last; b++ {
			if x = s.trGetC(isa, isad, isan, sa[b]); x > v {
				break
			}
			if x == v {
				sa[b], sa[a] = sa[a], sa[b]
				a++
			}
		}
	}
	c := last - 1
	for ; b < c; c-- {
		if x = s.trGetC(isa, isad, isan, sa[c]); x != v {
			break
		}
	}
	d := c
	if b < d && x > v {
		for c--; b < c; c-- {
			if x = s.trGetC(isa, isad, isan, sa[c]); x < v {
				break
			}
			if x == v {
				sa[c], sa[d] = sa[d], sa[c]
				d--
			}
		}
	}
	for b < c {
		sa[b], sa[c] = sa[c], sa[b]
		for b++; b < c; b++ {
			if x = s.trGetC(isa, isad, isan, sa[b]); x > v {
				break
			}
			if x == v {
				sa[b], sa[a] = sa[a], sa[b]
				a++
			}
		}
		for c--; b < c; c-- {
			if x = s.trGetC(isa, isad, isan, sa[c]); x < v {
				break
			}
			if x == v {
				sa[c], sa[d] = sa[d], sa[c]
				d--
			}
		}
	}

	if a <= d {
		c = b - 1
		n := min(a-first, b-a)
		s.vecSwap(first, b-n, n)
		n = min(d-c, last-d-1)
		s.vecSwap(b, last-n, n)
		first += b - a
		last -= d - c
	}
	return first, last
}

// trCopy sorts the rotations of [first, a) and [b, last) from the already sorted
// equal group [a, b) shifted by depth.
func (s *sorter) trCopy(isa, isan, first, a, b, last, depth int32) {
	sa := s.sa
	v := b - 1

	d := a - 1
	for c := first; c <= d; c++ {
		t := sa[c] - depth
		if t < 0 {
			t += isan - isa
		}
		if sa[isa+t] == v {
			d++
			sa[d] = t
			sa[isa+t] = d
		}
	}

	e := d + 1
	d = b
	for c := last - 1; e < d; c-- {
		t := sa[c] - depth
		if t < 0 {
			t += isan - isa
		}
		if sa[isa+t] == v {
			d--
			sa[d] = t
			sa[isa+t] = d
		}
	}
}

func (s *sorter) setRanks(isa, from, to, rank int32) {
	sa := s.sa
	for c := from; c < to; c++ {
		sa[isa+sa[c]] = rank
	}
}

func (s *sorter) trIntroSort(isa, isad, isan, first, last int32, b *budget, size int32) {
	sa := s.sa
	var st stack
	limit := trLog(last - first)

sorting:
	for {
		if limit < 0 {
			switch limit {
			case -1:
				// tandem repeat partition
				if !b.update(size, last-first) {
					break sorting
				}
				a, bb := s.trPartition(isa, isad-1, isan, first, last, last-1)
				if first < a || bb < last {
					if a < last {
						s.setRanks(isa, first, a, a-1)
					}
					if bb < last {
						s.setRanks(isa, a, bb, bb-1)
					}
					st.push(0, a, bb, 0)
					st.push(isad-1, first, last, -2)
					if a-first <= last-bb {
						switch {
						case a-first > 1:
							st.push(isad, bb, last, trLog(last-bb))
							last, limit = a, trLog(a-first)
						case last-bb > 1:
							first, limit = bb, trLog(last-bb)
						default:
							if st.empty() {
								return
							}
							isad, first, last, limit = st.pop()
						}
					} else {
						switch {
						case last-bb > 1:
							st.push(isad, first, a, trLog(a-first))
							first, limit = bb, trLog(last-bb)
						case a-first > 1:
							last, limit = a, trLog(a-first)
						default:
							if st.empty() {
								return
							}
							isad, first, last, limit = st.pop()
						}
					}
				} else {
					for c := first; c < last; c++ {
						sa[isa+sa[c]] = c
					}
					if st.empty() {
						return
					}
					isad, first, last, limit = st.pop()
				}
			case -2:
				// tandem repeat copy
				_, a, bb, _ := st.pop()
				s.trCopy(isa, isan, first, a, bb, last, isad-isa)
				if st.empty() {
					return
				}
				isad, first, last, limit = st.pop()
			default:
				// sorted partition
				if sa[first] >= 0 {
					a := first
					for {
						sa[isa+sa[a]] = a
						a++
						if a >= last || sa[a] < 0 {
							break
						}
					}
					first = a
				}
				if first < last {
					a := first
					for {
						sa[a] = ^sa[a]
						a++
						if sa[a] >= 0 {
							break
						}
					}
					next := int32(-1)
					if sa[isa+sa[a]] != s.trGetC(isa, isad, isan, sa[a]) {
						next = trLog(a - first + 1)
					}
					a++
					if a < last {
						s.setRanks(isa, first, a, a-1)
					}

					if a-first <= last-a {
						st.push(isad, a, last, -3)
						isad, last, limit = isad+1, a, next
					} else if last-a > 1 {
						st.push(isad+1, first, a, next)
						first, limit = a, -3
					} else {
						isad, last, limit = isad+1, a, next
					}
				} else {
					if st.empty() {
						return
					}
					isad, first, last, limit = st.pop()
				}
			}
			continue
		}

		if last-first <= trInsertionSortThreshold {
			if !b.update(size, last-first) {
				break
			}
			s.trInsertionSort(isa, isad, isan, first, last)
			limit = -3
			continue
		}

		if limit == 0 {
			if !b.update(size, last-first) {
				break
			}
			s.trHeapSort(isa, isad, isan, first, last-first)
			for a := last - 1; first < a; {
				x := s.trGetC(isa, isad, isan, sa[a])
				bb := a - 1
				for ; first <= bb && s.trGetC(isa, isad, isan, sa[bb]) == x; bb-- {
					sa[bb] = ^sa[bb]
				}
				a = bb
			}
			limit = -3
			continue
		}
		limit--

		a := s.trPivot(isa, isad, isan, first, last)
		sa[first], sa[a] = sa[a], sa[first]
		v := s.trGetC(isa, isad, isan, sa[first])

		a, bb := s.trPartition(isa, isad, isan, first, last, v)
		if first == a && bb == last {
			// every rank in the group equals the pivot
			if !b.update(size, last-first) {
				break
			}
			limit++
			isad++
			continue
		}

		next := int32(-1)
		if sa[isa+sa[a]] != v {
			next = trLog(bb - a)
		}
		s.setRanks(isa, first, a, a-1)
		if bb < last {
			s.setRanks(isa, a, bb, bb-1)
		}

		if a-first <= last-bb {
			switch {
			case last-bb <= bb-a:
				switch {
				case a-first > 1:
					st.push(isad+1, a, bb, next)
					st.push(isad, bb, last, limit)
					last = a
				case last-bb > 1:
					st.push(isad+1, a, bb, next)
					first = bb
				case bb-a > 1:
					isad, first, last, limit = isad+1, a, bb, next
				default:
					if st.empty() {
						return
					}
					isad, first, last, limit = st.pop()
				}
			case a-first <= bb-a:
				switch {
				case a-first > 1:
					st.push(isad, bb, last, limit)
					st.push(isad+1, a, bb, next)
					last = a
				case bb-a > 1:
					st.push(isad, bb, last, limit)
					isad, first, last, limit = isad+1, a, bb, next
				default:
					first = bb
				}
			default:
				if bb-a > 1 {
					st.push(isad, bb, last, limit)
					st.push(isad, first, a, limit)
					isad, first, last, limit = isad+1, a, bb, next
				} else {
					st.push(isad, bb, last, limit)
					last = a
				}
			}
		} else {
			switch {
			case a-first <= bb-a:
				switch {
				case last-bb > 1:
					st.push(isad+1, a, bb, next)
					st.push(isad, first, a, limit)
					first = bb
				case a-first > 1:
					st.push(isad+1, a, bb, next)
					last = a
				case bb-a > 1:
					isad, first, last, limit = isad+1, a, bb, next
				default:
					st.push(isad, first, last, limit)
				}
			case last-bb <= bb-a:
				switch {
				case last-bb > 1:
					st.push(isad, first, a, limit)
					st.push(isad+1, a, bb, next)
					first = bb
				case bb-a > 1:
					st.push(isad, first, a, limit)
					isad, first, last, limit = isad+1, a, bb, next
				default:
					last = a
				}
			default:
				if bb-a > 1 {
					st.push(isad, first, a, limit)
					st.push(isad, bb, last, limit)
					isad, first, last, limit = isad+1, a, bb, next
				} else {
					st.push(isad, first, a, limit)
					first = bb
				}
			}
		}
	}

	// the budget ran out: finish the groups left in sorted partition state
	for i := range st.size {
		if e := st.entries[i]; e.d == -3 {
			s.lsUpdateGroup(isa, e.b, e.c)
		}
	}
}

func (s *sorter) trSort(isa, n, depth int32) {
	sa := s.sa
	if -n >= sa[0] {
		return
	}

	b := newBudget(n)
	for first := int32(0); first < n; {
		if t := sa[first]; t < 0 {
			first -= t
			continue
		}
		last := sa[isa+sa[first]] + 1
		if last-first > 1 {
			s.trIntroSort(isa, isa+depth, isa+n, first, last, b, n)
			if b.chance == 0 {
				// switch to Larsson-Sadakane for the remaining groups
				if first > 0 {
					sa[0] = -first
				}
				s.lsSort(isa, n, depth)
				return
			}
		}
		first = last
	}
}
