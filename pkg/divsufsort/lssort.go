package divsufsort

// lsUpdateGroup assigns ranks to sa[first:last] after a sort: runs of already unique
// rotations collapse into a negative skip length and equal runs share the rank of
// their last slot.
func (s *sorter) lsUpdateGroup(isa, first, last int32) {
	sa := s.sa
	for a := first; a < last; a++ {
		if sa[a] >= 0 {
			b := a
			for {
				sa[isa+sa[a]] = a
				a++
				if a >= last || sa[a] < 0 {
					break
				}
			}
			sa[b] = b - a
			if last <= a {
				break
			}
		}
		b := a
		for {
			sa[a] = ^sa[a]
			a++
			if sa[a] >= 0 {
				break
			}
		}
		t := a
		for {
			sa[isa+sa[b]] = t
			b++
			if b > a {
				break
			}
		}
	}
}

func (s *sorter) lsIntroSort(isa, isad, isan, first, last int32) {
	sa := s.sa
	var st stack
	limit := trLog(last - first)

	for {
		if last-first <= trInsertionSortThreshold {
			if last-first > 1 {
				s.trInsertionSort(isa, isad, isan, first, last)
				s.lsUpdateGroup(isa, first, last)
			} else if last-first == 1 {
				sa[first] = -1
			}
			if st.empty() {
				return
			}
			first, last, limit, _ = st.pop()
			continue
		}

		if limit == 0 {
			s.trHeapSort(isa, isad, isan, first, last-first)
			for a := last - 1; first < a; {
				x := s.trGetC(isa, isad, isan, sa[a])
				b := a - 1
				for ; first <= b && s.trGetC(isa, isad, isan, sa[b]) == x; b-- {
					sa[b] = ^sa[b]
				}
				a = b
			}
			s.lsUpdateGroup(isa, first, last)
			if st.empty() {
				return
			}
			first, last, limit, _ = st.pop()
			continue
		}
		limit--

		a := s.trPivot(isa, isad, isan, first, last)
		sa[first], sa[a] = sa[a], sa[first]
		v := s.trGetC(isa, isad, isan, sa[first])

		a, b := s.trPartition(isa, isad, isan, first, last, v)
		if first == a && b == last {
			if st.empty() {
				return
			}
			first, last, limit, _ = st.pop()
			continue
		}

		s.setRanks(isa, first, a, a-1)
		if b < last {
			s.setRanks(isa, a, b, b-1)
		}
		if b-a == 1 {
			sa[a] = -1
		}

		if a-first <= last-b {
			if first < a {
				st.push(b, last, limit, 0)
				last = a
			} else {
				first = b
			}
		} else {
			if b < last {
				st.push(first, a, limit, 0)
				first = b
			} else {
				last = a
			}
		}
	}
}

// lsSort is the Larsson-Sadakane doubling sort over the ranks in sa[isa:isa+n]. It
// finishes the groups trSort left unsorted when its budget ran out.
func (s *sorter) lsSort(isa, n, depth int32) {
	sa := s.sa
	for isad := isa + depth; -n < sa[0]; isad += isad - isa {
		first := int32(0)
		skip := int32(0)
		for {
			if t := sa[first]; t < 0 {
				first -= t
				skip += t
			} else {
				if skip != 0 {
					sa[first+skip] = skip
					skip = 0
				}
				last := sa[isa+t] + 1
				s.lsIntroSort(isa, isad, isa+n, first, last)
				first = last
			}
			if first >= n {
				break
			}
		}
		if skip != 0 {
			sa[first+skip] = skip
		}

		if n < isad-isa {
			// every rotation is unique: turn the ranks into the suffix array
			for first := int32(0); first < n; {
				if t := sa[first]; t < 0 {
					first -= t
					continue
				}
				last := sa[isa+sa[first]] + 1
				for i := first; i < last; i++ {
					sa[isa+sa[i]] = i
				}
				first = last
			}
			break
		}
	}
}
