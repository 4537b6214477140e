package divsufsort

// ssCompare compares the B* substrings whose text positions are stored at sa[p1] and
// sa[p2], starting depth bytes in. A B* substring ends two bytes past the start of the
// next B* rotation.
func (s *sorter) ssCompare(p1, p2, depth int32) int32 {
	sa, text := s.sa, s.text
	u1, u2 := depth+sa[p1], depth+sa[p2]
	u1n, u2n := sa[p1+1]+2, sa[p2+1]+2

	for u1 < u1n && u2 < u2n && text[u1] == text[u2] {
		u1++
		u2++
	}

	if u1 < u1n {
		if u2 < u2n {
			return int32(text[u1]) - int32(text[u2])
		}
		return 1
	}
	if u2 < u2n {
		return -1
	}
	return 0
}

// ssCompareLast compares the last B* substring, which wraps around the end of the block,
// against another one.
func (s *sorter) ssCompareLast(pa, p1, p2, depth, size int32) int32 {
	sa, text := s.sa, s.text
	u1, u2 := depth+sa[p1], depth+sa[p2]
	u1n, u2n := size, sa[p2+1]+2

	for u1 < u1n && u2 < u2n && text[u1] == text[u2] {
		u1++
		u2++
	}

	if u1 < u1n {
		if u2 < u2n {
			return int32(text[u1]) - int32(text[u2])
		}
		return 1
	} else if u2 == u2n {
		return 1
	}

	u1 %= size
	u1n = sa[pa] + 2
	for u1 < u1n && u2 < u2n && text[u1] == text[u2] {
		u1++
		u2++
	}

	if u1 < u1n {
		if u2 < u2n {
			return int32(text[u1]) - int32(text[u2])
		}
		return 1
	}
	if u2 < u2n {
		return -1
	}
	return 0
}

func (s *sorter) ssInsertionSort(pa, first, last, depth int32) {
	sa := s.sa
	for i := last - 2; first <= i; i-- {
		t := sa[i]
		j := i + 1
		var r int32
		for {
			if r = s.ssCompare(pa+t, pa+sa[j], depth); r <= 0 {
				break
			}
			for {
				sa[j-1] = sa[j]
				j++
				if j >= last || sa[j] >= 0 {
					break
				}
			}
			if last <= j {
				break
			}
		}
		if r == 0 {
			sa[j] = ^sa[j]
		}
		sa[j-1] = t
	}
}

func (s *sorter) ssKey(td, pa, i int32) int32 {
	return int32(s.text[td+s.sa[pa+s.sa[i]]])
}

func (s *sorter) ssFixdown(td, pa, base, i, size int32) {
	sa := s.sa
	v := sa[base+i]
	c := int32(s.text[td+sa[pa+v]])
	for j := 2*i + 1; j < size; j = 2*i + 1 {
		k := j
		j++
		d := s.ssKey(td, pa, base+k)
		if e := s.ssKey(td, pa, base+j); d < e {
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

func (s *sorter) ssHeapSort(td, pa, base, size int32) {
	sa := s.sa
	m := size
	if size%2 == 0 {
		m--
		if s.ssKey(td, pa, base+m/2) < s.ssKey(td, pa, base+m) {
			sa[base+m], sa[base+m/2] = sa[base+m/2], sa[base+m]
		}
	}

	for i := m/2 - 1; i >= 0; i-- {
		s.ssFixdown(td, pa, base, i, m)
	}
	if size%2 == 0 {
		sa[base], sa[base+m] = sa[base+m], sa[base]
		s.ssFixdown(td, pa, base, 0, m)
	}
	for i := m - 1; i > 0; i-- {
		t := sa[base]
		sa[base] = sa[base+i]
		s.ssFixdown(td, pa, base, 0, i)
		sa[base+i] = t
	}
}

func (s *sorter) ssMedian3(td, pa, v1, v2, v3 int32) int32 {
	t1, t2, t3 := s.ssKey(td, pa, v1), s.ssKey(td, pa, v2), s.ssKey(td, pa, v3)
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

func (s *sorter) ssMedian5(td, pa, v1, v2, v3, v4, v5 int32) int32 {
	t1, t2, t3 := s.ssKey(td, pa, v1), s.ssKey(td, pa, v2), s.ssKey(td, pa, v3)
	t4, t5 := s.ssKey(td, pa, v4), s.ssKey(td, pa, v5)
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
		v4 = v1
		t4 = t1
		v3 = v5
		t3 = t5
	}
	if t3 > t4 {
		return v4
	}
	return v3
}

func (s *sorter) ssPivot(td, pa, first, last int32) int32 {
	t := last - first
	middle := first + t/2

	if t <= 512 {
		if t <= 32 {
			return s.ssMedian3(td, pa, first, middle, last-1)
		}
		t >>= 2
		return s.ssMedian5(td, pa, first, first+t, middle, last-1-t, last-1)
	}
	t >>= 3
	return s.ssMedian3(td, pa,
		s.ssMedian3(td, pa, first, first+t, first+(t<<1)),
		s.ssMedian3(td, pa, middle-t, middle, middle+t),
		s.ssMedian3(td, pa, last-1-(t<<1), last-1-t, last-1))
}

// ssSubstringPartition moves the substrings shorter than depth to the front, marking
// them as already sorted.
func (s *sorter) ssSubstringPartition(pa, first, last, depth int32) int32 {
	sa := s.sa
	a, b := first-1, last
	for {
		for a++; a < b && sa[pa+sa[a]]+depth >= sa[pa+sa[a]+1]+1; a++ {
			sa[a] = ^sa[a]
		}
		for b--; a < b && sa[pa+sa[b]]+depth < sa[pa+sa[b]+1]+1; b-- {
		}
		if b <= a {
			break
		}
		t := ^sa[b]
		sa[b] = sa[a]
		sa[a] = t
	}
	if first < a {
		sa[first] = ^sa[first]
	}
	return a
}

func (s *sorter) vecSwap(a, b, n int32) {
	sa := s.sa
	for ; n > 0; n, a, b = n-1, a+1, b+1 {
		sa[a], sa[b] = sa[b], sa[a]
	}
}

func (s *sorter) ssMultiKeyIntroSort(pa, first, last, depth int32) {
	sa, text := s.sa, s.text
	var st stack
	var x int32
	limit := ssLog(last - first)

	for {
		if last-first <= ssInsertionSortThreshold {
			if last-first > 1 {
				s.ssInsertionSort(pa, first, last, depth)
			}
			if st.empty() {
				return
			}
			first, last, depth, limit = st.pop()
			continue
		}

		td := depth
		if limit == 0 {
			s.ssHeapSort(td, pa, first, last-first)
		}
		limit--
		if limit < 0 {
			a := first + 1
			v := s.ssKey(td, pa, first)
			for ; a < last; a++ {
				if x = s.ssKey(td, pa, a); x != v {
					if a-first > 1 {
						break
					}
					v = x
					first = a
				}
			}
			if int32(text[td+sa[pa+sa[first]]-1]) < v {
				first = s.ssSubstringPartition(pa, first, a, depth)
			}
			if a-first <= last-a {
				if a-first > 1 {
					st.push(a, last, depth, -1)
					last, depth, limit = a, depth+1, ssLog(a-first)
				} else {
					first, limit = a, -1
				}
			} else {
				if last-a > 1 {
					st.push(first, a, depth+1, ssLog(a-first))
					first, limit = a, -1
				} else {
					last, depth, limit = a, depth+1, ssLog(a-first)
				}
			}
			continue
		}

		// three way partition around the pivot byte
		a := s.ssPivot(td, pa, first, last)
		v := s.ssKey(td, pa, a)
		sa[first], sa[a] = sa[a], sa[first]

		b := first + 1
		for ; b < last; b++ {
			if x = s.ssKey(td, pa, b); x != v {
				break
			}
		}
		a = b
		if a < last && x < v {
			for b++; b < last; b++ {
				if x = s.ssKey(td, pa, b); x > v {
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
			if x = s.ssKey(td, pa, c); x != v {
				break
			}
		}
		d := c
		if b < d && x > v {
			for c--; b < c; c-- {
				if x = s.ssKey(td, pa, c); x < v {
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
				if x = s.ssKey(td, pa, b); x > v {
					break
				}
				if x == v {
					sa[b], sa[a] = sa[a], sa[b]
					a++
				}
			}
			for c--; b < c; c-- {
				if x = s.ssKey(td, pa, c); x < v {
					break
				}
				if x == v {
					sa[c], sa[d] = sa[d], sa[c]
					d--
				}
			}
		}

		if a > d {
			limit++
			if int32(text[td+sa[pa+sa[first]]-1]) < v {
				first = s.ssSubstringPartition(pa, first, last, depth)
				limit = ssLog(last - first)
			}
			depth++
			continue
		}

		c = b - 1
		n := min(a-first, b-a)
		s.vecSwap(first, b-n, n)
		n = min(d-c, last-d-1)
		s.vecSwap(b, last-n, n)

		a = first + (b - a)
		c = last - (d - c)
		if v <= int32(text[td+sa[pa+sa[a]]-1]) {
			b = a
		} else {
			b = s.ssSubstringPartition(pa, a, c, depth)
		}

		if a-first <= last-c {
			switch {
			case last-c <= c-b:
				st.push(b, c, depth+1, ssLog(c-b))
				st.push(c, last, depth, limit)
				last = a
			case a-first <= c-b:
				st.push(c, last, depth, limit)
				st.push(b, c, depth+1, ssLog(c-b))
				last = a
			default:
				st.push(c, last, depth, limit)
				st.push(first, a, depth, limit)
				first, last, depth, limit = b, c, depth+1, ssLog(c-b)
			}
		} else {
			switch {
			case a-first <= c-b:
				st.push(b, c, depth+1, ssLog(c-b))
				st.push(first, a, depth, limit)
				first = c
			case last-c <= c-b:
				st.push(first, a, depth, limit)
				st.push(b, c, depth+1, ssLog(c-b))
				first = c
			default:
				st.push(first, a, depth, limit)
				st.push(c, last, depth, limit)
				first, last, depth, limit = b, c, depth+1, ssLog(c-b)
			}
		}
	}
}

func ssBlockSwap(a1 []int32, f1 int32, a2 []int32, f2, size int32) {
	for i := range size {
		a1[f1+i], a2[f2+i] = a2[f2+i], a1[f1+i]
	}
}

// ssMergeForward merges [first, middle) and [middle, last) using buf, which must hold
// middle-first entries.
func (s *sorter) ssMergeForward(pa int32, buf []int32, bufOffset, first, middle, last, depth int32) {
	sa := s.sa
	bufEnd := bufOffset + (middle - first) - 1
	ssBlockSwap(buf, bufOffset, sa, first, middle-first)

	t := sa[first]
	i, j, k := first, bufOffset, middle

	takeLeft := func() bool {
		for {
			sa[i] = buf[j]
			i++
			if bufEnd <= j {
				buf[j] = t
				return true
			}
			buf[j] = sa[i]
			j++
			if buf[j] >= 0 {
				return false
			}
		}
	}
	takeRight := func() bool {
		for {
			sa[i] = sa[k]
			i++
			sa[k] = sa[i]
			k++
			if last <= k {
				for ; j < bufEnd; j++ {
					sa[i] = buf[j]
					i++
					buf[j] = sa[i]
				}
				sa[i] = buf[j]
				buf[j] = t
				return true
			}
			if sa[k] >= 0 {
				return false
			}
		}
	}

	for {
		switch r := s.ssCompare(pa+buf[j], pa+sa[k], depth); {
		case r < 0:
			if takeLeft() {
				return
			}
		case r > 0:
			if takeRight() {
				return
			}
		default:
			sa[k] = ^sa[k]
			if takeLeft() || takeRight() {
				return
			}
		}
	}
}

// ssMergeBackward merges [first, middle) and [middle, last) using buf, which must hold
// last-middle entries.
func (s *sorter) ssMergeBackward(pa int32, buf []int32, bufOffset, first, middle, last, depth int32) {
	sa := s.sa
	bufEnd := bufOffset + (last - middle)
	ssBlockSwap(buf, bufOffset, sa, middle, last-middle)

	var x, p1, p2 int32
	if buf[bufEnd-1] < 0 {
		x |= 1
		p1 = pa + ^buf[bufEnd-1]
	} else {
		p1 = pa + buf[bufEnd-1]
	}
	if sa[middle-1] < 0 {
		x |= 2
		p2 = pa + ^sa[middle-1]
	} else {
		p2 = pa + sa[middle-1]
	}

	t := sa[last-1]
	i, j, k := last-1, bufEnd-1, middle-1

	nextLeft := func() {
		if buf[j] < 0 {
			x |= 1
			p1 = pa + ^buf[j]
		} else {
			p1 = pa + buf[j]
		}
	}
	nextRight := func() {
		if sa[k] < 0 {
			x |= 2
			p2 = pa + ^sa[k]
		} else {
			p2 = pa + sa[k]
		}
	}
	skipLeft := func() {
		if x&1 != 0 {
			for {
				sa[i] = buf[j]
				i--
				buf[j] = sa[i]
				j--
				if buf[j] >= 0 {
					break
				}
			}
			x ^= 1
		}
	}
	skipRight := func() {
		if x&2 != 0 {
			for {
				sa[i] = sa[k]
				i--
				sa[k] = sa[i]
				k--
				if sa[k] >= 0 {
					break
				}
			}
			x ^= 2
		}
	}
	// takeRight moves one element of the right run and reports whether the run is drained
	takeRight := func() bool {
		sa[i] = sa[k]
		i--
		sa[k] = sa[i]
		k--
		if k < first {
			for ; bufOffset < j; j-- {
				sa[i] = buf[j]
				i--
				buf[j] = sa[i]
			}
			sa[i] = buf[j]
			buf[j] = t
			return true
		}
		return false
	}

	for {
		switch r := s.ssCompare(p1, p2, depth); {
		case r > 0:
			skipLeft()
			sa[i] = buf[j]
			i--
			if j <= bufOffset {
				buf[j] = t
				return
			}
			buf[j] = sa[i]
			j--
			nextLeft()
		case r < 0:
			skipRight()
			if takeRight() {
				return
			}
			nextRight()
		default:
			skipLeft()
			sa[i] = ^buf[j]
			i--
			if j <= bufOffset {
				buf[j] = t
				return
			}
			buf[j] = sa[i]
			j--
			skipRight()
			if takeRight() {
				return
			}
			nextLeft()
			nextRight()
		}
	}
}

func (s *sorter) ssMergeCheckEqual(pa, depth, a int32) {
	sa := s.sa
	if sa[a] < 0 {
		return
	}
	prev := sa[a-1]
	if prev < 0 {
		prev = ^prev
	}
	if s.ssCompare(pa+prev, pa+sa[a], depth) == 0 {
		sa[a] = ^sa[a]
	}
}

func ssIndex(v int32) int32 {
	if v < 0 {
		return ^v
	}
	return v
}

func (s *sorter) ssMerge(pa, first, middle, last int32, buf []int32, bufOffset, bufSize, depth int32) {
	sa := s.sa
	var st stack
	var check int32

	checkBounds := func() {
		if check&1 != 0 {
			s.ssMergeCheckEqual(pa, depth, first)
		}
		if check&2 != 0 {
			s.ssMergeCheckEqual(pa, depth, last)
		}
	}

	for {
		if last-middle <= bufSize {
			if first < middle && middle < last {
				s.ssMergeBackward(pa, buf, bufOffset, first, middle, last, depth)
			}
			checkBounds()
			if st.empty() {
				return
			}
			first, middle, last, check = st.pop()
			continue
		}

		if middle-first <= bufSize {
			if first < middle {
				s.ssMergeForward(pa, buf, bufOffset, first, middle, last, depth)
			}
			checkBounds()
			if st.empty() {
				return
			}
			first, middle, last, check = st.pop()
			continue
		}

		// binary search for the rotation point of the symmetric merge
		m := int32(0)
		length := min(middle-first, last-middle)
		for half := length >> 1; length > 0; length, half = half, half>>1 {
			if s.ssCompare(pa+ssIndex(sa[middle+m+half]), pa+ssIndex(sa[middle-m-half-1]), depth) < 0 {
				m += half + 1
				half -= length&1 ^ 1
			}
		}

		if m > 0 {
			ssBlockSwap(sa, middle-m, sa, middle, m)
			i, j := middle, middle
			next := int32(0)
			if middle+m < last {
				if sa[middle+m] < 0 {
					for sa[i-1] < 0 {
						i--
					}
					sa[middle+m] = ^sa[middle+m]
				}
				for j = middle; sa[j] < 0; j++ {
				}
				next = 1
			}
			if i-first <= last-j {
				st.push(j, middle+m, last, check&2|next&1)
				middle, last, check = middle-m, i, check&1
			} else {
				if i == middle && middle == j {
					next <<= 1
				}
				st.push(first, middle-m, i, check&1|next&2)
				first, middle, check = j, middle+m, check&2|next&1
			}
		} else {
			if check&1 != 0 {
				s.ssMergeCheckEqual(pa, depth, first)
			}
			s.ssMergeCheckEqual(pa, depth, middle)
			if check&2 != 0 {
				s.ssMergeCheckEqual(pa, depth, last)
			}
			if st.empty() {
				return
			}
			first, middle, last, check = st.pop()
		}
	}
}

// subStringSort sorts the B* substrings in sa[first:last]: blocks of ssBlockSize are
// sorted with the multikey introsort and merged pairwise like a binary counter.
func (s *sorter) subStringSort(pa, first, last int32, buf []int32, bufOffset, bufSize, depth int32, lastSuffix bool, size int32) {
	sa := s.sa
	if lastSuffix {
		first++
	}

	a, i := first, int32(0)
	for ; a+ssBlockSize < last; a, i = a+ssBlockSize, i+1 {
		s.ssMultiKeyIntroSort(pa, a, a+ssBlockSize, depth)
		curBuf, curOffset, curSize := sa, a+ssBlockSize, last-(a+ssBlockSize)
		if curSize <= bufSize {
			curBuf, curOffset, curSize = buf, bufOffset, bufSize
		}
		b, k := a, int32(ssBlockSize)
		for j := i; j&1 != 0; j >>= 1 {
			s.ssMerge(pa, b-k, b, b+k, curBuf, curOffset, curSize, depth)
			b -= k
			k <<= 1
		}
	}
	s.ssMultiKeyIntroSort(pa, a, last, depth)

	for k := int32(ssBlockSize); i != 0; k, i = k<<1, i>>1 {
		if i&1 != 0 {
			s.ssMerge(pa, a-k, a, last, buf, bufOffset, bufSize, depth)
			a -= k
		}
	}

	if lastSuffix {
		i := sa[first-1]
		r := int32(1)
		for a = first; a < last; a++ {
			if sa[a] >= 0 {
				if r = s.ssCompareLast(pa, pa+i, pa+sa[a], depth, size); r <= 0 {
					break
				}
			}
			sa[a-1] = sa[a]
		}
		if r == 0 {
			sa[a] = ^sa[a]
		}
		sa[a-1] = i
	}
}
