// Package divsufsort computes the Burrows-Wheeler transform of a bzip2 block.
//
// The sorter is a port of Yuta Mori's libdivsufsort 1.2.3 adapted to cyclic rotations:
// type B* suffixes are sorted with a multikey introsort over blocks of 1024 that are then
// merged (ssSort), their ranks are refined by tandem repeat sorting (trSort, falling back to
// Larsson-Sadakane doubling when its budget runs out), and a final induction pass writes the
// transformed bytes over the suffix array in place.
//
// All work happens inside one int32 arena; helpers receive offsets into it (PA, ISA, buf)
// instead of sub-slices, and every sort keeps an explicit fixed-size stack.
package divsufsort

import "math/bits"

const (
	alphabetSize = 256
	bucketASize  = alphabetSize
	bucketBSize  = alphabetSize * alphabetSize

	ssInsertionSortThreshold = 8
	ssBlockSize              = 1024
	trInsertionSortThreshold = 8

	// scratch buffer used by the merge when the arena has no room left
	minBufferSize = 256
)

type sorter struct {
	text []byte
	sa   []int32
	n    int32
}

// BWT replaces sa[0:n] with the Burrows-Wheeler transform of the cyclic block text[0:n]
// and returns the start pointer: the row of the sorted rotation matrix that holds the
// block itself.
//
// text must hold n+1 bytes with text[n] == text[0], and sa must hold at least n entries.
// Each output entry is a byte value widened to int32.
func BWT(text []byte, sa []int32, n int) int {
	switch n {
	case 0:
		return 0
	case 1:
		sa[0] = int32(text[0])
		return 0
	}

	s := &sorter{text: text[:n+1], sa: sa[:n], n: int32(n)}
	bucketA := make([]int32, bucketASize)
	bucketB := make([]int32, bucketBSize)

	if m := s.sortTypeBstar(bucketA, bucketB); m > 0 {
		return int(s.constructBWT(bucketA, bucketB))
	}

	// no B* rotation: every rotation is the block itself
	for i := range n {
		sa[i] = int32(text[i])
	}
	return 0
}

func bucketBIndex(c0, c1 int32) int32 { return c1<<8 | c0 }

func bucketBStarIndex(c0, c1 int32) int32 { return c0<<8 | c1 }

func ssLog(n int32) int32 { return int32(bits.Len32(uint32(n)&0xffff)) - 1 }

func trLog(n int32) int32 { return int32(bits.Len32(uint32(n))) - 1 }

// sortTypeBstar counts the bucket sizes, sorts every type B* rotation and induces the
// positions of the remaining type B rotations. It returns the number of B* rotations.
func (s *sorter) sortTypeBstar(bucketA, bucketB []int32) int32 {
	sa, text, n := s.sa, s.text, s.n

	// rising reports whether the block starts with an ascent, i.e. whether the wrapped
	// rotation at n-1 compares below rotation 0 when their first bytes match
	rising := true
	for i := int32(1); i < n; i++ {
		if text[i-1] != text[i] {
			rising = text[i-1] < text[i]
			break
		}
	}

	i, m := n-1, n
	if ti, t0 := int32(text[i]), int32(text[0]); ti < t0 || (ti == t0 && rising) {
		if !rising {
			bucketB[bucketBStarIndex(ti, t0)]++
			m--
			sa[m] = i
		} else {
			bucketB[bucketBIndex(ti, t0)]++
		}
		for i--; i >= 0 && text[i] <= text[i+1]; i-- {
			bucketB[bucketBIndex(int32(text[i]), int32(text[i+1]))]++
		}
	}

	for i >= 0 {
		for {
			bucketA[text[i]]++
			i--
			if i < 0 || text[i] < text[i+1] {
				break
			}
		}
		if i >= 0 {
			bucketB[bucketBStarIndex(int32(text[i]), int32(text[i+1]))]++
			m--
			sa[m] = i
			for i--; i >= 0 && text[i] <= text[i+1]; i-- {
				bucketB[bucketBIndex(int32(text[i]), int32(text[i+1]))]++
			}
		}
	}

	m = n - m
	if m == 0 {
		return 0
	}

	// bucket starts for A and B*, bucket ends for B
	i = -1
	j := int32(0)
	for c0 := int32(0); c0 < alphabetSize; c0++ {
		t := i + bucketA[c0]
		bucketA[c0] = i + j
		i = t + bucketB[bucketBIndex(c0, c0)]
		for c1 := c0 + 1; c1 < alphabetSize; c1++ {
			j += bucketB[bucketBStarIndex(c0, c1)]
			bucketB[bucketBStarIndex(c0, c1)] = j
			i += bucketB[bucketBIndex(c0, c1)]
		}
	}

	pab, isab := n-m, m
	for i := m - 2; i >= 0; i-- {
		t := sa[pab+i]
		k := bucketBStarIndex(int32(text[t]), int32(text[t+1]))
		bucketB[k]--
		sa[bucketB[k]] = i
	}
	t := sa[pab+m-1]
	k := bucketBStarIndex(int32(text[t]), int32(text[t+1]))
	bucketB[k]--
	sa[bucketB[k]] = m - 1

	buf, bufOffset, bufSize := sa, m, n-2*m
	if bufSize <= minBufferSize {
		buf, bufOffset, bufSize = make([]int32, minBufferSize), 0, minBufferSize
	}

	for c0, j := int32(alphabetSize-1), m; j > 0; c0-- {
		for c1 := int32(alphabetSize - 1); c0 < c1; c1-- {
			i := bucketB[bucketBStarIndex(c0, c1)]
			if j-i > 1 {
				s.subStringSort(pab, i, j, buf, bufOffset, bufSize, 2, sa[i] == m-1, n)
			}
			j = i
		}
	}

	// build the inverse suffix array of the B* rotations
	for i := m - 1; i >= 0; i-- {
		if sa[i] >= 0 {
			j := i
			for {
				sa[isab+sa[i]] = i
				i--
				if i < 0 || sa[i] < 0 {
					break
				}
			}
			sa[i+1] = i - j
			if i <= 0 {
				break
			}
		}
		j := i
		for {
			sa[i] = ^sa[i]
			sa[isab+sa[i]] = j
			i--
			if sa[i] >= 0 {
				break
			}
		}
		sa[isab+sa[i]] = j
	}

	s.trSort(isab, m, 1)

	// place the sorted B* rotations back at their text positions
	i, j = n-1, m
	if text[i] < text[0] || (text[i] == text[0] && rising) {
		if !rising {
			j--
			sa[sa[isab+j]] = i
		}
		for i--; i >= 0 && text[i] <= text[i+1]; i-- {
		}
	}
	for i >= 0 {
		for i--; i >= 0 && text[i] >= text[i+1]; i-- {
		}
		if i >= 0 {
			j--
			sa[sa[isab+j]] = i
			for i--; i >= 0 && text[i] <= text[i+1]; i-- {
			}
		}
	}

	// spread the B* rotations to the ends of their buckets
	i, k = n-1, m-1
	for c0 := int32(alphabetSize - 1); c0 >= 0; c0-- {
		for c1 := int32(alphabetSize - 1); c0 < c1; c1-- {
			t := i - bucketB[bucketBIndex(c0, c1)]
			bucketB[bucketBIndex(c0, c1)] = i + 1
			for i, j = t, bucketB[bucketBStarIndex(c0, c1)]; j <= k; i, k = i-1, k-1 {
				sa[i] = sa[k]
			}
		}
		t := i - bucketB[bucketBIndex(c0, c0)]
		bucketB[bucketBIndex(c0, c0)] = i + 1
		if c0 < alphabetSize-1 {
			bucketB[bucketBStarIndex(c0, c0+1)] = t + 1
		}
		i = bucketA[c0]
	}

	return m
}

// constructBWT induces the type B then type A rotations from the sorted B* rotations and
// writes the byte preceding each rotation in place of its index.
func (s *sorter) constructBWT(bucketA, bucketB []int32) int32 {
	sa, text, n := s.sa, s.text, s.n

	var t, c2 int32
	for c1 := int32(alphabetSize - 2); c1 >= 0; c1-- {
		i := bucketB[bucketBStarIndex(c1, c1+1)]
		j := bucketA[c1+1]
		t, c2 = 0, -1
		for ; i <= j; j-- {
			s1 := sa[j]
			sv := s1
			if s1 < 0 {
				sa[j] = ^sv
				continue
			}
			if sv--; sv < 0 {
				sv = n - 1
			}
			c0 := int32(text[sv])
			if c0 > c1 {
				continue
			}
			sa[j] = ^s1
			if sv > 0 && int32(text[sv-1]) > c0 {
				sv = ^sv
			}
			if c2 == c0 {
				t--
				sa[t] = sv
			} else {
				if c2 >= 0 {
					bucketB[bucketBIndex(c2, c1)] = t
				}
				c2 = c0
				t = bucketB[bucketBIndex(c2, c1)] - 1
				sa[t] = sv
			}
		}
	}

	orig := int32(-1)
	for i := int32(0); i < n; i++ {
		s1 := sa[i]
		sv := s1
		if s1 >= 0 {
			if sv--; sv < 0 {
				sv = n - 1
			}
			if c0 := int32(text[sv]); c0 >= int32(text[sv+1]) {
				if sv > 0 && int32(text[sv-1]) < c0 {
					sv = ^sv
				}
				if c0 == c2 {
					t++
					sa[t] = sv
				} else {
					if c2 != -1 {
						bucketA[c2] = t
					}
					c2 = c0
					t = bucketA[c2] + 1
					sa[t] = sv
				}
			}
		} else {
			s1 = ^s1
		}

		if s1 == 0 {
			sa[i] = int32(text[n-1])
			orig = i
		} else {
			sa[i] = int32(text[s1-1])
		}
	}

	return orig
}
