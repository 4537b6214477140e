package divsufsort

import (
	"bytes"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveBWT sorts every rotation of block directly.
func naiveBWT(block []byte) []byte {
	n := len(block)
	doubled := append(slices.Clone(block), block...)
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	slices.SortStableFunc(rows, func(a, b int) int {
		return bytes.Compare(doubled[a:a+n], doubled[b:b+n])
	})
	out := make([]byte, n)
	for i, r := range rows {
		out[i] = block[(r+n-1)%n]
	}
	return out
}

func runBWT(block []byte) ([]byte, int) {
	n := len(block)
	text := make([]byte, n+1)
	copy(text, block)
	if n > 0 {
		text[n] = block[0]
	}
	sa := make([]int32, n)
	ptr := BWT(text, sa, n)
	out := make([]byte, n)
	for i, v := range sa {
		out[i] = byte(v)
	}
	return out, ptr
}

// inverse rebuilds the block from its transform and start pointer.
func inverse(bwt []byte, ptr int) []byte {
	n := len(bwt)
	if n == 0 {
		return nil
	}
	var counts [256]int
	for _, c := range bwt {
		counts[c]++
	}
	var starts [256]int
	sum := 0
	for c := range counts {
		starts[c] = sum
		sum += counts[c]
	}
	next := make([]int, n)
	for i, c := range bwt {
		next[starts[c]] = i
		starts[c]++
	}
	out := make([]byte, n)
	p := next[ptr]
	for i := range out {
		out[i] = bwt[p]
		p = next[p]
	}
	return out
}

func fibonacciWord(n int) []byte {
	a, b := "a", "ab"
	for len(b) < n {
		a, b = b, b+a
	}
	return []byte(b[:n])
}

func thueMorse(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'a' + byte(popcount(i)%2)
	}
	return out
}

func popcount(v int) (n int) {
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

func TestBWT(t *testing.T) {
	tests := []struct {
		name  string
		block []byte
	}{
		{"single", []byte("x")},
		{"pair equal", []byte("aa")},
		{"pair rising", []byte("ab")},
		{"pair falling", []byte("ba")},
		{"banana", []byte("banana")},
		{"mississippi", []byte("mississippi")},
		{"periodic", []byte("abababab")},
		{"periodic with tail", []byte("abcabcabcabd")},
		{"constant", bytes.Repeat([]byte{'z'}, 100)},
		{"zero bytes", []byte{0, 0, 0, 0, 0, 1, 0, 0, 0}},
		{"descending", []byte("zyxwvutsrq")},
		{"text", []byte(strings.Repeat("the quick brown fox jumps over the lazy dog ", 40))},
		{"fibonacci", fibonacciWord(5000)},
		{"thue morse", thueMorse(4096)},
		{"all bytes", func() []byte {
			b := make([]byte, 512)
			for i := range b {
				b[i] = byte(i * 7)
			}
			return b
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ptr := runBWT(tt.block)
			if want := naiveBWT(tt.block); !bytes.Equal(got, want) {
				t.Errorf("BWT() = %q, want %q", got, want)
			}
			if back := inverse(got, ptr); !bytes.Equal(back, tt.block) {
				t.Errorf("BWT() start pointer %d does not restore the block", ptr)
			}
		})
	}
}

func TestBWTEmpty(t *testing.T) {
	assert.Equal(t, 0, BWT([]byte{0}, nil, 0))
}

func TestBWTRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range 300 {
		n := 2 + rng.IntN(3000)
		alphabet := []int{2, 3, 4, 16, 256}[i%5]
		block := make([]byte, n)
		switch i % 3 {
		case 0:
			for j := range block {
				block[j] = byte(rng.IntN(alphabet))
			}
		case 1:
			unit := make([]byte, 1+rng.IntN(40))
			for j := range unit {
				unit[j] = byte(rng.IntN(alphabet))
			}
			for j := range block {
				block[j] = unit[j%len(unit)]
			}
			block[rng.IntN(n)] = byte(rng.IntN(256))
		default:
			for j := 0; j < n; {
				c := byte(rng.IntN(alphabet))
				for run := 1 + rng.IntN(300); run > 0 && j < n; run-- {
					block[j] = c
					j++
				}
			}
		}

		got, ptr := runBWT(block)
		require.Equal(t, naiveBWT(block), got, "case %d (n=%d)", i, n)
		require.Equal(t, block, inverse(got, ptr), "case %d (n=%d)", i, n)
	}
}

func TestBWTBudgetExhausted(t *testing.T) {
	saved := newBudget
	newBudget = func(int32) *budget { return &budget{remain: 1, chance: 1} }
	t.Cleanup(func() { newBudget = saved })

	rng := rand.New(rand.NewPCG(3, 4))
	for i := range 200 {
		n := 2 + rng.IntN(1500)
		unit := make([]byte, 1+rng.IntN(9))
		for j := range unit {
			unit[j] = byte(rng.IntN(1 + i%4))
		}
		block := make([]byte, n)
		for j := range block {
			block[j] = unit[j%len(unit)]
		}
		block[rng.IntN(n)] = byte(rng.IntN(4))

		got, ptr := runBWT(block)
		require.Equal(t, naiveBWT(block), got, "case %d (n=%d)", i, n)
		require.Equal(t, block, inverse(got, ptr), "case %d (n=%d)", i, n)
	}
}

func TestStackOverflowPanics(t *testing.T) {
	var st stack
	for i := range stackSize {
		st.push(int32(i), 0, 0, 0)
	}
	assert.Panics(t, func() { st.push(0, 0, 0, 0) })
	a, _, _, _ := st.pop()
	assert.Equal(t, int32(stackSize-1), a)
}

func BenchmarkBWT(b *testing.B) {
	block := []byte(strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 15000))[:900000]
	text := append(slices.Clone(block), block[0])
	sa := make([]int32, len(block))
	b.SetBytes(int64(len(block)))
	for b.Loop() {
		BWT(text, sa, len(block))
	}
}
