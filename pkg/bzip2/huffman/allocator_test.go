package huffman

import (
	"math/bits"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateCodeLengths(t *testing.T) {
	tests := []struct {
		name      string
		freqs     []int
		maxLength int
		want      []int
	}{
		{"single", []int{7}, 20, []int{1}},
		{"pair", []int{1, 100}, 20, []int{1, 1}},
		{"skewed", []int{1, 1, 2, 4}, 20, []int{3, 3, 2, 1}},
		{"uniform", []int{5, 5, 5, 5}, 20, []int{2, 2, 2, 2}},
		{"fibonacci_unlimited", []int{1, 1, 2, 3, 5, 8, 13}, 20, []int{6, 6, 5, 4, 3, 2, 1}},
		{"fibonacci_limited", []int{1, 1, 2, 3, 5, 8, 13}, 4, []int{4, 4, 3, 3, 3, 2, 2}},
		{"tight", []int{0, 0, 0, 1, 1, 3, 5, 6}, 3, []int{3, 3, 3, 3, 3, 3, 3, 3}},
		{"zeros", []int{0, 0, 0}, 20, []int{2, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Clone(tt.freqs)
			AllocateCodeLengths(got, tt.maxLength)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllocateCodeLengths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func kraftSum(lengths []int, maxLength int) int {
	var sum int
	for _, l := range lengths {
		sum += 1 << (maxLength - l)
	}
	return sum
}

func TestAllocateCodeLengthsKraft(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 9))
	for i := range 5000 {
		n := 2 + rng.IntN(257)
		freqs := make([]int, n)
		for j := range freqs {
			switch i % 4 {
			case 0:
				freqs[j] = rng.IntN(10)
			case 1:
				freqs[j] = 1 << rng.IntN(20)
			case 2:
				freqs[j] = rng.IntN(100000)
			}
		}
		slices.Sort(freqs)

		minLength := max(1, bits.Len(uint(n-1)))
		maxLength := minLength + rng.IntN(21-minLength)
		if i%5 == 0 {
			maxLength = minLength
		}

		lengths := slices.Clone(freqs)
		AllocateCodeLengths(lengths, maxLength)

		for j, l := range lengths {
			if l < 1 || l > maxLength {
				t.Fatalf("n=%d max=%d: length[%d] = %d out of range", n, maxLength, j, l)
			}
			if j > 0 && l > lengths[j-1] {
				t.Fatalf("n=%d max=%d: lengths not monotonic at %d: %v", n, maxLength, j, lengths)
			}
		}
		assert.Equal(t, 1<<maxLength, kraftSum(lengths, maxLength), "n=%d max=%d", n, maxLength)
	}
}

func TestAllocateCodeLengthsOptimal(t *testing.T) {
	freqs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	lengths := slices.Clone(freqs)
	AllocateCodeLengths(lengths, 20)

	var cost int
	for i := range freqs {
		cost += freqs[i] * lengths[i]
	}
	// weighted path length of a Huffman tree over 1..10
	if cost != 173 {
		t.Errorf("cost = %d, want 173 (lengths %v)", cost, lengths)
	}
}
