package bzip2

import (
	"bytes"
	"testing"

	"github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeRuns expands RUNA/RUNB digits back into zero run lengths, keeping other symbols.
func decodeRuns(symbols []uint16) []int {
	var out []int
	repeat, increment := 0, 1
	for _, s := range symbols {
		switch s {
		case runA:
			repeat += increment
			increment <<= 1
		case runB:
			repeat += increment << 1
			increment <<= 1
		default:
			if repeat > 0 {
				out = append(out, -repeat)
				repeat, increment = 0, 1
			}
			out = append(out, int(s))
		}
	}
	return out
}

func TestEncodeMTFAndRLE2(t *testing.T) {
	for run := 1; run <= 40; run++ {
		bwt := []int32{'b'}
		for range run {
			bwt = append(bwt, 'a')
		}
		bwt = append(bwt, 'b')

		var inUse [256]bool
		inUse['a'], inUse['b'] = true, true
		blk := encodeMTFAndRLE2(bwt, &inUse, make([]uint16, len(bwt)+1))

		// 'b' is at index 1, the run of 'a' starts with a move to the front
		want := []int{2, 2, -(run - 1), 2, 3}
		if run == 1 {
			want = []int{2, 2, 2, 3}
		}
		assert.Equal(t, want, decodeRuns(blk.symbols), "run of %d", run)
		assert.Equal(t, 4, blk.alphabetSize)
		assert.Equal(t, 1, blk.frequencies[3])
	}
}

func TestSelectTableCount(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{1, 2},
		{199, 2},
		{200, 3},
		{599, 3},
		{600, 4},
		{1200, 5},
		{2399, 5},
		{2400, 6},
		{900001, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, selectTableCount(tt.length), "length %d", tt.length)
	}
}

func TestGenerateCodeLengths(t *testing.T) {
	tests := []struct {
		name        string
		frequencies []int
	}{
		{"two symbols", []int{5, 1}},
		{"with zeros", []int{0, 10, 0, 3, 0, 0, 7}},
		{"all zero", make([]int, 20)},
		{"fibonacci", func() []int {
			f := make([]int, 40)
			f[0], f[1] = 1, 1
			for i := 2; i < len(f); i++ {
				f[i] = f[i-1] + f[i-2]
			}
			return f
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lengths := make([]int, len(tt.frequencies))
			generateCodeLengths(tt.frequencies, lengths)

			kraft := 0
			for _, l := range lengths {
				require.GreaterOrEqual(t, l, 1)
				require.LessOrEqual(t, l, maxEncodeCodeLength)
				kraft += 1 << (maxEncodeCodeLength - l)
			}
			assert.LessOrEqual(t, kraft, 1<<maxEncodeCodeLength)

			for i := range lengths {
				for j := range lengths {
					if tt.frequencies[i] > tt.frequencies[j] {
						assert.LessOrEqual(t, lengths[i], lengths[j])
					}
				}
			}
		})
	}
}

func TestHuffmanStageRoundTrip(t *testing.T) {
	data := runs(21, 30000, 9)
	bwt := make([]int32, len(data))
	var inUse [256]bool
	for i, b := range data {
		bwt[i] = int32(b)
		inUse[b] = true
	}
	blk := encodeMTFAndRLE2(bwt, &inUse, make([]uint16, len(bwt)+1))

	// prefix the symbol map for values 0..3 so the block decompressor can read the tables back
	var out bytes.Buffer
	w := bitstream.NewWriter(&out)
	require.NoError(t, w.WriteBits(16, 0x8000))
	require.NoError(t, w.WriteBits(16, 0xf000))
	require.NoError(t, newHuffmanStageEncoder(w, blk).encode())
	require.NoError(t, w.Flush())

	d := &blockDecompressor{r: bitstream.NewReader(&out)}
	decoder, err := d.readHuffmanTables()
	require.NoError(t, err)
	for i, want := range blk.symbols {
		got, err := decoder.nextSymbol()
		require.NoError(t, err)
		require.Equal(t, int(want), got, "symbol %d", i)
	}
}

func TestBlockCompressorLimit(t *testing.T) {
	c := newBlockCompressor(Fastest.Bytes())
	data := randomData(31, 2*Fastest.Bytes())
	n := c.write(data)
	require.Less(t, n, len(data))
	assert.Equal(t, n, c.rawLength)

	var buf bytes.Buffer
	_, err := c.close(bitstream.NewWriter(&buf))
	require.NoError(t, err)
	assert.LessOrEqual(t, c.length, Fastest.Bytes())
}
