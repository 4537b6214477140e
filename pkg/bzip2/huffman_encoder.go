package bzip2

import (
	"slices"

	"github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"
	"github.com/blacktop/go-bzip2/pkg/bzip2/huffman"
	"github.com/blacktop/go-bzip2/pkg/bzip2/mtf"
)

// optimisationPasses is the number of times the table assignment is refined.
const optimisationPasses = 4

// huffmanStageEncoder chooses 2 to 6 Huffman tables for a block, assigns each group
// of 50 symbols to one of them and writes the tables, selectors and coded symbols.
type huffmanStageEncoder struct {
	w            *bitstream.Writer
	symbols      []uint16
	alphabetSize int
	frequencies  []int

	// per table code lengths indexed by symbol
	codeLengths [][]int
	// per table codes packed as length<<24 | code
	mergedCodes [][]uint32
	selectors   []byte
}

func newHuffmanStageEncoder(w *bitstream.Writer, blk *mtfBlock) *huffmanStageEncoder {
	tables := selectTableCount(len(blk.symbols))
	e := &huffmanStageEncoder{
		w:            w,
		symbols:      blk.symbols,
		alphabetSize: blk.alphabetSize,
		frequencies:  blk.frequencies[:blk.alphabetSize],
		codeLengths:  make([][]int, tables),
		mergedCodes:  make([][]uint32, tables),
		selectors:    make([]byte, (len(blk.symbols)+groupSize-1)/groupSize),
	}
	for t := range tables {
		e.codeLengths[t] = make([]int, e.alphabetSize)
		e.mergedCodes[t] = make([]uint32, e.alphabetSize)
	}
	return e
}

// selectTableCount picks the number of tables from the number of symbols to code.
func selectTableCount(length int) int {
	switch {
	case length >= 2400:
		return 6
	case length >= 1200:
		return 5
	case length >= 600:
		return 4
	case length >= 200:
		return 3
	default:
		return 2
	}
}

// generateCodeLengths computes length limited code lengths for frequencies into lengths.
func generateCodeLengths(frequencies, lengths []int) {
	merged := make([]int, len(frequencies))
	for i, f := range frequencies {
		merged[i] = f<<9 | i
	}
	slices.Sort(merged)

	sorted := make([]int, len(merged))
	for i, m := range merged {
		sorted[i] = m >> 9
	}
	huffman.AllocateCodeLengths(sorted, maxEncodeCodeLength)

	for i, m := range merged {
		lengths[m&0x1ff] = sorted[i]
	}
}

// seedTables gives each table a contiguous band of symbols holding a roughly equal
// share of the total frequency. Symbols inside a table's band start at length 0,
// the rest at highSymbolCost.
func (e *huffmanStageEncoder) seedTables() {
	tables := len(e.codeLengths)
	remaining := len(e.symbols)
	lowCostEnd := -1

	for i := range tables {
		target := remaining / (tables - i)
		lowCostStart := lowCostEnd + 1
		actual := 0

		for actual < target && lowCostEnd < e.alphabetSize-1 {
			lowCostEnd++
			actual += e.frequencies[lowCostEnd]
		}

		if lowCostEnd > lowCostStart && i != 0 && i != tables-1 && (tables-i)&1 == 0 {
			actual -= e.frequencies[lowCostEnd]
			lowCostEnd--
		}

		lengths := e.codeLengths[i]
		for j := range lengths {
			if j < lowCostStart || j > lowCostEnd {
				lengths[j] = highSymbolCost
			} else {
				lengths[j] = 0
			}
		}

		remaining -= actual
	}
}

// optimiseSelectors assigns every group to its cheapest table, then regenerates each
// table's code lengths from the symbols of the groups assigned to it.
func (e *huffmanStageEncoder) optimiseSelectors(storeSelectors bool) {
	tables := len(e.codeLengths)
	frequencies := make([][]int, tables)
	for t := range frequencies {
		frequencies[t] = make([]int, e.alphabetSize)
	}

	for g, start := 0, 0; start < len(e.symbols); g, start = g+1, start+groupSize {
		group := e.symbols[start:min(start+groupSize, len(e.symbols))]

		var cost [maxTables]int
		for _, v := range group {
			for t := range tables {
				cost[t] += e.codeLengths[t][v]
			}
		}

		best := 0
		for t := 1; t < tables; t++ {
			if cost[t] < cost[best] {
				best = t
			}
		}

		for _, v := range group {
			frequencies[best][v]++
		}
		if storeSelectors {
			e.selectors[g] = byte(best)
		}
	}

	for t := range tables {
		generateCodeLengths(frequencies[t], e.codeLengths[t])
	}
}

// assignCanonicalCodes numbers the symbols of each table in (length, symbol) order.
func (e *huffmanStageEncoder) assignCanonicalCodes() {
	for t, lengths := range e.codeLengths {
		minLength, maxLength := maxEncodeCodeLength, 0
		for _, l := range lengths {
			minLength = min(minLength, l)
			maxLength = max(maxLength, l)
		}

		code := uint32(0)
		for l := minLength; l <= maxLength; l++ {
			for s, sl := range lengths {
				if sl == l {
					e.mergedCodes[t][s] = uint32(l)<<24 | code
					code++
				}
			}
			code <<= 1
		}
	}
}

func (e *huffmanStageEncoder) writeSelectorsAndTables() error {
	w := e.w
	if err := w.WriteBits(3, uint32(len(e.codeLengths))); err != nil {
		return err
	}
	if err := w.WriteBits(15, uint32(len(e.selectors))); err != nil {
		return err
	}

	list := mtf.New()
	for _, sel := range e.selectors {
		if err := w.WriteUnary(list.ValueToFront(sel)); err != nil {
			return err
		}
	}

	for _, lengths := range e.codeLengths {
		current := lengths[0]
		if err := w.WriteBits(5, uint32(current)); err != nil {
			return err
		}
		for _, l := range lengths {
			// 10 raises the running length by one, 11 lowers it
			for ; current < l; current++ {
				if err := w.WriteBits(2, 2); err != nil {
					return err
				}
			}
			for ; current > l; current-- {
				if err := w.WriteBits(2, 3); err != nil {
					return err
				}
			}
			if err := w.WriteBool(false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *huffmanStageEncoder) writeBlockData() error {
	for g, start := 0, 0; start < len(e.symbols); g, start = g+1, start+groupSize {
		codes := e.mergedCodes[e.selectors[g]]
		for _, v := range e.symbols[start:min(start+groupSize, len(e.symbols))] {
			m := codes[v]
			if err := e.w.WriteBits(uint(m>>24), m); err != nil {
				return err
			}
		}
	}
	return nil
}

// encode writes the Huffman stage of the block.
func (e *huffmanStageEncoder) encode() error {
	e.seedTables()
	for pass := optimisationPasses - 1; pass >= 0; pass-- {
		e.optimiseSelectors(pass == 0)
	}
	e.assignCanonicalCodes()

	if err := e.writeSelectorsAndTables(); err != nil {
		return err
	}
	return e.writeBlockData()
}
