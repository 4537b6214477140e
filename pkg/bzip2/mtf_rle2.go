package bzip2

import "github.com/blacktop/go-bzip2/pkg/bzip2/mtf"

// mtfBlock is a block after the move-to-front and zero run-length stage.
type mtfBlock struct {
	symbols      []uint16
	alphabetSize int
	frequencies  [maxAlphabetSize]int
}

// encodeMTFAndRLE2 maps the transformed block onto the dense alphabet of used byte
// values, move-to-front encodes it and writes runs of zero indices as bijective base-2
// RUNA/RUNB digits. Symbols are written to out, which must hold len(bwt)+1 entries.
func encodeMTFAndRLE2(bwt []int32, inUse *[256]bool, out []uint16) *mtfBlock {
	var symbolMap [256]byte
	unique := 0
	for v, used := range inUse {
		if used {
			symbolMap[v] = byte(unique)
			unique++
		}
	}
	endOfBlock := unique + 1

	blk := &mtfBlock{alphabetSize: endOfBlock + 1}
	list := mtf.New()
	n := 0
	repeat := 0

	emit := func(sym int) {
		out[n] = uint16(sym)
		n++
		blk.frequencies[sym]++
	}
	flushRun := func() {
		if repeat == 0 {
			return
		}
		for repeat--; ; repeat = (repeat - 2) >> 1 {
			if repeat&1 == 0 {
				emit(runA)
			} else {
				emit(runB)
			}
			if repeat <= 1 {
				break
			}
		}
		repeat = 0
	}

	for _, v := range bwt {
		pos := list.ValueToFront(symbolMap[byte(v)])
		if pos == 0 {
			repeat++
			continue
		}
		flushRun()
		emit(pos + 1)
	}
	flushRun()
	emit(endOfBlock)

	blk.symbols = out[:n]
	return blk
}
