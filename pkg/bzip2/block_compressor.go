package bzip2

import (
	"github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"
	"github.com/blacktop/go-bzip2/pkg/bzip2/crc"
	"github.com/blacktop/go-bzip2/pkg/divsufsort"
)

// blockCompressor collects RLE1 encoded input for one block and writes it as a
// compressed block. A Writer reuses one blockCompressor through reset.
type blockCompressor struct {
	crc *crc.CRC

	// RLE1 encoded block, with one spare byte for the wrap around copy of block[0]
	block  []byte
	sa     []int32
	mtf    []uint16
	length int
	limit  int

	inUse     [256]bool
	rleValue  byte
	rleLength int

	// rawLength counts the input bytes accepted into the block
	rawLength int
	// randomise makes close scramble the block the way bzip2 0.9.0 did
	randomise bool
}

func newBlockCompressor(blockSize int) *blockCompressor {
	c := &blockCompressor{
		block: make([]byte, blockSize+1),
		sa:    make([]int32, blockSize),
		mtf:   make([]uint16, blockSize+1),
		// a run of up to 255 may still spill 5 bytes into the block when it is flushed
		limit: blockSize - 6,
	}
	c.reset()
	return c
}

func (c *blockCompressor) reset() {
	c.crc = crc.New()
	c.length = 0
	c.inUse = [256]bool{}
	c.rleLength = 0
	c.rawLength = 0
}

// empty reports whether no input has been written to the block.
func (c *blockCompressor) empty() bool {
	return c.length == 0 && c.rleLength == 0
}

func (c *blockCompressor) writeRun(value byte, runLength int) {
	c.inUse[value] = true
	c.crc.UpdateRun(value, runLength)

	switch runLength {
	case 1:
		c.block[c.length] = value
		c.length++
	case 2:
		c.block[c.length] = value
		c.block[c.length+1] = value
		c.length += 2
	case 3:
		c.block[c.length] = value
		c.block[c.length+1] = value
		c.block[c.length+2] = value
		c.length += 3
	default:
		extra := byte(runLength - 4)
		c.inUse[extra] = true
		c.block[c.length] = value
		c.block[c.length+1] = value
		c.block[c.length+2] = value
		c.block[c.length+3] = value
		c.block[c.length+4] = extra
		c.length += 5
	}
}

// writeByte adds one input byte, returning false when the block is full.
func (c *blockCompressor) writeByte(value byte) bool {
	if c.length > c.limit {
		return false
	}

	switch {
	case c.rleLength == 0:
		c.rleValue = value
		c.rleLength = 1
	case c.rleValue != value:
		c.writeRun(c.rleValue, c.rleLength)
		c.rleValue = value
		c.rleLength = 1
	case c.rleLength == 254:
		c.writeRun(value, 255)
		c.rleLength = 0
	default:
		c.rleLength++
	}
	c.rawLength++
	return true
}

// write adds as much of p as fits and returns the number of bytes accepted.
func (c *blockCompressor) write(p []byte) int {
	for i, b := range p {
		if !c.writeByte(b) {
			return i
		}
	}
	return len(p)
}

// close flushes the pending run, transforms the block and writes it to w. It
// returns the block CRC.
func (c *blockCompressor) close(w *bitstream.Writer) (uint32, error) {
	if c.rleLength > 0 {
		c.writeRun(c.rleValue, c.rleLength)
		c.rleLength = 0
	}
	if c.randomise {
		c.scramble()
	}

	c.block[c.length] = c.block[0]
	pointer := divsufsort.BWT(c.block[:c.length+1], c.sa, c.length)
	blockCRC := c.crc.Sum32()

	if err := w.WriteBits(24, blockMarker1); err != nil {
		return 0, err
	}
	if err := w.WriteBits(24, blockMarker2); err != nil {
		return 0, err
	}
	if err := w.WriteInteger(blockCRC); err != nil {
		return 0, err
	}
	if err := w.WriteBool(c.randomise); err != nil {
		return 0, err
	}
	if err := w.WriteBits(24, uint32(pointer)); err != nil {
		return 0, err
	}
	if err := c.writeSymbolMap(w); err != nil {
		return 0, err
	}

	blk := encodeMTFAndRLE2(c.sa[:c.length], &c.inUse, c.mtf)
	if err := newHuffmanStageEncoder(w, blk).encode(); err != nil {
		return 0, err
	}
	return blockCRC, nil
}

// writeSymbolMap writes which of the 16 ranges of 16 byte values are used, then a
// presence bit for each value of every used range.
func (c *blockCompressor) writeSymbolMap(w *bitstream.Writer) error {
	var condensed uint32
	for i := range 16 {
		for j := i << 4; j < i<<4+16; j++ {
			if c.inUse[j] {
				condensed |= 1 << (15 - i)
				break
			}
		}
	}
	if err := w.WriteBits(16, condensed); err != nil {
		return err
	}

	for i := range 16 {
		if condensed&(1<<(15-i)) == 0 {
			continue
		}
		for j := i << 4; j < i<<4+16; j++ {
			if err := w.WriteBool(c.inUse[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// scramble flips the bytes the decoder's derandomiser will flip back and rebuilds
// the presence map to match.
func (c *blockCompressor) scramble() {
	c.inUse = [256]bool{}
	index, count := 0, int(rNums[0])-1
	for i := range c.block[:c.length] {
		if count--; count == 0 {
			c.block[i] ^= 1
			index = (index + 1) % len(rNums)
			count = int(rNums[index])
		}
		c.inUse[c.block[i]] = true
	}
}
