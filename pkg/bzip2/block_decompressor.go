package bzip2

import (
	"github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"
	"github.com/blacktop/go-bzip2/pkg/bzip2/crc"
	"github.com/blacktop/go-bzip2/pkg/bzip2/mtf"
)

// blockBuffers holds the per block decoding arrays so a Reader can reuse them.
type blockBuffers struct {
	bwt    []byte
	merged []uint32
}

func (b *blockBuffers) grow(size int) {
	if cap(b.bwt) < size {
		b.bwt = make([]byte, size)
		b.merged = make([]uint32, size)
	}
	b.bwt = b.bwt[:size]
	b.merged = b.merged[:size]
}

// blockDecompressor decodes one block. The whole block is Huffman decoded and its
// transform inverted up front; read then streams the RLE1 decoded bytes out.
type blockDecompressor struct {
	r          *bitstream.Reader
	index      int
	blockSize  int
	blockCRC   uint32
	randomised bool
	crc        *crc.CRC

	symbolMap  [256]byte
	symbols    int
	byteCounts [256]int
	buf        *blockBuffers
	length     int
	pointer    int

	current    uint32
	decoded    int
	lastByte   int
	acc        int
	repeat     int
	randIndex  int
	randCount  int
	outputSize int
}

// newBlockDecompressor reads a block whose marker has already been consumed.
func newBlockDecompressor(r *bitstream.Reader, index, blockSize int, buf *blockBuffers) (*blockDecompressor, error) {
	d := &blockDecompressor{
		r:         r,
		index:     index,
		blockSize: blockSize,
		crc:       crc.New(),
		buf:       buf,
		lastByte:  -1,
		randCount: int(rNums[0]) - 1,
	}

	var err error
	if d.blockCRC, err = r.ReadInteger(); err != nil {
		return nil, err
	}
	if d.randomised, err = r.ReadBool(); err != nil {
		return nil, err
	}
	pointer, err := r.ReadBits(24)
	if err != nil {
		return nil, err
	}
	d.pointer = int(pointer)

	decoder, err := d.readHuffmanTables()
	if err != nil {
		return nil, err
	}
	if err := d.decodeHuffmanData(decoder); err != nil {
		return nil, err
	}
	if err := d.initialiseInverseBWT(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *blockDecompressor) readHuffmanTables() (*huffmanStageDecoder, error) {
	r := d.r

	ranges, err := r.ReadBits(16)
	if err != nil {
		return nil, err
	}
	for i := range 16 {
		if ranges&(1<<15>>i) == 0 {
			continue
		}
		for j, k := 0, i<<4; j < 16; j, k = j+1, k+1 {
			used, err := r.ReadBool()
			if err != nil {
				return nil, err
			}
			if used {
				d.symbolMap[d.symbols] = byte(k)
				d.symbols++
			}
		}
	}
	if d.symbols == 0 {
		return nil, FormatError("empty symbol map")
	}
	endOfBlock := d.symbols + 1
	alphabetSize := endOfBlock + 1

	tables, err := r.ReadBits(3)
	if err != nil {
		return nil, err
	}
	count, err := r.ReadBits(15)
	if err != nil {
		return nil, err
	}
	if tables < minTables || tables > maxTables {
		return nil, FormatError("invalid Huffman table count")
	}
	if count < 1 || count > maxSelectors {
		return nil, FormatError("invalid selector count")
	}

	list := mtf.New()
	selectors := make([]byte, count)
	for i := range selectors {
		index, err := r.ReadUnary()
		if err != nil {
			return nil, err
		}
		if index >= int(tables) {
			return nil, FormatError("selector out of range")
		}
		selectors[i] = list.IndexToFront(index)
	}

	tableCodeLengths := make([][]byte, tables)
	for t := range tableCodeLengths {
		lengths := make([]byte, alphabetSize)
		current, err := r.ReadBits(5)
		if err != nil {
			return nil, err
		}
		length := int(current)
		for i := range lengths {
			for {
				more, err := r.ReadBool()
				if err != nil {
					return nil, err
				}
				if !more {
					break
				}
				down, err := r.ReadBool()
				if err != nil {
					return nil, err
				}
				if down {
					length--
				} else {
					length++
				}
				if length < 1 || length > maxEncodeCodeLength {
					return nil, FormatError("invalid Huffman code length")
				}
			}
			if length < 1 || length > maxEncodeCodeLength {
				return nil, FormatError("invalid Huffman code length")
			}
			lengths[i] = byte(length)
		}
		tableCodeLengths[t] = lengths
	}

	return newHuffmanStageDecoder(r, alphabetSize, tableCodeLengths, selectors), nil
}

// decodeHuffmanData undoes the Huffman, RUNA/RUNB and move-to-front stages into
// the transformed block.
func (d *blockDecompressor) decodeHuffmanData(decoder *huffmanStageDecoder) error {
	d.buf.grow(d.blockSize)
	bwt := d.buf.bwt
	endOfBlock := d.symbols + 1
	list := mtf.New()

	length := 0
	repeat, increment := 0, 1
	var mtfValue byte

	for {
		sym, err := decoder.nextSymbol()
		if err != nil {
			return err
		}

		switch sym {
		case runA:
			repeat += increment
			increment <<= 1
			if repeat > d.blockSize {
				return &DecodeOverflowError{Limit: d.blockSize}
			}
			continue
		case runB:
			repeat += increment << 1
			increment <<= 1
			if repeat > d.blockSize {
				return &DecodeOverflowError{Limit: d.blockSize}
			}
			continue
		}

		if repeat > 0 {
			if length+repeat > d.blockSize {
				return &DecodeOverflowError{Limit: d.blockSize}
			}
			b := d.symbolMap[mtfValue]
			d.byteCounts[b] += repeat
			for ; repeat > 0; repeat-- {
				bwt[length] = b
				length++
			}
			increment = 1
		}

		if sym == endOfBlock {
			break
		}
		if length >= d.blockSize {
			return &DecodeOverflowError{Limit: d.blockSize}
		}

		mtfValue = list.IndexToFront(sym - 1)
		b := d.symbolMap[mtfValue]
		d.byteCounts[b]++
		bwt[length] = b
		length++
	}

	d.length = length
	return nil
}

// initialiseInverseBWT builds the merged successor table: each entry holds the index
// of the next entry shifted left by eight over the byte it decodes to.
func (d *blockDecompressor) initialiseInverseBWT() error {
	if d.pointer < 0 || d.pointer >= d.length {
		return FormatError("start pointer outside the block")
	}

	var base [256]int
	for i := 1; i < 256; i++ {
		base[i] = base[i-1] + d.byteCounts[i-1]
	}

	merged := d.buf.merged
	for i, v := range d.buf.bwt[:d.length] {
		merged[base[v]] = uint32(i)<<8 | uint32(v)
		base[v]++
	}
	d.current = merged[d.pointer]
	return nil
}

func (d *blockDecompressor) nextByte() int {
	m := d.current
	b := int(m & 0xff)
	d.current = d.buf.merged[m>>8]
	d.decoded++

	if d.randomised {
		if d.randCount--; d.randCount == 0 {
			b ^= 1
			d.randIndex = (d.randIndex + 1) % len(rNums)
			d.randCount = int(rNums[d.randIndex])
		}
	}
	return b
}

// read fills p with decoded bytes and returns how many it wrote; zero means the block
// is exhausted.
func (d *blockDecompressor) read(p []byte) int {
	n := 0
	for n < len(p) {
		for d.repeat == 0 {
			if d.decoded == d.length {
				d.outputSize += n
				return n
			}
			d.nextRun()
		}
		k := min(d.repeat, len(p)-n)
		b := byte(d.lastByte)
		for i := range k {
			p[n+i] = b
		}
		n += k
		d.repeat -= k
	}
	d.outputSize += n
	return n
}

// nextRun decodes the next RLE1 step: a single byte, or the fourth byte of a run
// together with its repeat count.
func (d *blockDecompressor) nextRun() {
	next := d.nextByte()
	if next != d.lastByte {
		d.lastByte = next
		d.repeat = 1
		d.acc = 1
		d.crc.Update(byte(next))
		return
	}

	if d.acc++; d.acc < 4 {
		d.repeat = 1
		d.crc.Update(byte(next))
		return
	}

	d.acc = 0
	d.repeat = 1
	if d.decoded < d.length {
		d.repeat += d.nextByte()
	}
	d.crc.UpdateRun(byte(next), d.repeat)
}

// checkCRC verifies the block once it has been read in full and returns its CRC.
func (d *blockDecompressor) checkCRC() (uint32, error) {
	if actual := d.crc.Sum32(); actual != d.blockCRC {
		return d.blockCRC, &IntegrityError{Block: d.index, Expected: d.blockCRC, Actual: actual}
	}
	return d.blockCRC, nil
}
