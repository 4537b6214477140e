package bzip2

import (
	"io"

	"github.com/apex/log"
	"github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"
	"github.com/blacktop/go-bzip2/pkg/bzip2/crc"
)

// Reader decompresses a bzip2 stream.
//
// A failure is reported by exactly one Read call; every later call returns io.EOF.
type Reader struct {
	br   *bitstream.Reader
	conf readerConfig

	blockSize int
	block     *blockDecompressor
	buffers   blockBuffers
	streamCRC uint32
	stats     Stats

	started bool
	done    bool
}

// NewReader returns a Reader that decompresses from r. Nothing is read until the
// first call to Read.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	z := &Reader{br: bitstream.NewReader(r)}
	for _, opt := range opts {
		opt(&z.conf)
	}
	return z
}

// Read decompresses into p.
func (z *Reader) Read(p []byte) (int, error) {
	if z.done {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := z.read(p)
	if err != nil {
		z.done = true
		z.block = nil
	}
	return n, err
}

// ReadByte decompresses a single byte.
func (z *Reader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := z.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Stats returns the blocks and streams read so far.
func (z *Reader) Stats() Stats {
	s := z.stats
	s.Blocks = append([]BlockInfo(nil), z.stats.Blocks...)
	return s
}

func (z *Reader) read(p []byte) (int, error) {
	if !z.started {
		if err := z.readStreamHeader(!z.conf.headerless); err != nil {
			return 0, err
		}
		z.started = true
	}

	for {
		if z.block != nil {
			if n := z.block.read(p); n > 0 {
				return n, nil
			}
			if err := z.finishBlock(); err != nil {
				return 0, err
			}
		}
		if err := z.nextBlock(); err != nil {
			return 0, err
		}
	}
}

// readStreamHeader reads "BZ" (when withMagic is set), the 'h' version byte and the
// block size digit.
func (z *Reader) readStreamHeader(withMagic bool) error {
	if withMagic {
		magic, err := z.br.ReadBits(16)
		if err != nil {
			return err
		}
		if magic != streamMagic {
			return FormatError("bad magic value")
		}
	}

	version, err := z.br.ReadBits(8)
	if err != nil {
		return err
	}
	if version != streamVersion {
		return FormatError("unsupported version")
	}

	digit, err := z.br.ReadBits(8)
	if err != nil {
		return err
	}
	size := BlockSize(int(digit) - '0')
	if !size.Valid() {
		return FormatError("invalid block size digit")
	}

	z.blockSize = size.Bytes()
	z.streamCRC = 0
	z.stats.BlockSize = size
	z.stats.Streams++
	log.WithField("block_size", size.String()).Debug("bzip2: read stream header")
	return nil
}

// finishBlock verifies the exhausted block and folds its CRC into the stream CRC.
func (z *Reader) finishBlock() error {
	b := z.block
	z.block = nil

	blockCRC, err := b.checkCRC()
	if err != nil {
		return err
	}
	z.streamCRC = crc.Combine(z.streamCRC, blockCRC)

	info := &z.stats.Blocks[b.index]
	info.Size = b.outputSize
	log.WithFields(log.Fields{
		"block": b.index,
		"size":  info.Size,
		"crc":   blockCRC,
	}).Debug("bzip2: read block")
	return nil
}

// nextBlock starts the next block. It returns io.EOF once the last stream has ended.
func (z *Reader) nextBlock() error {
	for {
		offset := z.br.Offset()
		marker1, err := z.br.ReadBits(24)
		if err != nil {
			return err
		}
		marker2, err := z.br.ReadBits(24)
		if err != nil {
			return err
		}

		switch {
		case marker1 == blockMarker1 && marker2 == blockMarker2:
			index := len(z.stats.Blocks)
			z.stats.Blocks = append(z.stats.Blocks, BlockInfo{Index: index, Offset: offset})
			block, err := newBlockDecompressor(z.br, index, z.blockSize, &z.buffers)
			if err != nil {
				return err
			}
			z.stats.Blocks[index].CRC = block.blockCRC
			z.stats.Blocks[index].Randomised = block.randomised
			z.block = block
			return nil

		case marker1 == endOfStreamMarker1 && marker2 == endOfStreamMarker2:
			stored, err := z.br.ReadInteger()
			if err != nil {
				return err
			}
			if stored != z.streamCRC {
				return &IntegrityError{Block: -1, Expected: stored, Actual: z.streamCRC}
			}
			z.stats.StreamCRC = stored
			log.WithField("crc", stored).Debug("bzip2: read end of stream")

			if !z.conf.multiStream {
				return io.EOF
			}
			z.br.Align()
			eof, err := z.br.AtEOF()
			if err != nil {
				return err
			}
			if eof {
				return io.EOF
			}
			if err := z.readStreamHeader(true); err != nil {
				return err
			}

		default:
			return FormatError("bad block marker")
		}
	}
}
