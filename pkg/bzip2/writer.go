package bzip2

import (
	"bufio"
	"io"

	"github.com/apex/log"
	"github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"
	"github.com/blacktop/go-bzip2/pkg/bzip2/crc"
	"github.com/pkg/errors"
)

// Writer compresses everything written to it into a single bzip2 stream.
// Close must be called to write the end of stream marker.
type Writer struct {
	out       *bufio.Writer
	bw        *bitstream.Writer
	blockSize BlockSize
	block     *blockCompressor
	streamCRC uint32
	stats     Stats
	err       error
	closed    bool
}

// NewWriter returns a Writer that compresses to w. The stream header is written
// immediately.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	conf := writerConfig{blockSize: Default}
	for _, opt := range opts {
		opt(&conf)
	}
	if !conf.blockSize.Valid() {
		return nil, &InvalidConfigurationError{BlockSize: int(conf.blockSize)}
	}

	out := bufio.NewWriter(w)
	z := &Writer{
		out:       out,
		bw:        bitstream.NewWriter(out),
		blockSize: conf.blockSize,
		block:     newBlockCompressor(conf.blockSize.Bytes()),
		stats:     Stats{Streams: 1, BlockSize: conf.blockSize},
	}

	if err := z.bw.WriteBits(16, streamMagic); err != nil {
		return nil, errors.Wrap(err, "failed to write stream header")
	}
	if err := z.bw.WriteBits(8, streamVersion); err != nil {
		return nil, errors.Wrap(err, "failed to write stream header")
	}
	if err := z.bw.WriteBits(8, '0'+uint32(conf.blockSize)); err != nil {
		return nil, errors.Wrap(err, "failed to write stream header")
	}
	return z, nil
}

// Write compresses p. Blocks are emitted as they fill up.
func (z *Writer) Write(p []byte) (int, error) {
	if z.closed {
		return 0, ErrWriteAfterClose
	}
	if z.err != nil {
		return 0, z.err
	}

	n := 0
	for {
		written := z.block.write(p)
		n += written
		p = p[written:]
		if len(p) == 0 {
			return n, nil
		}
		if err := z.closeBlock(); err != nil {
			z.err = err
			return n, err
		}
	}
}

// WriteByte compresses a single byte.
func (z *Writer) WriteByte(c byte) error {
	_, err := z.Write([]byte{c})
	return err
}

func (z *Writer) closeBlock() error {
	if z.block.empty() {
		return nil
	}

	offset := z.bw.Offset()
	size := z.block.rawLength
	blockCRC, err := z.block.close(z.bw)
	if err != nil {
		return errors.Wrapf(err, "failed to write block %d", len(z.stats.Blocks))
	}
	z.streamCRC = crc.Combine(z.streamCRC, blockCRC)

	info := BlockInfo{
		Index:      len(z.stats.Blocks),
		Offset:     offset,
		CRC:        blockCRC,
		Randomised: z.block.randomise,
		Size:       size,
	}
	z.stats.Blocks = append(z.stats.Blocks, info)
	log.WithFields(log.Fields{
		"block": info.Index,
		"size":  info.Size,
		"crc":   info.CRC,
		"bits":  z.bw.Offset() - offset,
	}).Debug("bzip2: wrote block")

	z.block.reset()
	return nil
}

// Close writes the final block and the end of stream marker and flushes the
// underlying writer. It does not close the underlying writer. Closing twice is a no-op.
func (z *Writer) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	if z.err != nil {
		return z.err
	}

	if err := z.closeBlock(); err != nil {
		z.err = err
		return err
	}
	if err := z.bw.WriteBits(24, endOfStreamMarker1); err != nil {
		return errors.Wrap(err, "failed to write end of stream marker")
	}
	if err := z.bw.WriteBits(24, endOfStreamMarker2); err != nil {
		return errors.Wrap(err, "failed to write end of stream marker")
	}
	if err := z.bw.WriteInteger(z.streamCRC); err != nil {
		return errors.Wrap(err, "failed to write stream CRC")
	}
	if err := z.bw.Flush(); err != nil {
		return err
	}
	z.stats.StreamCRC = z.streamCRC
	log.WithField("crc", z.streamCRC).Debug("bzip2: wrote end of stream")

	return errors.Wrap(z.out.Flush(), "failed to flush output")
}

// Stats returns the blocks written so far.
func (z *Writer) Stats() Stats {
	s := z.stats
	s.Blocks = append([]BlockInfo(nil), z.stats.Blocks...)
	return s
}
