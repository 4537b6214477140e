// Package bitstream packs and unpacks the MSB-first bit groups of the bzip2 wire format.
package bitstream

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when the byte source ends while bits are still required.
var ErrTruncated = errors.New("bzip2: truncated input")

// Reader reads bits from an underlying byte source, one byte at a time and only on demand.
type Reader struct {
	r     io.ByteReader
	buf   uint64
	count uint  // number of unread bits held in buf
	bytes int64 // number of bytes pulled from r
}

// NewReader returns a Reader over r. A bufio.Reader is inserted when r is not an io.ByteReader.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

func (r *Reader) fill() error {
	b, err := r.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return ErrTruncated
		}
		return errors.Wrap(err, "failed to read byte")
	}
	r.buf = r.buf<<8 | uint64(b)
	r.count += 8
	r.bytes++
	return nil
}

// ReadBool reads a single bit.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadBits(1)
	return v != 0, err
}

// ReadUnary reads the number of 1 bits preceding the next 0 bit.
func (r *Reader) ReadUnary() (int, error) {
	var n int
	for {
		bit, err := r.ReadBool()
		if err != nil {
			return 0, err
		}
		if !bit {
			return n, nil
		}
		n++
	}
}

// ReadBits reads count bits (at most 24) and returns them as an unsigned integer.
func (r *Reader) ReadBits(count uint) (uint32, error) {
	for r.count < count {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	r.count -= count
	return uint32(r.buf>>r.count) & (1<<count - 1), nil
}

// ReadInteger reads 32 bits as two 16 bit halves, high half first.
func (r *Reader) ReadInteger() (uint32, error) {
	hi, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	lo, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	return hi<<16 | lo, nil
}

// Align discards the buffered bits that remain in the current byte.
func (r *Reader) Align() {
	r.count -= r.count % 8
}

// AtEOF reports whether the byte source is exhausted at a byte boundary.
// A byte that is pulled to answer the question stays buffered for the next read.
func (r *Reader) AtEOF() (bool, error) {
	if r.count > 0 {
		return false, nil
	}
	if err := r.fill(); err != nil {
		if err == ErrTruncated {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// Offset returns the number of bits consumed so far.
func (r *Reader) Offset() int64 {
	return r.bytes*8 - int64(r.count)
}
