package bitstream

import (
	"io"

	"github.com/pkg/errors"
)

// Writer writes MSB-first bit groups to an underlying byte sink.
type Writer struct {
	w     io.ByteWriter
	buf   uint32
	count uint
	bits  int64
}

// NewWriter returns a Writer that emits completed bytes to w.
func NewWriter(w io.ByteWriter) *Writer {
	return &Writer{w: w}
}

// WriteBool writes a single bit.
func (w *Writer) WriteBool(bit bool) error {
	if bit {
		return w.WriteBits(1, 1)
	}
	return w.WriteBits(1, 0)
}

// WriteUnary writes n 1 bits followed by a 0 bit.
func (w *Writer) WriteUnary(n int) error {
	for ; n > 0; n-- {
		if err := w.WriteBits(1, 1); err != nil {
			return err
		}
	}
	return w.WriteBits(1, 0)
}

// WriteBits writes the low count bits (at most 24) of value.
func (w *Writer) WriteBits(count uint, value uint32) error {
	w.buf |= (value & (1<<count - 1)) << (32 - count) >> w.count
	w.count += count
	w.bits += int64(count)
	for w.count >= 8 {
		if err := w.w.WriteByte(byte(w.buf >> 24)); err != nil {
			return errors.Wrap(err, "failed to write byte")
		}
		w.buf <<= 8
		w.count -= 8
	}
	return nil
}

// WriteInteger writes 32 bits as two 16 bit halves, high half first.
func (w *Writer) WriteInteger(value uint32) error {
	if err := w.WriteBits(16, value>>16); err != nil {
		return err
	}
	return w.WriteBits(16, value&0xffff)
}

// Flush writes any partial byte, padded with zero bits.
func (w *Writer) Flush() error {
	if w.count > 0 {
		if err := w.w.WriteByte(byte(w.buf >> 24)); err != nil {
			return errors.Wrap(err, "failed to write byte")
		}
		w.bits += int64(8 - w.count)
		w.buf = 0
		w.count = 0
	}
	return nil
}

// Offset returns the number of bits written so far, including flush padding.
func (w *Writer) Offset() int64 {
	return w.bits
}
