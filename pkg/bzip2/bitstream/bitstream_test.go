package bitstream

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterBitOrder(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer) error
		want  []byte
	}{
		{
			name: "single_bits",
			write: func(w *Writer) error {
				for _, b := range []bool{true, false, true, true, false, false, false, true} {
					if err := w.WriteBool(b); err != nil {
						return err
					}
				}
				return nil
			},
			want: []byte{0xb1},
		},
		{
			name:  "stream_magic",
			write: func(w *Writer) error { return w.WriteBits(24, 0x425a68) },
			want:  []byte{'B', 'Z', 'h'},
		},
		{
			name:  "unary_padded",
			write: func(w *Writer) error { return w.WriteUnary(3) },
			want:  []byte{0xe0},
		},
		{
			name:  "integer",
			write: func(w *Writer) error { return w.WriteInteger(0xdeadbeef) },
			want:  []byte{0xde, 0xad, 0xbe, 0xef},
		},
		{
			name: "masks_high_bits",
			write: func(w *Writer) error {
				if err := w.WriteBits(4, 0xff3); err != nil {
					return err
				}
				return w.WriteBits(4, 0xc)
			},
			want: []byte{0x3c},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			if err := tt.write(w); err != nil {
				t.Fatalf("write error = %v", err)
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("got %x, want %x", buf.Bytes(), tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	w := NewWriter(bw)

	require.NoError(t, w.WriteBits(24, 0x314159))
	require.NoError(t, w.WriteBits(24, 0x265359))
	require.NoError(t, w.WriteInteger(0x12345678))
	require.NoError(t, w.WriteBool(false))
	require.NoError(t, w.WriteUnary(5))
	require.NoError(t, w.WriteBits(5, 17))
	require.NoError(t, w.WriteBits(0, 0))
	assert.Equal(t, int64(24+24+32+1+6+5), w.Offset())
	require.NoError(t, w.Flush())
	require.NoError(t, bw.Flush())

	r := NewReader(bytes.NewReader(buf.Bytes()))
	v, err := r.ReadBits(24)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x314159), v)
	v, err = r.ReadBits(24)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x265359), v)
	v, err = r.ReadInteger()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)
	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)
	n, err := r.ReadUnary()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	v, err = r.ReadBits(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(17), v)
	assert.Equal(t, int64(24+24+32+1+6+5), r.Offset())

	r.Align()
	eof, err := r.AtEOF()
	require.NoError(t, err)
	assert.True(t, eof)
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xff}))
	if _, err := r.ReadBits(4); err != nil {
		t.Fatalf("ReadBits(4) error = %v", err)
	}
	_, err := r.ReadBits(8)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadBits(8) error = %v, want %v", err, ErrTruncated)
	}
	_, err = r.ReadUnary()
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadUnary() error = %v, want %v", err, ErrTruncated)
	}
}

func TestReaderAtEOFKeepsByte(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0xa5}))
	eof, err := r.AtEOF()
	require.NoError(t, err)
	assert.False(t, eof)
	v, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xa5), v)
}
