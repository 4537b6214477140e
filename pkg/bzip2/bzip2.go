// Package bzip2 implements reading and writing of bzip2 compressed streams.
//
// A stream is a "BZh" header naming the block size, a sequence of independently
// coded blocks and an end of stream marker carrying the combined CRC of all blocks.
// Each block is run-length encoded, Burrows-Wheeler transformed, move-to-front and
// zero run encoded, and finally coded with up to six Huffman tables.
package bzip2

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Compress compresses data into a single stream using block size b.
func Compress(data []byte, b BlockSize) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, WithBlockSize(b))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "failed to compress data")
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress decompresses every stream in data.
func Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(NewReader(bytes.NewReader(data), MultiStream()))
	if err != nil {
		return nil, err
	}
	return out, nil
}
