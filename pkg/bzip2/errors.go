package bzip2

import (
	"fmt"

	"github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"
	"github.com/pkg/errors"
)

// ErrTruncated is returned when the input ends before a complete stream was read.
var ErrTruncated = bitstream.ErrTruncated

// ErrWriteAfterClose is returned by Writer methods called after Close.
var ErrWriteAfterClose = errors.New("bzip2: write after close")

// FormatError reports compressed data that violates the bzip2 format.
type FormatError string

func (e FormatError) Error() string {
	return "bzip2: invalid format: " + string(e)
}

// DecodeOverflowError reports a block that decodes to more bytes than its stream header allows.
type DecodeOverflowError struct {
	Limit int
}

func (e *DecodeOverflowError) Error() string {
	return fmt.Sprintf("bzip2: block exceeds the declared size of %d bytes", e.Limit)
}

// IntegrityError reports a CRC mismatch. Block is the zero based block index, or -1
// when the combined stream CRC did not match.
type IntegrityError struct {
	Block    int
	Expected uint32
	Actual   uint32
}

func (e *IntegrityError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("bzip2: stream CRC mismatch: expected %#08x, computed %#08x", e.Expected, e.Actual)
	}
	return fmt.Sprintf("bzip2: block %d CRC mismatch: expected %#08x, computed %#08x", e.Block, e.Expected, e.Actual)
}

// InvalidConfigurationError reports a block size multiplier outside 1..9.
type InvalidConfigurationError struct {
	BlockSize int
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("bzip2: invalid block size %d (must be between %d and %d)", e.BlockSize, minBlockSize, maxBlockSize)
}
