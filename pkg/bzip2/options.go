package bzip2

type writerConfig struct {
	blockSize BlockSize
}

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

// WithBlockSize sets the block size multiplier (1..9). The default is 9.
func WithBlockSize(b BlockSize) WriterOption {
	return func(c *writerConfig) {
		c.blockSize = b
	}
}

type readerConfig struct {
	headerless  bool
	multiStream bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*readerConfig)

// Headerless makes the Reader expect a stream whose "BZ" signature has already been consumed.
func Headerless() ReaderOption {
	return func(c *readerConfig) {
		c.headerless = true
	}
}

// MultiStream makes the Reader continue with the next stream when one ends, as
// produced by concatenating .bz2 files.
func MultiStream() ReaderOption {
	return func(c *readerConfig) {
		c.multiStream = true
	}
}
