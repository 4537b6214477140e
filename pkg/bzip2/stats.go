package bzip2

// BlockInfo describes one block of a stream.
type BlockInfo struct {
	Index int
	// Offset is the bit offset of the block marker from the start of the input
	Offset     int64
	CRC        uint32
	Randomised bool
	// Size is the number of uncompressed bytes the block holds
	Size int
}

// Stats records what a Reader or Writer has seen so far.
type Stats struct {
	Blocks []BlockInfo
	// StreamCRC is the combined CRC of the most recently completed stream
	StreamCRC uint32
	Streams   int
	BlockSize BlockSize
}

// UncompressedSize returns the total uncompressed size of the blocks seen so far.
func (s Stats) UncompressedSize() int64 {
	var n int64
	for _, b := range s.Blocks {
		n += int64(b.Size)
	}
	return n
}
