package bzip2

import "fmt"

// BlockSize is the block size multiplier written into the stream header; a block
// holds BlockSize*100000 bytes of run-length encoded input.
type BlockSize int

const (
	Fastest BlockSize = 1
	Best    BlockSize = 9
	Default           = Best
)

func (b BlockSize) String() string {
	switch b {
	case Fastest:
		return "fast"
	case Best:
		return "best"
	default:
		if b.Valid() {
			return fmt.Sprintf("%d", int(b))
		}
		return fmt.Sprintf("unknown(%d)", int(b))
	}
}

// Valid reports whether b is a multiplier a stream header can carry.
func (b BlockSize) Valid() bool {
	return b >= minBlockSize && b <= maxBlockSize
}

// Bytes returns the block size in bytes.
func (b BlockSize) Bytes() int {
	return int(b) * blockSizeUnit
}

// LookupBlockSize resolves a block size from its name ("fast", "best") or its digit.
func LookupBlockSize(name string) (BlockSize, error) {
	switch name {
	case "fast":
		return Fastest, nil
	case "best":
		return Best, nil
	}
	if len(name) == 1 && name[0] >= '1' && name[0] <= '9' {
		return BlockSize(name[0] - '0'), nil
	}
	return 0, fmt.Errorf("unknown block size: %s", name)
}

// BlockSizes lists every accepted block size name.
func BlockSizes() []string {
	sizes := []string{Fastest.String(), Best.String()}
	for b := minBlockSize; b <= maxBlockSize; b++ {
		sizes = append(sizes, fmt.Sprintf("%d", b))
	}
	return sizes
}
