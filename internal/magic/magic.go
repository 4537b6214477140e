package magic

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

type Magic []byte

var (
	BZip2 Magic = []byte("BZh")
	XZ    Magic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Match reports whether header starts with m. For bzip2 the block size digit
// following "BZh" must also be valid.
func (m Magic) Match(header []byte) bool {
	if !bytes.HasPrefix(header, m) {
		return false
	}
	if bytes.Equal(m, BZip2) {
		return len(header) > len(m) && header[len(m)] >= '1' && header[len(m)] <= '9'
	}
	return true
}

func readHeader(filePath string, size int) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer f.Close()

	header := make([]byte, size)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	return header[:n], nil
}

func IsBZip2(filePath string) (bool, error) {
	header, err := readHeader(filePath, len(XZ))
	if err != nil {
		return false, err
	}
	if BZip2.Match(header) {
		return true, nil
	}
	if XZ.Match(header) {
		return false, fmt.Errorf("xz file detected (run `bzip2 convert`)")
	}
	return false, fmt.Errorf("not a bzip2 file")
}

func IsXZ(filePath string) (bool, error) {
	header, err := readHeader(filePath, len(XZ))
	if err != nil {
		return false, err
	}
	if XZ.Match(header) {
		return true, nil
	}
	return false, fmt.Errorf("not an xz file")
}
