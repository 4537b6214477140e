// Package crc implements the MSB-first CRC-32 used by bzip2 blocks and streams.
package crc

const polynomial = 0x04c11db7

var table = func() (t [256]uint32) {
	for i := range t {
		c := uint32(i) << 24
		for range 8 {
			if c&0x80000000 != 0 {
				c = c<<1 ^ polynomial
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}()

// CRC is a running block checksum.
type CRC struct {
	crc uint32
}

// New returns a CRC in its initial state.
func New() *CRC {
	return &CRC{crc: 0xffffffff}
}

// Update adds a single byte.
func (c *CRC) Update(b byte) {
	c.crc = c.crc<<8 ^ table[byte(c.crc>>24)^b]
}

// UpdateRun adds count repetitions of b.
func (c *CRC) UpdateRun(b byte, count int) {
	crc := c.crc
	for ; count > 0; count-- {
		crc = crc<<8 ^ table[byte(crc>>24)^b]
	}
	c.crc = crc
}

// Write adds p. It never fails.
func (c *CRC) Write(p []byte) (int, error) {
	for _, b := range p {
		c.Update(b)
	}
	return len(p), nil
}

// Sum32 returns the digest of the bytes added so far.
func (c *CRC) Sum32() uint32 {
	return ^c.crc
}

// Combine folds a block CRC into a stream CRC.
func Combine(stream, block uint32) uint32 {
	return (stream<<1 | stream>>31) ^ block
}
