package bzip2

import "github.com/blacktop/go-bzip2/pkg/bzip2/bitstream"

// huffmanStageDecoder decodes the symbols of a block using canonical code tables
// rebuilt from their code lengths, switching table every 50 symbols as the
// selectors dictate.
type huffmanStageDecoder struct {
	r            *bitstream.Reader
	alphabetSize int
	selectors    []byte

	minimumLengths [maxTables]int
	// offset from a code to its index in codeSymbols, per table and code length
	codeBases [maxTables][maxDecodeCodeLength + 2]int32
	// largest code of each length, or -1 when no code has that length
	codeLimits  [maxTables][maxDecodeCodeLength + 1]int32
	codeSymbols [maxTables][maxAlphabetSize]uint16

	currentTable  int
	groupIndex    int
	groupPosition int
}

func newHuffmanStageDecoder(r *bitstream.Reader, alphabetSize int, tableCodeLengths [][]byte, selectors []byte) *huffmanStageDecoder {
	d := &huffmanStageDecoder{
		r:             r,
		alphabetSize:  alphabetSize,
		selectors:     selectors,
		groupIndex:    -1,
		groupPosition: -1,
	}
	for t, lengths := range tableCodeLengths {
		d.createTable(t, lengths[:alphabetSize])
	}
	return d
}

func (d *huffmanStageDecoder) createTable(t int, lengths []byte) {
	bases := &d.codeBases[t]
	limits := &d.codeLimits[t]
	symbols := &d.codeSymbols[t]

	minLength, maxLength := maxDecodeCodeLength, 0
	for _, l := range lengths {
		minLength = min(minLength, int(l))
		maxLength = max(maxLength, int(l))
	}
	d.minimumLengths[t] = minLength

	for _, l := range lengths {
		bases[l+1]++
	}
	for i := 1; i < len(bases); i++ {
		bases[i] += bases[i-1]
	}

	code := int32(0)
	for i := range limits {
		limits[i] = -1
	}
	for i := minLength; i <= maxLength; i++ {
		base := code
		code += bases[i+1] - bases[i]
		bases[i] = base - bases[i]
		limits[i] = code - 1
		code <<= 1
	}

	n := 0
	for l := minLength; l <= maxLength; l++ {
		for s, sl := range lengths {
			if int(sl) == l {
				symbols[n] = uint16(s)
				n++
			}
		}
	}
}

// nextSymbol decodes one symbol.
func (d *huffmanStageDecoder) nextSymbol() (int, error) {
	d.groupPosition++
	if d.groupPosition%groupSize == 0 {
		d.groupIndex++
		if d.groupIndex == len(d.selectors) {
			return 0, FormatError("selectors exhausted before end of block")
		}
		d.currentTable = int(d.selectors[d.groupIndex])
	}

	t := d.currentTable
	length := d.minimumLengths[t]
	bits, err := d.r.ReadBits(uint(length))
	if err != nil {
		return 0, err
	}
	for ; length <= maxDecodeCodeLength; length++ {
		if code := int32(bits); code <= d.codeLimits[t][length] {
			index := code - d.codeBases[t][length]
			if index < 0 || int(index) >= d.alphabetSize {
				return 0, FormatError("invalid Huffman code")
			}
			return int(d.codeSymbols[t][index]), nil
		}
		bit, err := d.r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		bits = bits<<1 | bit
	}
	return 0, FormatError("Huffman code longer than 23 bits")
}
