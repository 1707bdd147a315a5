package buffer

import "bytes"

// IsRepeated reports whether the first count sectors of block are all
// identical to the first one.
func IsRepeated(block []byte, sectorSize, count int) bool {
	if sectorSize <= 0 || len(block) < sectorSize*count {
		return false
	}
	first := block[:sectorSize]
	for i := 1; i < count; i++ {
		if !bytes.Equal(first, block[i*sectorSize:(i+1)*sectorSize]) {
			return false
		}
	}
	return true
}

// Repeat builds a blockSize buffer holding count copies of sector, each
// sectorSize bytes long. Short sectors are zero padded; the tail past
// count*sectorSize stays zero.
func Repeat(sector []byte, sectorSize, count, blockSize int) []byte {
	block := make([]byte, blockSize)
	for i := 0; i < count; i++ {
		start := i * sectorSize
		if start >= blockSize {
			break
		}
		end := min(start+sectorSize, blockSize)
		copy(block[start:end], sector)
	}
	return block
}
