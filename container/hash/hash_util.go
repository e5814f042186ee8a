package hash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// GenHashMurMur hashes an arbitrary byte slice with murmur3 and folds the
// 128-bit digest down to the 32-bit slot hash the index works with.
func GenHashMurMur(key []byte) uint32 {
	h := murmur3.New128()
	h.Write(key)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint32(sum)
}
