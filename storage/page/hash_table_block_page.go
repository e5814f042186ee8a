// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"github.com/rhesio/pagestore/common"
)

// Block page format (keys are stored in order):
// ----------------------------------------------------------------
// | occupied bitmap | readable bitmap | key(1)..key(N) | value(1)..value(N)
// ----------------------------------------------------------------
//
// N (BlockArraySize) is a runtime quantity here, computed from the key and
// value widths of the HashIndex that owns this page, rather than the
// source's compile-time constant — the widths themselves are no longer
// fixed once Key/Value become generic.
type HashTableBlockPage struct {
	data     *[common.PageSize]byte
	keySize  int
	valSize  int
	capacity int
}

// ComputeBlockArraySize returns the largest N such that N slots of the
// given key/value widths, plus their two occupied/readable bitmaps, fit
// within a single page image.
func ComputeBlockArraySize(keySize, valSize int) int {
	slotWidth := keySize + valSize
	n := common.PageSize / slotWidth
	for n > 0 {
		bitmapBytes := 2 * ((n-1)/8 + 1)
		if n*slotWidth+bitmapBytes <= common.PageSize {
			return n
		}
		n--
	}
	return 0
}

// WrapHashTableBlockPage views an existing page image as a block page with
// the given slot geometry.
func WrapHashTableBlockPage(data *[common.PageSize]byte, keySize, valSize int) *HashTableBlockPage {
	capacity := ComputeBlockArraySize(keySize, valSize)
	common.SH_Assert(capacity > 0, "key/value widths too large for a single block page")
	return &HashTableBlockPage{data: data, keySize: keySize, valSize: valSize, capacity: capacity}
}

func (p *HashTableBlockPage) Capacity() int {
	return p.capacity
}

func (p *HashTableBlockPage) bitmapLen() int {
	return (p.capacity-1)/8 + 1
}

func (p *HashTableBlockPage) occupiedOffset() int {
	return 0
}

func (p *HashTableBlockPage) readableOffset() int {
	return p.bitmapLen()
}

func (p *HashTableBlockPage) keyOffset(index int) int {
	return 2*p.bitmapLen() + index*p.keySize
}

func (p *HashTableBlockPage) valueOffset(index int) int {
	return 2*p.bitmapLen() + p.capacity*p.keySize + index*p.valSize
}

// KeyAt returns the raw, codec-encoded bytes of the key stored at index.
func (p *HashTableBlockPage) KeyAt(index int) []byte {
	off := p.keyOffset(index)
	return p.data[off : off+p.keySize]
}

// ValueAt returns the raw, codec-encoded bytes of the value stored at index.
func (p *HashTableBlockPage) ValueAt(index int) []byte {
	off := p.valueOffset(index)
	return p.data[off : off+p.valSize]
}

// Insert writes key/value into index, iff the slot is not already
// readable. Always marks the slot occupied, preserving a tombstone's
// occupied bit if it was already set.
func (p *HashTableBlockPage) Insert(index int, key, value []byte) bool {
	if p.IsReadable(index) {
		return false
	}
	copy(p.KeyAt(index), key)
	copy(p.ValueAt(index), value)
	p.setBit(p.occupiedOffset(), index)
	p.setBit(p.readableOffset(), index)
	return true
}

// Remove tombstones index: clears readable but leaves occupied set, so the
// probe sequence still passes through it.
func (p *HashTableBlockPage) Remove(index int) {
	p.clearBit(p.readableOffset(), index)
}

func (p *HashTableBlockPage) IsOccupied(index int) bool {
	return p.getBit(p.occupiedOffset(), index)
}

func (p *HashTableBlockPage) IsReadable(index int) bool {
	return p.getBit(p.readableOffset(), index)
}

func (p *HashTableBlockPage) setBit(bitmapOffset, index int) {
	p.data[bitmapOffset+index/8] |= 1 << (index % 8)
}

func (p *HashTableBlockPage) clearBit(bitmapOffset, index int) {
	p.data[bitmapOffset+index/8] &^= 1 << (index % 8)
}

func (p *HashTableBlockPage) getBit(bitmapOffset, index int) bool {
	return p.data[bitmapOffset+index/8]&(1<<(index%8)) != 0
}
