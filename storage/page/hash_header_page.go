// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"encoding/binary"

	"github.com/rhesio/pagestore/common"
	"github.com/rhesio/pagestore/types"
)

// Header format (size in bytes):
// -------------------------------------------------------------
// | page_id (4) | size (4) | num_blocks (4) | block_page_ids (size * 4)
// -------------------------------------------------------------
//
// Unlike the source's unsafe.Pointer struct reinterpretation, this reads
// and writes the layout at explicit byte offsets, because the number of
// block ids a header can hold is a runtime quantity here, not a
// compile-time array length.
const (
	hashHeaderOffsetPageID     = 0
	hashHeaderOffsetSize       = 4
	hashHeaderOffsetNumBlocks  = 8
	hashHeaderOffsetBlockIDs   = 12
)

// MaxHashHeaderBlockIDs is the largest number of block page ids a single
// header page can record.
const MaxHashHeaderBlockIDs = (common.PageSize - hashHeaderOffsetBlockIDs) / 4

// HashTableHeaderPage is a view over a page image laid out as the hash
// index's header: the header's own page id, the configured size (number
// of block pages), and an append-only array of block page ids.
type HashTableHeaderPage struct {
	data *[common.PageSize]byte
}

// WrapHashTableHeaderPage views an existing page image as a header page.
func WrapHashTableHeaderPage(data *[common.PageSize]byte) *HashTableHeaderPage {
	return &HashTableHeaderPage{data: data}
}

func (h *HashTableHeaderPage) GetPageId() types.PageID {
	return types.PageID(binary.LittleEndian.Uint32(h.data[hashHeaderOffsetPageID:]))
}

func (h *HashTableHeaderPage) SetPageId(pageID types.PageID) {
	binary.LittleEndian.PutUint32(h.data[hashHeaderOffsetPageID:], uint32(int32(pageID)))
}

// GetSize returns the configured number of block pages.
func (h *HashTableHeaderPage) GetSize() int {
	return int(binary.LittleEndian.Uint32(h.data[hashHeaderOffsetSize:]))
}

func (h *HashTableHeaderPage) SetSize(size int) {
	binary.LittleEndian.PutUint32(h.data[hashHeaderOffsetSize:], uint32(size))
}

// NumBlocks returns the number of block page ids recorded so far.
func (h *HashTableHeaderPage) NumBlocks() int {
	return int(binary.LittleEndian.Uint32(h.data[hashHeaderOffsetNumBlocks:]))
}

func (h *HashTableHeaderPage) setNumBlocks(n int) {
	binary.LittleEndian.PutUint32(h.data[hashHeaderOffsetNumBlocks:], uint32(n))
}

func (h *HashTableHeaderPage) blockIDOffset(index int) int {
	return hashHeaderOffsetBlockIDs + index*4
}

// GetBlockPageId returns the page id of the index'th block page.
func (h *HashTableHeaderPage) GetBlockPageId(index int) types.PageID {
	off := h.blockIDOffset(index)
	return types.PageID(int32(binary.LittleEndian.Uint32(h.data[off:])))
}

// AddBlockPageId appends a block page id, growing NumBlocks by one.
func (h *HashTableHeaderPage) AddBlockPageId(pageID types.PageID) {
	next := h.NumBlocks()
	common.SH_Assert(h.blockIDOffset(next)+4 <= common.PageSize, "header page has no room for another block id")
	off := h.blockIDOffset(next)
	binary.LittleEndian.PutUint32(h.data[off:], uint32(int32(pageID)))
	h.setNumBlocks(next + 1)
}
