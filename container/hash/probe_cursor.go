package hash

import (
	"bytes"

	"github.com/rhesio/pagestore/storage/buffer"
	"github.com/rhesio/pagestore/storage/page"
	"github.com/rhesio/pagestore/types"
)

// probeCursor is the explicit probe iterator spec.md's design notes ask
// for: it owns exactly one block page's pin and latch at a time, and
// transitions atomically on boundary crossings — release the old block's
// latch before acquiring the next one, so forward progress is tracked by
// the logical slot index rather than by which latches happen to be held.
type probeCursor[K any, V any] struct {
	bpm      *buffer.BufferPoolManager
	capacity int
	keyCodec Codec[K]
	valCodec Codec[V]
	forWrite bool

	header     *page.HashTableHeaderPage
	numBlocks  int
	bucket     int
	offset     int
	blockPg    *page.Page
	blockPage  *page.HashTableBlockPage
	blockDirty bool
}

func newProbeCursor[K any, V any](bpm *buffer.BufferPoolManager, header *page.HashTableHeaderPage, capacity int, keyCodec Codec[K], valCodec Codec[V], startSlot int, forWrite bool) *probeCursor[K, V] {
	numBlocks := header.NumBlocks()
	c := &probeCursor[K, V]{
		bpm:       bpm,
		capacity:  capacity,
		keyCodec:  keyCodec,
		valCodec:  valCodec,
		forWrite:  forWrite,
		header:    header,
		numBlocks: numBlocks,
		bucket:    startSlot / capacity,
		offset:    startSlot % capacity,
	}
	c.fetchBlock()
	return c
}

func (c *probeCursor[K, V]) fetchBlock() {
	blockID := c.header.GetBlockPageId(c.bucket)
	pg := c.bpm.FetchPage(blockID)
	if c.forWrite {
		pg.WLatch()
	} else {
		pg.RLatch()
	}
	c.blockPg = pg
	c.blockPage = page.WrapHashTableBlockPage(pg.Data(), c.keyCodec.Size(), c.valCodec.Size())
	c.blockDirty = false
}

// Advance moves the cursor to the next logical slot, crossing a block
// boundary (releasing the old block's latch and pin, then acquiring the
// next one) when it runs off the end of the current block.
func (c *probeCursor[K, V]) Advance() {
	c.offset++
	if c.offset < c.capacity {
		return
	}
	c.offset = 0
	c.bucket = (c.bucket + 1) % c.numBlocks
	c.releaseBlock()
	c.fetchBlock()
}

func (c *probeCursor[K, V]) releaseBlock() {
	if c.forWrite {
		c.blockPg.WUnlatch()
	} else {
		c.blockPg.RUnlatch()
	}
	c.bpm.UnpinPage(c.blockPg.ID(), c.blockDirty)
}

// Release gives up the currently-held block latch and pin. Must be called
// exactly once when the caller is done with the cursor.
func (c *probeCursor[K, V]) Release() {
	c.releaseBlock()
}

func (c *probeCursor[K, V]) Occupied() bool {
	return c.blockPage.IsOccupied(c.offset)
}

func (c *probeCursor[K, V]) Readable() bool {
	return c.blockPage.IsReadable(c.offset)
}

func (c *probeCursor[K, V]) Key() K {
	return c.keyCodec.Decode(c.blockPage.KeyAt(c.offset))
}

func (c *probeCursor[K, V]) Value() V {
	return c.valCodec.Decode(c.blockPage.ValueAt(c.offset))
}

func (c *probeCursor[K, V]) ValueBytesEqual(v V) bool {
	buf := make([]byte, c.valCodec.Size())
	c.valCodec.Encode(v, buf)
	return bytes.Equal(buf, c.blockPage.ValueAt(c.offset))
}

// Claim writes key/value into the current slot. The caller must have
// already checked Readable() is false.
func (c *probeCursor[K, V]) Claim(key K, value V) {
	keyBuf := make([]byte, c.keyCodec.Size())
	valBuf := make([]byte, c.valCodec.Size())
	c.keyCodec.Encode(key, keyBuf)
	c.valCodec.Encode(value, valBuf)
	c.blockPage.Insert(c.offset, keyBuf, valBuf)
	c.blockDirty = true
}

// Tombstone clears the current slot's readable bit, preserving its
// occupied bit so later probes still pass through it.
func (c *probeCursor[K, V]) Tombstone() {
	c.blockPage.Remove(c.offset)
	c.blockDirty = true
}

// BlockPageID returns the page id of the block the cursor currently sits
// in, for diagnostics.
func (c *probeCursor[K, V]) BlockPageID() types.PageID {
	return c.blockPg.ID()
}
