package hash

import (
	"github.com/notEpsilon/go-pair"

	"github.com/rhesio/pagestore/common"
	"github.com/rhesio/pagestore/storage/buffer"
	"github.com/rhesio/pagestore/storage/page"
	"github.com/rhesio/pagestore/types"
)

// Comparator orders two keys, returning <0, 0, or >0.
type Comparator[K any] func(a, b K) int

// HashFunction hashes a key to an unsigned slot address.
type HashFunction[K any] func(key K) uint32

// HashIndex is a persistent linear-probing hash table laid out across a
// header page and a sequence of block pages, all resident on demand
// through a BufferPoolManager. It generalizes the source's fixed-width
// template instantiation (Key, Value, KeyComparator, Hash) to Go generics
// bounded by a Codec for each of K and V.
type HashIndex[K any, V any] struct {
	headerPageID types.PageID
	bpm          *buffer.BufferPoolManager
	tableLatch   common.ReaderWriterLatch

	keyCodec Codec[K]
	valCodec Codec[V]
	cmp      Comparator[K]
	hashFn   HashFunction[K]

	blockArraySize int
}

// NewHashIndex allocates a header page and numBuckets block pages through
// bpm and returns a ready-to-use index. numBuckets is the initial number
// of block pages, not the number of slots.
func NewHashIndex[K any, V any](bpm *buffer.BufferPoolManager, numBuckets int, keyCodec Codec[K], valCodec Codec[V], cmp Comparator[K], hashFn HashFunction[K]) *HashIndex[K, V] {
	blockArraySize := page.ComputeBlockArraySize(keyCodec.Size(), valCodec.Size())
	common.SH_Assert(blockArraySize > 0, "key/value widths too large for a single block page")
	if numBuckets < 1 {
		numBuckets = 1
	}

	headerPg := allocatePageRetrying(bpm)
	common.SH_Assert(headerPg != nil, "could not allocate hash index header page")
	header := page.WrapHashTableHeaderPage(headerPg.Data())
	header.SetPageId(headerPg.ID())
	header.SetSize(numBuckets)

	for i := 0; i < numBuckets; i++ {
		blockPg := allocatePageRetrying(bpm)
		common.SH_Assert(blockPg != nil, "could not allocate hash index block page")
		header.AddBlockPageId(blockPg.ID())
		bpm.UnpinPage(blockPg.ID(), true)
	}
	bpm.UnpinPage(headerPg.ID(), true)

	return &HashIndex[K, V]{
		headerPageID:   headerPg.ID(),
		bpm:            bpm,
		tableLatch:     common.NewRWLatch(),
		keyCodec:       keyCodec,
		valCodec:       valCodec,
		cmp:            cmp,
		hashFn:         hashFn,
		blockArraySize: blockArraySize,
	}
}

// allocatePageRetrying bounds the source's busy-loop on NewPage with a
// fixed number of attempts, returning nil rather than hanging forever when
// the pool cannot free a frame (e.g. every frame is pinned). Exhausting the
// retries means some other goroutine is holding pins it never releases, so
// a goroutine dump goes out to whatever is watching the log before giving
// up, the same way a stuck-latch investigation would reach for one.
func allocatePageRetrying(bpm *buffer.BufferPoolManager) *page.Page {
	for i := 0; i < common.MaxPageAllocRetries; i++ {
		if pg := bpm.NewPage(); pg != nil {
			return pg
		}
	}
	common.ShPrintf(common.ERROR, "exhausted %d NewPage retries, pool appears fully pinned", common.MaxPageAllocRetries)
	common.DumpGoroutines()
	return nil
}

func (idx *HashIndex[K, V]) startSlot(hash uint32, totalSlots int) int {
	return int(hash % uint32(totalSlots))
}

// GetValue returns every value stored under key, or false if none were
// found.
func (idx *HashIndex[K, V]) GetValue(key K) ([]V, bool) {
	idx.tableLatch.RLock()
	defer idx.tableLatch.RUnlock()

	headerPg := idx.bpm.FetchPage(idx.headerPageID)
	headerPg.RLatch()
	header := page.WrapHashTableHeaderPage(headerPg.Data())
	totalSlots := header.NumBlocks() * idx.blockArraySize
	start := idx.startSlot(idx.hashFn(key), totalSlots)

	cur := newProbeCursor[K, V](idx.bpm, header, idx.blockArraySize, idx.keyCodec, idx.valCodec, start, false)

	var results []V
	for i := 0; i < totalSlots; i++ {
		if !cur.Occupied() {
			break
		}
		if cur.Readable() && idx.cmp(cur.Key(), key) == 0 {
			results = append(results, cur.Value())
		}
		cur.Advance()
	}
	cur.Release()
	headerPg.RUnlatch()
	idx.bpm.UnpinPage(idx.headerPageID, false)

	return results, len(results) > 0
}

// Insert adds (key, value) to the table. Returns false iff that exact
// pair is already present; automatically grows the table and retries when
// the probe sequence wraps without finding a free slot.
func (idx *HashIndex[K, V]) Insert(key K, value V) bool {
	for {
		idx.tableLatch.RLock()

		headerPg := idx.bpm.FetchPage(idx.headerPageID)
		headerPg.RLatch()
		header := page.WrapHashTableHeaderPage(headerPg.Data())
		totalSlots := header.NumBlocks() * idx.blockArraySize
		start := idx.startSlot(idx.hashFn(key), totalSlots)

		cur := newProbeCursor[K, V](idx.bpm, header, idx.blockArraySize, idx.keyCodec, idx.valCodec, start, true)

		inserted, duplicate := false, false
		for i := 0; i < totalSlots; i++ {
			if cur.Readable() && idx.cmp(cur.Key(), key) == 0 && cur.ValueBytesEqual(value) {
				duplicate = true
				break
			}
			if !cur.Readable() {
				cur.Claim(key, value)
				inserted = true
				break
			}
			cur.Advance()
		}
		cur.Release()
		headerPg.RUnlatch()
		idx.bpm.UnpinPage(idx.headerPageID, false)
		idx.tableLatch.RUnlock()

		if duplicate {
			return false
		}
		if inserted {
			return true
		}

		// Table full for this key: grow and retry. Table latch is
		// already released here, matching the drop-relatch-retry
		// protocol the spec calls for.
		idx.Resize(totalSlots)
	}
}

// Remove deletes (key, value) from the table, tombstoning the slot so the
// probe sequence still passes through it. Returns false if the pair is
// not present or was already removed.
func (idx *HashIndex[K, V]) Remove(key K, value V) bool {
	idx.tableLatch.RLock()
	defer idx.tableLatch.RUnlock()

	headerPg := idx.bpm.FetchPage(idx.headerPageID)
	headerPg.RLatch()
	header := page.WrapHashTableHeaderPage(headerPg.Data())
	totalSlots := header.NumBlocks() * idx.blockArraySize
	start := idx.startSlot(idx.hashFn(key), totalSlots)

	cur := newProbeCursor[K, V](idx.bpm, header, idx.blockArraySize, idx.keyCodec, idx.valCodec, start, true)

	removed := false
	for i := 0; i < totalSlots; i++ {
		if !cur.Occupied() {
			break
		}
		if idx.cmp(cur.Key(), key) == 0 && cur.ValueBytesEqual(value) {
			if cur.Readable() {
				cur.Tombstone()
				removed = true
			}
			break
		}
		cur.Advance()
	}
	cur.Release()
	headerPg.RUnlatch()
	idx.bpm.UnpinPage(idx.headerPageID, false)

	return removed
}

// GetSize returns the table's probe-space cardinality (num_blocks *
// BLOCK_ARRAY_SIZE), not the number of live entries.
func (idx *HashIndex[K, V]) GetSize() int {
	idx.tableLatch.RLock()
	defer idx.tableLatch.RUnlock()

	headerPg := idx.bpm.FetchPage(idx.headerPageID)
	headerPg.RLatch()
	header := page.WrapHashTableHeaderPage(headerPg.Data())
	size := header.NumBlocks() * idx.blockArraySize
	headerPg.RUnlatch()
	idx.bpm.UnpinPage(idx.headerPageID, false)
	return size
}

// Resize grows the table to host at least 2*initialSize slots, rehashing
// every readable entry from the old table into the new one, then tearing
// down the old header and block pages. Grounded directly on the original
// C++ Resize (the Go port this module otherwise follows never implemented
// it). initialSize of 0 is treated as 1, rather than looping forever on
// zero growth.
func (idx *HashIndex[K, V]) Resize(initialSize int) {
	idx.tableLatch.WLock()
	defer idx.tableLatch.WUnlock()

	if initialSize < 1 {
		initialSize = 1
	}

	oldHeaderPageID := idx.headerPageID

	newNumBlocks := (2*initialSize + idx.blockArraySize - 1) / idx.blockArraySize
	if newNumBlocks < 1 {
		newNumBlocks = 1
	}

	newHeaderPg := allocatePageRetrying(idx.bpm)
	common.SH_Assert(newHeaderPg != nil, "could not allocate new header page during resize")
	newHeader := page.WrapHashTableHeaderPage(newHeaderPg.Data())
	newHeader.SetPageId(newHeaderPg.ID())
	newHeader.SetSize(newNumBlocks)

	for i := 0; i < newNumBlocks; i++ {
		blockPg := allocatePageRetrying(idx.bpm)
		common.SH_Assert(blockPg != nil, "could not allocate new block page during resize")
		newHeader.AddBlockPageId(blockPg.ID())
		idx.bpm.UnpinPage(blockPg.ID(), true)
	}

	// Scan every readable entry out of the old table before touching the
	// new one, the way the source collects (key, value) pairs with a
	// Pair before replaying them — here via go-pair rather than a
	// std::pair, since the scan and the replay are two separate passes.
	oldHeaderPg := idx.bpm.FetchPage(oldHeaderPageID)
	oldHeaderPg.RLatch()
	oldHeader := page.WrapHashTableHeaderPage(oldHeaderPg.Data())
	oldNumBlocks := oldHeader.NumBlocks()

	var entries []pair.Pair[K, V]
	for b := 0; b < oldNumBlocks; b++ {
		blockID := oldHeader.GetBlockPageId(b)
		blockPg := idx.bpm.FetchPage(blockID)
		blockPg.RLatch()
		block := page.WrapHashTableBlockPage(blockPg.Data(), idx.keyCodec.Size(), idx.valCodec.Size())
		for s := 0; s < idx.blockArraySize; s++ {
			if block.IsReadable(s) {
				k := idx.keyCodec.Decode(block.KeyAt(s))
				v := idx.valCodec.Decode(block.ValueAt(s))
				entries = append(entries, pair.Pair[K, V]{First: k, Second: v})
			}
		}
		blockPg.RUnlatch()
		idx.bpm.UnpinPage(blockID, false)
		idx.bpm.DeletePage(blockID)
	}
	oldHeaderPg.RUnlatch()
	idx.bpm.UnpinPage(oldHeaderPageID, false)
	idx.bpm.DeletePage(oldHeaderPageID)

	idx.headerPageID = newHeaderPg.ID()
	idx.bpm.UnpinPage(newHeaderPg.ID(), true)

	for _, e := range entries {
		idx.insertIntoCurrentTable(e.First, e.Second)
	}
}

// insertIntoCurrentTable performs the internal probe-and-claim Insert does,
// against whichever table idx.headerPageID currently names, without
// re-acquiring the table latch (the caller — Resize — already holds it
// exclusively) and without the full-table retry loop (the table was just
// sized to comfortably hold every entry being replayed).
func (idx *HashIndex[K, V]) insertIntoCurrentTable(key K, value V) {
	headerPg := idx.bpm.FetchPage(idx.headerPageID)
	headerPg.RLatch()
	header := page.WrapHashTableHeaderPage(headerPg.Data())
	totalSlots := header.NumBlocks() * idx.blockArraySize
	start := idx.startSlot(idx.hashFn(key), totalSlots)

	cur := newProbeCursor[K, V](idx.bpm, header, idx.blockArraySize, idx.keyCodec, idx.valCodec, start, true)
	for i := 0; i < totalSlots; i++ {
		if !cur.Readable() {
			cur.Claim(key, value)
			break
		}
		cur.Advance()
	}
	cur.Release()
	headerPg.RUnlatch()
	idx.bpm.UnpinPage(idx.headerPageID, false)
}
