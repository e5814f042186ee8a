// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/sync/errgroup"

	"github.com/rhesio/pagestore/common"
	"github.com/rhesio/pagestore/storage/disk"
	"github.com/rhesio/pagestore/storage/page"
	"github.com/rhesio/pagestore/types"
)

// BufferPoolManager owns a fixed array of frames and presents a
// page-addressable cache with pin semantics over them, coordinating with
// the disk manager for I/O and the replacer for eviction decisions. All
// public operations are atomic with respect to a single pool-wide mutex;
// the page-content latches returned by FetchPage are separate and must be
// acquired by callers.
type BufferPoolManager struct {
	mu          deadlock.Mutex
	diskManager disk.DiskManager
	pages       []*page.Page
	replacer    *ClockReplacer
	freeList    []FrameID
	pageTable   map[types.PageID]FrameID
}

// NewBufferPoolManager returns an empty buffer pool manager of poolSize
// frames, all initially on the free list.
func NewBufferPoolManager(poolSize uint32, diskManager disk.DiskManager) *BufferPoolManager {
	freeList := make([]FrameID, poolSize)
	for i := uint32(0); i < poolSize; i++ {
		freeList[i] = FrameID(i)
	}

	return &BufferPoolManager{
		diskManager: diskManager,
		pages:       make([]*page.Page, poolSize),
		replacer:    NewClockReplacer(poolSize),
		freeList:    freeList,
		pageTable:   make(map[types.PageID]FrameID),
	}
}

// FetchPage fetches the requested page into the buffer pool, pinning it.
// Returns nil if the page is not resident and no frame can be freed for it.
func (b *BufferPoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameID, ok := b.pageTable[pageID]; ok {
		pg := b.pages[frameID]
		pg.IncPinCount()
		b.replacer.Pin(frameID)
		return pg
	}

	frameID, isFromFreeList := b.getFrameID()
	if frameID == nil {
		return nil
	}
	if !isFromFreeList {
		if err := b.evict(*frameID); err != nil {
			return nil
		}
	}

	data := make([]byte, common.PageSize)
	if err := b.diskManager.ReadPage(pageID, data); err != nil {
		return nil
	}
	var pageData [common.PageSize]byte
	copy(pageData[:], data)

	pg := page.New(pageID, false, &pageData)
	pg.IncPinCount()
	b.pageTable[pageID] = *frameID
	b.pages[*frameID] = pg
	b.replacer.Pin(*frameID)

	return pg
}

// UnpinPage unpins the target page from the buffer pool, ORing isDirty
// into its dirty bit. Returns false if the page is not resident.
func (b *BufferPoolManager) UnpinPage(pageID types.PageID, isDirty bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if isDirty {
		pg.SetIsDirty(true)
	}

	if pg.PinCount() > 0 {
		pg.DecPinCount()
		if pg.PinCount() == 0 {
			b.replacer.Unpin(frameID)
		}
	}
	return true
}

// FlushPage writes the target page to disk if dirty, regardless of pin
// state, and clears its dirty bit. Returns false if not resident.
func (b *BufferPoolManager) FlushPage(pageID types.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked(pageID)
}

func (b *BufferPoolManager) flushLocked(pageID types.PageID) bool {
	frameID, ok := b.pageTable[pageID]
	if !ok {
		return false
	}
	pg := b.pages[frameID]
	if pg.IsDirty() {
		data := pg.Data()
		b.diskManager.WritePage(pageID, data[:])
		pg.SetIsDirty(false)
	}
	return true
}

// NewPage allocates a new page in the buffer pool with the disk manager's
// help, pinning it once on behalf of the caller. Returns nil when every
// frame is pinned.
func (b *BufferPoolManager) NewPage() *page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, isFromFreeList := b.getFrameID()
	if frameID == nil {
		return nil
	}
	if !isFromFreeList {
		if err := b.evict(*frameID); err != nil {
			return nil
		}
	}

	pageID := b.diskManager.AllocatePage()
	pg := page.NewEmpty(pageID)

	b.pageTable[pageID] = *frameID
	b.pages[*frameID] = pg
	b.replacer.Pin(*frameID)

	return pg
}

// DeletePage deletes a page from the buffer pool and deallocates its id on
// disk. Returns false if the page is resident and still pinned.
func (b *BufferPoolManager) DeletePage(pageID types.PageID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.pageTable[pageID]
	if !ok {
		b.diskManager.DeallocatePage(pageID)
		return true
	}

	pg := b.pages[frameID]
	if pg.PinCount() > 0 {
		return false
	}

	delete(b.pageTable, pageID)
	b.replacer.Pin(frameID)
	b.diskManager.DeallocatePage(pageID)

	pg.ResetData()
	pg.SetIsDirty(false)
	pg.SetID(types.InvalidPageID)
	b.pages[frameID] = nil

	b.freeList = append(b.freeList, frameID)
	return true
}

// FlushAllPages flushes every dirty resident page to disk. The set of
// pages that need flushing is snapshotted under the pool mutex, then one
// goroutine per page calls FlushPage; each of those takes the pool mutex,
// so the disk writes themselves run one at a time. The returned error is
// always nil: a failed disk write is not reported.
func (b *BufferPoolManager) FlushAllPages() error {
	b.mu.Lock()
	dirty := mapset.NewSet[types.PageID]()
	for pageID, frameID := range b.pageTable {
		if b.pages[frameID].IsDirty() {
			dirty.Add(pageID)
		}
	}
	b.mu.Unlock()

	var g errgroup.Group
	for pageID := range dirty.Iter() {
		pageID := pageID
		g.Go(func() error {
			b.FlushPage(pageID)
			return nil
		})
	}
	return g.Wait()
}

// evict writes back frameID's current resident page if dirty, and clears
// its page-table entry, making the frame available for a new resident.
func (b *BufferPoolManager) evict(frameID FrameID) error {
	currentPage := b.pages[frameID]
	if currentPage == nil {
		return nil
	}
	if currentPage.IsDirty() {
		data := currentPage.Data()
		if err := b.diskManager.WritePage(currentPage.ID(), data[:]); err != nil {
			return err
		}
	}
	delete(b.pageTable, currentPage.ID())
	return nil
}

func (b *BufferPoolManager) getFrameID() (*FrameID, bool) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return &frameID, true
	}
	return b.replacer.Victim(), false
}
