package disk

import (
	"errors"
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/rhesio/pagestore/common"
	"github.com/rhesio/pagestore/types"
)

// VirtualDiskManager is an in-memory DiskManager backed by memfile; it
// never touches the real filesystem. The buffer pool and hash index tests
// use the temp-file-backed NewDiskManagerTest instead. It mirrors the
// source's reuse of deallocated page ids' backing space rather than letting
// the file grow without bound.
type VirtualDiskManager struct {
	mu              sync.Mutex
	db              *memfile.File
	fileName        string
	nextPageID      types.PageID
	numWrites       uint64
	size            int64
	reusableSpaceID []types.PageID
	spaceIDConvMap  map[types.PageID]types.PageID
	deallocedIDMap  map[types.PageID]bool
}

// NewVirtualDiskManager returns an in-memory DiskManager instance.
func NewVirtualDiskManager(name string) DiskManager {
	return &VirtualDiskManager{
		db:             memfile.New(make([]byte, 0)),
		fileName:       name,
		spaceIDConvMap: make(map[types.PageID]types.PageID),
		deallocedIDMap: make(map[types.PageID]bool),
	}
}

// ShutDown is a no-op; there is nothing to close.
func (d *VirtualDiskManager) ShutDown() {}

func (d *VirtualDiskManager) convToSpaceID(pageID types.PageID) types.PageID {
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		return convedID
	}
	return pageID
}

// WritePage writes a page to the in-memory file.
func (d *VirtualDiskManager) WritePage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(d.convToSpaceID(pageID)) * common.PageSize
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return err
	}

	if offset+int64(len(pageData)) > d.size {
		d.size = offset + int64(len(pageData))
	}
	d.numWrites++
	return nil
}

// ReadPage reads a page from the in-memory file.
func (d *VirtualDiskManager) ReadPage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deallocedIDMap[pageID] {
		return types.ErrDeallocatedPage
	}

	offset := int64(d.convToSpaceID(pageID)) * common.PageSize
	if offset > d.size || offset+int64(len(pageData)) > d.size {
		return errors.New("I/O error past end of file")
	}

	_, err := d.db.ReadAt(pageData, offset)
	return err
}

// AllocatePage allocates a new page id, reusing the backing space of a
// previously deallocated page id when one is available.
func (d *VirtualDiskManager) AllocatePage() types.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	ret := d.nextPageID
	if len(d.reusableSpaceID) > 0 {
		reuseID := d.reusableSpaceID[0]
		d.reusableSpaceID = d.reusableSpaceID[1:]
		d.spaceIDConvMap[ret] = reuseID
	}
	d.nextPageID++
	return ret
}

// DeallocatePage releases a page id and makes its backing space available
// for reuse by a future AllocatePage.
func (d *VirtualDiskManager) DeallocatePage(pageID types.PageID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deallocedIDMap[pageID] = true
	if convedID, exist := d.spaceIDConvMap[pageID]; exist {
		d.reusableSpaceID = append(d.reusableSpaceID, convedID)
		delete(d.spaceIDConvMap, pageID)
	} else {
		d.reusableSpaceID = append(d.reusableSpaceID, pageID)
	}
}

// GetNumWrites returns the number of WritePage calls that have succeeded.
func (d *VirtualDiskManager) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the size of the in-memory file.
func (d *VirtualDiskManager) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}
