package disk

import (
	"github.com/rhesio/pagestore/types"
)

// DiskManager is responsible for persisting and retrieving fixed-size page
// images, and for allocating and deallocating page ids.
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	AllocatePage() types.PageID
	DeallocatePage(types.PageID)
	GetNumWrites() uint64
	ShutDown()
	Size() int64
}
