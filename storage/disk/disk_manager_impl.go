// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/rhesio/pagestore/common"
	"github.com/rhesio/pagestore/types"
)

// DiskManagerImpl is the real, file-backed implementation of DiskManager.
type DiskManagerImpl struct {
	db         *os.File
	fileName   string
	nextPageID types.PageID
	numWrites  uint64
	size       int64
}

// NewDiskManagerImpl returns a DiskManager instance backed by dbFilename.
func NewDiskManagerImpl(dbFilename string) DiskManager {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		log.Fatalln("can't open db file")
		return nil
	}

	fileInfo, err := file.Stat()
	if err != nil {
		log.Fatalln("file info error")
		return nil
	}

	fileSize := fileInfo.Size()
	nPages := fileSize / common.PageSize

	nextPageID := types.PageID(0)
	if nPages > 0 {
		nextPageID = types.PageID(int32(nPages))
	}

	return &DiskManagerImpl{file, dbFilename, nextPageID, 0, fileSize}
}

// ShutDown closes the database file.
func (d *DiskManagerImpl) ShutDown() {
	d.db.Close()
}

// WritePage writes a page to the database file.
func (d *DiskManagerImpl) WritePage(pageID types.PageID, pageData []byte) error {
	offset := int64(pageID) * common.PageSize
	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	bytesWritten, err := d.db.Write(pageData)
	if err != nil {
		return err
	}

	if bytesWritten != common.PageSize {
		return errors.New("bytes written not equals page size")
	}

	if offset+int64(bytesWritten) > d.size {
		d.size = offset + int64(bytesWritten)
	}

	d.numWrites++
	return d.db.Sync()
}

// ReadPage reads a page from the database file.
func (d *DiskManagerImpl) ReadPage(pageID types.PageID, pageData []byte) error {
	offset := int64(pageID) * common.PageSize

	fileInfo, err := d.db.Stat()
	if err != nil {
		return errors.New("file info error")
	}

	if offset > fileInfo.Size() {
		return errors.New("I/O error past end of file")
	}

	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	bytesRead, err := d.db.Read(pageData)
	if err != nil && err != io.EOF {
		return errors.New("I/O error while reading")
	}

	if bytesRead < common.PageSize {
		for i := bytesRead; i < common.PageSize; i++ {
			pageData[i] = 0
		}
	}
	return nil
}

// AllocatePage reserves the next page id. Ids are never reused by this
// implementation; DeallocatePage is a bookkeeping no-op here, matching the
// source.
func (d *DiskManagerImpl) AllocatePage() types.PageID {
	ret := d.nextPageID
	d.nextPageID++
	return ret
}

// DeallocatePage releases a page id. A real implementation would track a
// free-space bitmap in the header page; this core never needs to reclaim
// disk space, only buffer-pool frames, so it is a no-op.
func (d *DiskManagerImpl) DeallocatePage(pageID types.PageID) {}

// GetNumWrites returns the number of WritePage calls that have succeeded.
func (d *DiskManagerImpl) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the size of the database file on disk.
func (d *DiskManagerImpl) Size() int64 {
	return d.size
}

// RemoveDBFile deletes the backing file. Call only after ShutDown.
func (d *DiskManagerImpl) RemoveDBFile() {
	os.Remove(d.fileName)
}
