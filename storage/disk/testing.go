// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"os"
)

// DiskManagerTest wraps a real, file-backed DiskManagerImpl pointed at a
// fresh temp file and removes that file on ShutDown.
type DiskManagerTest struct {
	path string
	DiskManager
}

// NewDiskManagerTest returns a DiskManager instance for testing purposes.
func NewDiskManagerTest() DiskManager {
	f, err := os.CreateTemp("", "pagestore-*.db")
	if err != nil {
		panic(err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)

	return &DiskManagerTest{path, NewDiskManagerImpl(path)}
}

// ShutDown closes the database file and removes it from disk.
func (d *DiskManagerTest) ShutDown() {
	defer os.Remove(d.path)
	d.DiskManager.ShutDown()
}
