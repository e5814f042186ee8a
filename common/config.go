// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

const (
	// InvalidPageID is the sentinel page id meaning "no page".
	InvalidPageID = -1
	// HeaderPageID is the page id conventionally reserved for a table's header page.
	HeaderPageID = 0
	// PageSize is the size of a data page in bytes.
	PageSize = 4096
	// MaxPageAllocRetries bounds the retry loop around NewPage calls made
	// while constructing or resizing a hash table, in place of the
	// source's unbounded busy-loop.
	MaxPageAllocRetries = 8
)

// EnableDebug toggles the dummy, assertion-heavy single-threaded latch
// implementation used to shake out locking bugs without real concurrency.
var EnableDebug = false

// SlotOffset is the type of a byte offset within a page image.
type SlotOffset uintptr
