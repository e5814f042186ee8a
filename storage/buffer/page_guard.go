package buffer

import (
	"github.com/rhesio/pagestore/storage/page"
	"github.com/rhesio/pagestore/types"
)

// PageGuard borrows a pinned frame for the duration of its own lifetime and
// releases the pin exactly once, carrying whatever dirty bit it was told
// to set. It exists alongside the raw FetchPage/NewPage/UnpinPage API, not
// in place of it: the hash index's hot probing path still pins and unpins
// pages directly to avoid a guard allocation per slot touched while
// walking a probe chain, but any call site that fetches a page purely to
// read or write it once is better served by a guard that cannot leak its
// pin no matter which return path is taken.
type PageGuard struct {
	bpm      *BufferPoolManager
	page     *page.Page
	dirty    bool
	released bool
}

// NewPageGuard returns a PageGuard over an already-pinned page, or the
// zero guard (Page() == nil) if pg is nil.
func NewPageGuard(bpm *BufferPoolManager, pg *page.Page) *PageGuard {
	return &PageGuard{bpm: bpm, page: pg}
}

// FetchPageGuarded fetches and pins pageID, returning it wrapped in a
// guard. Returns nil under the same conditions FetchPage returns nil.
func (b *BufferPoolManager) FetchPageGuarded(pageID types.PageID) *PageGuard {
	pg := b.FetchPage(pageID)
	if pg == nil {
		return nil
	}
	return NewPageGuard(b, pg)
}

// NewPageGuarded allocates a new page, returning it wrapped in a guard.
// Returns nil under the same conditions NewPage returns nil.
func (b *BufferPoolManager) NewPageGuarded() *PageGuard {
	pg := b.NewPage()
	if pg == nil {
		return nil
	}
	return NewPageGuard(b, pg)
}

// Page returns the underlying page, or nil if the guard is empty.
func (g *PageGuard) Page() *page.Page {
	if g == nil {
		return nil
	}
	return g.page
}

// MarkDirty records that the guard's pin should be released with the
// dirty bit set, regardless of what it is set to at release time.
func (g *PageGuard) MarkDirty() {
	g.dirty = true
}

// Release unpins the guarded page exactly once. Calling it again, or
// calling Unpin after it, is a no-op.
func (g *PageGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.bpm.UnpinPage(g.page.ID(), g.dirty)
}

// Unpin is an alias for Release, matching the vocabulary the rest of the
// pool API uses for giving up a pin.
func (g *PageGuard) Unpin() {
	g.Release()
}
