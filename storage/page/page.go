// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"sync/atomic"

	"github.com/rhesio/pagestore/common"
	"github.com/rhesio/pagestore/types"
)

// Page is one frame's resident page image plus the metadata the buffer
// pool and its callers need: the page id, dirty bit, pin count, and the
// per-page reader/writer latch that guards the image bytes.
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	latch    common.ReaderWriterLatch
	data     *[common.PageSize]byte
}

// New wraps an existing page image freshly read from disk.
func New(id types.PageID, isDirty bool, data *[common.PageSize]byte) *Page {
	return &Page{id: id, pinCount: 0, isDirty: isDirty, latch: common.NewRWLatch(), data: data}
}

// NewEmpty returns a zeroed page image for a freshly allocated page id,
// pinned once on behalf of its creator.
func NewEmpty(id types.PageID) *Page {
	return &Page{id: id, pinCount: 1, isDirty: false, latch: common.NewRWLatch(), data: &[common.PageSize]byte{}}
}

func (p *Page) IncPinCount() {
	atomic.AddInt32(&p.pinCount, 1)
}

func (p *Page) DecPinCount() {
	for {
		cur := atomic.LoadInt32(&p.pinCount)
		if cur <= 0 {
			return
		}
		if atomic.CompareAndSwapInt32(&p.pinCount, cur, cur-1) {
			return
		}
	}
}

func (p *Page) PinCount() int {
	return int(atomic.LoadInt32(&p.pinCount))
}

func (p *Page) ID() types.PageID {
	return p.id
}

func (p *Page) SetID(id types.PageID) {
	p.id = id
}

func (p *Page) Data() *[common.PageSize]byte {
	return p.data
}

// Copy writes src into the page image starting at byteOffset.
func (p *Page) Copy(byteOffset int, src []byte) {
	copy(p.data[byteOffset:], src)
}

func (p *Page) ResetData() {
	for i := range p.data {
		p.data[i] = 0
	}
}

func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

func (p *Page) IsDirty() bool {
	return p.isDirty
}

func (p *Page) RLatch()   { p.latch.RLock() }
func (p *Page) RUnlatch() { p.latch.RUnlock() }
func (p *Page) WLatch()   { p.latch.WLock() }
func (p *Page) WUnlatch() { p.latch.WUnlock() }
