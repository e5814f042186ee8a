// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"github.com/sasha-s/go-deadlock"
)

// FrameID is the type for a buffer pool frame index.
type FrameID uint32

type frameState struct {
	pinned     bool
	referenced bool
}

// ClockReplacer approximates least-recently-used eviction over a fixed
// number of frames with a single reference bit per frame and a circulating
// hand, rather than the source's circular-linked-list of only-unpinned
// frames — an array indexed directly by frame id makes the unpinned_count
// invariant (spec's per-frame pinned/referenced state) visible instead of
// buried inside list bookkeeping.
type ClockReplacer struct {
	mu             deadlock.Mutex
	frames         []frameState
	hand           uint32
	unpinnedCount  uint32
}

// NewClockReplacer instantiates a new clock replacer over numPages frames.
// Every frame starts pinned: a frame only becomes eligible for eviction
// after an explicit Unpin.
func NewClockReplacer(numPages uint32) *ClockReplacer {
	frames := make([]frameState, numPages)
	for i := range frames {
		frames[i] = frameState{pinned: true, referenced: false}
	}
	return &ClockReplacer{frames: frames}
}

// Victim selects an unpinned, not-recently-referenced frame, clearing
// reference bits along the way (second chance), and returns it pinned.
func (c *ClockReplacer) Victim() *FrameID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unpinnedCount == 0 || len(c.frames) == 0 {
		return nil
	}

	n := uint32(len(c.frames))
	for c.unpinnedCount > 0 {
		idx := c.hand % n
		f := &c.frames[idx]
		switch {
		case f.pinned:
			c.hand++
		case f.referenced:
			f.referenced = false
			c.hand++
		default:
			f.pinned = true
			c.unpinnedCount--
			victim := FrameID(idx)
			c.hand++
			return &victim
		}
	}
	return nil
}

// Unpin marks frame id eligible for victimization and sets its reference
// bit, indicating it was just used.
func (c *ClockReplacer) Unpin(id FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if uint32(id) >= uint32(len(c.frames)) {
		return
	}
	f := &c.frames[id]
	if f.pinned {
		f.pinned = false
		c.unpinnedCount++
	}
	f.referenced = true
}

// Pin marks frame id ineligible for victimization. Idempotent.
func (c *ClockReplacer) Pin(id FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if uint32(id) >= uint32(len(c.frames)) {
		return
	}
	f := &c.frames[id]
	if !f.pinned {
		c.unpinnedCount--
	}
	f.pinned = true
}

// Size returns the number of frames currently eligible for victimization.
func (c *ClockReplacer) Size() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unpinnedCount
}
