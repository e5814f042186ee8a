// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import (
	"github.com/sasha-s/go-deadlock"
)

// ReaderWriterLatch guards a page image, or a table-wide structure, for
// concurrent readers and an exclusive writer.
type ReaderWriterLatch interface {
	WLock()
	WUnlock()
	RLock()
	RUnlock()
}

type readerWriterLatch struct {
	mutex deadlock.RWMutex
}

// NewRWLatch returns a deadlock-detecting reader/writer latch, or, when
// EnableDebug is set, the single-threaded assertion-heavy dummy latch
// instead. Every production latch in the pool and the hash index goes
// through go-deadlock rather than sync.RWMutex directly, because the
// table -> header -> block latch ordering in the hash index is exactly
// the kind of protocol that silently deadlocks when two call sites
// disagree on ordering.
func NewRWLatch() ReaderWriterLatch {
	if EnableDebug {
		return NewRWLatchDummy()
	}
	return &readerWriterLatch{}
}

func (l *readerWriterLatch) WLock() {
	l.mutex.Lock()
}

func (l *readerWriterLatch) WUnlock() {
	l.mutex.Unlock()
}

func (l *readerWriterLatch) RLock() {
	l.mutex.RLock()
}

func (l *readerWriterLatch) RUnlock() {
	l.mutex.RUnlock()
}

// readerWriterLatchDummy is a single-threaded, assertion-heavy stand-in
// used under EnableDebug to catch a latch held twice without the overhead
// (and the cross-goroutine false positives) of deadlock detection.
type readerWriterLatchDummy struct {
	readerCnt int32
	writerCnt int32
}

func NewRWLatchDummy() ReaderWriterLatch {
	return &readerWriterLatchDummy{}
}

func (l *readerWriterLatchDummy) WLock() {
	l.writerCnt++
	SH_Assert(l.writerCnt == 1, "double Write Lock!")
}

func (l *readerWriterLatchDummy) WUnlock() {
	l.writerCnt--
	SH_Assert(l.writerCnt == 0, "double Write Unlock!")
}

func (l *readerWriterLatchDummy) RLock() {
	l.readerCnt++
}

func (l *readerWriterLatchDummy) RUnlock() {
	l.readerCnt--
	SH_Assert(l.readerCnt >= 0, "unbalanced Reader Unlock!")
}
