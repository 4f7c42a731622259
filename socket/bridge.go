/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package socket

import "sync/atomic"

// WriteResult is returned by Bridge.WriteQueue to tell the scheduler what to
// do with the bridge next.
type WriteResult uint8

const (
	// MoreWork: bytes were written; more remain, or the budget ran out first.
	MoreWork WriteResult = iota
	// QueueEmptyAfterWrite: the bridge wrote something and its queue is now
	// empty, but removal has not yet been confirmed.
	QueueEmptyAfterWrite
	// NothingToDo: there was nothing to write on entry.
	NothingToDo
	// CompetingWriter: another thread already holds this bridge's write lock.
	CompetingWriter
	// NoConnection: the bridge is not connected; the scheduler must forget it.
	NoConnection
)

// Bridge is the write side of the callback contract: the manager's write
// scheduler drives a Bridge through WriteQueue and the confirm-remove
// handshake. Implementations embed Queued to get the CAS-guarded FIFO
// membership flag for free.
type Bridge interface {
	// WriteQueue drains up to budgetMs worth of queued writes and reports
	// what the scheduler should do next. A budgetMs of 0 means unbounded
	// (used by helper threads).
	WriteQueue(budgetMs int) WriteResult

	// ConfirmRemoveFromWriteQueue returns true iff the bridge is definitively
	// idle: nothing was enqueued between the writer observing NothingToDo
	// and this call. A false return means the scheduler must re-enqueue. On
	// a true return the scheduler itself clears the queued flag; bridges
	// never need to touch it directly.
	ConfirmRemoveFromWriteQueue() bool

	// casQueued is the single-slot fairness flag: a bridge may occupy the
	// write FIFO at most once unless a forced RequestWrite bypasses it.
	casQueued(old, new int32) bool
	clearQueued()
}

// Queued is an embeddable implementation of the queued flag every Bridge
// needs; most bridges can embed this rather than reimplementing the CAS
// dance.
type Queued struct {
	queued int32
}

func (q *Queued) casQueued(old, new int32) bool {
	return atomic.CompareAndSwapInt32(&q.queued, old, new)
}

func (q *Queued) clearQueued() {
	atomic.StoreInt32(&q.queued, 0)
}

// IsQueued reports whether the bridge currently occupies a write-FIFO slot.
func (q *Queued) IsQueued() bool {
	return atomic.LoadInt32(&q.queued) == 1
}
