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

import (
	"sync/atomic"
)

// writeBudgetMs is the dedicated writer's default per-bridge time slice in
// milliseconds, used when no ManagerConfig override is supplied.
const writeBudgetMs = 200

// RequestWrite enqueues bridge for write service. If forced is false and the
// bridge already occupies a FIFO slot (queued flag already 1), the call is a
// no-op: single-slot fairness guarantees a bridge never appears twice. If the
// FIFO depth reaches >= 2 after enqueueing, a one-shot helper thread is
// spawned (up to maxHelpers) to drain in parallel with the dedicated writer.
func (m *SocketManager) RequestWrite(b Bridge, forced bool) {
	if m.isDisposed() {
		return
	}

	if !forced {
		// single-slot fairness: CAS 0->1 fails (no-op) if already queued.
		if !b.casQueued(0, 1) {
			return
		}
	} else {
		// forced bypasses the single-slot check but still needs queued==1
		// so a concurrent non-forced RequestWrite doesn't also enqueue it.
		b.casQueued(0, 1)
	}

	m.wMu.Lock()
	m.wQueue = append(m.wQueue, b)
	depth := len(m.wQueue)
	if depth == 1 {
		m.wCond.Signal()
	}
	spawnHelper := depth >= 2 && atomic.LoadInt32(&m.helper) < m.maxHelperCap
	if spawnHelper {
		atomic.AddInt32(&m.helper, 1)
	}
	m.wMu.Unlock()

	if spawnHelper {
		m.wg.Add(1)
		go m.writeOneQueue()
	}
}

// dequeueLocked pops the head of the FIFO. Caller must hold wMu.
func (m *SocketManager) dequeueLocked() (Bridge, bool) {
	if len(m.wQueue) == 0 {
		return nil, false
	}

	b := m.wQueue[0]
	m.wQueue = m.wQueue[1:]
	return b, true
}

func (m *SocketManager) enqueueTailLocked(b Bridge) {
	m.wQueue = append(m.wQueue, b)
}

// writeAllQueues is the single dedicated writer thread started by Construct
// and run for the manager's entire lifetime.
func (m *SocketManager) writeAllQueues() {
	defer m.wg.Done()

	if m.highPriority {
		raiseThreadPriority(m.log)
	}

	for {
		m.wMu.Lock()
		for len(m.wQueue) == 0 && !m.isDisposed() {
			m.wCond.Wait()
		}

		if len(m.wQueue) == 0 && m.isDisposed() {
			m.wMu.Unlock()
			return
		}

		b, ok := m.dequeueLocked()
		m.wMu.Unlock()

		if !ok {
			continue
		}

		m.drainOne(b, int(m.writeBudget.Milliseconds()))
	}
}

// writeOneQueue is a one-shot helper thread: it drains a single bridge with
// an unbounded budget, looping while the bridge reports more work, then
// exits. Helpers absorb write bursts without letting the dedicated writer
// fall behind.
func (m *SocketManager) writeOneQueue() {
	defer m.wg.Done()
	defer atomic.AddInt32(&m.helper, -1)

	m.wMu.Lock()
	b, ok := m.dequeueLocked()
	m.wMu.Unlock()

	if !ok {
		return
	}

	for {
		result := b.WriteQueue(0)

		switch result {
		case MoreWork:
			continue
		case CompetingWriter, NoConnection:
			if result == NoConnection {
				b.clearQueued()
			}
			return
		case NothingToDo, QueueEmptyAfterWrite:
			if b.ConfirmRemoveFromWriteQueue() {
				b.clearQueued()
				return
			}
			continue
		default:
			return
		}
	}
}

// drainOne implements the dedicated writer's per-bridge dispatch table from
// the write result: re-enqueue for more work, confirm removal, or drop the
// bridge entirely on NoConnection/CompetingWriter.
func (m *SocketManager) drainOne(b Bridge, budgetMs int) {
	result := b.WriteQueue(budgetMs)

	switch result {
	case MoreWork, QueueEmptyAfterWrite:
		m.wMu.Lock()
		m.enqueueTailLocked(b)
		m.wMu.Unlock()

	case NothingToDo:
		if b.ConfirmRemoveFromWriteQueue() {
			b.clearQueued()
		} else {
			m.wMu.Lock()
			m.enqueueTailLocked(b)
			m.wMu.Unlock()
		}

	case CompetingWriter:
		// another thread is already draining this bridge; drop our slot.

	case NoConnection:
		b.clearQueued()
	}
}
