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

// ManagerState is the poll reader's own phase, readable without any lock so
// an operator or test can see where the reader is stuck without risking a
// deadlock against the very thread it is inspecting.
type ManagerState uint32

const (
	StateIdle ManagerState = iota
	StatePreparing
	StateCheckingHeartbeat
	StateLocatingSockets
	StateWaitingSockets
	StateExecutingSelect
	StateProcessingRead
	StateProcessingError
	StateProcessingStale
	StateStopped
)

func (s ManagerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreparing:
		return "preparing"
	case StateCheckingHeartbeat:
		return "checking heartbeat"
	case StateLocatingSockets:
		return "locating sockets"
	case StateWaitingSockets:
		return "waiting for sockets"
	case StateExecutingSelect:
		return "executing select"
	case StateProcessingRead:
		return "processing read"
	case StateProcessingError:
		return "processing error"
	case StateProcessingStale:
		return "processing stale connection"
	case StateStopped:
		return "stopped"
	}

	return "unknown"
}

// Regime is the manager's I/O style for reading, chosen once at construction.
type Regime uint8

const (
	// Sync: a manager-wide poll reader drives all reads (see poll_unix.go).
	Sync Regime = iota
	// Async: each bridge arranges its own OS async read continuation.
	Async
	// Abort: the manager failed to select a usable regime; it is inert.
	Abort
)

func (r Regime) String() string {
	switch r {
	case Sync:
		return "sync"
	case Async:
		return "async"
	case Abort:
		return "abort"
	}

	return "unknown"
}
