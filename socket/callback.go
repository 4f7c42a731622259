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
	"net"

	liblog "github.com/nabbar/redisio/logger"
)

// Callback is the contract a logical connection ("bridge") implements so the
// manager can drive it through connect, read and heartbeat events. The
// manager never parses what a bridge reads; it only tells the bridge when to
// look.
type Callback interface {
	// ConnectedAsync is called once after the TCP connect completes. The
	// bridge must return true to accept the connection; returning false (or
	// the connect path observing a panic) causes the socket to be shut down
	// and the connection abandoned.
	ConnectedAsync(conn net.Conn, log liblog.Logger) bool

	// Read is called when the poll reader (sync regime) observes readiness
	// on this bridge's socket. The bridge should read greedily while
	// IsDataAvailable reports true.
	Read()

	// StartReading is called once in async regime; the bridge arranges its
	// own read continuation and re-arms it on every completion.
	StartReading()

	// Error is called on a socket-level error, or defensively if the manager
	// is disposed while ConnectedAsync is in flight.
	Error(err error)

	// OnHeartbeat is called at the poll reader's >= 15s pace in sync regime.
	// Async-regime bridges are responsible for their own pacemaker.
	OnHeartbeat()

	// CheckForStaleConnection is called when a readiness cycle reports no
	// activity and no buffered data; the bridge may use this to declare the
	// connection stale and tear it down.
	CheckForStaleConnection(state ManagerState)

	// IsDataAvailable is a pure query: true iff bytes are buffered at the OS
	// or framing layer and have not yet been consumed by Read.
	IsDataAvailable() bool
}
