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
	"sync/atomic"

	"github.com/google/uuid"
)

// addSocket inserts token into the sync-regime lookup table and starts the
// poll reader if the lookup was empty and no reader is currently running.
// It is a no-op in async regime.
func (m *SocketManager) addSocket(token SocketToken, conn net.Conn, cb Callback, corrID uuid.UUID) {
	if m.regime != Sync {
		return
	}

	m.lMu.Lock()
	wasEmpty := len(m.lookup) == 0
	m.lookup[token] = &connSocket{token: token, conn: conn, cb: cb, corrID: corrID}
	m.lCond.Broadcast()
	m.lMu.Unlock()

	if wasEmpty && atomic.CompareAndSwapInt32(&m.readerN, 0, 1) {
		m.wg.Add(1)
		go m.runPollReader()
	}
}

// removeSocketLocked deletes token from the lookup. Caller must hold lMu.
func (m *SocketManager) removeSocketLocked(token SocketToken) {
	delete(m.lookup, token)
}

// removeDeadSocket removes token from the lookup and shuts down its
// connection. Used by the poll reader once it has reported a socket as dead
// (via the errReady dispatch or the locateActiveSockets liveness probe) so
// the descriptor is never selected on again.
func (m *SocketManager) removeDeadSocket(token SocketToken) {
	m.lMu.Lock()
	cs, ok := m.lookup[token]
	if ok {
		m.removeSocketLocked(token)
	}
	m.lMu.Unlock()

	if ok {
		_ = Shutdown(cs.conn)
	}
}

// snapshotActiveLocked copies every lookup entry under the caller-held lMu,
// returning a defensive copy safe to use without the lock. It does not check
// liveness; locateActiveSockets separates active from dead entries.
func (m *SocketManager) snapshotActiveLocked() []*connSocket {
	out := make([]*connSocket, 0, len(m.lookup))
	for _, cs := range m.lookup {
		out = append(out, cs)
	}
	return out
}
