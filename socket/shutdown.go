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

import "net"

// Shutdown closes conn, squelching the benign close-race errors every
// shutdown path produces. Used internally by the connect path, by
// SocketManager.Shutdown and by the poll reader's dead-socket removal; a
// bridge closing its own connection can call this too since it is
// idempotent on an already-closed conn.
func Shutdown(conn net.Conn) error {
	if conn == nil {
		return nil
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
		_ = tc.CloseRead()
	}

	return ErrorFilter(conn.Close())
}

// Shutdown tears down the connection identified by token: removal from the
// sync-regime lookup (so the poll reader never dispatches to a closed
// descriptor), then platform shutdown of both directions, then close. Only
// tokens present in the lookup are known to the manager: in async regime
// nothing is registered there, so Shutdown returns nil without closing
// anything. A Shutdown on an already-shut token is a no-op.
func (m *SocketManager) Shutdown(token SocketToken) error {
	m.lMu.Lock()
	cs, ok := m.lookup[token]
	if ok {
		delete(m.lookup, token)
	}
	m.lMu.Unlock()

	if !ok {
		return nil
	}

	return Shutdown(cs.conn)
}
