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
	"fmt"
	"net"

	"github.com/google/uuid"
)

// SocketToken is an opaque handle wrapping a raw OS socket file descriptor.
// It is the key used by the sync-regime lookup table and is never dereferenced
// by the manager itself; only the connect/poll/shutdown paths touch the
// underlying descriptor.
type SocketToken uintptr

// InvalidToken is returned by BeginConnectAsync when no connection was
// established and handed off to the manager.
const InvalidToken SocketToken = 0

func (t SocketToken) String() string {
	return fmt.Sprintf("socket#%d", uintptr(t))
}

func (t SocketToken) Valid() bool {
	return t != InvalidToken
}

// connSocket pairs an established net.Conn with the SocketToken the manager
// uses to key its lookup table, plus the callback the manager dispatches to.
type connSocket struct {
	token  SocketToken
	conn   net.Conn
	cb     Callback
	corrID uuid.UUID
}
