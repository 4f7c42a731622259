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

// Package socket is the connection I/O core of a client for a single-server
// command/reply TCP protocol. It multiplexes many logical connections over
// OS sockets, pumps outbound writes from per-connection queues, and drains
// inbound replies without starving any connection under concurrent load.
//
// The package never parses protocol bytes and never decides retry or command
// semantics: its public surface is SocketManager plus the Callback contract
// a caller implements once per logical connection (a "bridge").
package socket

import (
	"errors"
	"strings"
)

// DefaultBufferSize is a sane default read-buffer size for bridges that have
// no better estimate of their protocol's typical reply size.
const DefaultBufferSize = 32 * 1024

// EOL is the newline byte, offered for bridges that frame on newlines.
const EOL byte = '\n'

var (
	// ErrDisposed is returned by manager operations attempted after Dispose.
	ErrDisposed = errors.New("socket: manager disposed")
	// ErrAddress is returned when an endpoint cannot be parsed or resolved.
	ErrAddress = errors.New("socket: invalid address")
	// ErrNoConnection names the condition of an operation targeting a bridge
	// that is no longer connected. Nothing in this package returns it.
	ErrNoConnection = errors.New("socket: no connection")
)

// ErrorFilter squelches the benign close-races every socket shutdown path
// produces ("use of closed network connection"), so bridges reading the
// error returned by a Read/Write call don't each need to special-case it.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "use of closed network connection") {
		return nil
	}

	return err
}

// ConnState enumerates the lifecycle phases of a single bridge's connection.
// It is finer-grained than ManagerState, which describes the poll reader's
// own phase instead. The manager does not report these states itself: no
// Callback method carries a ConnState.
type ConnState uint8

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionCloseRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseWrite
	ConnectionClose
)

func (c ConnState) String() string {
	switch c {
	case ConnectionDial:
		return "Dial Connection"
	case ConnectionNew:
		return "New Connection"
	case ConnectionRead:
		return "Read Incoming Stream"
	case ConnectionCloseRead:
		return "Close Incoming Stream"
	case ConnectionHandler:
		return "Run HandlerFunc"
	case ConnectionWrite:
		return "Write Outgoing Steam"
	case ConnectionCloseWrite:
		return "Close Outgoing Stream"
	case ConnectionClose:
		return "Close Connection"
	}

	return "unknown connection state"
}
