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

//go:build !windows

package socket

import (
	"net"

	"golang.org/x/sys/unix"
)

// tuneSocket enables TCP keepalive and disables Nagle's algorithm via
// setsockopt. The 30s idle time is set on Linux and Darwin and the 1s probe
// interval on Linux only; on Darwin the interval, and on other unix targets
// both values, stay at the OS default.
func tuneSocket(tc *net.TCPConn) error {
	raw, err := tc.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		f := int(fd)

		if e := unix.SetsockoptInt(f, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); e != nil {
			sockErr = e
			return
		}
		if e := setKeepAliveIdle(f, int(keepAliveIdle.Seconds())); e != nil {
			sockErr = e
			return
		}
		if e := setKeepAliveInterval(f, int(keepAliveInterval.Seconds())); e != nil {
			sockErr = e
			return
		}
		if e := unix.SetsockoptInt(f, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); e != nil {
			sockErr = e
			return
		}
	})

	if ctrlErr != nil {
		return ctrlErr
	}
	return sockErr
}
