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

//go:build windows

package socket

import (
	"net"
	"unsafe"

	"golang.org/x/sys/windows"
)

// SIO_LOOPBACK_FAST_PATH shortcuts the loopback send path on Windows 8 /
// Server 2012 and later; older systems reject the ioctl and tuneSocket
// swallows that failure rather than treat it as fatal.
const sioLoopbackFastPath = windows.IOC_IN | windows.IOC_VENDOR | 16

func tuneSocket(tc *net.TCPConn) error {
	raw, err := tc.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		h := windows.Handle(fd)

		enable := uint32(1)
		_ = windows.SetsockoptInt(h, windows.SOL_SOCKET, windows.SO_KEEPALIVE, 1)

		var bytesReturned uint32
		_ = windows.WSAIoctl(
			h,
			sioLoopbackFastPath,
			(*byte)(unsafe.Pointer(&enable)),
			4,
			nil,
			0,
			&bytesReturned,
			nil,
			0,
		)

		if e := windows.SetsockoptInt(h, windows.IPPROTO_TCP, windows.TCP_NODELAY, 1); e != nil {
			sockErr = e
			return
		}
	})

	if ctrlErr != nil {
		return ctrlErr
	}
	return sockErr
}
