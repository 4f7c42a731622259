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

package socket_test

import (
	"net"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sck "github.com/nabbar/redisio/socket"
)

// dead sockets (S6): a socket that goes bad between readiness cycles must be
// reported exactly once, removed from the lookup, and never selected on
// again. A net.Pipe cannot stand in here: the poll reader drives unix.Select
// against real file descriptors, which a pipe does not expose.
var _ = Describe("poll reader dead-socket cull", func() {
	var (
		ln net.Listener
		m  *sck.SocketManager
	)

	BeforeEach(func() {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())

		m = sck.Construct("poll-dead-socket", false, nil)
	})

	AfterEach(func() {
		_ = ln.Close()
		m.Dispose()
		m.Wait()
	})

	It("reports a reset connection once and stops selecting it (S6)", func() {
		accepted := make(chan net.Conn, 1)
		go func() {
			c, err := ln.Accept()
			if err == nil {
				accepted <- c
			}
		}()

		cb := &recordingCallback{acceptConnect: true}
		token, err := m.BeginConnectAsync(ln.Addr().String(), cb, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(token.Valid()).To(BeTrue())

		Eventually(func() int32 { return atomic.LoadInt32(&cb.connected) }, time.Second).Should(Equal(int32(1)))

		var serverConn net.Conn
		Eventually(accepted, time.Second).Should(Receive(&serverConn))

		// Force a RST instead of a clean FIN, so the client socket observes a
		// real SO_ERROR rather than a plain EOF.
		if tc, ok := serverConn.(*net.TCPConn); ok {
			_ = tc.SetLinger(0)
		}
		Expect(serverConn.Close()).ToNot(HaveOccurred())

		Eventually(func() int32 { return atomic.LoadInt32(&cb.errored) }, 2*time.Second, 20*time.Millisecond).
			Should(Equal(int32(1)))

		// The dead entry must have been dropped from the lookup in the same
		// cycle it was reported: if it were still handed to select, it would
		// keep re-reporting Error every cycle instead of reporting it once.
		Consistently(func() int32 { return atomic.LoadInt32(&cb.errored) }, 500*time.Millisecond, 50*time.Millisecond).
			Should(Equal(int32(1)))
	})
})
