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

	liblog "github.com/nabbar/redisio/logger"
	sck "github.com/nabbar/redisio/socket"
)

// recordingCallback records which Callback methods fired, for assertions
// against a real loopback connection. A net.Pipe cannot stand in here: the
// poll reader drives unix.Select against real file descriptors, which a pipe
// does not expose.
type recordingCallback struct {
	connected     int32
	started       int32
	errored       int32
	lastErr       error
	acceptConnect bool
}

func (r *recordingCallback) ConnectedAsync(_ net.Conn, _ liblog.Logger) bool {
	atomic.AddInt32(&r.connected, 1)
	return r.acceptConnect
}

func (r *recordingCallback) Read()                                  {}
func (r *recordingCallback) StartReading()                          { atomic.AddInt32(&r.started, 1) }
func (r *recordingCallback) OnHeartbeat()                           {}
func (r *recordingCallback) CheckForStaleConnection(_ sck.ManagerState) {}
func (r *recordingCallback) IsDataAvailable() bool                  { return false }

func (r *recordingCallback) Error(err error) {
	atomic.AddInt32(&r.errored, 1)
	r.lastErr = err
}

var _ = Describe("BeginConnectAsync", func() {
	var (
		ln net.Listener
		m  *sck.SocketManager
	)

	BeforeEach(func() {
		var err error
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())

		go func() {
			for {
				c, err := ln.Accept()
				if err != nil {
					return
				}
				_ = c
			}
		}()

		m = sck.Construct("connect-test", false, nil)
	})

	AfterEach(func() {
		_ = ln.Close()
		m.Dispose()
		m.Wait()
	})

	It("dials a live listener and hands the connection to the bridge", func() {
		cb := &recordingCallback{acceptConnect: true}

		token, err := m.BeginConnectAsync(ln.Addr().String(), cb, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(token.Valid()).To(BeTrue())
		Eventually(func() int32 { return atomic.LoadInt32(&cb.connected) }, time.Second).Should(Equal(int32(1)))
		Expect(atomic.LoadInt32(&cb.errored)).To(Equal(int32(0)))
	})

	It("shuts the connection down and reports no token when the bridge rejects it", func() {
		cb := &recordingCallback{acceptConnect: false}

		token, err := m.BeginConnectAsync(ln.Addr().String(), cb, nil)
		Expect(err).To(HaveOccurred())
		Expect(token.Valid()).To(BeFalse())
	})

	It("fails fast on an unreachable address without touching the bridge's ConnectedAsync", func() {
		cb := &recordingCallback{acceptConnect: true}

		_, err := m.BeginConnectAsync("127.0.0.1:1", cb, nil)
		Expect(err).To(HaveOccurred())
		Expect(atomic.LoadInt32(&cb.connected)).To(Equal(int32(0)))
	})

	It("refuses to dial once disposed, surfacing ErrDisposed through Error", func() {
		cb := &recordingCallback{acceptConnect: true}
		m.Dispose()

		token, err := m.BeginConnectAsync(ln.Addr().String(), cb, nil)
		Expect(err).To(HaveOccurred())
		Expect(token.Valid()).To(BeFalse())
		Expect(atomic.LoadInt32(&cb.errored)).To(Equal(int32(1)))
		Expect(cb.lastErr).To(HaveOccurred())
	})
})
