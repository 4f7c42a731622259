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
	"runtime"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"

	sck "github.com/nabbar/redisio/socket"
)

var _ = Describe("SocketManager", func() {
	It("defaults its name when constructed with an empty one", func() {
		m := sck.Construct("", false, nil)
		defer func() { m.Dispose(); m.Wait() }()

		Expect(m.Name()).To(Equal("socket-manager"))
	})

	It("keeps the caller's name", func() {
		m := sck.Construct("my-pool", false, nil)
		defer func() { m.Dispose(); m.Wait() }()

		Expect(m.Name()).To(Equal("my-pool"))
	})

	It("assigns a non-nil instance id", func() {
		m := sck.Construct("id-check", false, nil)
		defer func() { m.Dispose(); m.Wait() }()

		Expect(m.ID()).ToNot(Equal(uuid.UUID{}))
	})

	It("selects Sync regime on every non-Windows host", func() {
		if runtime.GOOS == "windows" {
			Skip("regime is Async on windows")
		}

		m := sck.Construct("regime-check", false, nil)
		defer func() { m.Dispose(); m.Wait() }()

		Expect(m.Regime()).To(Equal(sck.Sync))
	})

	It("is idempotent under repeated Dispose", func() {
		m := sck.Construct("dispose-idem", false, nil)

		Expect(func() {
			m.Dispose()
			m.Dispose()
			m.Dispose()
		}).ToNot(Panic())

		done := make(chan struct{})
		go func() {
			m.Wait()
			close(done)
		}()

		Eventually(done, 2*time.Second).Should(BeClosed())
	})

	It("reports ManagerState as Idle before any socket is registered", func() {
		m := sck.Construct("state-check", false, nil)
		defer func() { m.Dispose(); m.Wait() }()

		Expect(m.State()).To(Equal(sck.StateIdle))
	})
})
