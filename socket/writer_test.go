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
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sck "github.com/nabbar/redisio/socket"
)

// blockingBridge drains exactly one call to WriteQueue and blocks on release,
// letting a test assert that a concurrent RequestWrite finds the bridge
// already occupying its single FIFO slot.
type blockingBridge struct {
	sck.Queued

	calls   int32
	release chan struct{}
	result  sck.WriteResult
}

func newBlockingBridge(result sck.WriteResult) *blockingBridge {
	return &blockingBridge{release: make(chan struct{}), result: result}
}

func (b *blockingBridge) WriteQueue(_ int) sck.WriteResult {
	atomic.AddInt32(&b.calls, 1)
	<-b.release
	return b.result
}

func (b *blockingBridge) ConfirmRemoveFromWriteQueue() bool {
	return true
}

// countingBridge never blocks; it reports the WriteResults in sequence, one
// per call (repeating the last one), useful for exercising the dispatch table.
type countingBridge struct {
	sck.Queued

	calls     int32
	sequence  []sck.WriteResult
	confirmed int32
}

func (c *countingBridge) WriteQueue(_ int) sck.WriteResult {
	i := atomic.AddInt32(&c.calls, 1) - 1
	if int(i) >= len(c.sequence) {
		return c.sequence[len(c.sequence)-1]
	}
	return c.sequence[i]
}

func (c *countingBridge) ConfirmRemoveFromWriteQueue() bool {
	atomic.AddInt32(&c.confirmed, 1)
	return true
}

var _ = Describe("write scheduler", func() {
	var m *sck.SocketManager

	AfterEach(func() {
		if m != nil {
			m.Dispose()
			m.Wait()
		}
	})

	It("enforces single-slot fairness: a second non-forced RequestWrite is a no-op while queued", func() {
		m = sck.Construct("writer-fairness", false, nil)
		b := newBlockingBridge(sck.NothingToDo)

		m.RequestWrite(b, false)
		Eventually(func() int32 { return atomic.LoadInt32(&b.calls) }, time.Second).Should(Equal(int32(1)))

		m.RequestWrite(b, false)
		Consistently(func() int32 { return atomic.LoadInt32(&b.calls) }, 150*time.Millisecond).Should(Equal(int32(1)))

		close(b.release)
	})

	It("drains a bridge reporting NothingToDo exactly once and confirms removal", func() {
		m = sck.Construct("writer-nothingtodo", false, nil)
		c := &countingBridge{sequence: []sck.WriteResult{sck.NothingToDo}}

		m.RequestWrite(c, false)
		Eventually(func() int32 { return atomic.LoadInt32(&c.confirmed) }, time.Second).Should(Equal(int32(1)))
		Expect(atomic.LoadInt32(&c.calls)).To(Equal(int32(1)))
	})

	It("re-enqueues a bridge until it reports NothingToDo (no lost work)", func() {
		m = sck.Construct("writer-morework", false, nil)
		c := &countingBridge{sequence: []sck.WriteResult{
			sck.MoreWork, sck.MoreWork, sck.QueueEmptyAfterWrite, sck.NothingToDo,
		}}

		m.RequestWrite(c, false)
		Eventually(func() int32 { return atomic.LoadInt32(&c.confirmed) }, time.Second).Should(Equal(int32(1)))
		Expect(atomic.LoadInt32(&c.calls)).To(Equal(int32(4)))
	})

	It("forgets a bridge on NoConnection without re-enqueueing", func() {
		m = sck.Construct("writer-noconn", false, nil)
		c := &countingBridge{sequence: []sck.WriteResult{sck.NoConnection}}

		m.RequestWrite(c, false)
		Eventually(func() int32 { return atomic.LoadInt32(&c.calls) }, time.Second).Should(Equal(int32(1)))
		Consistently(func() int32 { return atomic.LoadInt32(&c.calls) }, 150*time.Millisecond).Should(Equal(int32(1)))
		Expect(c.IsQueued()).To(BeFalse())
	})

	It("allows a forced RequestWrite to enqueue a bridge a second time", func() {
		m = sck.Construct("writer-forced", false, nil)
		c := &countingBridge{sequence: []sck.WriteResult{sck.NothingToDo, sck.NothingToDo}}

		m.RequestWrite(c, false)
		Eventually(func() int32 { return atomic.LoadInt32(&c.confirmed) }, time.Second).Should(Equal(int32(1)))

		m.RequestWrite(c, true)
		Eventually(func() int32 { return atomic.LoadInt32(&c.confirmed) }, time.Second).Should(Equal(int32(2)))
	})

	It("spawns a helper thread once the FIFO depth reaches 2 (S2)", func() {
		m = sck.Construct("writer-helper-spawn", false, nil)

		a := newBlockingBridge(sck.NothingToDo)
		m.RequestWrite(a, false)
		Eventually(func() int32 { return atomic.LoadInt32(&a.calls) }, time.Second).
			Should(Equal(int32(1)), "dedicated writer should have dequeued a and blocked inside its WriteQueue")

		b := &countingBridge{sequence: []sck.WriteResult{sck.NothingToDo}}
		c := &countingBridge{sequence: []sck.WriteResult{sck.NothingToDo}}

		// b alone only reaches FIFO depth 1 (a is already out of the queue,
		// blocked in the dedicated writer) - no helper yet.
		m.RequestWrite(b, false)
		Consistently(func() int32 { return atomic.LoadInt32(&b.confirmed) }, 100*time.Millisecond).Should(Equal(int32(0)))

		// c pushes depth to 2, which must spawn a helper thread that drains
		// the queue head (b) concurrently with the dedicated writer still
		// blocked on a. b must finish before a is released.
		m.RequestWrite(c, false)
		Eventually(func() int32 { return atomic.LoadInt32(&b.confirmed) }, time.Second).Should(Equal(int32(1)))
		Expect(atomic.LoadInt32(&c.confirmed)).To(Equal(int32(0)), "c should still await the dedicated writer")

		close(a.release)
		Eventually(func() int32 { return atomic.LoadInt32(&c.confirmed) }, time.Second).Should(Equal(int32(1)))
	})

	It("lets a short bridge finish without waiting behind a long-running one (S3)", func() {
		m = sck.Construct("writer-fairness-backlog", false, nil)

		slow := newBlockingBridge(sck.NothingToDo)
		m.RequestWrite(slow, false)
		Eventually(func() int32 { return atomic.LoadInt32(&slow.calls) }, time.Second).
			Should(Equal(int32(1)), "dedicated writer should be occupied draining the slow bridge")

		fast := &countingBridge{sequence: []sck.WriteResult{sck.NothingToDo}}
		filler := &countingBridge{sequence: []sck.WriteResult{sck.NothingToDo}}

		start := time.Now()
		m.RequestWrite(fast, false)
		m.RequestWrite(filler, false)

		Eventually(func() int32 { return atomic.LoadInt32(&fast.confirmed) }, time.Second).Should(Equal(int32(1)))
		Expect(time.Since(start)).To(BeNumerically("<", 500*time.Millisecond),
			"fast bridge must not wait behind the slow bridge's unbounded backlog")

		close(slow.release)
	})
})
