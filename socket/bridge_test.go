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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sck "github.com/nabbar/redisio/socket"
)

var _ = Describe("Queued", func() {
	It("starts unqueued", func() {
		var q sck.Queued
		Expect(q.IsQueued()).To(BeFalse())
	})
})

var _ = Describe("WriteResult", func() {
	It("defines the five outcomes the write scheduler dispatches on", func() {
		Expect(sck.MoreWork).To(Equal(sck.WriteResult(0)))
		Expect(sck.QueueEmptyAfterWrite).To(Equal(sck.WriteResult(1)))
		Expect(sck.NothingToDo).To(Equal(sck.WriteResult(2)))
		Expect(sck.CompetingWriter).To(Equal(sck.WriteResult(3)))
		Expect(sck.NoConnection).To(Equal(sck.WriteResult(4)))
	})
})
