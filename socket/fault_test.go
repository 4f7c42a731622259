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
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	sck "github.com/nabbar/redisio/socket"
)

var _ = Describe("Fault", func() {
	It("formats kind and cause together", func() {
		f := sck.NewFault(sck.FaultConnection, fmt.Errorf("reset by peer"))
		Expect(f.Error()).To(Equal("connection fault: reset by peer"))
	})

	It("formats a nil cause using only the kind", func() {
		f := sck.NewFault(sck.FaultDisposed, nil)
		Expect(f.Error()).To(Equal("disposed"))
	})

	It("unwraps to the original cause for errors.Is", func() {
		cause := errors.New("boom")
		f := sck.NewFault(sck.FaultCallback, cause)
		Expect(errors.Is(f, cause)).To(BeTrue())
	})

	DescribeTable("FaultKind.String",
		func(kind sck.FaultKind, want string) {
			Expect(kind.String()).To(Equal(want))
		},
		Entry("transient readiness", sck.FaultTransientReadiness, "transient readiness"),
		Entry("callback", sck.FaultCallback, "callback fault"),
		Entry("connection", sck.FaultConnection, "connection fault"),
		Entry("disposed", sck.FaultDisposed, "disposed"),
		Entry("oom", sck.FaultOOM, "out of memory"),
		Entry("platform unsupported", sck.FaultPlatformUnsupported, "platform not supported"),
		Entry("unknown", sck.FaultKind(255), "unknown fault"),
	)
})
