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
	"runtime"
	"strings"

	loglvl "github.com/nabbar/redisio/logger/level"
)

// safeCall invokes fn and recovers any panic so one bridge's fault cannot
// crash the writer or the poll reader. A recovered out-of-memory condition is
// re-panicked: it is never swallowed, everywhere else.
func (m *SocketManager) safeCall(site string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if isOOM(r) {
				panic(r)
			}
			m.log.Entry(loglvl.ErrorLevel, "callback fault").
				FieldAdd("site", site).
				FieldAdd("recovered", r).
				Log()
		}
	}()

	fn()
}

func isOOM(r interface{}) bool {
	if err, ok := r.(runtime.Error); ok {
		return strings.Contains(err.Error(), "out of memory")
	}
	return false
}
