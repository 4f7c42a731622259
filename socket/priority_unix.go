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
	"runtime"

	"golang.org/x/sys/unix"

	liblog "github.com/nabbar/redisio/logger"
	loglvl "github.com/nabbar/redisio/logger/level"
)

// raiseThreadPriority pins the calling goroutine to its own OS thread and
// lowers its nice value, so the writer and poll-reader threads of a
// highPriority manager are scheduled ahead of the general worker pool. A
// failure here (e.g. CAP_SYS_NICE missing) is logged and otherwise ignored:
// priority is an optimization, not a correctness requirement.
func raiseThreadPriority(log liblog.Logger) {
	runtime.LockOSThread()

	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, -5); err != nil {
		log.Entry(loglvl.WarnLevel, "raising thread priority").ErrorAdd(false, err).Log()
	}
}
