/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package logger

import (
	"sync"

	loglvl "github.com/nabbar/redisio/logger/level"
	"github.com/sirupsen/logrus"
)

// Entry is a chainable builder for a single log line. Call Log to emit it.
type Entry interface {
	SetLogger(fct func() *logrus.Logger) Entry
	SetLevel(lvl loglvl.Level) Entry

	FieldAdd(key string, val interface{}) Entry
	FieldMerge(fields map[string]interface{}) Entry
	FieldSet(fields map[string]interface{}) Entry
	FieldClean() Entry

	ErrorAdd(critical bool, err error) Entry
	ErrorClean() Entry

	// Check reports true when the entry carries at least one error; otherwise
	// it reports whether lvlNoErr is a level other than NilLevel. The entry's
	// own level is not consulted.
	Check(lvlNoErr loglvl.Level) bool

	// Log emits the entry if its level passes the logger's configured level.
	Log()
}

type entry struct {
	mu  sync.Mutex
	fct func() *logrus.Logger
	lvl loglvl.Level
	msg string
	fld map[string]interface{}
	err []error
}

func newEntry(lvl loglvl.Level, msg string) Entry {
	return &entry{
		lvl: lvl,
		msg: msg,
		fld: make(map[string]interface{}),
	}
}

func (e *entry) SetLogger(fct func() *logrus.Logger) Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fct = fct
	return e
}

func (e *entry) SetLevel(lvl loglvl.Level) Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lvl = lvl
	return e
}

func (e *entry) FieldAdd(key string, val interface{}) Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fld[key] = val
	return e
}

func (e *entry) FieldMerge(fields map[string]interface{}) Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range fields {
		e.fld[k] = v
	}
	return e
}

func (e *entry) FieldSet(fields map[string]interface{}) Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fld = fields
	return e
}

func (e *entry) FieldClean() Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fld = make(map[string]interface{})
	return e
}

func (e *entry) ErrorAdd(critical bool, err error) Entry {
	if err == nil {
		return e
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.err = append(e.err, err)

	if critical && e.lvl > loglvl.ErrorLevel {
		e.lvl = loglvl.ErrorLevel
	}

	return e
}

func (e *entry) ErrorClean() Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = nil
	return e
}

func (e *entry) Check(lvlNoErr loglvl.Level) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.err) > 0 {
		return true
	}

	return lvlNoErr != loglvl.NilLevel
}

func (e *entry) Log() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lvl == loglvl.NilLevel || e.fct == nil {
		return
	}

	lg := e.fct()
	if lg == nil {
		return
	}

	fld := make(logrus.Fields, len(e.fld)+1)
	for k, v := range e.fld {
		fld[k] = v
	}

	if len(e.err) > 0 {
		fld["errors"] = e.err
	}

	lg.WithFields(fld).Log(e.lvl.Logrus(), e.msg)
}
