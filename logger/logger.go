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

// Package logger wraps logrus behind a small chainable Entry builder, the
// idiom used across the connection I/O core for every diagnostic callsite.
package logger

import (
	"os"
	"sync"

	loglvl "github.com/nabbar/redisio/logger/level"
	"github.com/sirupsen/logrus"
)

// FuncLog returns a Logger instance lazily; used for dependency injection at
// manager/bridge construction sites that accept a logger without forcing one
// to exist yet.
type FuncLog func() Logger

// Logger is the surface handed to every component that needs to report
// diagnostics: the manager, the write scheduler, the poll reader.
type Logger interface {
	SetLevel(lvl loglvl.Level)
	GetLevel() loglvl.Level

	SetFields(fields map[string]interface{})
	GetFields() map[string]interface{}

	Clone() Logger

	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warning(message string, args ...interface{})
	Error(message string, args ...interface{})

	// Entry returns a chainable builder for a log line at the given level.
	Entry(lvl loglvl.Level, message string) Entry
}

type lgr struct {
	mu  sync.RWMutex
	lvl loglvl.Level
	fld map[string]interface{}
	log *logrus.Logger
}

// New returns a Logger backed by its own logrus.Logger writing to stdout.
func New() Logger {
	l := &lgr{
		fld: make(map[string]interface{}),
		log: logrus.New(),
	}

	l.log.SetOutput(os.Stdout)
	l.SetLevel(loglvl.InfoLevel)

	return l
}

var (
	defOnce sync.Once
	defInst Logger
)

// GetDefault returns the process-wide default logger, created lazily on
// first use so components built without an explicit logger still report
// somewhere.
func GetDefault() Logger {
	defOnce.Do(func() {
		defInst = New()
	})
	return defInst
}

func (l *lgr) SetLevel(lvl loglvl.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lvl = lvl
	l.log.SetLevel(lvl.Logrus())
}

func (l *lgr) GetLevel() loglvl.Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lvl
}

func (l *lgr) SetFields(fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fld = fields
}

func (l *lgr) GetFields() map[string]interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]interface{}, len(l.fld))
	for k, v := range l.fld {
		out[k] = v
	}
	return out
}

func (l *lgr) Clone() Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := &lgr{
		lvl: l.lvl,
		fld: l.GetFields(),
		log: l.log,
	}
	return n
}

func (l *lgr) Entry(lvl loglvl.Level, message string) Entry {
	e := newEntry(lvl, message)
	e.SetLogger(func() *logrus.Logger {
		// logrus has no level that disables output, so NilLevel is enforced here.
		if l.GetLevel() == loglvl.NilLevel {
			return nil
		}
		return l.log
	})
	e.FieldMerge(l.GetFields())
	return e
}

func (l *lgr) Debug(message string, args ...interface{}) {
	l.Entry(loglvl.DebugLevel, message).FieldAdd("args", args).Log()
}

func (l *lgr) Info(message string, args ...interface{}) {
	l.Entry(loglvl.InfoLevel, message).FieldAdd("args", args).Log()
}

func (l *lgr) Warning(message string, args ...interface{}) {
	l.Entry(loglvl.WarnLevel, message).FieldAdd("args", args).Log()
}

func (l *lgr) Error(message string, args ...interface{}) {
	l.Entry(loglvl.ErrorLevel, message).FieldAdd("args", args).Log()
}
