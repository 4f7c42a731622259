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
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	liblog "github.com/nabbar/redisio/logger"
	libcfg "github.com/nabbar/redisio/socket/config"
)

// SocketManager is the process-scoped owner of the write scheduler, the
// sync-regime poll reader, and the socket lookup table. It never parses
// protocol bytes: it only pumps readiness and write-budget events into the
// Callback/Bridge contract a caller provides per logical connection.
type SocketManager struct {
	id   uuid.UUID
	name string
	log  liblog.Logger

	highPriority bool
	regime       Regime

	disposed int32

	wMu    sync.Mutex
	wCond  *sync.Cond
	wQueue []Bridge
	helper int32 // count of live helper threads

	lMu     sync.Mutex
	lCond   *sync.Cond
	lookup  map[SocketToken]*connSocket
	readerN int32

	state          uint32
	lastErrorTicks int64
	lastHeartbeat  int64

	writeBudget  time.Duration
	heartbeat    time.Duration
	emptyLookup  time.Duration
	maxHelperCap int32

	wg sync.WaitGroup
}

// Construct builds a SocketManager with the package defaults, selects its
// regime from the host OS, and starts the single dedicated writer thread for
// its entire lifetime. name is used as a prefix for diagnostics; highPriority
// requests above-normal OS thread priority where the platform supports it.
func Construct(name string, highPriority bool, log liblog.Logger) *SocketManager {
	cfg := libcfg.DefaultManagerConfig()
	cfg.Name = name
	cfg.HighPriority = highPriority

	return ConstructWithConfig(cfg, log)
}

// ConstructWithConfig builds a SocketManager from a ManagerConfig, typically
// loaded via config.Load. A zero-value duration or helper cap in cfg falls
// back to the package default.
func ConstructWithConfig(cfg libcfg.ManagerConfig, log liblog.Logger) *SocketManager {
	if log == nil {
		log = liblog.GetDefault()
	}

	name := cfg.Name
	if name == "" {
		name = "socket-manager"
	}

	writeBudget := cfg.WriteBudget
	if writeBudget <= 0 {
		writeBudget = writeBudgetMs * time.Millisecond
	}

	heartbeat := cfg.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = heartbeatInterval
	}

	emptyLookup := cfg.EmptyLookupTimeout
	if emptyLookup <= 0 {
		emptyLookup = emptyLookupTimeout
	}

	maxHelperCap := int32(cfg.MaxHelpers)
	if maxHelperCap <= 0 {
		maxHelperCap = int32(runtime.NumCPU())
	}

	m := &SocketManager{
		id:           uuid.New(),
		name:         name,
		log:          log,
		highPriority: cfg.HighPriority,
		regime:       selectRegime(),
		wQueue:       make([]Bridge, 0, 16),
		lookup:       make(map[SocketToken]*connSocket),
		writeBudget:  writeBudget,
		heartbeat:    heartbeat,
		emptyLookup:  emptyLookup,
		maxHelperCap: maxHelperCap,
	}

	m.wCond = sync.NewCond(&m.wMu)
	m.lCond = sync.NewCond(&m.lMu)

	m.wg.Add(1)
	go m.writeAllQueues()

	return m
}

// selectRegime mirrors the spec's platform rationale: where async socket
// completions are dispatched by dedicated OS I/O threads (the Windows
// family), the manager rides that facility (Async). Elsewhere, a dedicated
// poll-reader thread avoids coupling reply latency to the host's general
// worker-pool load (Sync).
func selectRegime() Regime {
	if runtime.GOOS == "windows" {
		return Async
	}

	return Sync
}

func (m *SocketManager) Name() string {
	return m.name
}

func (m *SocketManager) ID() uuid.UUID {
	return m.id
}

func (m *SocketManager) Regime() Regime {
	return m.regime
}

// State returns the poll reader's current phase without taking any lock.
func (m *SocketManager) State() ManagerState {
	return ManagerState(atomic.LoadUint32(&m.state))
}

func (m *SocketManager) setState(s ManagerState) {
	atomic.StoreUint32(&m.state, uint32(s))
}

func (m *SocketManager) isDisposed() bool {
	return atomic.LoadInt32(&m.disposed) == 1
}

// Dispose is idempotent: a second call is a no-op. It signals every
// manager-owned thread to exit at its next checkpoint.
func (m *SocketManager) Dispose() {
	if !atomic.CompareAndSwapInt32(&m.disposed, 0, 1) {
		return
	}

	m.wMu.Lock()
	m.wCond.Broadcast()
	m.wMu.Unlock()

	m.lMu.Lock()
	m.lCond.Broadcast()
	m.lMu.Unlock()
}

// Wait blocks until every manager-owned thread started by Construct has
// exited. Intended for tests and graceful-shutdown sequences after Dispose.
func (m *SocketManager) Wait() {
	m.wg.Wait()
}
