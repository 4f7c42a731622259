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
	"fmt"
	"net"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	loglvl "github.com/nabbar/redisio/logger/level"
)

// heartbeatInterval and emptyLookupTimeout are the package defaults used
// when no ManagerConfig override is supplied.
const (
	heartbeatInterval  = 15 * time.Second
	emptyLookupTimeout = 20 * time.Second
	selectReadyTimeout = time.Second
)

// runPollReader is the single manager-wide reader thread for sync regime.
// Exactly one instance ever runs at a time: addSocket only starts it via a
// CAS on readerN, and it clears readerN itself on the way out so a later
// addSocket can restart it.
func (m *SocketManager) runPollReader() {
	defer m.wg.Done()
	defer atomic.StoreInt32(&m.readerN, 0)

	if m.highPriority {
		raiseThreadPriority(m.log)
	}

	m.setState(StatePreparing)

	for {
		if m.isDisposed() {
			m.setState(StateStopped)
			return
		}

		m.setState(StateCheckingHeartbeat)
		m.maybeHeartbeat()

		m.setState(StateLocatingSockets)
		active, done := m.locateActiveSockets()
		if done {
			m.setState(StateStopped)
			return
		}

		m.setState(StateExecutingSelect)
		readReady, errReady, err := m.selectReady(active, selectReadyTimeout)
		if err != nil {
			atomic.StoreInt64(&m.lastErrorTicks, time.Now().UnixNano())
			m.log.Entry(loglvl.WarnLevel, "poll reader select failed").ErrorAdd(false, err).Log()
			continue
		}

		if len(readReady) == 0 && len(errReady) == 0 {
			m.setState(StateProcessingStale)
			m.dispatchIdle(active)
			continue
		}

		m.setState(StateProcessingRead)
		for _, cs := range readReady {
			cs := cs
			m.safeCall("read", cs.cb.Read)
		}

		m.setState(StateProcessingError)
		for _, cs := range errReady {
			cs := cs
			m.safeCall("error", func() {
				err := fmt.Errorf("socket: %s reported a socket error", cs.token)
				cs.cb.Error(NewFault(FaultConnection, err))
			})
			m.removeDeadSocket(cs.token)
		}
	}
}

// maybeHeartbeat fires OnHeartbeat on every active bridge at most once per
// heartbeatInterval, tracked via a CAS so a slow cycle can't double-fire.
func (m *SocketManager) maybeHeartbeat() {
	now := time.Now().UnixNano()
	last := atomic.LoadInt64(&m.lastHeartbeat)
	if now-last < int64(m.heartbeat) {
		return
	}
	if !atomic.CompareAndSwapInt64(&m.lastHeartbeat, last, now) {
		return
	}

	m.lMu.Lock()
	active := m.snapshotActiveLocked()
	m.lMu.Unlock()

	for _, cs := range active {
		cs := cs
		m.safeCall("heartbeat", cs.cb.OnHeartbeat)
	}
}

// locateActiveSockets waits for at least one socket to be registered, then
// partitions the lookup into sockets that are still connected and ones that
// have gone dead since the previous cycle (spec §4.5 phase 2: "partition
// into active... and dead (to be removed)"). Dead entries are reported to
// their bridge's Error callback, removed from the lookup and shut down in
// the same cycle, so they are never handed to select (testable scenario
// S6). An empty lookup that stays empty for emptyLookupTimeout ends the
// reader (done=true); addSocket restarts one the next time a socket is
// added.
func (m *SocketManager) locateActiveSockets() (active []*connSocket, done bool) {
	m.lMu.Lock()

	if len(m.lookup) == 0 {
		var timedOut int32

		timer := time.AfterFunc(m.emptyLookup, func() {
			atomic.StoreInt32(&timedOut, 1)
			m.lMu.Lock()
			m.lCond.Broadcast()
			m.lMu.Unlock()
		})
		defer timer.Stop()

		for len(m.lookup) == 0 && !m.isDisposed() && atomic.LoadInt32(&timedOut) == 0 {
			m.lCond.Wait()
		}

		if len(m.lookup) == 0 {
			m.lMu.Unlock()
			return nil, true
		}
	}

	if m.isDisposed() {
		m.lMu.Unlock()
		return nil, true
	}

	all := m.snapshotActiveLocked()
	m.lMu.Unlock()

	active = make([]*connSocket, 0, len(all))
	var dead []*connSocket

	for _, cs := range all {
		if socketAlive(cs.conn) {
			active = append(active, cs)
		} else {
			dead = append(dead, cs)
		}
	}

	for _, cs := range dead {
		cs := cs
		m.safeCall("error", func() {
			err := fmt.Errorf("socket: %s disconnected", cs.token)
			cs.cb.Error(NewFault(FaultConnection, err))
		})
		m.removeDeadSocket(cs.token)
	}

	return active, false
}

// socketAlive probes a connection's pending socket error via SO_ERROR
// without consuming any buffered data, so it can run every cycle alongside
// select without disturbing the bridge's own reads. Connections whose
// underlying type does not expose a raw fd (nothing in this package's own
// regime, but defensive against a future Callback test double) are assumed
// alive: there is nothing to probe.
func socketAlive(conn net.Conn) bool {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return true
	}

	raw, err := sc.SyscallConn()
	if err != nil {
		return false
	}

	alive := true
	ctrlErr := raw.Control(func(fd uintptr) {
		errno, gerr := unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR)
		if gerr != nil || errno != 0 {
			alive = false
		}
	})

	return alive && ctrlErr == nil
}

// dispatchIdle is the zero-readiness fallback: ask each active bridge
// whether it already has data buffered above the OS (IsDataAvailable), and
// otherwise let it judge its own connection stale.
func (m *SocketManager) dispatchIdle(active []*connSocket) {
	for _, cs := range active {
		cs := cs

		var hasData bool
		m.safeCall("is-data-available", func() {
			hasData = cs.cb.IsDataAvailable()
		})

		if hasData {
			m.safeCall("read", cs.cb.Read)
			continue
		}

		m.safeCall("stale-check", func() {
			cs.cb.CheckForStaleConnection(m.State())
		})
	}
}

// selectReady runs a single unix.Select pass over every active socket's
// descriptor and partitions the result into read-ready and error-ready sets.
func (m *SocketManager) selectReady(active []*connSocket, timeout time.Duration) (readReady, errReady []*connSocket, err error) {
	var rset, eset unix.FdSet
	nfd := 0

	for _, cs := range active {
		fd := int(cs.token)
		if fd <= 0 {
			continue
		}
		fdSetBit(&rset, fd)
		fdSetBit(&eset, fd)
		if fd+1 > nfd {
			nfd = fd + 1
		}
	}

	if nfd == 0 {
		time.Sleep(timeout)
		return nil, nil, nil
	}

	tv := unix.NsecToTimeval(timeout.Nanoseconds())

	_, err = unix.Select(nfd, &rset, nil, &eset, &tv)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	for _, cs := range active {
		fd := int(cs.token)
		if fd <= 0 {
			continue
		}
		if fdIsSetBit(&eset, fd) {
			errReady = append(errReady, cs)
			continue
		}
		if fdIsSetBit(&rset, fd) {
			readReady = append(readReady, cs)
		}
	}

	return readReady, errReady, nil
}

// fdSetBit and fdIsSetBit work against unix.FdSet.Bits without assuming its
// element width: some platforms back it with int32, others with int64.
func fdSetBit(set *unix.FdSet, fd int) {
	width := int(unsafe.Sizeof(set.Bits[0])) * 8
	idx, bit := fd/width, uint(fd%width)

	switch v := any(&set.Bits[idx]).(type) {
	case *int32:
		*v |= int32(1) << bit
	case *int64:
		*v |= int64(1) << bit
	}
}

func fdIsSetBit(set *unix.FdSet, fd int) bool {
	width := int(unsafe.Sizeof(set.Bits[0])) * 8
	idx, bit := fd/width, uint(fd%width)

	switch v := any(set.Bits[idx]).(type) {
	case int32:
		return v&(int32(1)<<bit) != 0
	case int64:
		return v&(int64(1)<<bit) != 0
	}
	return false
}
