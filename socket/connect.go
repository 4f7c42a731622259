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
	"fmt"
	"net"
	"reflect"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	libptc "github.com/nabbar/redisio/network/protocol"

	liblog "github.com/nabbar/redisio/logger"
	loglvl "github.com/nabbar/redisio/logger/level"
)

const (
	keepAliveIdle     = 30 * time.Second
	keepAliveInterval = 1 * time.Second
	dialTimeout       = 10 * time.Second
)

// BeginConnectAsync resolves endpoint, dials it, tunes the socket, hands the
// connection to the bridge via ConnectedAsync, and finally hands off to the
// manager's read regime. On any failure after the callback has accepted the
// connection, the socket is shut down cleanly and the error surfaced to the
// bridge's Error callback.
func (m *SocketManager) BeginConnectAsync(endpoint string, cb Callback, log liblog.Logger) (SocketToken, error) {
	if log == nil {
		log = m.log
	}

	if m.isDisposed() {
		cb.Error(NewFault(FaultDisposed, ErrDisposed))
		return InvalidToken, ErrDisposed
	}

	corrID := uuid.New()

	addr, err := resolveEndpoint(endpoint)
	if err != nil {
		log.Entry(loglvl.ErrorLevel, "resolving endpoint").
			FieldAdd("endpoint", endpoint).
			FieldAdd("correlationId", corrID).
			ErrorAdd(true, err).
			Log()
		cb.Error(NewFault(FaultConnection, err))
		return InvalidToken, err
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.Dial(libptc.NetworkTCP.Code(), addr)
	if err != nil {
		log.Entry(loglvl.ErrorLevel, "dialing endpoint").
			FieldAdd("endpoint", addr).
			FieldAdd("correlationId", corrID).
			ErrorAdd(true, err).
			Log()
		cb.Error(NewFault(FaultConnection, err))
		return InvalidToken, err
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		if err = tuneSocket(tc); err != nil {
			// socket-option tuning is an optimization; log and continue.
			log.Entry(loglvl.WarnLevel, "tuning socket options").
				FieldAdd("correlationId", corrID).
				ErrorAdd(false, err).
				Log()
		}
	}

	if m.isDisposed() {
		_ = Shutdown(conn)
		cb.Error(NewFault(FaultDisposed, ErrDisposed))
		return InvalidToken, ErrDisposed
	}

	// a panic inside ConnectedAsync is recovered and treated as a rejection.
	accepted := false
	m.safeCall("connected", func() { accepted = cb.ConnectedAsync(conn, log) })

	if !accepted {
		_ = Shutdown(conn)
		return InvalidToken, fmt.Errorf("socket: bridge rejected connection to %s", addr)
	}

	token := socketToken(conn)

	switch m.regime {
	case Async:
		cb.StartReading()
	case Sync:
		m.addSocket(token, conn, cb, corrID)
	default:
		_ = Shutdown(conn)
		err = fmt.Errorf("socket: manager regime %s cannot accept connections", m.regime)
		cb.Error(NewFault(FaultPlatformUnsupported, err))
		return InvalidToken, fmt.Errorf("socket: regime abort")
	}

	return token, nil
}

// resolveEndpoint implements the DNS workaround: on non-Windows hosts,
// native multi-address connect paths have historically failed, especially
// with keepalive enabled, so a hostname endpoint is resolved explicitly and
// rebuilt with the first IPv4 or IPv6 address found.
func resolveEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", ErrAddress
	}

	if runtime.GOOS == "windows" {
		return endpoint, nil
	}

	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAddress, err)
	}

	if ip := net.ParseIP(host); ip != nil {
		return endpoint, nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %q: %v", ErrAddress, host, err)
	}

	for _, ip := range ips {
		if ip.To4() != nil || ip.To16() != nil {
			return net.JoinHostPort(ip.String(), port), nil
		}
	}

	return "", fmt.Errorf("%w: no usable address for %q", ErrAddress, host)
}

// socketToken derives a stable SocketToken from a net.Conn's underlying file
// descriptor where the platform exposes one, falling back to the conn's
// pointer identity otherwise (still unique and stable for the conn's life).
func socketToken(conn net.Conn) SocketToken {
	if sc, ok := conn.(syscall.Conn); ok {
		if raw, err := sc.SyscallConn(); err == nil {
			var fd uintptr
			_ = raw.Control(func(f uintptr) { fd = f })
			if fd != 0 {
				return SocketToken(fd)
			}
		}
	}

	return SocketToken(reflect.ValueOf(conn).Pointer())
}
