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

// FaultKind taxonomizes socket-level faults, so a bridge can decide how to
// react (retry, tear down, surface upstream) without string-matching error
// messages. Only some kinds are ever passed to a bridge's Error callback;
// the comments below say which are not.
type FaultKind uint8

const (
	// FaultTransientReadiness: a single readiness/select cycle failed; the
	// poll reader logs it and tries again next cycle without calling Error.
	FaultTransientReadiness FaultKind = iota
	// FaultCallback: a bridge's own callback panicked. safeCall recovers and
	// logs such panics; it does not pass them to Error.
	FaultCallback
	// FaultConnection: the underlying socket failed (reset, EOF, broken pipe).
	FaultConnection
	// FaultDisposed: the operation was attempted after Dispose.
	FaultDisposed
	// FaultOOM: a recovered panic was an out-of-memory condition. safeCall
	// never wraps these; it re-panics instead, so this kind exists for
	// completeness but is not expected to reach a bridge's Error callback.
	FaultOOM
	// FaultPlatformUnsupported: the manager's regime cannot accept
	// connections on the host OS (Abort). Socket-tuning failures are only
	// logged and do not produce this fault.
	FaultPlatformUnsupported
)

func (k FaultKind) String() string {
	switch k {
	case FaultTransientReadiness:
		return "transient readiness"
	case FaultCallback:
		return "callback fault"
	case FaultConnection:
		return "connection fault"
	case FaultDisposed:
		return "disposed"
	case FaultOOM:
		return "out of memory"
	case FaultPlatformUnsupported:
		return "platform not supported"
	}
	return "unknown fault"
}

// Fault wraps an error with the FaultKind a bridge's Error callback can
// switch on, while still satisfying errors.Is/As against the wrapped cause.
type Fault struct {
	Kind  FaultKind
	Cause error
}

func (f *Fault) Error() string {
	if f.Cause == nil {
		return f.Kind.String()
	}
	return f.Kind.String() + ": " + f.Cause.Error()
}

func (f *Fault) Unwrap() error {
	return f.Cause
}

// NewFault wraps err as a Fault of the given kind. A nil err still produces
// a non-nil Fault carrying only the kind, for callers that want to report a
// fault class without an underlying Go error.
func NewFault(kind FaultKind, err error) *Fault {
	return &Fault{Kind: kind, Cause: err}
}
