// Copyright 2018 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package octet

import "github.com/christopherastone/octet/pkg/atomicbitops"

// Lock is a single Octet-protected object lock: a pointer-sized atomic
// state word, initially owned by a permanently-blocked sentinel thread so
// that its first real acquirer always negotiates the handoff once (and
// never waits for a response).
type Lock struct {
	state atomicbitops.Uintptr
}

// NewLock returns a Lock in its initial, unowned-by-any-real-thread state.
func NewLock() *Lock {
	l := &Lock{}
	l.state.Store(uintptr(wrEx(sentinelThreadInfo)))
	return l
}

func (l *Lock) load() lockState {
	return lockState(l.state.Load())
}

func (l *Lock) store(s lockState) {
	l.state.Store(uintptr(s))
}

func (l *Lock) compareAndSwap(old, new lockState) bool {
	return l.state.CompareAndSwap(uintptr(old), uintptr(new))
}

// WriteLock acquires l for write-exclusive access on behalf of t: t may
// read or write the guarded data without further barrier calls, until
// some other thread's request forces a handoff. WriteLock never blocks
// the goroutine (in the OS-thread sense); a contended acquisition spins,
// yielding to the runtime and granting this thread's own pending requests
// between attempts.
//
// The return value reports whether acquiring the lock caused this thread
// to relinquish any exclusive locks it held to satisfy a peer's request
// (i.e. whether a handleRequests call along the way granted at least one
// new request, changing this thread's response count).
func (l *Lock) WriteLock(t *ThreadInfo) (interrupted bool) {
	t.stats.incWriteBarriers()

	goal := wrEx(t)

	// Memory order: if we find the value we're looking for, only this
	// thread could have written it, so no cross-thread data is at stake.
	// If we don't, the CAS in the slow path establishes synchronization.
	cur := l.load()
	if cur != goal {
		trace("thread %p on slow path to write-lock %p\n", t, l)
		return writeSlowPath(t, l)
	}

	trace("thread %p took fast path to write-lock %p\n", t, l)
	return false
}

// ForceUnlock releases l if and only if t is its current write-exclusive
// or read-exclusive owner; otherwise it is a silent no-op. It never
// blocks and never negotiates with peers: it is a best-effort courtesy
// release, not part of the correctness argument. Calling it on a lock
// currently mid-handoff (Intermediate) or read-shared has no effect,
// since neither of those states decodes to a real thread's identity.
func (l *Lock) ForceUnlock(t *ThreadInfo) {
	unlocked := wrEx(sentinelThreadInfo)

	cur := l.load()
	if cur == stateRdSh || cur == stateIntermediate {
		return
	}
	if owner(cur) != t {
		return
	}
	// Best-effort: if the state changed underneath us (another thread
	// already stole it via the slow path), we simply don't unlock.
	l.compareAndSwap(cur, unlocked)
}
