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

//go:build octet_readshared

package octet

import "github.com/christopherastone/octet/pkg/sync"

// ReadLock acquires l for read-exclusive or read-shared access on behalf
// of t, whichever is appropriate given l's current state.
func (l *Lock) ReadLock(t *ThreadInfo) (interrupted bool) {
	t.stats.incReadBarriers()

	// Memory order: if we find ourselves already the owner, only this
	// thread could have written that value. If we instead find RdSh, this
	// atomic load is itself an acquire and picks up whatever happened-before
	// the thread that last wrote RdSh; the sync.RaceAcquire call below is
	// only a race-detector hook and does nothing without -race.
	cur := l.load()

	if owner(cur) == t {
		trace("thread %p took fast path to read-lock %p\n", t, l)
		return false
	}

	if cur == stateRdSh {
		sync.RaceAcquire(nil)
		trace("thread %p took fast path to read-lock %p\n", t, l)
		return false
	}

	trace("thread %p on slow path to read-lock %p\n", t, l)
	return readSlowPath(t, l)
}

// readSlowPath acquires l for read access once the fast path has missed.
func readSlowPath(t *ThreadInfo, l *Lock) (interrupted bool) {
	t.stats.incSlowReads()

	responsesBefore := t.responses.Load()

	prev := lockIntermediate(t, l)
	assertInvariant(prev != stateIntermediate, "readSlowPath: prev is Intermediate")

	switch {
	case isRdSh(prev):
		// The lock became RdSh again while we were waiting our turn to
		// mark it Intermediate (e.g. we entered because it was RdEx, and
		// a third thread generalized it to RdSh before we won the race).
		// Put it back the way it was.
		l.store(stateRdSh)

	case isRdEx(prev):
		// Someone else holds it for exclusive reading; generalize to
		// RdSh rather than negotiating a handoff.
		assertInvariant(owner(prev) != t, "readSlowPath: self-owned RdEx on slow path")
		l.store(stateRdSh)

	default:
		assertInvariant(isWrEx(prev), "readSlowPath: prev is neither RdSh, RdEx, nor WrEx")
		prevOwner := owner(prev)
		assertInvariant(prevOwner != nil, "readSlowPath: nil owner")
		notifyOne(t, prevOwner)
		l.store(rdEx(t))
	}

	trace("thread %p can now read %p\n", t, l)

	responsesAfter := t.responses.Load()
	return responsesBefore != responsesAfter
}
