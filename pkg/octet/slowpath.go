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

import "github.com/christopherastone/octet/pkg/sync"

// lockIntermediate marks l as mid-handoff and returns the state that
// immediately preceded it. If l is already Intermediate when this is
// called, it waits (yielding, and granting this thread's own pending
// requests to avoid deadlock) until it settles into some other state,
// and only then claims it.
func lockIntermediate(t *ThreadInfo, l *Lock) lockState {
	trace("thread %p setting %p to intermediate\n", t, l)

	// Memory order: anything we read here is re-verified by the CAS below,
	// so a stale read is harmless.
	prev := l.load()

	for prev == stateIntermediate || !l.compareAndSwap(prev, stateIntermediate) {
		// Yielding here (rather than spinning tightly) is a large
		// performance win whenever there are more runnable goroutines
		// than CPUs.
		sync.Goyield()

		// Avoid deadlock: respond to anyone waiting on us while we wait
		// on this lock to settle.
		t.handleRequests(false)

		prev = l.load()
	}

	trace("thread %p set %p to intermediate\n", t, l)
	assertInvariant(prev != stateIntermediate, "lockIntermediate: prev is Intermediate")
	return prev
}

// ping notifies owner that t wants whatever owner holds, and returns the
// response count owner must reach before t may proceed, along with
// whether owner was already blocked (in which case t need not wait for a
// response at all: every future request against owner counts as already
// granted).
func ping(t, owner *ThreadInfo) (desiredResponseCount uint32, ownerWasBlocked bool) {
	assertInvariant(owner != nil, "ping: nil owner")
	assertInvariant(owner != t, "ping: self-ping")

	// Increase by 2 since the LSB is the blocked flag. We don't special-case
	// an already-blocked owner here (even though the increment is then
	// moot) because the owner may still want to know whether any request
	// was implicitly granted while it was blocked.
	req := owner.requests.Add(2)
	assertInvariant(req < 2147483644, "ping: request counter overflow")

	ownerWasBlocked = req&1 != 0
	desiredResponseCount = req >> 1

	if ownerWasBlocked {
		trace("thread %p pinged %p (blocked)\n", t, owner)
	} else {
		trace("thread %p pinged %p\n", t, owner)
	}
	return desiredResponseCount, ownerWasBlocked
}

// awaitResponse blocks (by spinning and yielding, never parking on a
// kernel primitive) until owner's response count reaches
// desiredResponseCount, handling t's own pending requests between
// attempts to avoid deadlock.
func awaitResponse(t, owner *ThreadInfo, desiredResponseCount uint32) {
	assertInvariant(owner != nil, "awaitResponse: nil owner")

	// Memory order: acquire, so that once we do see a satisfying response
	// we also see every data write owner made before responding.
	responseCount := owner.responses.Load()

	trace("thread %p waiting for response from %p\n", t, owner)

	for responseCount < desiredResponseCount {
		sync.Goyield()
		t.handleRequests(false)
		responseCount = owner.responses.Load()
	}
}

// notifyOne pings owner and, unless owner was already blocked, waits for
// its response. This is the common round trip used whenever t is about to
// take over a lock owner currently holds.
func notifyOne(t, owner *ThreadInfo) {
	assertInvariant(owner != nil, "notifyOne: nil owner")
	trace("thread %p will notify %p\n", t, owner)

	desiredResponseCount, ownerWasBlocked := ping(t, owner)
	if !ownerWasBlocked {
		awaitResponse(t, owner, desiredResponseCount)
	}
}
