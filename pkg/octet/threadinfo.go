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

import (
	"github.com/christopherastone/octet/pkg/atomicbitops"
	"github.com/christopherastone/octet/pkg/gate"
	"github.com/christopherastone/octet/pkg/sync"
)

// cacheLinePad separates a ThreadInfo's requests and responses words so
// that a peer pinging requests doesn't bounce the cache line the owner is
// spinning on while polling responses.
const cacheLinePad = 64

// ThreadInfo is the per-thread (per-goroutine, in this port) record used as
// a lock's owner identity. Its address is the identity token encoded into
// lock state words, so it is allocated on the heap and never freed: other
// goroutines may still hold a pointer to it in a stale lock state word
// long after the thread it represents has called Shutdown.
//
// requests packs two fields into one 32-bit word for single-instruction
// access: the low bit is a "blocked" flag, and the upper 31 bits are a
// count of requests peers have made of this thread. responses is a count
// of requests this thread has agreed to; the invariant responses <=
// requests>>1 holds at all times.
type ThreadInfo struct {
	requests atomicbitops.Uint32
	_        [cacheLinePad - 4]byte
	responses atomicbitops.Uint32

	stats statCounters

	// shutdown latches true the first time Shutdown is called, so a
	// caller that mistakenly calls it twice on the same ThreadInfo is
	// caught rather than silently double-logging stats and
	// double-unregistering from the active-thread set.
	shutdown atomicbitops.Bool

	// bcastGate is only exercised under octet_readshared: it lets a thread
	// broadcasting a write request to every active thread (because it wants
	// to write to a RdSh object) skip any peer that has already started
	// shutting down, without risking a race against that peer removing
	// itself from the active set mid-enumeration.
	bcastGate gate.Gate
}

// allThreadInfos keeps every ThreadInfo reachable for the life of the
// process: lock state words hold owners only as uintptrs, which the garbage
// collector neither traces nor counts as an escape.
var (
	allThreadInfosMu sync.Mutex
	allThreadInfos   []*ThreadInfo
)

// NewThreadInfo allocates a ThreadInfo. startBlocked should be true only
// for the process-wide sentinelThreadInfo.
func NewThreadInfo(startBlocked bool) *ThreadInfo {
	t := &ThreadInfo{}
	allThreadInfosMu.Lock()
	allThreadInfos = append(allThreadInfos, t)
	allThreadInfosMu.Unlock()
	if startBlocked {
		t.requests.Store(1)
	}
	return t
}

// handleRequests is called by a thread to grant every request a peer has
// made of it so far, and to set whether it should be treated as blocked
// (and hence all of its future requests implicitly granted) going forward.
//
// Calling handleRequests implicitly relinquishes every lock this thread
// currently holds in an exclusive state, since any peer that pinged this
// thread for one of those locks will now see its request granted.
func (t *ThreadInfo) handleRequests(shouldBlock bool) {
	var flag uint32
	if shouldBlock {
		flag = 1
	}
	// requests.fetch_or(shouldBlock), acq_rel: other threads' pings (which
	// increment requests by 2, below the blocked bit) and our own prior
	// unblock are visible before we compute the count we're granting.
	req := t.requests.FetchOr(flag)
	assertInvariant(req&1 == 0, "handleRequests called while already blocked")

	requestCount := req >> 1

	// responses.store, release: any waiter in a memory_order_acquire load
	// loop on this field must see every data write we performed under the
	// locks we're implicitly relinquishing here before it observes the
	// new count.
	t.responses.Store(requestCount)
}

// unblock clears the blocked flag set by a prior handleRequests(true).
func (t *ThreadInfo) unblock() {
	t.requests.And(^uint32(1))
}

// Yield is a cooperative checkpoint: it grants every pending request
// against this thread, implicitly relinquishing any lock this thread holds
// exclusively that a peer is waiting on. Calling it periodically (and
// whenever blocked waiting on another thread) is what makes the handoff
// protocol deadlock-free; correctness doesn't strictly require extra calls
// beyond the ones the library makes internally, but it improves latency
// for peers.
func (t *ThreadInfo) Yield() {
	t.handleRequests(false)
}

// sentinelThreadInfo is the ThreadInfo for a process-wide "dead" thread,
// permanently blocked, considered the owner of every newly constructed
// Lock. Because it's permanently blocked, the first real acquirer of a new
// lock always takes the slow path (lockIntermediate must still negotiate
// the CAS to Intermediate) but never waits for a response.
var sentinelThreadInfo = NewThreadInfo(true)
