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

//go:build !octet_readshared

package octet

// writeSlowPath acquires l for write-exclusive access on behalf of t,
// once the fast path has already missed. Returns whether any of t's own
// pending requests were granted (i.e. locks relinquished) along the way.
func writeSlowPath(t *ThreadInfo, l *Lock) (interrupted bool) {
	t.stats.incSlowWrites()

	// Memory order: relaxed, since t is the only writer of its own
	// response counter.
	responsesBefore := t.responses.Load()

	prev := lockIntermediate(t, l)

	prevOwner := owner(prev)
	if prevOwner != t {
		// Another thread holds a RdEx or WrEx lock on l.
		notifyOne(t, prevOwner)
	} else {
		// We're on the slow path while prev names us: the only way that
		// happens is upgrading our own read-exclusive lock to write.
		assertInvariant(prev == rdEx(t), "writeSlowPath: self-owned prev isn't RdEx")
	}

	// Memory order: relaxed. We already used CAS to move the state to
	// Intermediate; whichever of these two values a peer observes, it's
	// still forbidden from touching the guarded data.
	l.store(wrEx(t))

	trace("thread %p can now write to %p\n", t, l)

	responsesAfter := t.responses.Load()
	return responsesBefore != responsesAfter
}
