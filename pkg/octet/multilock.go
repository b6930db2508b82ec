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

import "time"

// BackoffRetries is how many consecutive failed rounds LockAll tolerates
// before it starts blocking itself (handleRequests(true)) between
// attempts, matching the original library's OCTET_BACKOFF_RETRIES.
const BackoffRetries = 5

// BackoffExpLimit bounds how many further rounds the backoff delay keeps
// doubling for, matching OCTET_BACKOFF_EXPLIMIT.
const BackoffExpLimit = 13

// Request names one lock LockAll should acquire, and whether it should be
// locked for writing (Write true) or reading (Write false).
type Request struct {
	L     *Lock
	Write bool
}

// LockAll acquires every lock named by reqs, retrying as a whole until
// all are held simultaneously. It only guarantees that every named lock
// is locked on return; it makes no promise about whether other locks
// (from a previous retry, or locks this thread held before calling
// LockAll at all) were relinquished along the way.
func LockAll(t *ThreadInfo, reqs ...Request) {
	retries := 0
	maxBackoff := BackoffRetries + BackoffExpLimit
	us := 1

	for {
		restart := false
		for i, r := range reqs {
			var lost bool
			if r.Write {
				lost = r.L.WriteLock(t)
			} else {
				lost = r.L.ReadLock(t)
			}
			// Losing locks while acquiring the very first request of this
			// round doesn't count: we just started the round, so there's
			// nothing earlier in it to have lost.
			if i > 0 {
				restart = restart || lost
			}
		}

		if !restart {
			return
		}

		retries++
		if retries > BackoffRetries {
			if retries < maxBackoff {
				us *= 2
			}
			t.handleRequests(true)
			time.Sleep(time.Duration(us) * time.Microsecond)
			t.unblock()
		}
	}
}
