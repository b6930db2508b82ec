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

// InitThread should be called once by every goroutine that will take
// Octet locks, before its first call to WriteLock/ReadLock/LockAll. It
// returns the *ThreadInfo the caller must thread through every
// subsequent barrier call, standing in for the thread-local
// myThreadInfo pointer the original C++ library keeps implicitly.
func InitThread() *ThreadInfo {
	t := NewThreadInfo(false)
	registerThread(t)
	return t
}

// Shutdown marks t permanently blocked, so that peers holding a stale
// reference to t in a lock's state word can proceed without waiting for a
// response that will never come, and removes t from the read-shared
// active-thread set. Like the original library, this leaks the
// ThreadInfo: other locks may still reference it as their owner, so it
// must remain valid for the life of the process.
//
// Under octet_stats, Shutdown also logs t's final lock-usage counters.
//
// Calling Shutdown a second time on the same ThreadInfo panics.
func (t *ThreadInfo) Shutdown() {
	assertInvariant(!t.shutdown.Swap(true), "Shutdown called twice on the same ThreadInfo")
	t.handleRequests(true)
	unregisterThread(t)
	t.logStats()
}
