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

// activeThreads is the conservative set of peers a writer must notify
// before it may write to a RdSh object: since individual readers aren't
// tracked per-lock, a thread wanting to write to read-shared data has to
// get permission from every thread that could conceivably be reading it.
var (
	activeThreadsMu sync.Mutex
	activeThreads   = make(map[*ThreadInfo]struct{})
)

func registerThread(t *ThreadInfo) {
	activeThreadsMu.Lock()
	defer activeThreadsMu.Unlock()
	activeThreads[t] = struct{}{}
}

func unregisterThread(t *ThreadInfo) {
	// Close this thread's broadcast gate first: any enumerator that
	// already entered it will finish pinging us (harmlessly, since
	// Shutdown has already called handleRequests(true), so every ping from
	// now on sees us as blocked); no new enumerator will start.
	t.bcastGate.Close()

	activeThreadsMu.Lock()
	defer activeThreadsMu.Unlock()
	delete(activeThreads, t)
}

// snapshotActiveThreads returns the active threads other than self for
// which this caller successfully entered the peer's broadcast gate. The
// caller must eventually call Leave on each returned peer's bcastGate.
func snapshotActiveThreads(self *ThreadInfo) []*ThreadInfo {
	activeThreadsMu.Lock()
	defer activeThreadsMu.Unlock()

	peers := make([]*ThreadInfo, 0, len(activeThreads))
	for peer := range activeThreads {
		if peer == self {
			continue
		}
		if peer.bcastGate.Enter() {
			peers = append(peers, peer)
		}
	}
	return peers
}
