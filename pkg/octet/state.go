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

// Package octet implements Octet-style biased reader/writer locks, modeled
// on the barrier mechanism of Bond et al., "OCTET: Capturing and
// Controlling Cross-Thread Dependencies Efficiently". The thread that most
// recently touched a lock reacquires it with a single relaxed load; any
// other thread negotiates a handoff with the prior owner.
package octet

import "unsafe"

// lockState is the tagged-pointer representation of a Lock's state word.
// It holds one of four encodings:
//
//   - 0 means the lock is read-shared (rdSh): any thread may read without
//     changing the state.
//   - 1 means the lock is intermediate: a thread is mid-handoff. No thread
//     may touch the guarded data while a lock is intermediate.
//   - a *ThreadInfo with the low bit clear means write-exclusive (wrEx):
//     that thread may read or write the guarded data without changing the
//     state.
//   - a *ThreadInfo with the low bit set means read-exclusive (rdEx): that
//     thread may read, but not write, without changing the state.
type lockState uintptr

const (
	stateRdSh         lockState = 0
	stateIntermediate lockState = 1
)

// wrEx returns the write-exclusive encoding for t.
func wrEx(t *ThreadInfo) lockState {
	return lockState(uintptr(unsafe.Pointer(t)))
}

// rdEx returns the read-exclusive encoding for t.
func rdEx(t *ThreadInfo) lockState {
	return lockState(uintptr(unsafe.Pointer(t)) | 1)
}

// owner extracts the ThreadInfo encoded in s, masking off the read/write
// tag bit. s must not be stateIntermediate or stateRdSh.
func owner(s lockState) *ThreadInfo {
	return (*ThreadInfo)(unsafe.Pointer(uintptr(s) &^ 1))
}

func isWrEx(s lockState) bool {
	return s != stateRdSh && s&1 == 0
}

func isRdEx(s lockState) bool {
	return s != stateIntermediate && s&1 != 0
}

func isRdSh(s lockState) bool {
	return s == stateRdSh
}
