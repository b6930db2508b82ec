// Copyright 2021 The gVisor Authors.
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

//go:build arm || mips || mipsle || 386
// +build arm mips mipsle 386

package atomicbitops

import (
	"sync/atomic"

	"github.com/christopherastone/octet/pkg/sync"
)

// Int64 is an atomic int64 that is guaranteed to be 64-bit aligned, even
// on this 32-bit architecture, where the platform only guarantees 32-bit
// alignment for ordinary struct fields.
//
// +stateify savable
type Int64 struct {
	_     sync.NoCopy
	value AlignedAtomicInt64
}

// FromInt64 returns an Int64 initialized to value v.
func FromInt64(v int64) Int64 {
	var i Int64
	i.value.Store(v)
	return i
}

// Load is analogous to atomic.LoadInt64.
func (i *Int64) Load() int64 { return i.value.Load() }

// RacyLoad is analogous to reading an atomic value without using
// synchronization.
func (i *Int64) RacyLoad() int64 { return i.value.Load() }

// Store is analogous to atomic.StoreInt64.
func (i *Int64) Store(v int64) { i.value.Store(v) }

// RacyStore is analogous to setting an atomic value without using
// synchronization.
func (i *Int64) RacyStore(v int64) { i.value.Store(v) }

// Add is analogous to atomic.AddInt64.
func (i *Int64) Add(v int64) int64 { return i.value.Add(v) }

// RacyAdd is analogous to adding to an atomic value without using
// synchronization.
func (i *Int64) RacyAdd(v int64) int64 { return i.value.Add(v) }

// Swap is analogous to atomic.SwapInt64.
func (i *Int64) Swap(v int64) int64 {
	return atomic.SwapInt64(i.value.ptr(), v)
}

// CompareAndSwap is analogous to atomic.CompareAndSwapInt64.
func (i *Int64) CompareAndSwap(oldVal, newVal int64) bool {
	return atomic.CompareAndSwapInt64(i.value.ptr(), oldVal, newVal)
}

// Uint64 is an atomic uint64 that is guaranteed to be 64-bit aligned,
// even on this 32-bit architecture.
//
// +stateify savable
type Uint64 struct {
	_     sync.NoCopy
	value AlignedAtomicUint64
}

// FromUint64 returns a Uint64 initialized to value v.
func FromUint64(v uint64) Uint64 {
	var u Uint64
	u.value.Store(v)
	return u
}

// Load is analogous to atomic.LoadUint64.
func (u *Uint64) Load() uint64 { return u.value.Load() }

// RacyLoad is analogous to reading an atomic value without using
// synchronization.
func (u *Uint64) RacyLoad() uint64 { return u.value.Load() }

// Store is analogous to atomic.StoreUint64.
func (u *Uint64) Store(v uint64) { u.value.Store(v) }

// RacyStore is analogous to setting an atomic value without using
// synchronization.
func (u *Uint64) RacyStore(v uint64) { u.value.Store(v) }

// Add is analogous to atomic.AddUint64.
func (u *Uint64) Add(v uint64) uint64 { return u.value.Add(v) }

// RacyAdd is analogous to adding to an atomic value without using
// synchronization.
func (u *Uint64) RacyAdd(v uint64) uint64 { return u.value.Add(v) }

// Swap is analogous to atomic.SwapUint64.
func (u *Uint64) Swap(v uint64) uint64 {
	return atomic.SwapUint64(u.value.ptr(), v)
}

// CompareAndSwap is analogous to atomic.CompareAndSwapUint64.
func (u *Uint64) CompareAndSwap(oldVal, newVal uint64) bool {
	return atomic.CompareAndSwapUint64(u.value.ptr(), oldVal, newVal)
}
