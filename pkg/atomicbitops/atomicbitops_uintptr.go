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

package atomicbitops

import (
	"sync/atomic"

	"github.com/christopherastone/octet/pkg/sync"
)

// Uintptr is an atomic uintptr, sized to hold a tagged pointer. It exists
// alongside Uint32/Uint64/Int32/Int64 to back pointer-width state words
// (e.g. the Octet lock state word) that need CompareAndSwap at native
// pointer width on both 32- and 64-bit platforms.
//
// Don't add fields to this struct. It is important that it remain the same
// size as its builtin analogue.
//
// +stateify savable
type Uintptr struct {
	_     sync.NoCopy
	value uintptr
}

// FromUintptr returns a Uintptr initialized to value v.
//
//go:nosplit
func FromUintptr(v uintptr) Uintptr {
	return Uintptr{value: v}
}

// Load is analogous to atomic.LoadUintptr.
//
//go:nosplit
func (u *Uintptr) Load() uintptr {
	return atomic.LoadUintptr(&u.value)
}

// RacyLoad is analogous to reading an atomic value without using
// synchronization.
//
//go:nosplit
func (u *Uintptr) RacyLoad() uintptr {
	return u.value
}

// Store is analogous to atomic.StoreUintptr.
//
//go:nosplit
func (u *Uintptr) Store(v uintptr) {
	atomic.StoreUintptr(&u.value, v)
}

// Swap is analogous to atomic.SwapUintptr.
//
//go:nosplit
func (u *Uintptr) Swap(v uintptr) uintptr {
	return atomic.SwapUintptr(&u.value, v)
}

// CompareAndSwap is analogous to atomic.CompareAndSwapUintptr.
//
//go:nosplit
func (u *Uintptr) CompareAndSwap(oldVal, newVal uintptr) bool {
	return atomic.CompareAndSwapUintptr(&u.value, oldVal, newVal)
}
