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

// ReadLock acquires l for reading. Without octet_readshared, the library
// doesn't distinguish shared readers from exclusive owners, so a read
// lock is just a write lock: identical to the original library's
// #if !READSHARED readBarrier == writeBarrier fallback.
func (l *Lock) ReadLock(t *ThreadInfo) (interrupted bool) {
	return l.WriteLock(t)
}
