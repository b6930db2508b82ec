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

//go:build !octet_noassert

package octet

import "fmt"

// assertInvariant panics if cond is false. It is the equivalent of the
// original library's assert() calls, present at every point the protocol
// depends on an invariant the type system can't express (lock-state
// encodings, request/response bookkeeping). Building with octet_noassert
// compiles all of these checks away, mirroring NDEBUG.
func assertInvariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
