// Copyright 2020 The gVisor Authors.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package sync

import "runtime"

// Goyield yields the calling goroutine without parking it, giving other
// runnable goroutines (in particular, the owner of a contended Octet lock) a
// chance to run before the caller reloads and retries. It is the stdlib
// equivalent of the runtime.goyield hook that other gVisor packages reach
// via go:linkname; we use the portable form here rather than pinning to an
// internal runtime symbol across Go point releases.
func Goyield() {
	runtime.Gosched()
}
