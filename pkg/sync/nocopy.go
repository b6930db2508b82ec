// Copyright 2020 The gVisor Authors.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

package sync

// NoCopy is zero-size and may be embedded in structs that must not be
// copied after first use, such as the atomicbitops word types. go vet's
// copylocks check flags any copy of a struct containing a NoCopy because
// it implements sync.Locker.
//
// See https://golang.org/issue/8005#issuecomment-190753527 for details.
type NoCopy struct{}

// Lock is a no-op used to trigger vet's copylocks check.
func (*NoCopy) Lock() {}

// Unlock is a no-op used to trigger vet's copylocks check.
func (*NoCopy) Unlock() {}
