// Copyright 2020 The gVisor Authors.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

//go:build race
// +build race

package sync

import (
	"runtime"
	"unsafe"
)

// RaceEnabled is true if the Go race detector is active in this build.
const RaceEnabled = true

// RaceDisable tells the race detector to ignore the current goroutine's
// accesses until the matching RaceEnable.
func RaceDisable() { runtime.RaceDisable() }

// RaceEnable undoes the effect of RaceDisable.
func RaceEnable() { runtime.RaceEnable() }

// RaceAcquire establishes a happens-before edge for the race detector
// between this call and the preceding RaceRelease(Merge) on addr.
func RaceAcquire(addr unsafe.Pointer) { runtime.RaceAcquire(addr) }

// RaceRelease is the release side of RaceAcquire.
func RaceRelease(addr unsafe.Pointer) { runtime.RaceRelease(addr) }

// RaceReleaseMerge is like RaceRelease but merges the calling goroutine's
// happens-before state into addr instead of overwriting it.
func RaceReleaseMerge(addr unsafe.Pointer) { runtime.RaceReleaseMerge(addr) }
