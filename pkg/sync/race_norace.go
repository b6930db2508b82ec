// Copyright 2020 The gVisor Authors.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

//go:build !race
// +build !race

package sync

import "unsafe"

// RaceEnabled is true if the Go race detector is active in this build.
const RaceEnabled = false

// RaceDisable tells the race detector to ignore the current goroutine's
// accesses until the matching RaceEnable. No-op without -race.
func RaceDisable() {}

// RaceEnable undoes the effect of RaceDisable. No-op without -race.
func RaceEnable() {}

// RaceAcquire establishes a happens-before edge for the race detector
// between this call and the preceding RaceRelease(Merge) on addr. No-op
// without -race.
func RaceAcquire(addr unsafe.Pointer) {}

// RaceRelease is the release side of RaceAcquire. No-op without -race.
func RaceRelease(addr unsafe.Pointer) {}

// RaceReleaseMerge is like RaceRelease but merges the calling goroutine's
// happens-before state into addr instead of overwriting it. No-op without
// -race.
func RaceReleaseMerge(addr unsafe.Pointer) {}
