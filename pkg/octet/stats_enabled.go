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

//go:build octet_stats

package octet

import (
	"github.com/christopherastone/octet/pkg/atomicbitops"
	"github.com/christopherastone/octet/pkg/log"
)

// statCounters mirrors the per-thread __thread size_t counters
// (writeBarriers, slowWrites, readBarriers, slowReads) that the original
// library keeps when compiled with STATISTICS. Since a ThreadInfo is
// already confined to a single goroutine by convention, plain
// atomicbitops.Uint64 fields (rather than a mutex) are enough; the atomics
// only matter because Stats() may be called by another goroutine after
// Shutdown.
type statCounters struct {
	writeBarriers atomicbitops.Uint64
	slowWrites    atomicbitops.Uint64
	readBarriers  atomicbitops.Uint64
	slowReads     atomicbitops.Uint64
}

// Stats holds a snapshot of a ThreadInfo's lock-usage counters.
type Stats struct {
	WriteBarriers uint64
	SlowWrites    uint64
	ReadBarriers  uint64
	SlowReads     uint64
}

// Stats returns a snapshot of t's lock-usage counters. Without octet_stats
// every field is always zero.
func (t *ThreadInfo) Stats() Stats {
	return Stats{
		WriteBarriers: t.stats.writeBarriers.Load(),
		SlowWrites:    t.stats.slowWrites.Load(),
		ReadBarriers:  t.stats.readBarriers.Load(),
		SlowReads:     t.stats.slowReads.Load(),
	}
}

func (s *statCounters) incWriteBarriers() { s.writeBarriers.Add(1) }
func (s *statCounters) incSlowWrites()    { s.slowWrites.Add(1) }
func (s *statCounters) incReadBarriers()  { s.readBarriers.Add(1) }
func (s *statCounters) incSlowReads()     { s.slowReads.Add(1) }

// logStats reports t's final counters through the package logger. Called
// from Shutdown; a no-op build without octet_stats.
func (t *ThreadInfo) logStats() {
	s := t.Stats()
	log.Infof("octet: thread %p stats: writeBarriers=%d slowWrites=%d readBarriers=%d slowReads=%d",
		t, s.WriteBarriers, s.SlowWrites, s.ReadBarriers, s.SlowReads)
}
