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

//go:build !octet_stats

package octet

// statCounters is empty without octet_stats, so a ThreadInfo carries no
// extra bookkeeping overhead in the common case.
type statCounters struct{}

// Stats reports all-zero counters without octet_stats.
type Stats struct {
	WriteBarriers uint64
	SlowWrites    uint64
	ReadBarriers  uint64
	SlowReads     uint64
}

func (t *ThreadInfo) Stats() Stats { return Stats{} }

func (s *statCounters) incWriteBarriers() {}
func (s *statCounters) incSlowWrites()    {}
func (s *statCounters) incReadBarriers()  {}
func (s *statCounters) incSlowReads()     {}

// logStats does nothing without octet_stats.
func (t *ThreadInfo) logStats() {}
