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

// octetstress exercises pkg/octet the way the original library's
// stresstest.cpp did: many goroutines repeatedly debit one account and
// credit another under write locks, while reading a third under a read
// lock, and the final balances across all accounts must sum to zero.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/christopherastone/octet/pkg/log"
	"github.com/christopherastone/octet/pkg/octet"
)

// logFilePattern implements log.FileOpts trivially: the pattern is used
// verbatim as a path, with no variable substitution.
type logFilePattern struct{}

func (logFilePattern) Build(pattern string) string { return pattern }

var (
	numThreads    = pflag.IntP("threads", "t", 10, "number of worker goroutines")
	numIterations = pflag.IntP("iterations", "i", 10000, "iterations per worker")
	numAccounts   = pflag.IntP("accounts", "a", 10, "number of accounts to contend over")
	contention    = pflag.Bool("contention", true, "pick accounts at random rather than one fixed triple per worker")
	doYield       = pflag.Bool("yield", false, "call Yield at the end of every iteration")
	forceUnlock   = pflag.Bool("force-unlock", false, "ForceUnlock all three accounts at the end of every iteration")
	progressEvery = pflag.Duration("progress-interval", 2*time.Second, "how often to log progress; 0 disables")
	logFile       = pflag.String("log-file", "", "if set, also append run output to this file")
)

type account struct {
	balance int
	lock    *octet.Lock
}

func futz(threadNum int, accounts []*account) error {
	thread := octet.InitThread()
	defer thread.Shutdown()

	rng := rand.New(rand.NewSource(int64(100 * threadNum)))

	for i := 0; i < *numIterations; i++ {
		var from, to, extra int
		if *contention {
			from = rng.Intn(len(accounts))
			to = rng.Intn(len(accounts))
			extra = rng.Intn(len(accounts))
		} else {
			from = (30 * threadNum) % len(accounts)
			to = (30*threadNum + 1) % len(accounts)
			extra = (30*threadNum + 2) % len(accounts)
		}
		if from == to {
			i--
			continue
		}

		octet.LockAll(thread,
			octet.Request{L: accounts[from].lock, Write: true},
			octet.Request{L: accounts[to].lock, Write: true},
			octet.Request{L: accounts[extra].lock, Write: false},
		)

		fromBalance := accounts[from].balance
		toBalance := accounts[to].balance
		fromBalance--
		toBalance++
		accounts[to].balance = toBalance
		accounts[from].balance = fromBalance

		if *forceUnlock {
			accounts[to].lock.ForceUnlock(thread)
			accounts[from].lock.ForceUnlock(thread)
			accounts[extra].lock.ForceUnlock(thread)
		}
		if *doYield {
			thread.Yield()
		}
	}
	return nil
}

func main() {
	pflag.Parse()

	if *logFile != "" {
		f, err := log.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePattern{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
			os.Exit(1)
		}
		if f != nil {
			defer f.Close()
			log.SetTarget(log.NewBasicLogger(log.Info, log.GoogleEmitter{Emitter: log.JSONEmitter{Writer: &log.Writer{Next: f}}}))
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}

	log.Infof("context: %s  %s", time.Now().Format(time.RFC1123), hostname)
	log.Infof("run-time settings: threads=%d iterations=%d accounts=%d contention=%v yield=%v force-unlock=%v",
		*numThreads, *numIterations, *numAccounts, *contention, *doYield, *forceUnlock)

	accounts := make([]*account, *numAccounts)
	for i := range accounts {
		accounts[i] = &account{lock: octet.NewLock()}
	}

	var stop context.CancelFunc
	if *progressEvery > 0 {
		var ctx context.Context
		ctx, stop = context.WithCancel(context.Background())
		defer stop()
		go reportProgress(ctx, *progressEvery)
	}

	start := time.Now()

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < *numThreads; i++ {
		i := i
		g.Go(func() error {
			return futz(i, accounts)
		})
	}
	if err := g.Wait(); err != nil {
		log.Warningf("worker error: %v", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)

	sum := 0
	for _, a := range accounts {
		sum += a.balance
	}
	if sum != 0 {
		fmt.Fprintf(os.Stderr, "FAILED: account balances sum to %d, want 0\n", sum)
		os.Exit(1)
	}

	log.Infof("OK: %d accounts balanced, elapsed=%s", len(accounts), elapsed)
}

// reportProgress logs a heartbeat no more often than interval, until ctx
// is canceled, so a long stress run doesn't look hung. The rate limiting
// is enforced by the logger itself rather than the ticker cadence, so
// this is safe to call from a tighter loop too.
func reportProgress(ctx context.Context, interval time.Duration) {
	heartbeat := log.RateLimitedLogger(log.Log(), interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			heartbeat.Infof("stress test still running...")
		}
	}
}
