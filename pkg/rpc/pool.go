// Copyright 2019 Intel Corporation. All Rights Reserved.
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

package rpc

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/NetSys/sparrow/pkg/instrumentation"
	logger "github.com/NetSys/sparrow/pkg/log"
)

var log = logger.NewLogger("rpc")

// dial opens a gRPC connection: instrumented, blocking until ready,
// failing fast on permanent dial errors.
func dial(ctx context.Context, address string) (*grpc.ClientConn, error) {
	opts := instrumentation.InjectGrpcClientTrace(
		grpc.WithInsecure(),
		grpc.WithBlock(),
		grpc.FailOnNonTempDialError(true),
	)
	return grpc.DialContext(ctx, address, opts...)
}

// SchedulerPool is the connection pool a Task Puller borrows getTask
// clients from, keyed by scheduler address. Borrow may
// block briefly: new connections are throttled by a token bucket so a
// burst of reservations against schedulers the node monitor has never
// talked to cannot open unbounded connections at once.
type SchedulerPool struct {
	mu      sync.Mutex
	conns   map[string]*grpc.ClientConn
	limiter *rate.Limiter
}

// NewSchedulerPool creates an empty pool. createRate/createBurst bound how
// fast new scheduler connections may be dialed.
func NewSchedulerPool(createRate rate.Limit, createBurst int) *SchedulerPool {
	return &SchedulerPool{
		conns:   make(map[string]*grpc.ClientConn),
		limiter: rate.NewLimiter(createRate, createBurst),
	}
}

// Borrow returns a SchedulerClient for address, dialing and caching a new
// connection on a miss.
func (p *SchedulerPool) Borrow(ctx context.Context, address string) (SchedulerClient, error) {
	p.mu.Lock()
	if cc, ok := p.conns[address]; ok {
		p.mu.Unlock()
		return NewSchedulerClient(cc), nil
	}
	p.mu.Unlock()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cc, err := dial(ctx, address)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if existing, ok := p.conns[address]; ok {
		p.mu.Unlock()
		cc.Close()
		return NewSchedulerClient(existing), nil
	}
	p.conns[address] = cc
	p.mu.Unlock()

	return NewSchedulerClient(cc), nil
}

// Drop closes and evicts the connection to address, if any. Called after a
// transport error during getTask; the next Borrow for address dials a
// fresh one.
func (p *SchedulerPool) Drop(address string) {
	p.mu.Lock()
	cc, ok := p.conns[address]
	delete(p.conns, address)
	p.mu.Unlock()

	if ok {
		log.Debug("dropping scheduler connection to %s", address)
		cc.Close()
	}
}

// Close tears down every pooled connection, aggregating close errors.
func (p *SchedulerPool) Close() error {
	p.mu.Lock()
	conns := p.conns
	p.conns = make(map[string]*grpc.ClientConn)
	p.mu.Unlock()

	var result error
	for addr, cc := range conns {
		if err := cc.Close(); err != nil {
			result = appendErr(result, addr, err)
		}
	}
	return result
}

// BackendPool caps the number of concurrently open launchTask clients per
// application backend at P: at most P concurrently open launchTask clients
// per backend. Unlike SchedulerPool it hands out a connection per Acquire
// rather than sharing one per address, since launchTask calls from
// different launcher workers must not serialize behind a single conn.
type BackendPool struct {
	mu    sync.Mutex
	sems  map[string]*semaphore.Weighted
	conns map[string][]*grpc.ClientConn
	cap   int64
}

// NewBackendPool creates a pool allowing up to perBackend concurrent
// launchTask clients for any one backend address.
func NewBackendPool(perBackend int64) *BackendPool {
	return &BackendPool{
		sems:  make(map[string]*semaphore.Weighted),
		conns: make(map[string][]*grpc.ClientConn),
		cap:   perBackend,
	}
}

func (p *BackendPool) semFor(address string) *semaphore.Weighted {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sems[address]
	if !ok {
		s = semaphore.NewWeighted(p.cap)
		p.sems[address] = s
	}
	return s
}

// Acquire blocks until a launchTask slot for address is available, then
// returns a connected BackendClient and a release function the caller
// must invoke exactly once when done with it. release(true) returns the
// connection to the pool for reuse; release(false) closes it instead, for
// a launchTask call that failed with a transport error and may have left
// the connection unhealthy.
func (p *BackendPool) Acquire(ctx context.Context, address string) (BackendClient, func(healthy bool), error) {
	sem := p.semFor(address)
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}

	cc, err := p.take(ctx, address)
	if err != nil {
		sem.Release(1)
		return nil, nil, err
	}

	release := func(healthy bool) {
		if healthy {
			p.give(address, cc)
		} else {
			log.Debug("dropping backend connection to %s", address)
			cc.Close()
		}
		sem.Release(1)
	}
	return NewBackendClient(cc), release, nil
}

// take pops a cached connection for address or dials a fresh one.
func (p *BackendPool) take(ctx context.Context, address string) (*grpc.ClientConn, error) {
	p.mu.Lock()
	if pool := p.conns[address]; len(pool) > 0 {
		cc := pool[len(pool)-1]
		p.conns[address] = pool[:len(pool)-1]
		p.mu.Unlock()
		return cc, nil
	}
	p.mu.Unlock()

	return dial(ctx, address)
}

func (p *BackendPool) give(address string, cc *grpc.ClientConn) {
	p.mu.Lock()
	p.conns[address] = append(p.conns[address], cc)
	p.mu.Unlock()
}

// Close tears down every cached connection in the pool.
func (p *BackendPool) Close() error {
	p.mu.Lock()
	conns := p.conns
	p.conns = make(map[string][]*grpc.ClientConn)
	p.mu.Unlock()

	var result error
	for addr, pool := range conns {
		for _, cc := range pool {
			if err := cc.Close(); err != nil {
				result = appendErr(result, addr, err)
			}
		}
	}
	return result
}
