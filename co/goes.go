// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co contains goroutine helpers shared by the node and its servers.
package co

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Goes to run and manage life-cycle of go routines.
type Goes struct {
	wg sync.WaitGroup
}

// Go run f in go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait wait for all go routines started by 'Go' done.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done return the done channel for exiting of all go routines.
func (g *Goes) Done() chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}

// Service is a long running routine that returns when ctx is done.
type Service func(ctx context.Context) error

// Run runs all services until ctx is done or one of them fails.
// The first failure cancels the others, and is returned once all have exited.
func Run(ctx context.Context, services ...Service) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, svc := range services {
		g.Go(func() error { return svc(ctx) })
	}
	return g.Wait()
}
