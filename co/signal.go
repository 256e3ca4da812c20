// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides a channel that is closed on the next broadcast.
type Waiter interface {
	C() <-chan struct{}
}

// Signal wakes every waiter when something happened, e.g. a tx got applied.
// Unlike sync.Cond the wait is a channel, so it composes with select.
// The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// NewWaiter returns a waiter of the broadcasts that happen from now on.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &waiter{sig: s, ch: s.current()}
}

// waiter keeps the channel it was last handed, so that a broadcast
// happening between two C calls is not missed.
type waiter struct {
	sig *Signal
	ch  chan struct{}
}

func (w *waiter) C() <-chan struct{} {
	ch := w.ch

	w.sig.mu.Lock()
	w.ch = w.sig.current()
	w.sig.mu.Unlock()

	return ch
}
