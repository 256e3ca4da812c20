// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"sync/atomic"
	"time"
)

// Clock tells the time transactions are executed at, in unix seconds.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock only moves when told to.
type ManualClock struct {
	now atomic.Uint64
}

func NewManualClock(now uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(now)
	return c
}

func (c *ManualClock) Now() uint64 {
	return c.now.Load()
}

// Set sets the time. Going backwards is ignored by the node.
func (c *ManualClock) Set(now uint64) {
	c.now.Store(now)
}

// Advance moves the time forward by seconds.
func (c *ManualClock) Advance(seconds uint64) uint64 {
	return c.now.Add(seconds)
}
