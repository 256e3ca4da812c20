// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

// MeterFunc is charged with the count of 32-byte slots read or written.
type MeterFunc func(op Op, slots uint64)

// Op is a storage operation kind.
type Op int

const (
	OpRead Op = iota
	OpWrite
)

// Context binds storage helpers to the state of one builtin address.
type Context struct {
	address thor.Address
	state   *state.State
	meter   MeterFunc
}

func NewContext(address thor.Address, state *state.State, meter MeterFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		meter:   meter,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) use(op Op, size int) {
	if c.meter != nil {
		c.meter(op, (uint64(size)+31)/32)
	}
}
