// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/yieldfarm/thor"
)

// ConfigVariable is a uint64 setting with a default value, overridden once written to storage.
type ConfigVariable struct {
	name string
	def  uint64
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{name: name, def: defaultValue}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Default() uint64 {
	return c.def
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return thor.BytesToBytes32([]byte(c.name))
}

// Get returns the stored value, the default when never set.
func (c *ConfigVariable) Get(ctx *Context) (value uint64, err error) {
	err = ctx.state.DecodeStorage(ctx.address, c.Slot(), func(raw []byte) error {
		if len(raw) == 0 {
			value = c.def
			return nil
		}
		ctx.use(OpRead, len(raw))
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (c *ConfigVariable) Set(ctx *Context, value uint64) error {
	return encode(ctx, c.Slot(), value)
}
