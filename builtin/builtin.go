// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/builtin/farming/token"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

// Builtin accounts binding.
var (
	Farming = &farmingAccount{thor.BytesToAddress([]byte("Farming"))}
	Tokens  = &tokensAccount{thor.BytesToAddress([]byte("Tokens"))}
)

type (
	farmingAccount struct{ Address thor.Address }
	tokensAccount  struct{ Address thor.Address }
)

// WithState binds the farm to state. meter is optional.
func (f *farmingAccount) WithState(st *state.State, env farming.Env, meter solidity.MeterFunc) *farming.Farming {
	return farming.New(f.Address, st, Tokens.WithState(st, meter).Bind(f.Address), env, meter)
}

// WithState binds the token ledger to state. meter is optional.
func (t *tokensAccount) WithState(st *state.State, meter solidity.MeterFunc) *token.Ledger {
	return token.NewLedger(solidity.NewContext(t.Address, st, meter))
}
