// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/token"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

const (
	deploy = uint64(1_700_000_000)
	day    = thor.SecondsPerDay
)

var (
	farmAddr   = thor.BytesToAddress([]byte("Farming"))
	ledgerAddr = thor.BytesToAddress([]byte("Tokens"))

	owner    = thor.Address{0x0e}
	receiver = thor.Address{0x77}
	staked   = thor.Address{0x51}
	rew1     = thor.Address{0x61}
	rew2     = thor.Address{0x62}
	refTok   = thor.Address{0x63}

	farmFunds = new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)
)

type harness struct {
	t      *testing.T
	state  *state.State
	ledger *token.Ledger
	now    uint64
	seq    uint64
}

func newHarness(t *testing.T) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	ledger := token.NewLedger(solidity.NewContext(ledgerAddr, st, nil))
	for _, tok := range []thor.Address{staked, rew1, rew2, refTok} {
		require.NoError(t, ledger.Register(tok, tok.String()[:6], 18))
	}
	for _, tok := range []thor.Address{rew1, rew2, refTok} {
		require.NoError(t, ledger.Mint(tok, farmAddr, farmFunds))
	}

	h := &harness{t: t, state: st, ledger: ledger, now: deploy}
	require.NoError(t, h.farm().Initialize(owner, deploy))
	return h
}

// farm returns the farm as seen by the next transition at the current time.
func (h *harness) farm() *Farming {
	h.seq++
	return New(farmAddr, h.state, h.ledger.Bind(farmAddr), Env{Time: h.now, Seq: h.seq}, nil)
}

func (h *harness) advance(seconds uint64) {
	h.now += seconds
}

func (h *harness) fund(user thor.Address, amount int64) {
	require.NoError(h.t, h.ledger.Mint(staked, user, big.NewInt(amount)))
}

func (h *harness) configure(cfg *pool.Config) {
	require.NoError(h.t, h.farm().ConfigPool(owner, staked, cfg))
}

func (h *harness) stake(user, referrer thor.Address, amount int64) uint64 {
	h.fund(user, amount)
	id, err := h.farm().Stake(user, referrer, staked, big.NewInt(amount))
	require.NoError(h.t, err)
	return id
}

func (h *harness) balance(tok, holder thor.Address) string {
	bal, err := h.ledger.BalanceOf(tok, holder)
	require.NoError(h.t, err)
	return bal.String()
}

func defaultConfig() *pool.Config {
	return &pool.Config{
		MinStakeAmount:  big.NewInt(1),
		MaxStakeAmount:  big.NewInt(1_000_000_000),
		TotalStakeLimit: big.NewInt(0),
		RewardTokens:    []thor.Address{rew1, rew2},
		RewardRates:     []*big.Int{big.NewInt(1e18), big.NewInt(2e18)},
		PenaltyReceiver: receiver,
	}
}
