// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/yieldfarm/builtin"
	"github.com/vechain/yieldfarm/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode. The first one owns the farm.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{thor.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// Tokens of the dev network.
var (
	DevStakedToken   = thor.BytesToAddress([]byte("STK"))
	DevRewardToken   = thor.BytesToAddress([]byte("RWD"))
	DevBonusToken    = thor.BytesToAddress([]byte("BNS"))
	DevReferralToken = thor.BytesToAddress([]byte("REF"))
)

// DevGenesis returns the custom genesis of solo mode, launched at launchTime.
func DevGenesis(launchTime uint64) *CustomGenesis {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	units := func(n int64) *Amount {
		return (*Amount)(new(big.Int).Mul(big.NewInt(n), unit))
	}

	accs := DevAccounts()
	owner := accs[0].Address

	var stakedBalances []Balance
	for _, a := range accs {
		stakedBalances = append(stakedBalances, Balance{a.Address, units(1_000_000)})
	}
	// rewards are paid from the farm's own balances
	funds := func() []Balance {
		return []Balance{{builtin.Farming.Address, units(1_000_000_000)}}
	}
	// rates are scaled by 1e18, this pays tokens per second to the pool
	rate := func(milli int64) *Amount {
		r := new(big.Int).Mul(big.NewInt(milli), unit)
		r.Mul(r, unit)
		return (*Amount)(r.Div(r, big.NewInt(1000)))
	}

	return &CustomGenesis{
		Name:       "devnet",
		LaunchTime: launchTime,
		Owner:      owner,
		Tokens: []Token{
			{Address: DevStakedToken, Symbol: "STK", Decimals: 18, Balances: stakedBalances},
			{Address: DevRewardToken, Symbol: "RWD", Decimals: 18, Balances: funds()},
			{Address: DevBonusToken, Symbol: "BNS", Decimals: 18, Balances: funds()},
			{Address: DevReferralToken, Symbol: "REF", Decimals: 18, Balances: funds()},
		},
		Pools: []Pool{{
			StakedToken:     DevStakedToken,
			MinStakeAmount:  units(1),
			MaxStakeAmount:  units(100_000),
			TotalStakeLimit: units(10_000_000),
			Rewards: []Reward{
				{Token: DevRewardToken, Rate: rate(1000)},
				{Token: DevBonusToken, Rate: rate(250)},
			},
			MaxPenaltyPercent:  20,
			PenaltyDuration:    30 * thor.SecondsPerDay,
			PenaltyReceiver:    owner,
			ReferralToken:      DevReferralToken,
			ReferralMultiplier: (*Amount)(big.NewInt(1e10)),
		}},
	}
}

// NewDevnet create genesis for solo mode.
func NewDevnet(launchTime uint64) *Genesis {
	gen, err := NewCustomNet(DevGenesis(launchTime))
	if err != nil {
		panic(err)
	}
	return gen
}
