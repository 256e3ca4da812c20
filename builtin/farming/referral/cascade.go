// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package referral

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/yieldfarm/builtin/farming/fixedpoint"
	"github.com/vechain/yieldfarm/thor"
)

// Payout is one transfer to an upline member.
type Payout struct {
	Level    int // 0 is the direct referrer
	Referrer thor.Address
	Token    thor.Address
	Amount   *big.Int
}

// Plan describes what a cascade distributes.
type Plan struct {
	Percents []uint64       // per level, nearest first
	Tokens   []thor.Address // reward tokens, parallel to Base
	Base     []*big.Int     // accrued rewards before any fee

	// When Multiplier is set, each level is paid the sum over tokens of
	// Base*percent*Multiplier/1e10/100 in ReferralToken instead.
	ReferralToken thor.Address
	Multiplier    *big.Int
}

// Cascade computes the payouts of plan to upline. Levels above len(upline) are
// forfeited; zero amounts are omitted.
func Cascade(upline []thor.Address, plan *Plan) ([]Payout, error) {
	levels := min(len(upline), len(plan.Percents))
	if levels == 0 {
		return nil, nil
	}

	useReferralToken := plan.Multiplier != nil
	var mult *uint256.Int
	if useReferralToken {
		var err error
		if mult, err = fixedpoint.FromBig(plan.Multiplier); err != nil {
			return nil, err
		}
	}

	base := make([]*uint256.Int, len(plan.Base))
	for j, b := range plan.Base {
		v, err := fixedpoint.FromBig(b)
		if err != nil {
			return nil, err
		}
		base[j] = v
	}

	var payouts []Payout
	for k := range levels {
		pct := fixedpoint.U64(plan.Percents[k])
		if useReferralToken {
			factor, err := fixedpoint.Mul(pct, mult)
			if err != nil {
				return nil, err
			}
			denom := fixedpoint.U64(fixedpoint.ReferralMultiplierScale * fixedpoint.Hundred)
			sum := new(uint256.Int)
			for _, b := range base {
				amount, err := fixedpoint.MulDiv(b, factor, denom)
				if err != nil {
					return nil, err
				}
				if sum, err = fixedpoint.Add(sum, amount); err != nil {
					return nil, err
				}
			}
			if !sum.IsZero() {
				payouts = append(payouts, Payout{Level: k, Referrer: upline[k], Token: plan.ReferralToken, Amount: sum.ToBig()})
			}
			continue
		}

		for j, b := range base {
			amount, err := fixedpoint.MulDiv(b, pct, fixedpoint.U64(fixedpoint.Hundred))
			if err != nil {
				return nil, err
			}
			if !amount.IsZero() {
				payouts = append(payouts, Payout{Level: k, Referrer: upline[k], Token: plan.Tokens[j], Amount: amount.ToBig()})
			}
		}
	}
	return payouts, nil
}
