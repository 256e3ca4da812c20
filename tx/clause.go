// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/thor"
)

// Method names a farm operation.
type Method string

const (
	MethodConfigPool             Method = "configPool"
	MethodStake                  Method = "stake"
	MethodClaimReward            Method = "claimReward"
	MethodUnstake                Method = "unstake"
	MethodEmergencyUnstake       Method = "emergencyUnstake"
	MethodRetrieveTokens         Method = "retrieveTokens"
	MethodChangeStakingDuration  Method = "changeStakingDuration"
	MethodChangeStakeMultiplier  Method = "changeStakeMultiplier"
	MethodChangeReferralPercents Method = "changeReferralPercents"
	MethodChangeRetentionFees    Method = "changeRetentionFees"
	MethodPause                  Method = "pause"
	MethodUnpause                Method = "unpause"
	MethodTransferOwnership      Method = "transferOwnership"
	MethodTransfer               Method = "transfer"
)

// Clause is one method call with rlp encoded arguments.
type Clause struct {
	Method Method
	Args   rlp.RawValue
}

// NewClause encodes args for method.
func NewClause(method Method, args any) (Clause, error) {
	if args == nil {
		args = []any{}
	}
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		return Clause{}, errors.Wrap(err, "encode args")
	}
	return Clause{Method: method, Args: data}, nil
}

// MustNewClause is NewClause that panics on failure.
func MustNewClause(method Method, args any) Clause {
	c, err := NewClause(method, args)
	if err != nil {
		panic(err)
	}
	return c
}

// DecodeArgs decodes the arguments into val.
func (c *Clause) DecodeArgs(val any) error {
	if err := rlp.DecodeBytes(c.Args, val); err != nil {
		return errors.Wrapf(err, "decode %s args", c.Method)
	}
	return nil
}

// Arguments of each method.
type (
	ConfigPoolArgs struct {
		StakedToken        thor.Address
		MinStakeAmount     *big.Int
		MaxStakeAmount     *big.Int
		TotalStakeLimit    *big.Int
		RewardTokens       []thor.Address
		RewardRates        []*big.Int
		MaxPenaltyPercent  uint64
		PenaltyDuration    uint64
		PenaltyReceiver    thor.Address
		ReferralToken      thor.Address
		ReferralMultiplier *big.Int
	}

	StakeArgs struct {
		Referrer    thor.Address
		StakedToken thor.Address
		Amount      *big.Int
	}

	StakeIDArgs struct {
		ID uint64
	}

	EmergencyUnstakeArgs struct {
		User               thor.Address
		ID                 uint64
		RewardAmounts      []*big.Int
		PayReferralRewards bool
	}

	RetrieveTokensArgs struct {
		Token  thor.Address
		Amount *big.Int
	}

	ChangeStakingDurationArgs struct {
		Days uint64
	}

	ChangeStakeMultiplierArgs struct {
		Multiplier uint64
	}

	ChangeReferralPercentsArgs struct {
		Percents []uint64
	}

	ChangeRetentionFeesArgs struct {
		NoReferrer   uint64
		WithReferrer uint64
	}

	TransferOwnershipArgs struct {
		NewOwner thor.Address
	}

	// TransferArgs moves tokens held by the origin.
	TransferArgs struct {
		Token  thor.Address
		To     thor.Address
		Amount *big.Int
	}
)
