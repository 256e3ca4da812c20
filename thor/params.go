// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Constants of the farm.
const (
	SecondsPerDay uint64 = 24 * 3600

	DefaultStakingDurationDays uint64 = 90
	DefaultStakeMultiplier     uint64 = 2

	DefaultNoReferrerFee uint64 = 10 // percent withheld from a staker without referrer.
	DefaultReferrerFee   uint64 = 6  // percent withheld from a staker with referrer.

	MaxReferralDepth = 10 // upper bound on len(referral percents).
)

// Gas prices of a farm transaction.
const (
	TxGas     uint64 = 21000
	SloadGas  uint64 = 200
	SstoreGas uint64 = 5000

	DefaultTxGasLimit uint64 = 10_000_000
)

// DefaultReferralPercents payout percents per upline level, nearest first.
func DefaultReferralPercents() []uint64 {
	return []uint64{3, 2, 1}
}
