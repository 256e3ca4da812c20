// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint provides checked 256-bit integer arithmetic with the scale
// factors used by the farm.
//
//	Scale                   1e12  multipliers and penalty percents
//	RateScale               1e18  reward rates
//	ReferralMultiplierScale 1e10  referral token multiplier
//	ShareScale              1e18  pool reward per staked unit
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/yieldfarm/builtin/farming/reverts"
)

const (
	Scale                   uint64 = 1e12
	RateScale               uint64 = 1e18
	ReferralMultiplierScale uint64 = 1e10
	ShareScale              uint64 = 1e18
	Hundred                 uint64 = 100
)

var (
	ErrMulOverflow = reverts.New("SafeMath: multiplication overflow")
	ErrAddOverflow = reverts.New("SafeMath: addition overflow")
	ErrSubOverflow = reverts.New("SafeMath: subtraction overflow")
	ErrDivByZero   = reverts.New("SafeMath: division by zero")
)

// FromBig converts a non-negative big integer, failing when it does not fit 256 bits.
func FromBig(b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return new(uint256.Int), nil
	}
	if b.Sign() < 0 {
		return nil, ErrSubOverflow
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, ErrMulOverflow
	}
	return v, nil
}

// U64 shorthand for uint256.NewInt.
func U64(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// Mul returns x*y.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrMulOverflow
	}
	return z, nil
}

// Add returns x+y.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrAddOverflow
	}
	return z, nil
}

// Sub returns x-y.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrSubOverflow
	}
	return z, nil
}

// MulDiv returns floor(x*y/d) with a 512-bit intermediate product.
// It fails when d is zero or the result does not fit 256 bits.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrMulOverflow
	}
	return z, nil
}

// Percent returns floor(x*pct/100).
func Percent(x *uint256.Int, pct uint64) (*uint256.Int, error) {
	return MulDiv(x, U64(pct), U64(Hundred))
}

// Min returns the smaller of a and b.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
