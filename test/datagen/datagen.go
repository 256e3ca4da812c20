// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random values for tests.
package datagen

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/vechain/yieldfarm/thor"
)

func RandBytes32() (b thor.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandUnits returns between 1 and n whole tokens of 18 decimals.
func RandUnits(n int) *big.Int {
	units := big.NewInt(int64(RandIntN(n) + 1))
	return units.Mul(units, big.NewInt(1e18))
}
