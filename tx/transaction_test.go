// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/thor"
)

func newStakeTx(t *testing.T, nonce uint64) *Transaction {
	clause, err := NewClause(MethodStake, &StakeArgs{
		StakedToken: thor.Address{1},
		Amount:      big.NewInt(100),
	})
	require.NoError(t, err)
	return new(Builder).ChainTag(0x4a).Nonce(nonce).Gas(50_000).Clause(clause).Build()
}

func TestEncoding(t *testing.T) {
	trx := newStakeTx(t, 1)
	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	data2, err := rlp.EncodeToBytes(&decoded)
	require.NoError(t, err)
	assert.Equal(t, data, data2)
	assert.Equal(t, uint64(len(data)), decoded.Size())

	assert.Equal(t, byte(0x4a), decoded.ChainTag())
	assert.Equal(t, uint64(1), decoded.Nonce())
	assert.Equal(t, uint64(50_000), decoded.Gas())
	assert.Equal(t, MethodStake, decoded.Method())

	var args StakeArgs
	require.NoError(t, decoded.DecodeArgs(&args))
	assert.Equal(t, big.NewInt(100), args.Amount)
	assert.Equal(t, thor.Address{1}, args.StakedToken)

	var wrong EmergencyUnstakeArgs
	assert.Error(t, decoded.DecodeArgs(&wrong))
}

func TestSign(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)

	unsigned := newStakeTx(t, 7)
	_, err = unsigned.Origin()
	assert.Error(t, err)

	signed, err := Sign(unsigned, pk)
	require.NoError(t, err)

	origin, err := signed.Origin()
	require.NoError(t, err)
	assert.Equal(t, thor.Address(crypto.PubkeyToAddress(pk.PublicKey)), origin)
	assert.Equal(t, unsigned.SigningHash(), signed.SigningHash())
	assert.False(t, signed.ID().IsZero())

	// the signature survives encoding
	data, err := signed.MarshalBinary()
	require.NoError(t, err)
	var decoded Transaction
	require.NoError(t, decoded.UnmarshalBinary(data))
	origin2, err := decoded.Origin()
	require.NoError(t, err)
	assert.Equal(t, origin, origin2)
	assert.Equal(t, signed.ID(), decoded.ID())

	// any change invalidates the signer
	tampered := newStakeTx(t, 8).WithSignature(signed.Signature())
	origin3, err := tampered.Origin()
	if err == nil {
		assert.NotEqual(t, origin, origin3)
	}
}

func TestNewClauseWithoutArgs(t *testing.T) {
	c := MustNewClause(MethodPause, nil)
	assert.Equal(t, MethodPause, c.Method)

	var empty []any
	assert.NoError(t, c.DecodeArgs(&empty))
}
