// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/thor"
)

// Transaction is an immutable signed call of one farm method.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Pointer[thor.Bytes32]
		origin      atomic.Pointer[thor.Address]
		id          atomic.Pointer[thor.Bytes32]
		size        atomic.Uint64
	}
}

// body describes details of a tx.
type body struct {
	ChainTag  byte
	Nonce     uint64
	Gas       uint64
	Clause    Clause
	Signature []byte
}

// ChainTag returns the tag of the chain the tx is bound to.
func (t *Transaction) ChainTag() byte {
	return t.body.ChainTag
}

// Nonce returns the sender nonce. It must equal the number of txs the origin already applied.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Gas returns gas provision for this tx. Zero means the node default.
func (t *Transaction) Gas() uint64 {
	return t.body.Gas
}

func (t *Transaction) Method() Method {
	return t.body.Clause.Method
}

// Clause returns a copy of the call.
func (t *Transaction) Clause() Clause {
	return Clause{
		Method: t.body.Clause.Method,
		Args:   append(rlp.RawValue(nil), t.body.Clause.Args...),
	}
}

// DecodeArgs decodes the call arguments into val.
func (t *Transaction) DecodeArgs(val any) error {
	return t.body.Clause.DecodeArgs(val)
}

// Signature returns signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// SigningHash returns hash of tx excludes signature.
func (t *Transaction) SigningHash() thor.Bytes32 {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	hash := thor.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.ChainTag,
			t.body.Nonce,
			t.body.Gas,
			&t.body.Clause,
		})
	})
	t.cache.signingHash.Store(&hash)
	return hash
}

// Origin recovers the tx sender from the signature.
func (t *Transaction) Origin() (thor.Address, error) {
	if cached := t.cache.origin.Load(); cached != nil {
		return *cached, nil
	}
	if len(t.body.Signature) != crypto.SignatureLength {
		return thor.Address{}, errors.New("invalid signature length")
	}
	hash := t.SigningHash()
	pub, err := crypto.SigToPub(hash[:], t.body.Signature)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "recover origin")
	}
	origin := thor.Address(crypto.PubkeyToAddress(*pub))
	t.cache.origin.Store(&origin)
	return origin, nil
}

// ID returns id of tx, the hash of signing hash and origin.
func (t *Transaction) ID() thor.Bytes32 {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}
	origin, err := t.Origin()
	if err != nil {
		return thor.Bytes32{}
	}
	hash := t.SigningHash()
	id := thor.Blake2b(hash[:], origin[:])
	t.cache.id.Store(&id)
	return id
}

// WithSignature create a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{
		body: t.body,
	}
	// copy sig
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// Size returns the encoded size of the tx.
func (t *Transaction) Size() uint64 {
	if cached := t.cache.size.Load(); cached != 0 {
		return cached
	}
	data, err := rlp.EncodeToBytes(t)
	if err != nil {
		return 0
	}
	size := uint64(len(data))
	t.cache.size.Store(size)
	return size
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	t.body = body
	t.cache.signingHash.Store(nil)
	t.cache.origin.Store(nil)
	t.cache.id.Store(nil)
	t.cache.size.Store(0)
	return nil
}

// MarshalBinary returns the rlp encoding of the tx.
func (t *Transaction) MarshalBinary() ([]byte, error) {
	return rlp.EncodeToBytes(t)
}

// UnmarshalBinary decodes the rlp encoding of a tx.
func (t *Transaction) UnmarshalBinary(data []byte) error {
	return rlp.DecodeBytes(data, t)
}
