// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/yieldfarm/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the stored value, or the zero value (a new instance for pointer types) when absent.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = decode(m.context, m.position(key), &value)
	return
}

// Exists reports whether a value is stored under key.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return encode(m.context, m.position(key), value)
}

// Delete clears the value stored under key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.use(OpWrite, 1)
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

func decode[V any](ctx *Context, pos thor.Bytes32, value *V) error {
	return ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if reflect.ValueOf(*value).Kind() == reflect.Ptr {
			*value = reflect.New(reflect.TypeOf(*value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		ctx.use(OpRead, len(raw))
		return rlp.DecodeBytes(raw, value)
	})
}

func encode[V any](ctx *Context, pos thor.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		ctx.use(OpWrite, len(val))
		return val, nil
	})
}
