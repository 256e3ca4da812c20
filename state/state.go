// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/yieldfarm/kv"
	"github.com/vechain/yieldfarm/stackedmap"
	"github.com/vechain/yieldfarm/thor"
)

const (
	storageBucket = kv.Bucket("s")
	metaBucket    = kv.Bucket("m")
)

var rootKey = []byte("root")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, thor.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages contract storage on top of a kv store.
// All writes are journaled in memory, and can be reverted to any checkpoint.
// Stage collects the journal into a change set to be committed.
type State struct {
	store   kv.Store
	storage kv.Store
	meta    kv.Store
	cache   *Cache
	sm      *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create a state object on the committed content of store.
// cache is optional. It is left out when the committed root cannot be read.
func New(store kv.Store, cache *Cache) *State {
	s := &State{
		store:   store,
		storage: storageBucket.NewStore(store),
		meta:    metaBucket.NewStore(store),
	}
	if cache != nil {
		if root, err := s.Root(); err == nil {
			cache.sync(root)
			s.cache = cache
		}
	}
	s.sm = stackedmap.New(s.load)
	return s
}

func (s *State) load(key storageKey) (rlp.RawValue, bool, error) {
	k := key.bytes()
	if s.cache != nil {
		if raw, ok := s.cache.get(k); ok {
			metricStorageAccess().AddWithLabel(1, map[string]string{"target": "cache"})
			return raw, true, nil
		}
	}
	metricStorageAccess().AddWithLabel(1, map[string]string{"target": "store"})

	data, err := s.storage.Get(k)
	if err != nil {
		if !s.storage.IsNotFound(err) {
			return nil, false, err
		}
		data = nil
	}
	raw, err := decodeValue(data)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.cache.set(k, raw)
	}
	return raw, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage set storage value in rlp raw.
// An empty value deletes the slot on commit.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Root returns the root of the committed content this state is built on.
func (s *State) Root() (thor.Bytes32, error) {
	data, err := s.meta.Get(rootKey)
	if err != nil {
		if s.meta.IsNotFound(err) {
			return thor.Bytes32{}, nil
		}
		return thor.Bytes32{}, &Error{err}
	}
	return thor.BytesToBytes32(data), nil
}

// Stage makes a stage object to compute the new root and commit the changes.
func (s *State) Stage() (*Stage, error) {
	parent, err := s.Root()
	if err != nil {
		return nil, err
	}

	// later puts overwrite earlier ones
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return newStage(s, parent, changes), nil
}
