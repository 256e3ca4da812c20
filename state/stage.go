// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/yieldfarm/thor"
)

type change struct {
	key []byte
	raw rlp.RawValue
}

// Stage is the ordered change set of a state, ready to be committed.
type Stage struct {
	state   *State
	parent  thor.Bytes32
	root    thor.Bytes32
	changes []change
}

func newStage(s *State, parent thor.Bytes32, m map[storageKey]rlp.RawValue) *Stage {
	changes := make([]change, 0, len(m))
	for k, v := range m {
		changes = append(changes, change{k.bytes(), v})
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].key, changes[j].key) < 0
	})

	// the root chains the parent root with the ordered change set
	root := parent
	if len(changes) > 0 {
		root = thor.Blake2bFn(func(w io.Writer) {
			w.Write(parent[:])
			for _, c := range changes {
				w.Write(c.key)
				_ = rlp.Encode(w, []byte(c.raw))
			}
		})
	}
	return &Stage{s, parent, root, changes}
}

// Root returns the state root once committed.
func (s *Stage) Root() thor.Bytes32 {
	return s.root
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit commits all changes into the underlying store atomically.
func (s *Stage) Commit() (thor.Bytes32, error) {
	if len(s.changes) == 0 {
		return s.root, nil
	}
	bulk := s.state.store.Bulk()
	storagePutter := storageBucket.NewPutter(bulk)
	for _, c := range s.changes {
		var err error
		if len(c.raw) == 0 {
			err = storagePutter.Delete(c.key)
		} else {
			err = storagePutter.Put(c.key, encodeValue(c.raw))
		}
		if err != nil {
			return thor.Bytes32{}, &Error{err}
		}
	}
	// root goes along with the storage in one batch
	metaPutter := metaBucket.NewPutter(bulk)
	if err := metaPutter.Put(rootKey, s.root[:]); err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if err := bulk.Write(); err != nil {
		return thor.Bytes32{}, &Error{err}
	}

	if cache := s.state.cache; cache != nil {
		cache.commit(s.parent, s.root, s.changes)
	}
	metricStorageWrites().Add(int64(len(s.changes)))
	return s.root, nil
}
