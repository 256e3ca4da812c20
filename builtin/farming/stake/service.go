// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

var (
	slotStakes      = thor.BytesToBytes32([]byte(("stakes")))
	slotStakeCounts = thor.BytesToBytes32([]byte(("stakes-counter")))
	slotUserTotals  = thor.BytesToBytes32([]byte(("stakes-user-total")))

	ErrInvalidIndex    = reverts.New("Invalid stake index")
	ErrAlreadyUnstaked = reverts.New("Stake was unstaked already")
	errCounterOverflow = errors.New("stake ID counter overflow")
	errTotalUnderflow  = errors.New("user total staked underflow")
)

type stakeKey struct {
	owner thor.Address
	id    uint64
}

func (k stakeKey) Bytes() []byte {
	b := make([]byte, 0, 28)
	b = append(b, k.owner[:]...)
	return binary.BigEndian.AppendUint64(b, k.id)
}

// Service is the per user stake ledger. IDs are assigned per owner from 0.
type Service struct {
	stakes *solidity.Mapping[stakeKey, *Stake]
	counts *solidity.Mapping[thor.Address, uint64]
	totals *solidity.Mapping[thor.Address, *big.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		stakes: solidity.NewMapping[stakeKey, *Stake](sctx, slotStakes),
		counts: solidity.NewMapping[thor.Address, uint64](sctx, slotStakeCounts),
		totals: solidity.NewMapping[thor.Address, *big.Int](sctx, slotUserTotals),
	}
}

// Count returns how many stakes owner ever made.
func (s *Service) Count(owner thor.Address) (uint64, error) {
	n, err := s.counts.Get(owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get stake count")
	}
	return n, nil
}

// TotalStaked returns the principal owner currently has locked across pools.
func (s *Service) TotalStaked(owner thor.Address) (*big.Int, error) {
	total, err := s.totals.Get(owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user total")
	}
	return total, nil
}

// Add appends a stake for owner and returns it with its ID set.
func (s *Service) Add(owner, pool thor.Address, amount *big.Int, startTime uint64, multiplier *big.Int) (*Stake, error) {
	id, err := s.Count(owner)
	if err != nil {
		return nil, err
	}
	if id == math.MaxUint64 {
		return nil, errCounterOverflow
	}

	st := &Stake{
		ID:          id,
		Owner:       owner,
		Pool:        pool,
		Amount:      new(big.Int).Set(amount),
		StartTime:   startTime,
		Multiplier:  new(big.Int).Set(multiplier),
		ClaimedUpTo: startTime,
	}
	if err := s.stakes.Set(stakeKey{owner, id}, st); err != nil {
		return nil, errors.Wrap(err, "failed to set stake")
	}
	if err := s.counts.Set(owner, id+1); err != nil {
		return nil, errors.Wrap(err, "failed to set stake count")
	}

	total, err := s.TotalStaked(owner)
	if err != nil {
		return nil, err
	}
	if err := s.totals.Set(owner, total.Add(total, amount)); err != nil {
		return nil, errors.Wrap(err, "failed to set user total")
	}
	return st, nil
}

// Get returns the stake of owner with id.
func (s *Service) Get(owner thor.Address, id uint64) (*Stake, error) {
	n, err := s.Count(owner)
	if err != nil {
		return nil, err
	}
	if id >= n {
		return nil, ErrInvalidIndex
	}
	st, err := s.stakes.Get(stakeKey{owner, id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	st.ID = id
	st.Owner = owner
	return st, nil
}

// GetActive is Get that also rejects unstaked stakes.
func (s *Service) GetActive(owner thor.Address, id uint64) (*Stake, error) {
	st, err := s.Get(owner, id)
	if err != nil {
		return nil, err
	}
	if st.Unstaked {
		return nil, ErrAlreadyUnstaked
	}
	return st, nil
}

// List returns up to limit stakes of owner starting at offset. A zero limit lists all.
func (s *Service) List(owner thor.Address, offset, limit uint64) ([]*Stake, error) {
	n, err := s.Count(owner)
	if err != nil {
		return nil, err
	}
	if offset >= n {
		return nil, nil
	}
	end := n
	if limit > 0 && limit < n-offset {
		end = offset + limit
	}
	list := make([]*Stake, 0, end-offset)
	for id := offset; id < end; id++ {
		st, err := s.Get(owner, id)
		if err != nil {
			return nil, err
		}
		list = append(list, st)
	}
	return list, nil
}

// Update persists a settled stake.
func (s *Service) Update(st *Stake) error {
	if err := s.stakes.Set(stakeKey{st.Owner, st.ID}, st); err != nil {
		return errors.Wrap(err, "failed to set stake")
	}
	return nil
}

// MarkUnstaked flags st as unstaked at now and releases its principal from the owner total.
func (s *Service) MarkUnstaked(st *Stake, now uint64) error {
	if st.Unstaked {
		return ErrAlreadyUnstaked
	}
	total, err := s.TotalStaked(st.Owner)
	if err != nil {
		return err
	}
	if total.Cmp(st.Amount) < 0 {
		return errTotalUnderflow
	}
	if err := s.totals.Set(st.Owner, total.Sub(total, st.Amount)); err != nil {
		return errors.Wrap(err, "failed to set user total")
	}

	st.Unstaked = true
	st.UnstakeTime = now
	return s.Update(st)
}
