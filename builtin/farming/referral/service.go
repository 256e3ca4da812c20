// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package referral

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

var (
	slotUsers     = thor.BytesToBytes32([]byte(("users")))
	slotReferrals = thor.BytesToBytes32([]byte(("referrals")))
)

// User is the referral record of an address.
type User struct {
	Referrer       thor.Address // zero when the user joined without one
	IsActive       bool         // set after the first unstake
	ReferralsCount uint64
}

// HasReferrer returns whether the user was referred.
func (u *User) HasReferrer() bool {
	return !u.Referrer.IsZero()
}

type referralKey struct {
	referrer thor.Address
	index    uint64
}

func (k referralKey) Bytes() []byte {
	b := make([]byte, 0, 28)
	b = append(b, k.referrer[:]...)
	return binary.BigEndian.AppendUint64(b, k.index)
}

// Service keeps who referred whom.
type Service struct {
	users     *solidity.Mapping[thor.Address, *User]
	referrals *solidity.Mapping[referralKey, thor.Address]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		users:     solidity.NewMapping[thor.Address, *User](sctx, slotUsers),
		referrals: solidity.NewMapping[referralKey, thor.Address](sctx, slotReferrals),
	}
}

// Get returns the record of addr, empty when unknown.
func (s *Service) Get(addr thor.Address) (*User, error) {
	u, err := s.users.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	return u, nil
}

// SetReferrer records referrer for user unless one is already set, the referrer is
// zero or it is the user itself. It reports whether a link was recorded.
func (s *Service) SetReferrer(user, referrer thor.Address) (bool, error) {
	if referrer.IsZero() || referrer == user {
		return false, nil
	}
	u, err := s.Get(user)
	if err != nil {
		return false, err
	}
	if u.HasReferrer() {
		return false, nil
	}
	u.Referrer = referrer
	if err := s.users.Set(user, u); err != nil {
		return false, errors.Wrap(err, "failed to set user")
	}

	r, err := s.Get(referrer)
	if err != nil {
		return false, err
	}
	if err := s.referrals.Set(referralKey{referrer, r.ReferralsCount}, user); err != nil {
		return false, errors.Wrap(err, "failed to set referral")
	}
	r.ReferralsCount++
	if err := s.users.Set(referrer, r); err != nil {
		return false, errors.Wrap(err, "failed to set user")
	}
	return true, nil
}

// Activate marks addr as a user who completed a stake cycle.
func (s *Service) Activate(addr thor.Address) error {
	u, err := s.Get(addr)
	if err != nil {
		return err
	}
	if u.IsActive {
		return nil
	}
	u.IsActive = true
	if err := s.users.Set(addr, u); err != nil {
		return errors.Wrap(err, "failed to set user")
	}
	return nil
}

// Referrals lists the direct downline of addr in join order.
func (s *Service) Referrals(addr thor.Address) ([]thor.Address, error) {
	u, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	list := make([]thor.Address, 0, u.ReferralsCount)
	for i := range u.ReferralsCount {
		r, err := s.referrals.Get(referralKey{addr, i})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get referral")
		}
		list = append(list, r)
	}
	return list, nil
}

// Upline walks up to depth referrers above addr, nearest first. The walk stops at
// the first user without a referrer.
func (s *Service) Upline(addr thor.Address, depth int) ([]thor.Address, error) {
	upline := make([]thor.Address, 0, depth)
	current := addr
	for range depth {
		u, err := s.Get(current)
		if err != nil {
			return nil, err
		}
		if !u.HasReferrer() {
			break
		}
		upline = append(upline, u.Referrer)
		current = u.Referrer
	}
	return upline, nil
}
