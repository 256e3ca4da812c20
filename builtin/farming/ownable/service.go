// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ownable keeps the farm owner and the pause switch.
package ownable

import (
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

var (
	slotOwner  = thor.BytesToBytes32([]byte(("owner")))
	slotPaused = thor.BytesToBytes32([]byte(("paused")))

	ErrNotOwner      = reverts.New("Ownable: caller is not the owner")
	ErrZeroOwner     = reverts.New("Ownable: new owner is the zero address")
	ErrPaused        = reverts.New("Pausable: paused")
	ErrNotPaused     = reverts.New("Pausable: not paused")
	errAlreadyOwned  = errors.New("owner already set")
	errOwnerRequired = errors.New("owner must be non zero")
)

// Gate answers the access questions asked by every entry point.
type Gate interface {
	IsOwner(addr thor.Address) (bool, error)
	IsPaused() (bool, error)
}

type Service struct {
	owner  *solidity.Raw[thor.Address]
	paused *solidity.Raw[bool]
}

var _ Gate = (*Service)(nil)

func New(sctx *solidity.Context) *Service {
	return &Service{
		owner:  solidity.NewRaw[thor.Address](sctx, slotOwner),
		paused: solidity.NewRaw[bool](sctx, slotPaused),
	}
}

// Initialize sets the first owner.
func (s *Service) Initialize(owner thor.Address) error {
	if owner.IsZero() {
		return errOwnerRequired
	}
	current, err := s.Owner()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errAlreadyOwned
	}
	return s.owner.Set(owner)
}

func (s *Service) Owner() (thor.Address, error) {
	owner, err := s.owner.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get owner")
	}
	return owner, nil
}

func (s *Service) IsOwner(addr thor.Address) (bool, error) {
	owner, err := s.Owner()
	if err != nil {
		return false, err
	}
	return !owner.IsZero() && owner == addr, nil
}

func (s *Service) IsPaused() (bool, error) {
	paused, err := s.paused.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to get paused flag")
	}
	return paused, nil
}

// OnlyOwner fails unless caller is the owner.
func (s *Service) OnlyOwner(caller thor.Address) error {
	ok, err := s.IsOwner(caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwner
	}
	return nil
}

// WhenNotPaused fails while the farm is paused.
func (s *Service) WhenNotPaused() error {
	return whenNotPaused(s)
}

func whenNotPaused(g Gate) error {
	paused, err := g.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}

func (s *Service) Pause(caller thor.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if err := s.WhenNotPaused(); err != nil {
		return err
	}
	return s.paused.Set(true)
}

func (s *Service) Unpause(caller thor.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	paused, err := s.IsPaused()
	if err != nil {
		return err
	}
	if !paused {
		return ErrNotPaused
	}
	return s.paused.Set(false)
}

func (s *Service) TransferOwnership(caller, newOwner thor.Address) error {
	if err := s.OnlyOwner(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return ErrZeroOwner
	}
	return s.owner.Set(newOwner)
}
