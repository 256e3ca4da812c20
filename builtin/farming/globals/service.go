// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globals

import (
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin/farming/fixedpoint"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

var (
	slotDeploymentTime   = thor.BytesToBytes32([]byte(("deployment-time")))
	slotReferralPercents = thor.BytesToBytes32([]byte(("referral-percents")))

	cfgStakingDuration = solidity.NewConfigVariable("staking-duration", thor.DefaultStakingDurationDays*thor.SecondsPerDay)
	cfgStakeMultiplier = solidity.NewConfigVariable("stake-multiplier", thor.DefaultStakeMultiplier)
	cfgNoReferrerFee   = solidity.NewConfigVariable("no-referrer-fee", thor.DefaultNoReferrerFee)
	cfgReferrerFee     = solidity.NewConfigVariable("referrer-fee", thor.DefaultReferrerFee)
)

// Params is a snapshot of the farm wide settings read at the start of a transition.
type Params struct {
	DeploymentTime   uint64
	StakingDuration  uint64 // seconds
	StakeMultiplier  uint64
	ReferralPercents []uint64
	NoReferrerFee    uint64 // percent withheld when the staker has no referrer
	ReferrerFee      uint64 // percent withheld when the staker has one
}

// PoolEndTime returns the instant after which nothing accrues.
func (p *Params) PoolEndTime() uint64 {
	return p.DeploymentTime + p.StakingDuration
}

// RewardUntil caps now at the pool end.
func (p *Params) RewardUntil(now uint64) uint64 {
	return fixedpoint.Min(now, p.PoolEndTime())
}

// RetentionFee returns the fee percent applied to a staker.
func (p *Params) RetentionFee(hasReferrer bool) uint64 {
	if hasReferrer {
		return p.ReferrerFee
	}
	return p.NoReferrerFee
}

// Service holds the farm wide settings.
type Service struct {
	sctx             *solidity.Context
	deploymentTime   *solidity.Raw[uint64]
	referralPercents *solidity.Raw[[]uint64]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:             sctx,
		deploymentTime:   solidity.NewRaw[uint64](sctx, slotDeploymentTime),
		referralPercents: solidity.NewRaw[[]uint64](sctx, slotReferralPercents),
	}
}

// Initialize records the deployment time. It can only happen once.
func (s *Service) Initialize(deploymentTime uint64) error {
	current, err := s.deploymentTime.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get deployment time")
	}
	if current != 0 {
		return errors.New("deployment time already set")
	}
	if deploymentTime == 0 {
		return errors.New("deployment time must be non zero")
	}
	return s.deploymentTime.Set(deploymentTime)
}

func (s *Service) DeploymentTime() (uint64, error) {
	t, err := s.deploymentTime.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get deployment time")
	}
	return t, nil
}

// StakingDuration returns the campaign length in seconds.
func (s *Service) StakingDuration() (uint64, error) {
	return cfgStakingDuration.Get(s.sctx)
}

func (s *Service) SetStakingDuration(seconds uint64) error {
	return cfgStakingDuration.Set(s.sctx, seconds)
}

func (s *Service) StakeMultiplier() (uint64, error) {
	return cfgStakeMultiplier.Get(s.sctx)
}

func (s *Service) SetStakeMultiplier(m uint64) error {
	return cfgStakeMultiplier.Set(s.sctx, m)
}

// ReferralPercents returns the per level referral percents, nearest upline first.
func (s *Service) ReferralPercents() ([]uint64, error) {
	percents, err := s.referralPercents.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get referral percents")
	}
	// an empty list is never stored
	if len(percents) == 0 {
		return thor.DefaultReferralPercents(), nil
	}
	return percents, nil
}

func (s *Service) SetReferralPercents(percents []uint64) error {
	if len(percents) == 0 {
		return errors.New("empty referral percents")
	}
	return s.referralPercents.Set(percents)
}

// RetentionFees returns the fee percents without and with a referrer.
func (s *Service) RetentionFees() (noReferrer uint64, withReferrer uint64, err error) {
	if noReferrer, err = cfgNoReferrerFee.Get(s.sctx); err != nil {
		return
	}
	withReferrer, err = cfgReferrerFee.Get(s.sctx)
	return
}

func (s *Service) SetRetentionFees(noReferrer, withReferrer uint64) error {
	if err := cfgNoReferrerFee.Set(s.sctx, noReferrer); err != nil {
		return err
	}
	return cfgReferrerFee.Set(s.sctx, withReferrer)
}

// Params reads every setting at once.
func (s *Service) Params() (*Params, error) {
	var (
		p   Params
		err error
	)
	if p.DeploymentTime, err = s.DeploymentTime(); err != nil {
		return nil, err
	}
	if p.StakingDuration, err = s.StakingDuration(); err != nil {
		return nil, errors.Wrap(err, "failed to get staking duration")
	}
	if p.StakeMultiplier, err = s.StakeMultiplier(); err != nil {
		return nil, errors.Wrap(err, "failed to get stake multiplier")
	}
	if p.ReferralPercents, err = s.ReferralPercents(); err != nil {
		return nil, err
	}
	if p.NoReferrerFee, p.ReferrerFee, err = s.RetentionFees(); err != nil {
		return nil, errors.Wrap(err, "failed to get retention fees")
	}
	return &p, nil
}
