// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements fungible token balances kept in state, and the narrow
// custody interface the farm moves funds through.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

var (
	slotInfo     = thor.BytesToBytes32([]byte(("token-info")))
	slotBalances = thor.BytesToBytes32([]byte(("token-balances")))
	slotSupply   = thor.BytesToBytes32([]byte(("token-supply")))

	ErrUnknownToken        = reverts.New("Token: unknown token")
	ErrInsufficientBalance = reverts.New("ERC20: transfer amount exceeds balance")
	ErrZeroAddress         = reverts.New("ERC20: transfer to the zero address")
	ErrNegativeAmount      = reverts.New("ERC20: negative amount")
)

// Token is a single token seen from one holder, the farm.
type Token interface {
	Address() thor.Address
	// TransferIn moves amount from account to the holder.
	TransferIn(from thor.Address, amount *big.Int) error
	// TransferOut moves amount from the holder to account.
	TransferOut(to thor.Address, amount *big.Int) error
	BalanceOf(account thor.Address) (*big.Int, error)
	Decimals() (uint8, error)
}

// Registry resolves token addresses.
type Registry interface {
	Token(addr thor.Address) Token
}

// Info describes a registered token.
type Info struct {
	Symbol   string
	Decimals uint8
}

type balanceKey struct {
	token  thor.Address
	holder thor.Address
}

func (k balanceKey) Bytes() []byte {
	b := make([]byte, 0, 40)
	b = append(b, k.token[:]...)
	return append(b, k.holder[:]...)
}

// Ledger stores balances of every registered token.
type Ledger struct {
	info     *solidity.Mapping[thor.Address, *Info]
	balances *solidity.Mapping[balanceKey, *big.Int]
	supply   *solidity.Mapping[thor.Address, *big.Int]
}

func NewLedger(sctx *solidity.Context) *Ledger {
	return &Ledger{
		info:     solidity.NewMapping[thor.Address, *Info](sctx, slotInfo),
		balances: solidity.NewMapping[balanceKey, *big.Int](sctx, slotBalances),
		supply:   solidity.NewMapping[thor.Address, *big.Int](sctx, slotSupply),
	}
}

// Register adds a token. Registering an existing address replaces its metadata only.
func (l *Ledger) Register(addr thor.Address, symbol string, decimals uint8) error {
	if addr.IsZero() {
		return errors.New("token address must be non zero")
	}
	if err := l.info.Set(addr, &Info{Symbol: symbol, Decimals: decimals}); err != nil {
		return errors.Wrap(err, "failed to set token info")
	}
	return nil
}

// Info returns the token metadata, nil if the token is not registered.
func (l *Ledger) Info(addr thor.Address) (*Info, error) {
	exists, err := l.info.Exists(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token info")
	}
	if !exists {
		return nil, nil
	}
	info, err := l.info.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token info")
	}
	return info, nil
}

func (l *Ledger) mustExist(addr thor.Address) error {
	info, err := l.Info(addr)
	if err != nil {
		return err
	}
	if info == nil {
		return ErrUnknownToken
	}
	return nil
}

func (l *Ledger) BalanceOf(token, holder thor.Address) (*big.Int, error) {
	bal, err := l.balances.Get(balanceKey{token, holder})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (l *Ledger) TotalSupply(token thor.Address) (*big.Int, error) {
	supply, err := l.supply.Get(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get supply")
	}
	return supply, nil
}

func (l *Ledger) setBalance(token, holder thor.Address, bal *big.Int) error {
	key := balanceKey{token, holder}
	if bal.Sign() == 0 {
		l.balances.Delete(key)
		return nil
	}
	if err := l.balances.Set(key, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

// Mint credits amount to holder and grows the supply.
func (l *Ledger) Mint(token, to thor.Address, amount *big.Int) error {
	if err := l.mustExist(token); err != nil {
		return err
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	bal, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(token, to, bal.Add(bal, amount)); err != nil {
		return err
	}
	supply, err := l.TotalSupply(token)
	if err != nil {
		return err
	}
	return l.supply.Set(token, supply.Add(supply, amount))
}

// Transfer moves amount between two accounts.
func (l *Ledger) Transfer(token, from, to thor.Address, amount *big.Int) error {
	if err := l.mustExist(token); err != nil {
		return err
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}

	fromBal, err := l.BalanceOf(token, from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBal, err := l.BalanceOf(token, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(token, from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.setBalance(token, to, toBal.Add(toBal, amount))
}

// Bind returns a registry of tokens held by holder.
func (l *Ledger) Bind(holder thor.Address) Registry {
	return &vault{ledger: l, holder: holder}
}

type vault struct {
	ledger *Ledger
	holder thor.Address
}

func (v *vault) Token(addr thor.Address) Token {
	return &bound{vault: v, addr: addr}
}

type bound struct {
	vault *vault
	addr  thor.Address
}

func (b *bound) Address() thor.Address { return b.addr }

func (b *bound) TransferIn(from thor.Address, amount *big.Int) error {
	return b.vault.ledger.Transfer(b.addr, from, b.vault.holder, amount)
}

func (b *bound) TransferOut(to thor.Address, amount *big.Int) error {
	return b.vault.ledger.Transfer(b.addr, b.vault.holder, to, amount)
}

func (b *bound) BalanceOf(account thor.Address) (*big.Int, error) {
	return b.vault.ledger.BalanceOf(b.addr, account)
}

func (b *bound) Decimals() (uint8, error) {
	info, err := b.vault.ledger.Info(b.addr)
	if err != nil {
		return 0, err
	}
	if info == nil {
		return 0, ErrUnknownToken
	}
	return info.Decimals, nil
}
