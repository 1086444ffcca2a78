// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package fee implements the proportional transfer fee charged by the ledger:
// a ratio over Precision, a recipient, and a whitelist of exempt accounts.
package fee

import (
	"bytes"
	"math/big"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Precision is the denominator of the fee ratio. A ratio of 200 is 2%.
const Precision uint64 = 10000

var precision = uint256.NewInt(Precision)

// Authority holds the fee configuration of a ledger. Mutations are gated on
// the admin account, which only the owning ledger may reassign.
type Authority struct {
	mu        sync.RWMutex
	admin     common.Address
	ratio     uint64
	recipient common.Address
	whitelist mapset.Set[common.Address]
}

// NewAuthority creates a fee authority administered by admin with no fee
// configured.
func NewAuthority(admin common.Address) *Authority {
	return &Authority{
		admin:     admin,
		whitelist: mapset.NewThreadUnsafeSet[common.Address](),
	}
}

// Admin returns the account allowed to change the fee configuration.
func (a *Authority) Admin() common.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.admin
}

// SetAdmin reassigns admin authority. It performs no authorization of its
// own: the owning ledger calls it after checking its owner.
func (a *Authority) SetAdmin(admin common.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.admin = admin
}

// Ratio returns the configured fee ratio.
func (a *Authority) Ratio() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ratio
}

// Recipient returns the fee recipient, the zero address if none is set.
func (a *Authority) Recipient() common.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.recipient
}

// IsWhitelisted reports whether account is exempt from fees.
func (a *Authority) IsWhitelisted(account common.Address) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.whitelist.Contains(account)
}

// Whitelist returns the exempt accounts in ascending byte order.
func (a *Authority) Whitelist() []common.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()

	accounts := a.whitelist.ToSlice()
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i][:], accounts[j][:]) < 0
	})
	return accounts
}

// SetFeeRatio sets the fee ratio. The ratio must be strictly below Precision.
func (a *Authority) SetFeeRatio(caller common.Address, ratio uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.admin {
		return ErrUnauthorized
	}
	if ratio >= Precision {
		return ErrRatioTooLarge
	}
	log.Debug("Fee ratio updated", "old", a.ratio, "new", ratio)
	a.ratio = ratio
	return nil
}

// SetFeeRecipient sets the account credited with collected fees.
func (a *Authority) SetFeeRecipient(caller, recipient common.Address) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.admin {
		return ErrUnauthorized
	}
	if recipient == (common.Address{}) {
		return ErrZeroAddress
	}
	a.recipient = recipient
	return nil
}

// AddToWhitelist exempts accounts from fees.
func (a *Authority) AddToWhitelist(caller common.Address, accounts []common.Address) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkBatch(caller, accounts); err != nil {
		return err
	}
	for _, account := range accounts {
		a.whitelist.Add(account)
	}
	return nil
}

// DelFromWhitelist removes fee exemption from accounts. Accounts that are not
// whitelisted are ignored.
func (a *Authority) DelFromWhitelist(caller common.Address, accounts []common.Address) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkBatch(caller, accounts); err != nil {
		return err
	}
	for _, account := range accounts {
		a.whitelist.Remove(account)
	}
	return nil
}

func (a *Authority) checkBatch(caller common.Address, accounts []common.Address) error {
	if caller != a.admin {
		return ErrUnauthorized
	}
	if len(accounts) == 0 {
		return ErrEmptyBatch
	}
	for _, account := range accounts {
		if account == (common.Address{}) {
			return ErrZeroAddress
		}
	}
	return nil
}

// effectiveRatio is the ratio charged on a from->to transfer: zero when
// either side is whitelisted or no recipient is configured.
func (a *Authority) effectiveRatio(from, to common.Address) uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.ratio == 0 || a.recipient == (common.Address{}) {
		return 0
	}
	if a.whitelist.Contains(from) || a.whitelist.Contains(to) {
		return 0
	}
	return a.ratio
}

// QuoteReceivedFromSent returns what to receives and the fee withheld when
// from sends sent.
func (a *Authority) QuoteReceivedFromSent(from, to common.Address, sent *big.Int) (received, fee *big.Int, err error) {
	s, err := toUint256(sent)
	if err != nil {
		return nil, nil, err
	}
	r, f := receivedFromSent(s, a.effectiveRatio(from, to))
	return r.ToBig(), f.ToBig(), nil
}

// QuoteSentForReceived returns what from must send, and the fee withheld, for
// to to receive exactly received.
func (a *Authority) QuoteSentForReceived(from, to common.Address, received *big.Int) (sent, fee *big.Int, err error) {
	r, err := toUint256(received)
	if err != nil {
		return nil, nil, err
	}
	s, f, overflow := sentForReceived(r, a.effectiveRatio(from, to))
	if overflow {
		return nil, nil, ErrAmountOverflow
	}
	return s.ToBig(), f.ToBig(), nil
}

// receivedFromSent computes fee = floor(sent*ratio/Precision) and
// received = sent - fee. It cannot overflow since ratio < Precision.
func receivedFromSent(sent *uint256.Int, ratio uint64) (received, fee *uint256.Int) {
	fee, _ = new(uint256.Int).MulDivOverflow(sent, uint256.NewInt(ratio), precision)
	received = new(uint256.Int).Sub(sent, fee)
	return received, fee
}

// sentForReceived inverts receivedFromSent with
// sent = floor(received*Precision/(Precision-ratio)). Feeding sent back
// through receivedFromSent yields received exactly for every ratio below
// Precision.
func sentForReceived(received *uint256.Int, ratio uint64) (sent, fee *uint256.Int, overflow bool) {
	denom := uint256.NewInt(Precision - ratio)
	sent, overflow = new(uint256.Int).MulDivOverflow(received, precision, denom)
	if overflow {
		return nil, nil, true
	}
	fee = new(uint256.Int).Sub(sent, received)
	return sent, fee, false
}

func toUint256(amount *big.Int) (*uint256.Int, error) {
	if amount == nil {
		return new(uint256.Int), nil
	}
	if amount.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	v, overflow := uint256.FromBig(amount)
	if overflow {
		return nil, ErrAmountOverflow
	}
	return v, nil
}

// State is the persisted form of an Authority.
type State struct {
	Admin     common.Address
	Ratio     uint64
	Recipient common.Address
	Whitelist []common.Address
}

// Export returns a snapshot of the configuration.
func (a *Authority) Export() *State {
	whitelist := a.Whitelist()

	a.mu.RLock()
	defer a.mu.RUnlock()
	return &State{
		Admin:     a.admin,
		Ratio:     a.ratio,
		Recipient: a.recipient,
		Whitelist: whitelist,
	}
}

// Restore replaces the configuration with a snapshot.
func (a *Authority) Restore(state *State) error {
	if state.Ratio >= Precision {
		return ErrRatioTooLarge
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.admin = state.Admin
	a.ratio = state.Ratio
	a.recipient = state.Recipient
	a.whitelist = mapset.NewThreadUnsafeSet[common.Address](state.Whitelist...)
	return nil
}
