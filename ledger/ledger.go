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

// Package ledger is an in-memory fungible token ledger with fee-bearing
// transfers, pausing, forced transfers and two-phase ownership handoff.
package ledger

import (
	"bytes"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mccoysc/stablegov/fee"
)

var maxSupply = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Ledger holds balances and supply of a single token. Its own address can
// hold a balance; Burn destroys tokens from that balance.
type Ledger struct {
	mu            sync.RWMutex
	address       common.Address
	owner         common.Address
	proposedOwner common.Address
	paused        bool
	totalSupply   *big.Int
	balances      map[common.Address]*big.Int
	fees          *fee.Authority

	feedMu sync.Mutex
	feed   event.FeedOf[Event]
	log    log.Logger
}

// New creates an empty ledger at address owned by owner. The owner is also
// the initial fee admin.
func New(address, owner common.Address) *Ledger {
	return &Ledger{
		address:     address,
		owner:       owner,
		totalSupply: new(big.Int),
		balances:    make(map[common.Address]*big.Int),
		fees:        fee.NewAuthority(owner),
		log:         log.New("ledger", address),
	}
}

// SubscribeEvents delivers ledger events to ch in commit order.
func (l *Ledger) SubscribeEvents(ch chan<- Event) event.Subscription {
	return l.feed.Subscribe(ch)
}

// apply runs fn under the write lock and publishes its events only if it
// succeeds. The feed lock is taken before the state lock is released so
// events from consecutive calls are delivered in commit order.
func (l *Ledger) apply(fn func() ([]Event, error)) error {
	l.mu.Lock()
	events, err := fn()
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.feedMu.Lock()
	l.mu.Unlock()
	defer l.feedMu.Unlock()

	for _, ev := range events {
		l.feed.Send(ev)
	}
	return nil
}

func (l *Ledger) Address() common.Address { return l.address }

func (l *Ledger) Owner() common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.owner
}

func (l *Ledger) ProposedOwner() common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.proposedOwner
}

func (l *Ledger) Admin() common.Address { return l.fees.Admin() }

// Fees exposes the fee configuration for read-only queries and quotes.
func (l *Ledger) Fees() *fee.Authority { return l.fees }

func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paused
}

func (l *Ledger) TotalSupply() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.totalSupply)
}

// BalanceOf returns a copy of the balance of account.
func (l *Ledger) BalanceOf(account common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balance(account))
}

func (l *Ledger) balance(account common.Address) *big.Int {
	if b, ok := l.balances[account]; ok {
		return b
	}
	return new(big.Int)
}

func (l *Ledger) setBalance(account common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		delete(l.balances, account)
		return
	}
	l.balances[account] = amount
}

func (l *Ledger) move(from, to common.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	l.setBalance(from, new(big.Int).Sub(l.balance(from), amount))
	l.setBalance(to, new(big.Int).Add(l.balance(to), amount))
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Mint creates amount tokens for to.
func (l *Ledger) Mint(caller, to common.Address, amount *big.Int) error {
	return l.apply(func() ([]Event, error) {
		if caller != l.owner {
			return nil, ErrNotOwner
		}
		if to == (common.Address{}) {
			return nil, ErrZeroAddress
		}
		if err := checkAmount(amount); err != nil {
			return nil, err
		}
		supply := new(big.Int).Add(l.totalSupply, amount)
		if supply.Cmp(maxSupply) > 0 {
			return nil, ErrSupplyOverflow
		}
		l.totalSupply = supply
		l.setBalance(to, new(big.Int).Add(l.balance(to), amount))

		l.log.Info("Minted", "to", to, "amount", amount, "supply", supply)
		return []Event{Transfer{To: to, Amount: new(big.Int).Set(amount)}}, nil
	})
}

// Burn destroys amount tokens held by the ledger's own address.
func (l *Ledger) Burn(caller common.Address, amount *big.Int) error {
	return l.apply(func() ([]Event, error) {
		if caller != l.owner {
			return nil, ErrNotOwner
		}
		if err := checkAmount(amount); err != nil {
			return nil, err
		}
		held := l.balance(l.address)
		if held.Cmp(amount) < 0 {
			return nil, ErrInsufficientBalance
		}
		l.setBalance(l.address, new(big.Int).Sub(held, amount))
		l.totalSupply = new(big.Int).Sub(l.totalSupply, amount)

		l.log.Info("Burned", "amount", amount, "supply", l.totalSupply)
		return []Event{Transfer{From: l.address, Amount: new(big.Int).Set(amount)}}, nil
	})
}

// Transfer sends amount from caller to to. The fee is withheld from what to
// receives and credited to the fee recipient.
func (l *Ledger) Transfer(caller, to common.Address, amount *big.Int) error {
	return l.apply(func() ([]Event, error) {
		if err := checkAmount(amount); err != nil {
			return nil, err
		}
		received, charged, err := l.fees.QuoteReceivedFromSent(caller, to, amount)
		if err != nil {
			return nil, err
		}
		return l.transfer(caller, to, amount, received, charged)
	})
}

// TransferExact sends from caller whatever amount makes to receive exactly
// received after fees.
func (l *Ledger) TransferExact(caller, to common.Address, received *big.Int) error {
	return l.apply(func() ([]Event, error) {
		if err := checkAmount(received); err != nil {
			return nil, err
		}
		sent, charged, err := l.fees.QuoteSentForReceived(caller, to, received)
		if err != nil {
			return nil, err
		}
		return l.transfer(caller, to, sent, received, charged)
	})
}

func (l *Ledger) transfer(from, to common.Address, sent, received, charged *big.Int) ([]Event, error) {
	if l.paused {
		return nil, ErrPaused
	}
	if to == (common.Address{}) {
		return nil, ErrZeroAddress
	}
	if l.balance(from).Cmp(sent) < 0 {
		return nil, ErrInsufficientBalance
	}
	l.move(from, to, received)
	events := []Event{Transfer{From: from, To: to, Amount: received}}
	if charged.Sign() > 0 {
		recipient := l.fees.Recipient()
		l.move(from, recipient, charged)
		events = append(events, Transfer{From: from, To: recipient, Amount: charged})
	}
	return events, nil
}

// ForceTransfer moves amount from one account to another without fees and
// regardless of the pause flag.
func (l *Ledger) ForceTransfer(caller, from, to common.Address, amount *big.Int) error {
	return l.apply(func() ([]Event, error) {
		if caller != l.owner {
			return nil, ErrNotOwner
		}
		if to == (common.Address{}) {
			return nil, ErrZeroAddress
		}
		if err := checkAmount(amount); err != nil {
			return nil, err
		}
		if l.balance(from).Cmp(amount) < 0 {
			return nil, ErrInsufficientBalance
		}
		l.move(from, to, amount)

		l.log.Warn("Forced transfer", "from", from, "to", to, "amount", amount)
		return []Event{Transfer{From: from, To: to, Amount: new(big.Int).Set(amount), Forced: true}}, nil
	})
}

func (l *Ledger) Pause(caller common.Address) error {
	return l.setPaused(caller, true)
}

func (l *Ledger) Unpause(caller common.Address) error {
	return l.setPaused(caller, false)
}

func (l *Ledger) setPaused(caller common.Address, paused bool) error {
	return l.apply(func() ([]Event, error) {
		if caller != l.owner {
			return nil, ErrNotOwner
		}
		if l.paused == paused {
			if paused {
				return nil, ErrPaused
			}
			return nil, ErrNotPaused
		}
		l.paused = paused
		return []Event{PauseChanged{Caller: caller, Paused: paused}}, nil
	})
}

// ProposeOwner starts an ownership handoff to candidate. The handoff
// completes when candidate calls TakeOwnership.
func (l *Ledger) ProposeOwner(caller, candidate common.Address) error {
	return l.apply(func() ([]Event, error) {
		if caller != l.owner {
			return nil, ErrNotOwner
		}
		l.proposedOwner = candidate
		return []Event{OwnerProposed{Owner: caller, Candidate: candidate}}, nil
	})
}

func (l *Ledger) TakeOwnership(caller common.Address) error {
	return l.apply(func() ([]Event, error) {
		if caller == (common.Address{}) || caller != l.proposedOwner {
			return nil, ErrNotProposedOwner
		}
		previous := l.owner
		l.owner, l.proposedOwner = caller, common.Address{}

		l.log.Info("Ownership taken", "previous", previous, "owner", caller)
		return []Event{OwnershipTaken{Previous: previous, Owner: caller}}, nil
	})
}

// SetAdmin delegates fee administration to admin.
func (l *Ledger) SetAdmin(caller, admin common.Address) error {
	return l.apply(func() ([]Event, error) {
		if caller != l.owner {
			return nil, ErrNotOwner
		}
		l.fees.SetAdmin(admin)
		return []Event{AdminChanged{Owner: caller, Admin: admin}}, nil
	})
}

func (l *Ledger) SetFeeRatio(caller common.Address, ratio uint64) error {
	return l.apply(func() ([]Event, error) {
		if err := l.fees.SetFeeRatio(caller, ratio); err != nil {
			return nil, err
		}
		return []Event{FeeRatioChanged{Admin: caller, Ratio: ratio}}, nil
	})
}

func (l *Ledger) SetFeeRecipient(caller, recipient common.Address) error {
	return l.apply(func() ([]Event, error) {
		return nil, l.fees.SetFeeRecipient(caller, recipient)
	})
}

func (l *Ledger) AddToWhitelist(caller common.Address, accounts []common.Address) error {
	return l.apply(func() ([]Event, error) {
		return nil, l.fees.AddToWhitelist(caller, accounts)
	})
}

func (l *Ledger) DelFromWhitelist(caller common.Address, accounts []common.Address) error {
	return l.apply(func() ([]Event, error) {
		return nil, l.fees.DelFromWhitelist(caller, accounts)
	})
}

// Balance is a single account balance in a State.
type Balance struct {
	Account common.Address
	Amount  *big.Int
}

// State is the persisted form of a Ledger.
type State struct {
	Address       common.Address
	Owner         common.Address
	ProposedOwner common.Address
	Paused        bool
	TotalSupply   *big.Int
	Balances      []Balance
	Fees          fee.State
}

// Export returns a snapshot of the ledger with balances in ascending account
// order.
func (l *Ledger) Export() *State {
	l.mu.RLock()
	defer l.mu.RUnlock()

	balances := make([]Balance, 0, len(l.balances))
	for account, amount := range l.balances {
		balances = append(balances, Balance{Account: account, Amount: new(big.Int).Set(amount)})
	}
	sort.Slice(balances, func(i, j int) bool {
		return bytes.Compare(balances[i].Account[:], balances[j].Account[:]) < 0
	})
	return &State{
		Address:       l.address,
		Owner:         l.owner,
		ProposedOwner: l.proposedOwner,
		Paused:        l.paused,
		TotalSupply:   new(big.Int).Set(l.totalSupply),
		Balances:      balances,
		Fees:          *l.fees.Export(),
	}
}

// FromState rebuilds a ledger from a snapshot.
func FromState(state *State) (*Ledger, error) {
	l := New(state.Address, state.Owner)
	if err := l.fees.Restore(&state.Fees); err != nil {
		return nil, err
	}
	l.proposedOwner = state.ProposedOwner
	l.paused = state.Paused
	if state.TotalSupply != nil {
		l.totalSupply = new(big.Int).Set(state.TotalSupply)
	}
	for _, b := range state.Balances {
		l.setBalance(b.Account, new(big.Int).Set(b.Amount))
	}
	return l, nil
}
