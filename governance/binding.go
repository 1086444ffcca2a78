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

package governance

import (
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// Initialized reports whether the governor is bound to a ledger.
func (g *Governor) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger != nil
}

// Init binds the governor to ledger and seats the initial roster. The ledger
// must already name the governor as its proposed owner. On success the
// governor owns the ledger and administers its fees. If the ledger refuses
// the admin delegation after ownership was taken, the governor stays unbound
// and offers the ledger back to its previous owner.
func (g *Governor) Init(caller common.Address, ledger Ledger, roster [RosterSize]common.Address) error {
	return g.apply(func() ([]Event, error) {
		if caller != g.owner {
			return nil, ErrUnauthorized
		}
		if g.ledger != nil {
			return nil, ErrAlreadyInitialized
		}
		if ledger == nil {
			return nil, ErrNotInitialized
		}
		if ledger.ProposedOwner() != g.self {
			return nil, ErrNotProposedOwner
		}
		if err := checkApprovers(roster); err != nil {
			return nil, err
		}
		previous := ledger.Owner()
		if err := ledger.TakeOwnership(g.self); err != nil {
			return nil, err
		}
		if err := ledger.SetAdmin(g.self, g.self); err != nil {
			g.handBack(ledger, previous, err)
			return nil, err
		}
		g.roles.approvers = roster
		g.ledger = ledger

		g.log.Info("Governor initialized", "ledger", ledger.Address(), "approvers", roster)
		return []Event{Initialized{Caller: caller, Ledger: ledger.Address(), Approvers: roster}}, nil
	})
}

// handBack offers a ledger taken by a failed Init back to its previous
// owner, who completes the return with TakeOwnership.
func (g *Governor) handBack(ledger Ledger, previous common.Address, cause error) {
	if previous == (common.Address{}) {
		g.log.Error("Ledger owned by unbound governor", "ledger", ledger.Address(), "err", cause)
		return
	}
	if err := ledger.ProposeOwner(g.self, previous); err != nil {
		g.log.Error("Ledger owned by unbound governor", "ledger", ledger.Address(), "previous", previous,
			"err", cause, "handback", err)
		return
	}
	g.log.Warn("Init failed after taking the ledger, handed back to previous owner",
		"ledger", ledger.Address(), "previous", previous, "err", cause)
}

// ownerCall runs a ledger pass-through for the owner. check picks the
// authority the governor must still hold on the ledger.
func (g *Governor) ownerCall(caller common.Address, check func() error, call func() error, ev Event) error {
	return g.apply(func() ([]Event, error) {
		if err := g.onlyOwner(caller, true); err != nil {
			return nil, err
		}
		if err := check(); err != nil {
			return nil, err
		}
		if err := call(); err != nil {
			return nil, err
		}
		return []Event{ev}, nil
	})
}

// ProposeTokenOwner starts handing the ledger to candidate. Until candidate
// takes ownership the governor keeps acting as owner.
func (g *Governor) ProposeTokenOwner(caller, candidate common.Address) error {
	return g.ownerCall(caller, g.requireLedgerOwner, func() error {
		if candidate == (common.Address{}) {
			return ErrZeroAddress
		}
		if err := g.ledger.ProposeOwner(g.self, candidate); err != nil {
			return err
		}
		g.log.Warn("Token ownership proposed", "candidate", candidate)
		return nil
	}, TokenOwnerProposed{Caller: caller, Candidate: candidate})
}

// TakeTokenOwnership completes a handoff of the bound ledger back to the
// governor.
func (g *Governor) TakeTokenOwnership(caller common.Address) error {
	return g.ownerCall(caller, g.requireLedger, func() error {
		return g.ledger.TakeOwnership(g.self)
	}, TokenOwnershipTaken{Caller: caller})
}

// SetTokenAdmin delegates fee administration on the ledger to admin. Fee
// ratio proposals fail with ErrNotLedgerAdmin while the governor is not
// the admin.
func (g *Governor) SetTokenAdmin(caller, admin common.Address) error {
	return g.ownerCall(caller, g.requireLedgerOwner, func() error {
		if admin == (common.Address{}) {
			return ErrZeroAddress
		}
		return g.ledger.SetAdmin(g.self, admin)
	}, TokenAdminChanged{Caller: caller, Admin: admin})
}

func (g *Governor) Pause(caller common.Address) error {
	return g.ownerCall(caller, g.requireLedgerOwner, func() error {
		return g.ledger.Pause(g.self)
	}, TokenPauseChanged{Caller: caller, Paused: true})
}

func (g *Governor) Unpause(caller common.Address) error {
	return g.ownerCall(caller, g.requireLedgerOwner, func() error {
		return g.ledger.Unpause(g.self)
	}, TokenPauseChanged{Caller: caller, Paused: false})
}

// ForceTransfer moves amount between two ledger accounts regardless of
// fees and the pause flag.
func (g *Governor) ForceTransfer(caller, from, to common.Address, amount *big.Int) error {
	amount = bigCopy(amount)
	return g.ownerCall(caller, g.requireLedgerOwner, func() error {
		if err := g.ledger.ForceTransfer(g.self, from, to, amount); err != nil {
			return err
		}
		g.log.Warn("Forced transfer", "from", from, "to", to, "amount", amount)
		return nil
	}, ForcedTransfer{Caller: caller, From: from, To: to, Amount: amount})
}

func (g *Governor) SetFeeRecipient(caller, recipient common.Address) error {
	return g.ownerCall(caller, g.requireLedgerAdmin, func() error {
		if recipient == (common.Address{}) {
			return ErrZeroAddress
		}
		return g.ledger.SetFeeRecipient(g.self, recipient)
	}, FeeRecipientChanged{Caller: caller, Recipient: recipient})
}

func (g *Governor) AddToFeeWhitelist(caller common.Address, accounts []common.Address) error {
	accounts = slices.Clone(accounts)
	return g.ownerCall(caller, g.requireLedgerAdmin, func() error {
		return g.ledger.AddToWhitelist(g.self, accounts)
	}, FeeWhitelistChanged{Caller: caller, Accounts: accounts, Exempt: true})
}

func (g *Governor) DelFromFeeWhitelist(caller common.Address, accounts []common.Address) error {
	accounts = slices.Clone(accounts)
	return g.ownerCall(caller, g.requireLedgerAdmin, func() error {
		return g.ledger.DelFromWhitelist(g.self, accounts)
	}, FeeWhitelistChanged{Caller: caller, Accounts: accounts, Exempt: false})
}
