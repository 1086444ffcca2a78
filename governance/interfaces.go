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

	"github.com/ethereum/go-ethereum/common"
)

// Ledger is the token ledger the governor controls. Every mutating call takes
// the acting account explicitly; the governor always acts as itself.
type Ledger interface {
	// Address returns the ledger's own account, whose balance Burn consumes
	Address() common.Address

	// Owner returns the current ledger owner
	Owner() common.Address

	// ProposedOwner returns the pending owner of a two-phase handoff
	ProposedOwner() common.Address

	// Admin returns the account allowed to configure fees
	Admin() common.Address

	// BalanceOf returns the balance of an account
	BalanceOf(account common.Address) *big.Int

	// Mint creates tokens for to (owner only)
	Mint(caller, to common.Address, amount *big.Int) error

	// Burn destroys tokens held by the ledger's own account (owner only)
	Burn(caller common.Address, amount *big.Int) error

	// Pause halts transfers (owner only)
	Pause(caller common.Address) error

	// Unpause resumes transfers (owner only)
	Unpause(caller common.Address) error

	// ForceTransfer moves tokens between accounts (owner only)
	ForceTransfer(caller, from, to common.Address, amount *big.Int) error

	// ProposeOwner starts an ownership handoff (owner only)
	ProposeOwner(caller, candidate common.Address) error

	// TakeOwnership completes a handoff (proposed owner only)
	TakeOwnership(caller common.Address) error

	// SetAdmin delegates fee administration (owner only)
	SetAdmin(caller, admin common.Address) error

	// SetFeeRatio sets the transfer fee ratio (admin only)
	SetFeeRatio(caller common.Address, ratio uint64) error

	// SetFeeRecipient sets the fee recipient (admin only)
	SetFeeRecipient(caller, recipient common.Address) error

	// AddToWhitelist exempts accounts from fees (admin only)
	AddToWhitelist(caller common.Address, accounts []common.Address) error

	// DelFromWhitelist revokes fee exemptions (admin only)
	DelFromWhitelist(caller common.Address, accounts []common.Address) error
}
