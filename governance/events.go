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

// Event is a governor notification. Events are delivered only for calls
// that succeed, in the order the calls committed.
type Event interface {
	Name() string
}

// Proposed is emitted when a proposal is created.
type Proposed[P Payload[P]] struct {
	Kind      Kind
	Proposer  common.Address
	Payload   P
	CreatedAt uint64
}

// Voted is emitted for every confirmation or rejection.
type Voted[P Payload[P]] struct {
	Kind          Kind
	Approver      common.Address
	Proposer      common.Address
	Payload       P
	Approved      bool
	Confirmations int
	Executed      bool
}

// Expired is emitted when a new proposal replaces an expired one, before
// the Proposed event of the replacement.
type Expired[P Payload[P]] struct {
	Kind          Kind
	Proposer      common.Address
	Payload       P
	CreatedAt     uint64
	Confirmations []common.Address
}

type Initialized struct {
	Caller    common.Address
	Ledger    common.Address
	Approvers [RosterSize]common.Address
}

type ProposerChanged struct {
	Caller  common.Address
	Account common.Address
	Enabled bool
}

// ApproverChanged is emitted when a roster proposal executes.
type ApproverChanged struct {
	Proposer common.Address
	Index    uint64
	Old      common.Address
	New      common.Address
}

type DurationChanged struct {
	Caller common.Address
	Old    uint64
	New    uint64
}

type OwnershipTransferred struct {
	Previous common.Address
	Owner    common.Address
}

type Minted struct {
	Proposer common.Address
	To       common.Address
	Amount   *big.Int
}

type Burned struct {
	Proposer common.Address
	Amount   *big.Int
}

type FeeRatioChanged struct {
	Proposer common.Address
	Ratio    uint64
}

type TokenOwnerProposed struct {
	Caller    common.Address
	Candidate common.Address
}

type TokenOwnershipTaken struct {
	Caller common.Address
}

type TokenAdminChanged struct {
	Caller common.Address
	Admin  common.Address
}

type TokenPauseChanged struct {
	Caller common.Address
	Paused bool
}

type ForcedTransfer struct {
	Caller common.Address
	From   common.Address
	To     common.Address
	Amount *big.Int
}

type FeeRecipientChanged struct {
	Caller    common.Address
	Recipient common.Address
}

type FeeWhitelistChanged struct {
	Caller   common.Address
	Accounts []common.Address
	Exempt   bool
}

func (Proposed[P]) Name() string          { return "Proposed" }
func (Voted[P]) Name() string             { return "Voted" }
func (Expired[P]) Name() string           { return "Expired" }
func (Initialized) Name() string          { return "Initialized" }
func (ProposerChanged) Name() string      { return "ProposerChanged" }
func (ApproverChanged) Name() string      { return "ApproverChanged" }
func (DurationChanged) Name() string      { return "DurationChanged" }
func (OwnershipTransferred) Name() string { return "OwnershipTransferred" }
func (Minted) Name() string               { return "Minted" }
func (Burned) Name() string               { return "Burned" }
func (FeeRatioChanged) Name() string      { return "FeeRatioChanged" }
func (TokenOwnerProposed) Name() string   { return "TokenOwnerProposed" }
func (TokenOwnershipTaken) Name() string  { return "TokenOwnershipTaken" }
func (TokenAdminChanged) Name() string    { return "TokenAdminChanged" }
func (TokenPauseChanged) Name() string    { return "TokenPauseChanged" }
func (ForcedTransfer) Name() string       { return "ForcedTransfer" }
func (FeeRecipientChanged) Name() string  { return "FeeRecipientChanged" }
func (FeeWhitelistChanged) Name() string  { return "FeeWhitelistChanged" }
