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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Record is a stored proposal together with its proposer.
type Record[P Payload[P]] struct {
	Proposer      common.Address
	Payload       P
	CreatedAt     uint64
	Confirmations []common.Address
}

// State is the persisted form of a Governor. Only live state is kept;
// resolved proposals are gone by the time a snapshot is taken.
type State struct {
	Self             common.Address
	Owner            common.Address
	Ledger           common.Address // zero until Init
	ProposalDuration uint64
	Approvers        []common.Address
	Proposers        []common.Address
	Mints            []Record[MintPayload]
	Burns            []Record[BurnPayload]
	Seats            []Record[ApproverPayload]
	FeeRatios        []Record[FeeRatioPayload]
}

// Export returns a snapshot of the governor.
func (g *Governor) Export() *State {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := &State{
		Self:             g.self,
		Owner:            g.owner,
		ProposalDuration: g.duration,
		Proposers:        g.roles.Proposers(),
		Mints:            g.mint.records(),
		Burns:            g.burn.records(),
		Seats:            g.approver.records(),
		FeeRatios:        g.feeRatio.records(),
	}
	if g.ledger != nil {
		state.Ledger = g.ledger.Address()
		approvers := g.roles.Approvers()
		state.Approvers = approvers[:]
	}
	return state
}

// FromState rebuilds a governor from a snapshot. ledger must be the ledger
// the snapshot was bound to, or nil if it was never initialized.
func FromState(state *State, ledger Ledger) (*Governor, error) {
	if state.ProposalDuration == 0 {
		return nil, ErrInvalidDuration
	}
	g := New(&Config{ProposalDuration: state.ProposalDuration}, state.Self, state.Owner)

	if state.Ledger != (common.Address{}) {
		if ledger == nil {
			return nil, ErrNotInitialized
		}
		if ledger.Address() != state.Ledger {
			return nil, fmt.Errorf("ledger mismatch: snapshot=%s, given=%s", state.Ledger.Hex(), ledger.Address().Hex())
		}
		if len(state.Approvers) != RosterSize {
			return nil, fmt.Errorf("snapshot roster has %d seats, want %d", len(state.Approvers), RosterSize)
		}
		var roster [RosterSize]common.Address
		copy(roster[:], state.Approvers)
		if err := g.roles.setApprovers(roster); err != nil {
			return nil, err
		}
		g.ledger = ledger
	}
	for _, p := range state.Proposers {
		if err := g.roles.setProposer(p, true); err != nil {
			return nil, fmt.Errorf("proposer %s: %w", p.Hex(), err)
		}
	}
	if err := g.mint.load(state.Mints); err != nil {
		return nil, err
	}
	if err := g.burn.load(state.Burns); err != nil {
		return nil, err
	}
	if err := g.approver.load(state.Seats); err != nil {
		return nil, err
	}
	if err := g.feeRatio.load(state.FeeRatios); err != nil {
		return nil, err
	}
	return g, nil
}
