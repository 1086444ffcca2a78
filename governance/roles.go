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
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Roles tracks the fixed approver roster and the proposer allow-list.
// No two seats ever hold the same account.
type Roles struct {
	approvers [RosterSize]common.Address
	proposers map[common.Address]bool
}

func newRoles() *Roles {
	return &Roles{proposers: make(map[common.Address]bool)}
}

// IsApprover reports whether account holds a roster seat.
func (r *Roles) IsApprover(account common.Address) bool {
	if account == (common.Address{}) {
		return false
	}
	for _, a := range r.approvers {
		if a == account {
			return true
		}
	}
	return false
}

// IsProposer reports whether account may create mint, burn and fee proposals.
func (r *Roles) IsProposer(account common.Address) bool {
	return r.proposers[account]
}

// Approvers returns the roster in seat order.
func (r *Roles) Approvers() [RosterSize]common.Address {
	return r.approvers
}

// Proposers returns the enabled proposers in ascending order.
func (r *Roles) Proposers() []common.Address {
	out := make([]common.Address, 0, len(r.proposers))
	for account, enabled := range r.proposers {
		if enabled {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}

func (r *Roles) setProposer(account common.Address, enabled bool) error {
	if account == (common.Address{}) {
		return ErrZeroAddress
	}
	if r.proposers[account] == enabled {
		return ErrNoOpChange
	}
	if enabled {
		r.proposers[account] = true
	} else {
		delete(r.proposers, account)
	}
	return nil
}

// checkApprovers validates a full roster: every seat set, all distinct.
func checkApprovers(roster [RosterSize]common.Address) error {
	for i, a := range roster {
		if a == (common.Address{}) {
			return ErrZeroAddress
		}
		for _, b := range roster[:i] {
			if a == b {
				return ErrDuplicateApprover
			}
		}
	}
	return nil
}

// setApprovers replaces the whole roster, or nothing if it is invalid.
func (r *Roles) setApprovers(roster [RosterSize]common.Address) error {
	if err := checkApprovers(roster); err != nil {
		return err
	}
	r.approvers = roster
	return nil
}

// checkSeat validates seating candidate at index without changing anything.
func (r *Roles) checkSeat(index uint64, candidate common.Address) error {
	if index >= RosterSize {
		return ErrIndexOutOfRange
	}
	if candidate == (common.Address{}) {
		return ErrZeroAddress
	}
	if r.approvers[index] == candidate {
		return ErrSameAsCurrent
	}
	if r.IsApprover(candidate) {
		return ErrDuplicateApprover
	}
	return nil
}

// setSeat seats candidate at index and returns the replaced approver.
func (r *Roles) setSeat(index uint64, candidate common.Address) (common.Address, error) {
	if err := r.checkSeat(index, candidate); err != nil {
		return common.Address{}, err
	}
	old := r.approvers[index]
	r.approvers[index] = candidate
	return old, nil
}
