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
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestRoles_SetApprovers(t *testing.T) {
	r := newRoles()

	bad := []struct {
		name   string
		roster [RosterSize]common.Address
		err    error
	}{
		{"duplicate", [RosterSize]common.Address{approver1, approver2, approver1}, ErrDuplicateApprover},
		{"adjacent duplicate", [RosterSize]common.Address{approver1, approver1, approver2}, ErrDuplicateApprover},
		{"empty seat", [RosterSize]common.Address{approver1, {}, approver2}, ErrZeroAddress},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.setApprovers(tt.roster); err != tt.err {
				t.Errorf("expected error %v, got %v", tt.err, err)
			}
			if r.Approvers() != ([RosterSize]common.Address{}) {
				t.Error("invalid roster partially applied")
			}
		})
	}

	if err := r.setApprovers(roster); err != nil {
		t.Fatalf("set approvers failed: %v", err)
	}
	for _, a := range roster {
		if !r.IsApprover(a) {
			t.Errorf("%s should be an approver", a.Hex())
		}
	}
	if r.IsApprover(outsider) || r.IsApprover(common.Address{}) {
		t.Error("unexpected approver")
	}
}

func TestRoles_SetSeat(t *testing.T) {
	r := newRoles()
	r.setApprovers(roster)

	tests := []struct {
		name      string
		index     uint64
		candidate common.Address
		err       error
	}{
		{"index out of range", RosterSize, alice, ErrIndexOutOfRange},
		{"zero candidate", 0, common.Address{}, ErrZeroAddress},
		{"same as current", 1, approver2, ErrSameAsCurrent},
		{"holds another seat", 0, approver3, ErrDuplicateApprover},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.setSeat(tt.index, tt.candidate); err != tt.err {
				t.Errorf("expected error %v, got %v", tt.err, err)
			}
		})
	}
	if r.Approvers() != roster {
		t.Fatalf("failed seat changes mutated the roster: %v", r.Approvers())
	}

	old, err := r.setSeat(2, alice)
	if err != nil {
		t.Fatalf("set seat failed: %v", err)
	}
	if old != approver3 {
		t.Errorf("expected old %s, got %s", approver3.Hex(), old.Hex())
	}
	if r.IsApprover(approver3) || !r.IsApprover(alice) {
		t.Error("seat not replaced")
	}
}

func TestRoles_Proposers(t *testing.T) {
	r := newRoles()
	for _, a := range []common.Address{alice, proposer, outsider} {
		if err := r.setProposer(a, true); err != nil {
			t.Fatalf("set proposer failed: %v", err)
		}
	}
	if err := r.setProposer(alice, true); err != ErrNoOpChange {
		t.Errorf("expected error %v, got %v", ErrNoOpChange, err)
	}
	if err := r.setProposer(approver1, false); err != ErrNoOpChange {
		t.Errorf("expected error %v, got %v", ErrNoOpChange, err)
	}
	r.setProposer(outsider, false)

	want := []common.Address{proposer, alice}
	if got := r.Proposers(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGovernor_ApproverSeat(t *testing.T) {
	env := newTestEnv(t)

	if err := env.gov.ProposeApprover(proposer, 0, alice); err != ErrUnauthorized {
		t.Errorf("plain proposers cannot touch the roster: got %v", err)
	}
	if err := env.gov.ProposeApprover(owner, 1, approver3); err != ErrDuplicateApprover {
		t.Errorf("expected error %v, got %v", ErrDuplicateApprover, err)
	}
	if err := env.gov.ProposeApprover(owner, 1, approver2); err != ErrSameAsCurrent {
		t.Errorf("expected error %v, got %v", ErrSameAsCurrent, err)
	}
	if err := env.gov.ProposeApprover(owner, 3, alice); err != ErrIndexOutOfRange {
		t.Errorf("expected error %v, got %v", ErrIndexOutOfRange, err)
	}

	// The owner may both propose and confirm roster changes.
	if err := env.gov.ProposeApprover(approver1, 0, alice); err != nil {
		t.Fatalf("propose approver failed: %v", err)
	}
	for _, a := range []common.Address{owner, approver2} {
		if err := env.gov.ApproveApprover(a, approver1, true, 0, alice); err != nil {
			t.Fatalf("approve by %s failed: %v", a.Hex(), err)
		}
	}
	env.drain()
	if err := env.gov.ApproveApprover(approver1, approver1, true, 0, alice); err != nil {
		t.Fatalf("final approve failed: %v", err)
	}
	payload := ApproverPayload{Index: 0, Candidate: alice}
	env.expectEvents(t,
		Voted[ApproverPayload]{
			Kind: KindApprover, Approver: approver1, Proposer: approver1, Payload: payload,
			Approved: true, Confirmations: 3, Executed: true,
		},
		ApproverChanged{Proposer: approver1, Index: 0, Old: approver1, New: alice},
	)
	want := [RosterSize]common.Address{alice, approver2, approver3}
	if got := env.gov.Approvers(); got != want {
		t.Errorf("expected roster %v, got %v", want, got)
	}
	if env.gov.IsApprover(approver1) {
		t.Error("replaced approver still holds a seat")
	}
	if err := env.gov.ApproveMint(approver1, proposer, true, alice, nil); err != ErrUnauthorized {
		t.Errorf("replaced approver should lose approval rights: got %v", err)
	}
}

func TestGovernor_ApproverSeatRevalidated(t *testing.T) {
	env := newTestEnv(t)

	// Two pending proposals seat the same candidate on different seats.
	env.gov.ProposeApprover(owner, 0, alice)
	env.gov.ProposeApprover(approver2, 1, alice)

	for _, a := range roster {
		if err := env.gov.ApproveApprover(a, owner, true, 0, alice); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
	}
	env.gov.ApproveApprover(owner, approver2, true, 1, alice)
	env.gov.ApproveApprover(approver2, approver2, true, 1, alice)
	env.drain()

	if err := env.gov.ApproveApprover(approver3, approver2, true, 1, alice); err != ErrDuplicateApprover {
		t.Fatalf("expected error %v, got %v", ErrDuplicateApprover, err)
	}
	env.expectEvents(t)
	rec, ok := env.gov.GetApproverProposal(approver2)
	if !ok || len(rec.Confirmations) != 2 {
		t.Errorf("failed seat change should keep its proposal, got %+v", rec)
	}
	want := [RosterSize]common.Address{alice, approver2, approver3}
	if got := env.gov.Approvers(); got != want {
		t.Errorf("expected roster %v, got %v", want, got)
	}
}

func TestGovernor_ReplacedApproverConfirmationDropped(t *testing.T) {
	env := newTestEnv(t)
	newcomer := common.HexToAddress("0xa4")
	amount := big.NewInt(5)

	if err := env.gov.ProposeMint(proposer, alice, amount); err != nil {
		t.Fatalf("propose mint failed: %v", err)
	}
	if err := env.gov.ApproveMint(approver1, proposer, true, alice, amount); err != nil {
		t.Fatalf("approve mint failed: %v", err)
	}

	// Replace approver1 with newcomer.
	if err := env.gov.ProposeApprover(owner, 0, newcomer); err != nil {
		t.Fatalf("propose approver failed: %v", err)
	}
	for _, a := range roster {
		if err := env.gov.ApproveApprover(a, owner, true, 0, newcomer); err != nil {
			t.Fatalf("approve approver by %s failed: %v", a.Hex(), err)
		}
	}
	rec, _ := env.gov.GetMintProposal(proposer)
	if len(rec.Confirmations) != 0 {
		t.Fatalf("replaced approver's confirmation should be dropped, got %v", rec.Confirmations)
	}

	// Two of the current roster are not a quorum.
	for _, a := range []common.Address{approver2, approver3} {
		if err := env.gov.ApproveMint(a, proposer, true, alice, amount); err != nil {
			t.Fatalf("approve mint by %s failed: %v", a.Hex(), err)
		}
	}
	if got := env.token.BalanceOf(alice); got.Sign() != 0 {
		t.Fatalf("mint executed without the new approver, balance %v", got)
	}
	if err := env.gov.ApproveMint(newcomer, proposer, true, alice, amount); err != nil {
		t.Fatalf("approve mint by newcomer failed: %v", err)
	}
	if got := env.token.BalanceOf(alice); got.Cmp(amount) != 0 {
		t.Errorf("expected balance %v, got %v", amount, got)
	}
}
