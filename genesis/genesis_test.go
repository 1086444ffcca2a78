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

package genesis

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mccoysc/stablegov/governance"
)

var roster = [governance.RosterSize]common.Address{
	common.HexToAddress("0xa1"),
	common.HexToAddress("0xa2"),
	common.HexToAddress("0xa3"),
}

func TestCalculateContractAddress(t *testing.T) {
	// Well-known CREATE addresses of 0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0.
	deployer := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	tests := []struct {
		nonce uint64
		want  common.Address
	}{
		{0, common.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d")},
		{1, common.HexToAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8")},
		{2, common.HexToAddress("0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91")},
	}
	for _, tt := range tests {
		if got := CalculateContractAddress(deployer, tt.nonce); got != tt.want {
			t.Errorf("nonce %d: expected %s, got %s", tt.nonce, tt.want.Hex(), got.Hex())
		}
	}
}

func TestPredictAddresses(t *testing.T) {
	deployer := common.HexToAddress("0x1234567890123456789012345678901234567890")

	token, gov := PredictTokenAddress(deployer), PredictGovernorAddress(deployer)
	if token != CalculateContractAddress(deployer, TokenNonce) {
		t.Error("token should be created at the token nonce")
	}
	if gov != CalculateContractAddress(deployer, GovernorNonce) {
		t.Error("governor should be created at the governor nonce")
	}
	if token == gov {
		t.Error("token and governor should have different addresses")
	}
}

func TestBootstrap(t *testing.T) {
	deployer := common.HexToAddress("0xde9")
	proposer := common.HexToAddress("0x3")

	d := DefaultDeployment(deployer, roster)
	d.Proposers = []common.Address{proposer}

	led, gov, err := Bootstrap(d)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if !gov.Initialized() {
		t.Fatal("governor should be initialized")
	}
	if led.Owner() != d.Governor || led.Admin() != d.Governor {
		t.Errorf("governor should own and administer the ledger, owner=%s admin=%s", led.Owner().Hex(), led.Admin().Hex())
	}
	if gov.Owner() != deployer || !gov.IsProposer(proposer) {
		t.Error("unexpected governor roles")
	}
	if gov.Approvers() != roster {
		t.Errorf("unexpected roster %v", gov.Approvers())
	}

	// The deployment accepts proposals right away.
	alice := common.HexToAddress("0xa11ce")
	amount := big.NewInt(1000)
	if err := gov.ProposeMint(proposer, alice, amount); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	for _, a := range roster {
		if err := gov.ApproveMint(a, proposer, true, alice, amount); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
	}
	if led.BalanceOf(alice).Cmp(amount) != 0 {
		t.Errorf("expected balance %v, got %v", amount, led.BalanceOf(alice))
	}
}

func TestBootstrap_Errors(t *testing.T) {
	d := DefaultDeployment(common.HexToAddress("0xde9"), roster)
	d.Governor = d.Token
	if _, _, err := Bootstrap(d); err == nil {
		t.Error("expected error for shared token and governor account")
	}

	d = DefaultDeployment(common.HexToAddress("0xde9"), roster)
	d.Approvers[2] = d.Approvers[0]
	if _, _, err := Bootstrap(d); !errors.Is(err, governance.ErrDuplicateApprover) {
		t.Errorf("expected duplicate approver error, got %v", err)
	}

	d = DefaultDeployment(common.HexToAddress("0xde9"), roster)
	d.Proposers = []common.Address{{}}
	if _, _, err := Bootstrap(d); !errors.Is(err, governance.ErrZeroAddress) {
		t.Errorf("expected zero address error, got %v", err)
	}
}
