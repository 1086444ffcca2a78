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

package ledger

import (
	"errors"
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mccoysc/stablegov/fee"
)

var (
	tokenAddr = common.HexToAddress("0x7000")
	owner     = common.HexToAddress("0x1")
	alice     = common.HexToAddress("0xa1")
	bob       = common.HexToAddress("0xb0b")
	collector = common.HexToAddress("0xfee")
)

func expectBalance(t *testing.T, l *Ledger, account common.Address, want int64) {
	t.Helper()
	if got := l.BalanceOf(account); got.Cmp(big.NewInt(want)) != 0 {
		t.Errorf("balance of %s: expected %d, got %s", account.Hex(), want, got)
	}
}

func TestLedger_MintAndBurn(t *testing.T) {
	l := New(tokenAddr, owner)

	if err := l.Mint(alice, alice, big.NewInt(10)); err != ErrNotOwner {
		t.Errorf("expected error %v, got %v", ErrNotOwner, err)
	}
	if err := l.Mint(owner, common.Address{}, big.NewInt(10)); err != ErrZeroAddress {
		t.Errorf("expected error %v, got %v", ErrZeroAddress, err)
	}
	if err := l.Mint(owner, alice, big.NewInt(0)); err != ErrInvalidAmount {
		t.Errorf("expected error %v, got %v", ErrInvalidAmount, err)
	}
	if err := l.Mint(owner, tokenAddr, big.NewInt(500)); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if err := l.Burn(owner, big.NewInt(501)); err != ErrInsufficientBalance {
		t.Errorf("expected error %v, got %v", ErrInsufficientBalance, err)
	}
	if err := l.Burn(owner, big.NewInt(200)); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	expectBalance(t, l, tokenAddr, 300)
	if l.TotalSupply().Cmp(big.NewInt(300)) != 0 {
		t.Errorf("expected supply 300, got %s", l.TotalSupply())
	}
}

func TestLedger_MintSupplyOverflow(t *testing.T) {
	l := New(tokenAddr, owner)
	if err := l.Mint(owner, alice, maxSupply); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := l.Mint(owner, bob, big.NewInt(1)); err != ErrSupplyOverflow {
		t.Errorf("expected error %v, got %v", ErrSupplyOverflow, err)
	}
}

func TestLedger_TransferWithFee(t *testing.T) {
	l := New(tokenAddr, owner)
	l.Mint(owner, alice, big.NewInt(1_020_408_163))
	if err := l.SetFeeRecipient(owner, collector); err != nil {
		t.Fatalf("set recipient failed: %v", err)
	}
	if err := l.SetFeeRatio(owner, 200); err != nil {
		t.Fatalf("set ratio failed: %v", err)
	}

	if err := l.Transfer(alice, bob, big.NewInt(1_020_408_163)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	expectBalance(t, l, alice, 0)
	expectBalance(t, l, bob, 1_000_000_000)
	expectBalance(t, l, collector, 20_408_163)
}

func TestLedger_TransferExact(t *testing.T) {
	l := New(tokenAddr, owner)
	l.Mint(owner, alice, big.NewInt(2_000_000_000))
	l.SetFeeRecipient(owner, collector)
	l.SetFeeRatio(owner, 200)

	if err := l.TransferExact(alice, bob, big.NewInt(1_000_000_000)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	expectBalance(t, l, bob, 1_000_000_000)
	expectBalance(t, l, collector, 20_408_163)
	expectBalance(t, l, alice, 2_000_000_000-1_020_408_163)
}

func TestLedger_TransferWhitelisted(t *testing.T) {
	l := New(tokenAddr, owner)
	l.Mint(owner, alice, big.NewInt(1000))
	l.SetFeeRecipient(owner, collector)
	l.SetFeeRatio(owner, 500)
	l.AddToWhitelist(owner, []common.Address{bob})

	if err := l.Transfer(alice, bob, big.NewInt(1000)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	expectBalance(t, l, bob, 1000)
	expectBalance(t, l, collector, 0)
}

func TestLedger_PauseBlocksTransfers(t *testing.T) {
	l := New(tokenAddr, owner)
	l.Mint(owner, alice, big.NewInt(100))

	if err := l.Pause(alice); err != ErrNotOwner {
		t.Errorf("expected error %v, got %v", ErrNotOwner, err)
	}
	if err := l.Pause(owner); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if err := l.Pause(owner); err != ErrPaused {
		t.Errorf("expected error %v, got %v", ErrPaused, err)
	}
	if err := l.Transfer(alice, bob, big.NewInt(1)); err != ErrPaused {
		t.Errorf("expected error %v, got %v", ErrPaused, err)
	}
	// Forced transfers ignore the pause flag.
	if err := l.ForceTransfer(owner, alice, bob, big.NewInt(40)); err != nil {
		t.Fatalf("force transfer failed: %v", err)
	}
	if err := l.Unpause(owner); err != nil {
		t.Fatalf("unpause failed: %v", err)
	}
	if err := l.Unpause(owner); err != ErrNotPaused {
		t.Errorf("expected error %v, got %v", ErrNotPaused, err)
	}
	expectBalance(t, l, bob, 40)
}

func TestLedger_OwnershipHandoff(t *testing.T) {
	l := New(tokenAddr, owner)

	if err := l.TakeOwnership(alice); err != ErrNotProposedOwner {
		t.Errorf("expected error %v, got %v", ErrNotProposedOwner, err)
	}
	if err := l.ProposeOwner(owner, alice); err != nil {
		t.Fatalf("propose failed: %v", err)
	}
	if l.Owner() != owner {
		t.Error("ownership must not move before it is taken")
	}
	if err := l.TakeOwnership(alice); err != nil {
		t.Fatalf("take failed: %v", err)
	}
	if l.Owner() != alice || l.ProposedOwner() != (common.Address{}) {
		t.Errorf("unexpected owner %s proposed %s", l.Owner().Hex(), l.ProposedOwner().Hex())
	}

	if err := l.SetAdmin(owner, bob); err != ErrNotOwner {
		t.Errorf("expected error %v, got %v", ErrNotOwner, err)
	}
	if err := l.SetAdmin(alice, bob); err != nil {
		t.Fatalf("set admin failed: %v", err)
	}
	if err := l.SetFeeRatio(alice, 1); !errors.Is(err, fee.ErrUnauthorized) {
		t.Errorf("expected error %v, got %v", fee.ErrUnauthorized, err)
	}
	if err := l.SetFeeRatio(bob, 1); err != nil {
		t.Errorf("admin should set fee ratio: %v", err)
	}
}

func TestLedger_EventsInOrder(t *testing.T) {
	l := New(tokenAddr, owner)
	ch := make(chan Event, 16)
	sub := l.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	l.Mint(owner, alice, big.NewInt(100))
	l.Transfer(alice, bob, big.NewInt(30))
	l.Transfer(alice, bob, big.NewInt(1000)) // fails, no event
	l.Pause(owner)

	want := []Event{
		Transfer{To: alice, Amount: big.NewInt(100)},
		Transfer{From: alice, To: bob, Amount: big.NewInt(30)},
		PauseChanged{Caller: owner, Paused: true},
	}
	for i, w := range want {
		got := <-ch
		if !reflect.DeepEqual(normalize(got), normalize(w)) {
			t.Errorf("event %d: expected %+v, got %+v", i, w, got)
		}
	}
	select {
	case ev := <-ch:
		t.Errorf("unexpected event %+v", ev)
	default:
	}
}

// normalize strips big.Int representation differences before comparison.
func normalize(ev Event) Event {
	if tr, ok := ev.(Transfer); ok {
		tr.Amount = new(big.Int).SetBytes(tr.Amount.Bytes())
		return tr
	}
	return ev
}

func TestLedger_ExportRestore(t *testing.T) {
	l := New(tokenAddr, owner)
	l.Mint(owner, alice, big.NewInt(70))
	l.Mint(owner, bob, big.NewInt(30))
	l.SetFeeRecipient(owner, collector)
	l.SetFeeRatio(owner, 25)
	l.ProposeOwner(owner, alice)
	l.Pause(owner)

	restored, err := FromState(l.Export())
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !reflect.DeepEqual(l.Export(), restored.Export()) {
		t.Errorf("state mismatch:\n%+v\n%+v", l.Export(), restored.Export())
	}
	if restored.Fees().Ratio() != 25 || !restored.Paused() {
		t.Error("restored ledger lost configuration")
	}
}
