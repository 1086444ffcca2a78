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

package fee

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	admin     = common.HexToAddress("0xad")
	recipient = common.HexToAddress("0xfee")
	alice     = common.HexToAddress("0xa1")
	bob       = common.HexToAddress("0xb0b")
)

func newConfigured(t *testing.T, ratio uint64) *Authority {
	t.Helper()
	a := NewAuthority(admin)
	require.NoError(t, a.SetFeeRecipient(admin, recipient))
	require.NoError(t, a.SetFeeRatio(admin, ratio))
	return a
}

func TestSetFeeRatio(t *testing.T) {
	a := NewAuthority(admin)

	require.ErrorIs(t, a.SetFeeRatio(alice, 10), ErrUnauthorized)
	require.ErrorIs(t, a.SetFeeRatio(admin, Precision), ErrRatioTooLarge)
	require.ErrorIs(t, a.SetFeeRatio(admin, Precision+1), ErrRatioTooLarge)
	require.NoError(t, a.SetFeeRatio(admin, Precision-1))
	require.Equal(t, Precision-1, a.Ratio())
}

func TestSetFeeRecipient(t *testing.T) {
	a := NewAuthority(admin)

	require.ErrorIs(t, a.SetFeeRecipient(alice, recipient), ErrUnauthorized)
	require.ErrorIs(t, a.SetFeeRecipient(admin, common.Address{}), ErrZeroAddress)
	require.Equal(t, common.Address{}, a.Recipient())

	require.NoError(t, a.SetFeeRecipient(admin, recipient))
	require.ErrorIs(t, a.SetFeeRecipient(admin, common.Address{}), ErrZeroAddress)
	require.Equal(t, recipient, a.Recipient(), "rejected recipient must not replace the current one")
}

func TestWhitelistBatches(t *testing.T) {
	a := NewAuthority(admin)

	require.ErrorIs(t, a.AddToWhitelist(admin, nil), ErrEmptyBatch)
	require.ErrorIs(t, a.DelFromWhitelist(admin, []common.Address{}), ErrEmptyBatch)
	require.ErrorIs(t, a.AddToWhitelist(bob, []common.Address{alice}), ErrUnauthorized)
	require.ErrorIs(t, a.AddToWhitelist(admin, []common.Address{alice, {}}), ErrZeroAddress)
	require.False(t, a.IsWhitelisted(alice), "rejected batch must not be partially applied")

	require.NoError(t, a.AddToWhitelist(admin, []common.Address{bob, alice}))
	require.Equal(t, []common.Address{alice, bob}, a.Whitelist())

	require.NoError(t, a.DelFromWhitelist(admin, []common.Address{alice}))
	require.False(t, a.IsWhitelisted(alice))
	require.True(t, a.IsWhitelisted(bob))
}

func TestSetAdminMovesAuthority(t *testing.T) {
	a := NewAuthority(admin)
	a.SetAdmin(alice)

	require.ErrorIs(t, a.SetFeeRatio(admin, 1), ErrUnauthorized)
	require.NoError(t, a.SetFeeRatio(alice, 1))
}

func TestQuoteScenario(t *testing.T) {
	a := newConfigured(t, 200)

	received, fee, err := a.QuoteReceivedFromSent(alice, bob, big.NewInt(1_020_408_163))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1_000_000_000), received)
	require.Equal(t, big.NewInt(20_408_163), fee)

	sent, fee, err := a.QuoteSentForReceived(alice, bob, big.NewInt(1_000_000_000))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1_020_408_163), sent)
	require.Equal(t, big.NewInt(20_408_163), fee)
}

func TestQuoteWaivers(t *testing.T) {
	amount := big.NewInt(1_000_000)

	tests := []struct {
		name  string
		setup func(a *Authority)
		from  common.Address
		to    common.Address
	}{
		{"whitelisted sender", func(a *Authority) { a.AddToWhitelist(admin, []common.Address{alice}) }, alice, bob},
		{"whitelisted receiver", func(a *Authority) { a.AddToWhitelist(admin, []common.Address{bob}) }, alice, bob},
		{"no recipient", func(a *Authority) { a.SetFeeRecipient(admin, common.Address{}) }, alice, bob},
		{"zero ratio", func(a *Authority) { a.SetFeeRatio(admin, 0) }, alice, bob},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newConfigured(t, 300)
			tt.setup(a)

			received, fee, err := a.QuoteReceivedFromSent(tt.from, tt.to, amount)
			require.NoError(t, err)
			require.Equal(t, amount, received)
			require.Zero(t, fee.Sign())

			sent, fee, err := a.QuoteSentForReceived(tt.from, tt.to, amount)
			require.NoError(t, err)
			require.Equal(t, amount, sent)
			require.Zero(t, fee.Sign())
		})
	}
}

func TestQuoteRejectsBadAmounts(t *testing.T) {
	a := newConfigured(t, 100)

	_, _, err := a.QuoteReceivedFromSent(alice, bob, big.NewInt(-1))
	require.ErrorIs(t, err, ErrNegativeAmount)

	huge := new(big.Int).Lsh(big.NewInt(1), 256)
	_, _, err = a.QuoteReceivedFromSent(alice, bob, huge)
	require.ErrorIs(t, err, ErrAmountOverflow)

	maxU256 := new(big.Int).Sub(huge, big.NewInt(1))
	_, _, err = a.QuoteSentForReceived(alice, bob, maxU256)
	require.ErrorIs(t, err, ErrAmountOverflow)
}

func checkRoundTrip(t *testing.T, ratio, received uint64) {
	r := uint256.NewInt(received)
	sent, _, overflow := sentForReceived(r, ratio)
	if overflow {
		t.Fatalf("ratio %d received %d: unexpected overflow", ratio, received)
	}
	got, _ := receivedFromSent(sent, ratio)
	if !got.Eq(r) {
		t.Fatalf("ratio %d: received %d -> sent %s -> received %s", ratio, received, sent, got)
	}
}

func TestRoundTripAllRatios(t *testing.T) {
	samples := []uint64{1, 2, 3, 7, 49, 50, 51, 99, 100, 101, 333, 999, 1000, 4999, 5000, 9801, 9998, 9999}
	for ratio := uint64(0); ratio < Precision; ratio++ {
		for _, received := range samples {
			checkRoundTrip(t, ratio, received)
		}
	}
}

func TestRoundTripAllAmounts(t *testing.T) {
	ratios := []uint64{0, 1, 2, 199, 200, 201, 2500, 5000, 7777, 9990, 9998, 9999}
	for _, ratio := range ratios {
		for received := uint64(1); received < 10000; received++ {
			checkRoundTrip(t, ratio, received)
		}
	}
}

func TestExportRestore(t *testing.T) {
	a := newConfigured(t, 42)
	require.NoError(t, a.AddToWhitelist(admin, []common.Address{bob, alice}))

	b := NewAuthority(common.Address{})
	require.NoError(t, b.Restore(a.Export()))
	require.Equal(t, a.Export(), b.Export())
	require.True(t, b.IsWhitelisted(alice))

	require.ErrorIs(t, b.Restore(&State{Ratio: Precision}), ErrRatioTooLarge)
}
