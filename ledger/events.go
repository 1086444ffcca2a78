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
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Event is a ledger notification.
type Event interface {
	ledgerEvent()
}

// Transfer records a balance movement. From is zero for mints and To is zero
// for burns.
type Transfer struct {
	From   common.Address
	To     common.Address
	Amount *big.Int
	Forced bool
}

type PauseChanged struct {
	Caller common.Address
	Paused bool
}

type OwnerProposed struct {
	Owner     common.Address
	Candidate common.Address
}

type OwnershipTaken struct {
	Previous common.Address
	Owner    common.Address
}

type AdminChanged struct {
	Owner common.Address
	Admin common.Address
}

type FeeRatioChanged struct {
	Admin common.Address
	Ratio uint64
}

func (Transfer) ledgerEvent()        {}
func (PauseChanged) ledgerEvent()    {}
func (OwnerProposed) ledgerEvent()   {}
func (OwnershipTaken) ledgerEvent()  {}
func (AdminChanged) ledgerEvent()    {}
func (FeeRatioChanged) ledgerEvent() {}
