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

import "errors"

// Role errors
var (
	ErrUnauthorized      = errors.New("caller is not authorized")
	ErrDuplicateApprover = errors.New("approver already holds a seat")
	ErrSameAsCurrent     = errors.New("candidate already holds this seat")
	ErrIndexOutOfRange   = errors.New("approver seat index out of range")
	ErrNoOpChange        = errors.New("value is unchanged")
	ErrZeroAddress       = errors.New("zero address")
)

// Proposal errors
var (
	ErrNotApprovable    = errors.New("no approvable proposal")
	ErrPayloadMismatch  = errors.New("payload does not match the pending proposal")
	ErrAlreadyConfirmed = errors.New("approver has already confirmed this proposal")
	ErrZeroAmount       = errors.New("amount must be positive")
	ErrInvalidDuration  = errors.New("proposal duration must be positive")
	ErrInvalidRecord    = errors.New("invalid proposal record")
)

// Ledger binding errors
var (
	ErrNotInitialized            = errors.New("governor is not bound to a ledger")
	ErrAlreadyInitialized        = errors.New("governor is already bound to a ledger")
	ErrNotProposedOwner          = errors.New("ledger has not proposed the governor as owner")
	ErrNotLedgerOwner            = errors.New("governor does not own the ledger")
	ErrNotLedgerAdmin            = errors.New("governor is not the ledger admin")
	ErrInsufficientLedgerBalance = errors.New("ledger balance is insufficient for burn")
)
