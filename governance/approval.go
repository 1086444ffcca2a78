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
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Gate decides whether an account may perform an action.
type Gate func(account common.Address) bool

// MachineConfig wires a Machine to its environment.
type MachineConfig[P Payload[P]] struct {
	Kind       Kind
	Quorum     int
	Duration   func() uint64
	Now        Clock
	CanPropose Gate
	CanApprove Gate

	// Validate checks a payload before it is stored. Optional.
	Validate func(payload P) error

	// Execute applies the payload once quorum is reached. The record has
	// already been removed when it runs; an error restores it and fails
	// the approval.
	Execute func(proposer common.Address, payload P) error
}

// Machine is the approval lifecycle shared by every proposal kind:
// ABSENT -> PENDING -> EXECUTED | REJECTED | EXPIRED.
//
// Machine does no locking. Callers serialize every call.
type Machine[P Payload[P]] struct {
	cfg   MachineConfig[P]
	store *Store[P]
	log   log.Logger
}

// NewMachine creates a machine with an empty proposal store.
func NewMachine[P Payload[P]](cfg MachineConfig[P]) *Machine[P] {
	return &Machine[P]{
		cfg:   cfg,
		store: newStore[P](),
		log:   log.New("proposal", cfg.Kind.String()),
	}
}

// Vote is the outcome of a successful Approve call.
type Vote struct {
	Approved      bool // false when the vote rejected the proposal
	Executed      bool // quorum was reached and the payload applied
	Confirmations int  // confirmations after the vote
}

// approvable reports whether rec can still be confirmed: created, and not
// older than the proposal duration. The comparison is inclusive so a record
// created at T is approvable at exactly T+duration. The age is compared
// rather than the deadline, which would wrap for large durations.
func (m *Machine[P]) approvable(rec *Proposal[P]) bool {
	if rec.CreatedAt == 0 {
		return false
	}
	now := m.cfg.Now()
	return now < rec.CreatedAt || now-rec.CreatedAt <= m.cfg.Duration()
}

// Approvable reports whether proposer has a live proposal.
func (m *Machine[P]) Approvable(proposer common.Address) bool {
	rec, ok := m.store.get(proposer)
	return ok && m.approvable(rec)
}

// Get returns a copy of proposer's stored record, the zero value if none.
// Expired records are returned until they are replaced.
func (m *Machine[P]) Get(proposer common.Address) (Proposal[P], bool) {
	rec, ok := m.store.get(proposer)
	if !ok {
		return Proposal[P]{}, false
	}
	return rec.copy(), true
}

// Propose stores a new proposal for caller. An expired record of the same
// proposer is replaced and returned so the caller can report it.
func (m *Machine[P]) Propose(caller common.Address, payload P) (expired *Proposal[P], err error) {
	if !m.cfg.CanPropose(caller) {
		return nil, ErrUnauthorized
	}
	prev, ok := m.store.get(caller)
	if ok && m.approvable(prev) {
		return nil, ErrNotApprovable
	}
	if m.cfg.Validate != nil {
		if err := m.cfg.Validate(payload); err != nil {
			return nil, err
		}
	}
	now := m.cfg.Now()
	m.store.put(caller, &Proposal[P]{
		Payload:   payload.Copy(),
		CreatedAt: now,
	})
	m.log.Debug("Proposal created", "proposer", caller, "payload", payload.Hash(), "createdAt", now)

	if ok {
		m.log.Info("Expired proposal replaced", "proposer", caller, "payload", prev.Payload.Hash(),
			"confirmations", len(prev.Confirmations))
		return prev, nil
	}
	return nil, nil
}

// Approve records caller's vote on proposer's proposal. The echo must equal
// the stored payload. A rejection deletes the proposal; the confirmation
// that completes the quorum deletes it and then executes it.
func (m *Machine[P]) Approve(caller, proposer common.Address, approved bool, echo P) (Vote, error) {
	if !m.cfg.CanApprove(caller) {
		return Vote{}, ErrUnauthorized
	}
	rec, ok := m.store.get(proposer)
	if !ok || !m.approvable(rec) {
		return Vote{}, ErrNotApprovable
	}
	if !rec.Payload.Equal(echo) {
		return Vote{}, ErrPayloadMismatch
	}
	if rec.confirmedBy(caller) {
		return Vote{}, ErrAlreadyConfirmed
	}

	if !approved {
		m.store.remove(proposer)
		m.log.Info("Proposal rejected", "proposer", proposer, "approver", caller,
			"confirmations", len(rec.Confirmations))
		return Vote{Confirmations: len(rec.Confirmations)}, nil
	}

	confirmations := append(slices.Clone(rec.Confirmations), caller)
	if len(confirmations) < m.cfg.Quorum {
		rec.Confirmations = confirmations
		return Vote{Approved: true, Confirmations: len(confirmations)}, nil
	}

	// Clear the record before applying the effect.
	m.store.remove(proposer)
	if err := m.cfg.Execute(proposer, rec.Payload.Copy()); err != nil {
		m.store.put(proposer, rec)
		m.log.Warn("Proposal execution failed", "proposer", proposer, "err", err)
		return Vote{}, err
	}
	m.log.Info("Proposal executed", "proposer", proposer, "payload", rec.Payload.Hash())
	return Vote{Approved: true, Executed: true, Confirmations: len(confirmations)}, nil
}

// records returns every stored record keyed by proposer, in proposer order.
func (m *Machine[P]) records() []Record[P] {
	proposers := m.store.proposers()
	out := make([]Record[P], 0, len(proposers))
	for _, proposer := range proposers {
		rec, _ := m.store.get(proposer)
		c := rec.copy()
		out = append(out, Record[P]{
			Proposer:      proposer,
			Payload:       c.Payload,
			CreatedAt:     c.CreatedAt,
			Confirmations: c.Confirmations,
		})
	}
	return out
}

// prune drops confirmations by accounts that may no longer approve, so that
// only current approvers count toward a quorum. It returns the number of
// confirmations dropped.
func (m *Machine[P]) prune() int {
	dropped := 0
	for _, proposer := range m.store.proposers() {
		rec, _ := m.store.get(proposer)
		kept := slices.DeleteFunc(slices.Clone(rec.Confirmations), func(a common.Address) bool {
			return !m.cfg.CanApprove(a)
		})
		if n := len(rec.Confirmations) - len(kept); n > 0 {
			m.log.Info("Confirmations dropped", "proposer", proposer, "dropped", n, "confirmations", len(kept))
			rec.Confirmations = kept
			dropped += n
		}
	}
	return dropped
}

// load replaces the stored records. Records that could not have been stored
// are rejected and leave the machine unchanged.
func (m *Machine[P]) load(records []Record[P]) error {
	store := newStore[P]()
	for _, r := range records {
		if err := m.checkRecord(store, r); err != nil {
			return fmt.Errorf("%s proposal of %s: %w", m.cfg.Kind, r.Proposer.Hex(), err)
		}
		store.put(r.Proposer, &Proposal[P]{
			Payload:       r.Payload.Copy(),
			CreatedAt:     r.CreatedAt,
			Confirmations: slices.Clone(r.Confirmations),
		})
	}
	m.store = store
	return nil
}

func (m *Machine[P]) checkRecord(store *Store[P], r Record[P]) error {
	if _, ok := store.get(r.Proposer); ok {
		return fmt.Errorf("%w: duplicate proposer", ErrInvalidRecord)
	}
	if r.CreatedAt == 0 {
		return fmt.Errorf("%w: zero creation time", ErrInvalidRecord)
	}
	if len(r.Confirmations) >= m.cfg.Quorum {
		return fmt.Errorf("%w: %d confirmations reach the quorum", ErrInvalidRecord, len(r.Confirmations))
	}
	for i, a := range r.Confirmations {
		if slices.Contains(r.Confirmations[:i], a) {
			return fmt.Errorf("%w: %s confirmed twice", ErrInvalidRecord, a.Hex())
		}
		if !m.cfg.CanApprove(a) {
			return fmt.Errorf("%w: %s may not approve", ErrInvalidRecord, a.Hex())
		}
	}
	return nil
}
