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
	"slices"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Proposal is an in-flight request of one kind by one proposer.
// Confirmations never reaches RosterSize while the record is stored.
type Proposal[P Payload[P]] struct {
	Payload       P                // 提案内容
	CreatedAt     uint64           // 创建时间（秒）
	Confirmations []common.Address // 已确认的审批人，按确认顺序
}

// confirmedBy reports whether account has already confirmed.
func (p *Proposal[P]) confirmedBy(account common.Address) bool {
	return slices.Contains(p.Confirmations, account)
}

func (p *Proposal[P]) copy() Proposal[P] {
	return Proposal[P]{
		Payload:       p.Payload.Copy(),
		CreatedAt:     p.CreatedAt,
		Confirmations: slices.Clone(p.Confirmations),
	}
}

// Store keeps at most one proposal per proposer.
type Store[P Payload[P]] struct {
	records map[common.Address]*Proposal[P]
}

func newStore[P Payload[P]]() *Store[P] {
	return &Store[P]{records: make(map[common.Address]*Proposal[P])}
}

func (s *Store[P]) get(proposer common.Address) (*Proposal[P], bool) {
	rec, ok := s.records[proposer]
	return rec, ok
}

func (s *Store[P]) put(proposer common.Address, rec *Proposal[P]) {
	s.records[proposer] = rec
}

func (s *Store[P]) remove(proposer common.Address) {
	delete(s.records, proposer)
}

// proposers returns the proposers with a stored record in ascending order.
func (s *Store[P]) proposers() []common.Address {
	out := make([]common.Address, 0, len(s.records))
	for proposer := range s.records {
		out = append(out, proposer)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
