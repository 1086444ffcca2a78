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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Payload is the immutable data a proposal is created with. Approvers echo
// it back and Equal decides whether the echo matches.
type Payload[P any] interface {
	Equal(other P) bool
	Copy() P
	Hash() common.Hash
}

// MintPayload requests Amount new tokens for To.
type MintPayload struct {
	To     common.Address
	Amount *big.Int
}

func (p MintPayload) Equal(other MintPayload) bool {
	return p.To == other.To && bigEqual(p.Amount, other.Amount)
}

func (p MintPayload) Copy() MintPayload {
	return MintPayload{To: p.To, Amount: bigCopy(p.Amount)}
}

func (p MintPayload) Hash() common.Hash { return rlpHash(p) }

// BurnPayload requests destruction of Amount tokens held by the ledger.
type BurnPayload struct {
	Amount *big.Int
}

func (p BurnPayload) Equal(other BurnPayload) bool {
	return bigEqual(p.Amount, other.Amount)
}

func (p BurnPayload) Copy() BurnPayload {
	return BurnPayload{Amount: bigCopy(p.Amount)}
}

func (p BurnPayload) Hash() common.Hash { return rlpHash(p) }

// ApproverPayload requests seating Candidate at roster seat Index.
type ApproverPayload struct {
	Index     uint64
	Candidate common.Address
}

func (p ApproverPayload) Equal(other ApproverPayload) bool { return p == other }

func (p ApproverPayload) Copy() ApproverPayload { return p }

func (p ApproverPayload) Hash() common.Hash { return rlpHash(p) }

// FeeRatioPayload requests a new transfer fee ratio.
type FeeRatioPayload struct {
	Ratio uint64
}

func (p FeeRatioPayload) Equal(other FeeRatioPayload) bool { return p == other }

func (p FeeRatioPayload) Copy() FeeRatioPayload { return p }

func (p FeeRatioPayload) Hash() common.Hash { return rlpHash(p) }

// rlpHash is the keccak256 of the RLP encoding of x.
func rlpHash(x interface{}) common.Hash {
	enc, err := rlp.EncodeToBytes(x)
	if err != nil {
		return common.Hash{}
	}
	return crypto.Keccak256Hash(enc)
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

func bigCopy(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}
