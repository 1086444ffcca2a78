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
	"time"
)

// RosterSize is the number of approver seats. Execution requires RosterSize
// distinct confirmations.
const RosterSize = 3

// Kind identifies a proposal kind.
type Kind uint8

const (
	KindMint     Kind = 0x01 // 铸造
	KindBurn     Kind = 0x02 // 销毁
	KindApprover Kind = 0x03 // 更换审批人席位
	KindFeeRatio Kind = 0x04 // 手续费比例
)

func (k Kind) String() string {
	switch k {
	case KindMint:
		return "mint"
	case KindBurn:
		return "burn"
	case KindApprover:
		return "approver"
	case KindFeeRatio:
		return "fee-ratio"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Config holds the governor's tunable parameters.
type Config struct {
	ProposalDuration uint64 // 提案有效期（秒）
}

// DefaultConfig returns the default governor configuration
func DefaultConfig() *Config {
	return &Config{
		ProposalDuration: uint64(6 * time.Hour / time.Second), // 6 小时
	}
}

// Clock returns the current time in unix seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}
