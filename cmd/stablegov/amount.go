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

package main

import (
	"fmt"
	"math/big"

	"github.com/mccoysc/stablegov/fee"
	"github.com/shopspring/decimal"
)

// parseAmount converts a decimal token amount such as "12.5" into base
// units.
func parseAmount(s string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("invalid amount %q: must be positive", s)
	}
	units := d.Shift(decimals)
	if !units.IsInteger() {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimals", s, decimals)
	}
	return units.BigInt(), nil
}

// formatAmount renders base units as a decimal token amount.
func formatAmount(units *big.Int, decimals int32) string {
	return decimal.NewFromBigInt(units, -decimals).String()
}

// formatRatio renders a fee ratio as a percentage.
func formatRatio(ratio uint64) string {
	return decimal.NewFromInt(int64(ratio)).
		Div(decimal.NewFromInt(int64(fee.Precision))).
		Shift(2).String() + "%"
}
