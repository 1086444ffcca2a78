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
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Deployment order of a deployer account. The token is created first so the
// governor can be handed its ownership right after.
const (
	TokenNonce    uint64 = 0
	GovernorNonce uint64 = 1
)

// CalculateContractAddress returns the account created by deployer at nonce
// under the CREATE rule: keccak256(rlp([deployer, nonce]))[12:].
func CalculateContractAddress(deployer common.Address, nonce uint64) common.Address {
	data, _ := rlp.EncodeToBytes([]interface{}{deployer, nonce})
	return common.BytesToAddress(crypto.Keccak256(data)[12:])
}

// PredictTokenAddress predicts the ledger account of deployer.
func PredictTokenAddress(deployer common.Address) common.Address {
	return CalculateContractAddress(deployer, TokenNonce)
}

// PredictGovernorAddress predicts the governor account of deployer.
func PredictGovernorAddress(deployer common.Address) common.Address {
	return CalculateContractAddress(deployer, GovernorNonce)
}
