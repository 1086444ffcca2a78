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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mccoysc/stablegov/governance"
	"github.com/mccoysc/stablegov/ledger"
)

// Deployment describes a fresh token and governor pair.
type Deployment struct {
	Token     common.Address
	Governor  common.Address
	Issuer    common.Address // initial ledger owner
	Owner     common.Address // governor owner
	Approvers [governance.RosterSize]common.Address
	Proposers []common.Address

	Governance *governance.Config
}

// DefaultDeployment returns a deployment of deployer's predicted token and
// governor accounts, with deployer issuing the token and owning the
// governor.
func DefaultDeployment(deployer common.Address, approvers [governance.RosterSize]common.Address) *Deployment {
	return &Deployment{
		Token:      PredictTokenAddress(deployer),
		Governor:   PredictGovernorAddress(deployer),
		Issuer:     deployer,
		Owner:      deployer,
		Approvers:  approvers,
		Governance: governance.DefaultConfig(),
	}
}

// Bootstrap creates the ledger and governor of d and runs the binding
// handshake: the issuer proposes the governor as ledger owner, the owner
// initializes the governor and grants the proposer role. The returned pair
// is ready for proposals.
func Bootstrap(d *Deployment) (*ledger.Ledger, *governance.Governor, error) {
	if d.Token == d.Governor {
		return nil, nil, errors.New("token and governor must be distinct accounts")
	}
	cfg := d.Governance
	if cfg == nil {
		cfg = governance.DefaultConfig()
	}
	led := ledger.New(d.Token, d.Issuer)
	gov := governance.New(cfg, d.Governor, d.Owner)

	if err := led.ProposeOwner(d.Issuer, d.Governor); err != nil {
		return nil, nil, fmt.Errorf("handoff: %w", err)
	}
	if err := gov.Init(d.Owner, led, d.Approvers); err != nil {
		return nil, nil, fmt.Errorf("init: %w", err)
	}
	for _, p := range d.Proposers {
		if err := gov.SetProposer(d.Owner, p, true); err != nil {
			return nil, nil, fmt.Errorf("proposer %s: %w", p.Hex(), err)
		}
	}
	log.Info("Deployment bootstrapped", "token", d.Token, "governor", d.Governor,
		"owner", d.Owner, "proposers", len(d.Proposers))
	return led, gov, nil
}
