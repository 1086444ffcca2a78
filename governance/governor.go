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
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mccoysc/stablegov/fee"
)

// Governor is the single entry point of the control plane. It owns the
// ledger it is bound to and turns fully confirmed proposals into ledger
// mutations. Every call is serialized; a call either commits completely and
// emits its events, or fails with no effect.
type Governor struct {
	mu       sync.Mutex
	self     common.Address // the governor's own account on the ledger
	owner    common.Address
	duration uint64
	ledger   Ledger
	roles    *Roles
	now      Clock

	mint     *Machine[MintPayload]
	burn     *Machine[BurnPayload]
	approver *Machine[ApproverPayload]
	feeRatio *Machine[FeeRatioPayload]

	feedMu sync.Mutex
	feed   event.FeedOf[Event]
	log    log.Logger
}

// New creates an unbound governor acting as self and administered by owner.
func New(config *Config, self, owner common.Address) *Governor {
	g := &Governor{
		self:     self,
		owner:    owner,
		duration: config.ProposalDuration,
		roles:    newRoles(),
		now:      SystemClock,
		log:      log.New("governor", self),
	}
	g.mint = NewMachine(MachineConfig[MintPayload]{
		Kind:       KindMint,
		Quorum:     RosterSize,
		Duration:   g.proposalDuration,
		Now:        g.clock,
		CanPropose: g.isProposer,
		CanApprove: g.isApprover,
		Validate:   g.validateMint,
		Execute:    g.doMint,
	})
	g.burn = NewMachine(MachineConfig[BurnPayload]{
		Kind:       KindBurn,
		Quorum:     RosterSize,
		Duration:   g.proposalDuration,
		Now:        g.clock,
		CanPropose: g.isProposer,
		CanApprove: g.isApprover,
		Validate:   g.validateBurn,
		Execute:    g.doBurn,
	})
	g.approver = NewMachine(MachineConfig[ApproverPayload]{
		Kind:       KindApprover,
		Quorum:     RosterSize,
		Duration:   g.proposalDuration,
		Now:        g.clock,
		CanPropose: g.isApproverOrOwner,
		CanApprove: g.isApproverOrOwner,
		Validate:   g.validateSeat,
		Execute:    g.doSetApprover,
	})
	g.feeRatio = NewMachine(MachineConfig[FeeRatioPayload]{
		Kind:       KindFeeRatio,
		Quorum:     RosterSize,
		Duration:   g.proposalDuration,
		Now:        g.clock,
		CanPropose: g.isProposer,
		CanApprove: g.isApprover,
		Validate:   g.validateFeeRatio,
		Execute:    g.doSetFeeRatio,
	})
	return g
}

// SubscribeEvents delivers governor events to ch in commit order. The
// channel should be buffered; a full channel stalls the next commit.
func (g *Governor) SubscribeEvents(ch chan<- Event) event.Subscription {
	return g.feed.Subscribe(ch)
}

// apply runs fn under the state lock and publishes its events only if fn
// succeeds. fn must check every precondition before it mutates anything.
func (g *Governor) apply(fn func() ([]Event, error)) error {
	g.mu.Lock()
	events, err := fn()
	if err != nil {
		g.mu.Unlock()
		return err
	}
	// Hand over to the feed lock so delivery follows commit order.
	g.feedMu.Lock()
	g.mu.Unlock()
	defer g.feedMu.Unlock()

	for _, ev := range events {
		g.feed.Send(ev)
	}
	return nil
}

func (g *Governor) clock() uint64            { return g.now() }
func (g *Governor) proposalDuration() uint64 { return g.duration }

func (g *Governor) isProposer(account common.Address) bool { return g.roles.IsProposer(account) }
func (g *Governor) isApprover(account common.Address) bool { return g.roles.IsApprover(account) }

func (g *Governor) isApproverOrOwner(account common.Address) bool {
	return account == g.owner || g.roles.IsApprover(account)
}

// requireLedger fails until Init has bound a ledger.
func (g *Governor) requireLedger() error {
	if g.ledger == nil {
		return ErrNotInitialized
	}
	return nil
}

// requireLedgerOwner re-validates on every privileged call that the ledger
// still names the governor as owner.
func (g *Governor) requireLedgerOwner() error {
	if err := g.requireLedger(); err != nil {
		return err
	}
	if g.ledger.Owner() != g.self {
		return ErrNotLedgerOwner
	}
	return nil
}

func (g *Governor) requireLedgerAdmin() error {
	if err := g.requireLedger(); err != nil {
		return err
	}
	if g.ledger.Admin() != g.self {
		return ErrNotLedgerAdmin
	}
	return nil
}

// onlyOwner checks the caller and, when withLedger is set, the binding.
func (g *Governor) onlyOwner(caller common.Address, withLedger bool) error {
	if caller != g.owner {
		return ErrUnauthorized
	}
	if withLedger {
		return g.requireLedger()
	}
	return nil
}

// Self returns the governor's own account.
func (g *Governor) Self() common.Address { return g.self }

// Owner returns the governor owner.
func (g *Governor) Owner() common.Address {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.owner
}

// Ledger returns the bound ledger, nil before Init.
func (g *Governor) Ledger() Ledger {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger
}

func (g *Governor) ProposalDuration() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.duration
}

func (g *Governor) Approvers() [RosterSize]common.Address {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roles.Approvers()
}

func (g *Governor) IsApprover(account common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roles.IsApprover(account)
}

func (g *Governor) IsProposer(account common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roles.IsProposer(account)
}

func (g *Governor) Proposers() []common.Address {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roles.Proposers()
}

// SetProposer enables or disables account as a proposer.
func (g *Governor) SetProposer(caller, account common.Address, enabled bool) error {
	return g.apply(func() ([]Event, error) {
		if err := g.onlyOwner(caller, false); err != nil {
			return nil, err
		}
		if err := g.roles.setProposer(account, enabled); err != nil {
			return nil, err
		}
		g.log.Info("Proposer updated", "account", account, "enabled", enabled)
		return []Event{ProposerChanged{Caller: caller, Account: account, Enabled: enabled}}, nil
	})
}

// SetProposalDuration changes the expiry window in seconds. It applies to
// pending proposals as well.
func (g *Governor) SetProposalDuration(caller common.Address, duration uint64) error {
	return g.apply(func() ([]Event, error) {
		if err := g.onlyOwner(caller, false); err != nil {
			return nil, err
		}
		if duration == 0 {
			return nil, ErrInvalidDuration
		}
		if duration == g.duration {
			return nil, ErrNoOpChange
		}
		old := g.duration
		g.duration = duration
		g.log.Info("Proposal duration updated", "old", old, "new", duration)
		return []Event{DurationChanged{Caller: caller, Old: old, New: duration}}, nil
	})
}

// TransferOwnership hands governor ownership to newOwner.
func (g *Governor) TransferOwnership(caller, newOwner common.Address) error {
	return g.apply(func() ([]Event, error) {
		if err := g.onlyOwner(caller, false); err != nil {
			return nil, err
		}
		if newOwner == (common.Address{}) {
			return nil, ErrZeroAddress
		}
		if newOwner == g.owner {
			return nil, ErrNoOpChange
		}
		g.owner = newOwner
		g.log.Warn("Governor ownership transferred", "previous", caller, "owner", newOwner)
		return []Event{OwnershipTransferred{Previous: caller, Owner: newOwner}}, nil
	})
}

// propose runs a proposal through m and builds its events.
func propose[P Payload[P]](m *Machine[P], caller common.Address, payload P) ([]Event, error) {
	expired, err := m.Propose(caller, payload)
	if err != nil {
		return nil, err
	}
	var events []Event
	if expired != nil {
		events = append(events, Expired[P]{
			Kind:          m.cfg.Kind,
			Proposer:      caller,
			Payload:       expired.Payload,
			CreatedAt:     expired.CreatedAt,
			Confirmations: expired.Confirmations,
		})
	}
	rec, _ := m.Get(caller)
	events = append(events, Proposed[P]{
		Kind:      m.cfg.Kind,
		Proposer:  caller,
		Payload:   rec.Payload,
		CreatedAt: rec.CreatedAt,
	})
	return events, nil
}

// approve runs a vote through m and builds its event.
func approve[P Payload[P]](m *Machine[P], caller, proposer common.Address, approved bool, echo P) ([]Event, Vote, error) {
	vote, err := m.Approve(caller, proposer, approved, echo)
	if err != nil {
		return nil, Vote{}, err
	}
	return []Event{Voted[P]{
		Kind:          m.cfg.Kind,
		Approver:      caller,
		Proposer:      proposer,
		Payload:       echo.Copy(),
		Approved:      vote.Approved,
		Confirmations: vote.Confirmations,
		Executed:      vote.Executed,
	}}, vote, nil
}

// ProposeMint requests minting amount tokens to to.
func (g *Governor) ProposeMint(caller, to common.Address, amount *big.Int) error {
	payload := MintPayload{To: to, Amount: bigCopy(amount)}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		return propose(g.mint, caller, payload)
	})
}

// ApproveMint votes on proposer's mint proposal; to and amount must echo it.
func (g *Governor) ApproveMint(caller, proposer common.Address, approved bool, to common.Address, amount *big.Int) error {
	echo := MintPayload{To: to, Amount: bigCopy(amount)}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		events, vote, err := approve(g.mint, caller, proposer, approved, echo)
		if err != nil {
			return nil, err
		}
		if vote.Executed {
			events = append(events, Minted{Proposer: proposer, To: to, Amount: bigCopy(amount)})
		}
		return events, nil
	})
}

func (g *Governor) GetMintProposal(proposer common.Address) (Proposal[MintPayload], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mint.Get(proposer)
}

func (g *Governor) IsMintApprovable(proposer common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mint.Approvable(proposer)
}

func (g *Governor) validateMint(p MintPayload) error {
	if p.To == (common.Address{}) {
		return ErrZeroAddress
	}
	if p.Amount == nil || p.Amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return nil
}

func (g *Governor) doMint(proposer common.Address, p MintPayload) error {
	if err := g.requireLedgerOwner(); err != nil {
		return err
	}
	if err := g.ledger.Mint(g.self, p.To, p.Amount); err != nil {
		return err
	}
	g.log.Info("Mint executed", "proposer", proposer, "to", p.To, "amount", p.Amount)
	return nil
}

// ProposeBurn requests burning amount tokens from the ledger's own balance.
func (g *Governor) ProposeBurn(caller common.Address, amount *big.Int) error {
	payload := BurnPayload{Amount: bigCopy(amount)}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		return propose(g.burn, caller, payload)
	})
}

// ApproveBurn votes on proposer's burn proposal; amount must echo it.
func (g *Governor) ApproveBurn(caller, proposer common.Address, approved bool, amount *big.Int) error {
	echo := BurnPayload{Amount: bigCopy(amount)}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		events, vote, err := approve(g.burn, caller, proposer, approved, echo)
		if err != nil {
			return nil, err
		}
		if vote.Executed {
			events = append(events, Burned{Proposer: proposer, Amount: bigCopy(amount)})
		}
		return events, nil
	})
}

func (g *Governor) GetBurnProposal(proposer common.Address) (Proposal[BurnPayload], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.burn.Get(proposer)
}

func (g *Governor) IsBurnApprovable(proposer common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.burn.Approvable(proposer)
}

// isBurnBalanceEnough checks the ledger's own balance. It runs when a burn
// is proposed and again when it executes.
func (g *Governor) isBurnBalanceEnough(amount *big.Int) error {
	if err := g.requireLedger(); err != nil {
		return err
	}
	if g.ledger.BalanceOf(g.ledger.Address()).Cmp(amount) < 0 {
		return ErrInsufficientLedgerBalance
	}
	return nil
}

func (g *Governor) validateBurn(p BurnPayload) error {
	if p.Amount == nil || p.Amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	return g.isBurnBalanceEnough(p.Amount)
}

func (g *Governor) doBurn(proposer common.Address, p BurnPayload) error {
	if err := g.requireLedgerOwner(); err != nil {
		return err
	}
	if err := g.isBurnBalanceEnough(p.Amount); err != nil {
		return err
	}
	if err := g.ledger.Burn(g.self, p.Amount); err != nil {
		return err
	}
	g.log.Info("Burn executed", "proposer", proposer, "amount", p.Amount)
	return nil
}

// ProposeApprover requests seating candidate at roster seat index. Approvers
// and the owner may propose and confirm roster changes.
func (g *Governor) ProposeApprover(caller common.Address, index uint64, candidate common.Address) error {
	payload := ApproverPayload{Index: index, Candidate: candidate}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		return propose(g.approver, caller, payload)
	})
}

// ApproveApprover votes on proposer's roster proposal.
func (g *Governor) ApproveApprover(caller, proposer common.Address, approved bool, index uint64, candidate common.Address) error {
	echo := ApproverPayload{Index: index, Candidate: candidate}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		var old common.Address
		if index < RosterSize {
			old = g.roles.approvers[index]
		}
		events, vote, err := approve(g.approver, caller, proposer, approved, echo)
		if err != nil {
			return nil, err
		}
		if vote.Executed {
			events = append(events, ApproverChanged{Proposer: proposer, Index: index, Old: old, New: candidate})
		}
		return events, nil
	})
}

func (g *Governor) GetApproverProposal(proposer common.Address) (Proposal[ApproverPayload], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.approver.Get(proposer)
}

func (g *Governor) IsApproverApprovable(proposer common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.approver.Approvable(proposer)
}

func (g *Governor) validateSeat(p ApproverPayload) error {
	return g.roles.checkSeat(p.Index, p.Candidate)
}

func (g *Governor) doSetApprover(proposer common.Address, p ApproverPayload) error {
	old, err := g.roles.setSeat(p.Index, p.Candidate)
	if err != nil {
		return err
	}
	// The outgoing approver's pending confirmations no longer count.
	dropped := g.mint.prune() + g.burn.prune() + g.approver.prune() + g.feeRatio.prune()
	g.log.Warn("Approver seat replaced", "proposer", proposer, "index", p.Index, "old", old, "new", p.Candidate,
		"dropped", dropped)
	return nil
}

// ProposeFeeRatio requests a new transfer fee ratio on the ledger.
func (g *Governor) ProposeFeeRatio(caller common.Address, ratio uint64) error {
	payload := FeeRatioPayload{Ratio: ratio}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		return propose(g.feeRatio, caller, payload)
	})
}

// ApproveFeeRatio votes on proposer's fee ratio proposal.
func (g *Governor) ApproveFeeRatio(caller, proposer common.Address, approved bool, ratio uint64) error {
	echo := FeeRatioPayload{Ratio: ratio}
	return g.apply(func() ([]Event, error) {
		if err := g.requireLedger(); err != nil {
			return nil, err
		}
		events, vote, err := approve(g.feeRatio, caller, proposer, approved, echo)
		if err != nil {
			return nil, err
		}
		if vote.Executed {
			events = append(events, FeeRatioChanged{Proposer: proposer, Ratio: ratio})
		}
		return events, nil
	})
}

func (g *Governor) GetFeeRatioProposal(proposer common.Address) (Proposal[FeeRatioPayload], bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.feeRatio.Get(proposer)
}

func (g *Governor) IsFeeRatioApprovable(proposer common.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.feeRatio.Approvable(proposer)
}

func (g *Governor) validateFeeRatio(p FeeRatioPayload) error {
	if p.Ratio >= fee.Precision {
		return fee.ErrRatioTooLarge
	}
	return nil
}

func (g *Governor) doSetFeeRatio(proposer common.Address, p FeeRatioPayload) error {
	if err := g.requireLedgerAdmin(); err != nil {
		return err
	}
	if err := g.ledger.SetFeeRatio(g.self, p.Ratio); err != nil {
		return err
	}
	g.log.Info("Fee ratio executed", "proposer", proposer, "ratio", p.Ratio)
	return nil
}
