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
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mccoysc/stablegov/genesis"
	"github.com/mccoysc/stablegov/governance"
	"github.com/urfave/cli/v2"
)

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "handoff",
			Usage:  "Propose the governor as ledger owner (run as the current ledger owner)",
			Action: mutate(handoff),
		},
		{
			Name:   "bootstrap",
			Usage:  "Create the configured deployment in one step, acting as both issuer and owner",
			Action: bootstrap,
		},
		{
			Name:   "init",
			Usage:  "Bind the governor to the ledger and seat the configured approvers",
			Action: mutate(initGovernor),
		},
		{
			Name:   "show",
			Usage:  "Print governor, proposal and ledger state",
			Action: inspect(show),
		},
		{
			Name:      "set-proposer",
			Usage:     "Grant or revoke the proposer role",
			ArgsUsage: "<account>",
			Flags:     []cli.Flag{disableFlag},
			Action:    mutate(setProposer),
		},
		{
			Name:      "set-duration",
			Usage:     "Set the proposal expiry window in seconds",
			ArgsUsage: "<seconds>",
			Action:    mutate(setDuration),
		},
		{
			Name:      "transfer-ownership",
			Usage:     "Hand governor ownership to another account",
			ArgsUsage: "<account>",
			Action:    mutate(transferOwnership),
		},
		{
			Name:  "mint",
			Usage: "Mint proposals",
			Subcommands: []*cli.Command{
				{Name: "propose", ArgsUsage: "<to> <amount>", Action: mutate(proposeMint)},
				{Name: "approve", ArgsUsage: "<proposer> <to> <amount>", Flags: []cli.Flag{rejectFlag}, Action: mutate(approveMint)},
			},
		},
		{
			Name:  "burn",
			Usage: "Burn proposals against the ledger's own balance",
			Subcommands: []*cli.Command{
				{Name: "propose", ArgsUsage: "<amount>", Action: mutate(proposeBurn)},
				{Name: "approve", ArgsUsage: "<proposer> <amount>", Flags: []cli.Flag{rejectFlag}, Action: mutate(approveBurn)},
			},
		},
		{
			Name:  "approver",
			Usage: "Approver seat proposals",
			Subcommands: []*cli.Command{
				{Name: "propose", ArgsUsage: "<index> <candidate>", Action: mutate(proposeApprover)},
				{Name: "approve", ArgsUsage: "<proposer> <index> <candidate>", Flags: []cli.Flag{rejectFlag}, Action: mutate(approveApprover)},
			},
		},
		{
			Name:  "fee",
			Usage: "Transfer fee proposals and configuration",
			Subcommands: []*cli.Command{
				{Name: "propose", Usage: "Propose a fee ratio in units of 1/10000", ArgsUsage: "<ratio>", Action: mutate(proposeFeeRatio)},
				{Name: "approve", ArgsUsage: "<proposer> <ratio>", Flags: []cli.Flag{rejectFlag}, Action: mutate(approveFeeRatio)},
				{Name: "recipient", ArgsUsage: "<account>", Action: mutate(setFeeRecipient)},
				{Name: "whitelist", ArgsUsage: "<account>...", Action: mutate(whitelist)},
				{Name: "unwhitelist", ArgsUsage: "<account>...", Action: mutate(unwhitelist)},
				{Name: "quote-sent", Usage: "What to receives when from sends amount", ArgsUsage: "<from> <to> <amount>", Action: inspect(quoteSent)},
				{Name: "quote-received", Usage: "What from must send for to to receive amount", ArgsUsage: "<from> <to> <amount>", Action: inspect(quoteReceived)},
			},
		},
		{
			Name:  "token",
			Usage: "Ledger administration through the governor",
			Subcommands: []*cli.Command{
				{Name: "propose-owner", ArgsUsage: "<candidate>", Action: mutate(proposeTokenOwner)},
				{Name: "take-ownership", Action: mutate(takeTokenOwnership)},
				{Name: "set-admin", ArgsUsage: "<account>", Action: mutate(setTokenAdmin)},
				{Name: "force-transfer", ArgsUsage: "<from> <to> <amount>", Action: mutate(forceTransfer)},
			},
		},
		{
			Name:      "transfer",
			Usage:     "Transfer tokens from the --from account",
			ArgsUsage: "<to> <amount>",
			Flags:     []cli.Flag{exactFlag},
			Action:    mutate(transfer),
		},
		{
			Name:      "balance",
			Usage:     "Print an account balance",
			ArgsUsage: "<account>",
			Action:    inspect(balance),
		},
		{
			Name:   "pause",
			Usage:  "Halt ledger transfers",
			Action: mutate(func(_ *cli.Context, s *session, from common.Address) error { return s.gov.Pause(from) }),
		},
		{
			Name:   "unpause",
			Usage:  "Resume ledger transfers",
			Action: mutate(func(_ *cli.Context, s *session, from common.Address) error { return s.gov.Unpause(from) }),
		},
	}
}

func handoff(c *cli.Context, s *session, from common.Address) error {
	return s.led.ProposeOwner(from, s.gov.Self())
}

// bootstrap replaces the empty deployment of a fresh data directory with a
// bound one. It needs no --from: the configuration names every account.
func bootstrap(c *cli.Context) error {
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	if !s.fresh {
		return fmt.Errorf("data directory %s already holds a deployment", s.cfg.DataDir)
	}
	d, err := s.cfg.Deployment()
	if err != nil {
		return err
	}
	led, gov, err := genesis.Bootstrap(d)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Token:    %s\nGovernor: %s\n", led.Address().Hex(), gov.Self().Hex())
	return s.store.SaveLive(gov, led)
}

func initGovernor(c *cli.Context, s *session, from common.Address) error {
	return s.gov.Init(from, s.led, s.acc.Approvers)
}

func setProposer(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	account, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	return s.gov.SetProposer(from, account, !c.Bool(disableFlag.Name))
}

func setDuration(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	seconds, err := argUint(c, 0)
	if err != nil {
		return err
	}
	return s.gov.SetProposalDuration(from, seconds)
}

func transferOwnership(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	account, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	return s.gov.TransferOwnership(from, account)
}

func proposeMint(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 2); err != nil {
		return err
	}
	to, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	amount, err := argAmount(c, s, 1)
	if err != nil {
		return err
	}
	return s.gov.ProposeMint(from, to, amount)
}

func approveMint(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 3); err != nil {
		return err
	}
	proposer, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	to, err := argAccount(c, 1)
	if err != nil {
		return err
	}
	amount, err := argAmount(c, s, 2)
	if err != nil {
		return err
	}
	return s.gov.ApproveMint(from, proposer, !c.Bool(rejectFlag.Name), to, amount)
}

func proposeBurn(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	amount, err := argAmount(c, s, 0)
	if err != nil {
		return err
	}
	return s.gov.ProposeBurn(from, amount)
}

func approveBurn(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 2); err != nil {
		return err
	}
	proposer, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	amount, err := argAmount(c, s, 1)
	if err != nil {
		return err
	}
	return s.gov.ApproveBurn(from, proposer, !c.Bool(rejectFlag.Name), amount)
}

func proposeApprover(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 2); err != nil {
		return err
	}
	index, err := argUint(c, 0)
	if err != nil {
		return err
	}
	candidate, err := argAccount(c, 1)
	if err != nil {
		return err
	}
	return s.gov.ProposeApprover(from, index, candidate)
}

func approveApprover(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 3); err != nil {
		return err
	}
	proposer, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	index, err := argUint(c, 1)
	if err != nil {
		return err
	}
	candidate, err := argAccount(c, 2)
	if err != nil {
		return err
	}
	return s.gov.ApproveApprover(from, proposer, !c.Bool(rejectFlag.Name), index, candidate)
}

func proposeFeeRatio(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	ratio, err := argUint(c, 0)
	if err != nil {
		return err
	}
	return s.gov.ProposeFeeRatio(from, ratio)
}

func approveFeeRatio(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 2); err != nil {
		return err
	}
	proposer, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	ratio, err := argUint(c, 1)
	if err != nil {
		return err
	}
	return s.gov.ApproveFeeRatio(from, proposer, !c.Bool(rejectFlag.Name), ratio)
}

func setFeeRecipient(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	recipient, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	return s.gov.SetFeeRecipient(from, recipient)
}

func whitelist(c *cli.Context, s *session, from common.Address) error {
	accounts, err := argAccounts(c)
	if err != nil {
		return err
	}
	return s.gov.AddToFeeWhitelist(from, accounts)
}

func unwhitelist(c *cli.Context, s *session, from common.Address) error {
	accounts, err := argAccounts(c)
	if err != nil {
		return err
	}
	return s.gov.DelFromFeeWhitelist(from, accounts)
}

// quoteArgs parses <from> <to> <amount>.
func quoteArgs(c *cli.Context, s *session) (from, to common.Address, amount *big.Int, err error) {
	if err = args(c, 3); err != nil {
		return
	}
	if from, err = argAccount(c, 0); err != nil {
		return
	}
	if to, err = argAccount(c, 1); err != nil {
		return
	}
	amount, err = argAmount(c, s, 2)
	return
}

func quoteSent(c *cli.Context, s *session) error {
	from, to, sent, err := quoteArgs(c, s)
	if err != nil {
		return err
	}
	received, charged, err := s.led.Fees().QuoteReceivedFromSent(from, to, sent)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "sent=%s received=%s fee=%s\n",
		formatAmount(sent, s.decimals()), formatAmount(received, s.decimals()), formatAmount(charged, s.decimals()))
	return nil
}

func quoteReceived(c *cli.Context, s *session) error {
	from, to, received, err := quoteArgs(c, s)
	if err != nil {
		return err
	}
	sent, charged, err := s.led.Fees().QuoteSentForReceived(from, to, received)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "sent=%s received=%s fee=%s\n",
		formatAmount(sent, s.decimals()), formatAmount(received, s.decimals()), formatAmount(charged, s.decimals()))
	return nil
}

func proposeTokenOwner(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	candidate, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	return s.gov.ProposeTokenOwner(from, candidate)
}

func takeTokenOwnership(c *cli.Context, s *session, from common.Address) error {
	return s.gov.TakeTokenOwnership(from)
}

func setTokenAdmin(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 1); err != nil {
		return err
	}
	admin, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	return s.gov.SetTokenAdmin(from, admin)
}

func forceTransfer(c *cli.Context, s *session, from common.Address) error {
	src, dst, amount, err := quoteArgs(c, s)
	if err != nil {
		return err
	}
	return s.gov.ForceTransfer(from, src, dst, amount)
}

func transfer(c *cli.Context, s *session, from common.Address) error {
	if err := args(c, 2); err != nil {
		return err
	}
	to, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	amount, err := argAmount(c, s, 1)
	if err != nil {
		return err
	}
	if c.Bool(exactFlag.Name) {
		return s.led.TransferExact(from, to, amount)
	}
	return s.led.Transfer(from, to, amount)
}

func balance(c *cli.Context, s *session) error {
	if err := args(c, 1); err != nil {
		return err
	}
	account, err := argAccount(c, 0)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, formatAmount(s.led.BalanceOf(account), s.decimals()))
	return nil
}

func show(c *cli.Context, s *session) error {
	var (
		w     = c.App.Writer
		state = s.gov.Export()
		dec   = s.decimals()
	)
	fmt.Fprintf(w, "Governor:   %s\n", state.Self.Hex())
	fmt.Fprintf(w, "Owner:      %s\n", state.Owner.Hex())
	if s.gov.Initialized() {
		fmt.Fprintf(w, "Ledger:     %s\n", state.Ledger.Hex())
	} else {
		fmt.Fprintf(w, "Ledger:     not initialized\n")
	}
	fmt.Fprintf(w, "Duration:   %ds\n", state.ProposalDuration)
	for i, a := range state.Approvers {
		fmt.Fprintf(w, "Approver %d: %s\n", i, a.Hex())
	}
	for _, p := range state.Proposers {
		fmt.Fprintf(w, "Proposer:   %s\n", p.Hex())
	}

	for _, r := range state.Mints {
		printRecord(c, governance.KindMint, r.Proposer, r.CreatedAt, r.Confirmations, s.gov.IsMintApprovable(r.Proposer),
			fmt.Sprintf("to=%s amount=%s", r.Payload.To.Hex(), formatAmount(r.Payload.Amount, dec)))
	}
	for _, r := range state.Burns {
		printRecord(c, governance.KindBurn, r.Proposer, r.CreatedAt, r.Confirmations, s.gov.IsBurnApprovable(r.Proposer),
			fmt.Sprintf("amount=%s", formatAmount(r.Payload.Amount, dec)))
	}
	for _, r := range state.Seats {
		printRecord(c, governance.KindApprover, r.Proposer, r.CreatedAt, r.Confirmations, s.gov.IsApproverApprovable(r.Proposer),
			fmt.Sprintf("index=%d candidate=%s", r.Payload.Index, r.Payload.Candidate.Hex()))
	}
	for _, r := range state.FeeRatios {
		printRecord(c, governance.KindFeeRatio, r.Proposer, r.CreatedAt, r.Confirmations, s.gov.IsFeeRatioApprovable(r.Proposer),
			fmt.Sprintf("ratio=%s", formatRatio(r.Payload.Ratio)))
	}

	fees := s.led.Fees()
	fmt.Fprintf(w, "Token:      %s\n", s.led.Address().Hex())
	fmt.Fprintf(w, "  owner:    %s\n", s.led.Owner().Hex())
	fmt.Fprintf(w, "  admin:    %s\n", s.led.Admin().Hex())
	fmt.Fprintf(w, "  paused:   %t\n", s.led.Paused())
	fmt.Fprintf(w, "  supply:   %s\n", formatAmount(s.led.TotalSupply(), dec))
	fmt.Fprintf(w, "  fee:      %s to %s\n", formatRatio(fees.Ratio()), fees.Recipient().Hex())
	for _, a := range fees.Whitelist() {
		fmt.Fprintf(w, "  exempt:   %s\n", a.Hex())
	}
	return nil
}

func printRecord(c *cli.Context, kind governance.Kind, proposer common.Address, createdAt uint64, confirmations []common.Address, live bool, payload string) {
	status := "pending"
	if !live {
		status = "expired"
	}
	confirmed := make([]string, len(confirmations))
	for i, a := range confirmations {
		confirmed[i] = a.Hex()
	}
	fmt.Fprintf(c.App.Writer, "Proposal:   %s by %s %s created=%d %s confirmations=%d/%d [%s]\n",
		kind, proposer.Hex(), payload, createdAt, status, len(confirmations), governance.RosterSize, strings.Join(confirmed, ","))
}
