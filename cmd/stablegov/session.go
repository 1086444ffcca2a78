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
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mccoysc/stablegov/governance"
	"github.com/mccoysc/stablegov/internal/config"
	"github.com/mccoysc/stablegov/ledger"
	"github.com/mccoysc/stablegov/storage"
	"github.com/urfave/cli/v2"
)

// session is one command's view of the persisted governor and ledger. It
// holds the data directory lock until closed.
type session struct {
	cfg   *config.Config
	acc   *config.Accounts
	store *storage.Store
	gov   *governance.Governor
	led   *ledger.Ledger
	fresh bool // no snapshot existed

	govEvents chan governance.Event
	ledEvents chan ledger.Event
	subs      []event.Subscription
}

func openSession(c *cli.Context) (*session, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	acc, err := cfg.Accounts()
	if err != nil {
		return nil, err
	}
	scfg := storage.DefaultStorageConfig()
	scfg.DataPath = cfg.DataDir

	store, err := storage.Open(c.Context, scfg)
	if err != nil {
		return nil, err
	}
	gov, led, err := store.LoadLive()
	fresh := errors.Is(err, storage.ErrNotFound)
	switch {
	case fresh:
		log.Info("Creating new deployment", "governor", acc.Governor, "token", acc.Token)
		led = ledger.New(acc.Token, acc.Issuer)
		gov = governance.New(cfg.GovernanceConfig(), acc.Governor, acc.Owner)
	case err != nil:
		store.Close()
		return nil, err
	case gov.Self() != acc.Governor || led.Address() != acc.Token:
		store.Close()
		return nil, fmt.Errorf("data directory %s holds governor %s and token %s, configuration names %s and %s",
			cfg.DataDir, gov.Self().Hex(), led.Address().Hex(), acc.Governor.Hex(), acc.Token.Hex())
	}
	s := &session{
		cfg:       cfg,
		acc:       acc,
		store:     store,
		gov:       gov,
		led:       led,
		fresh:     fresh,
		govEvents: make(chan governance.Event, 64),
		ledEvents: make(chan ledger.Event, 64),
	}
	s.subs = append(s.subs, gov.SubscribeEvents(s.govEvents), led.SubscribeEvents(s.ledEvents))
	return s, nil
}

// commit logs the events of the applied call and saves the snapshot.
func (s *session) commit() error {
	for drained := false; !drained; {
		select {
		case ev := <-s.govEvents:
			log.Info("Governance event", "event", ev.Name(), "data", fmt.Sprintf("%+v", ev))
		case ev := <-s.ledEvents:
			log.Debug("Ledger event", "data", fmt.Sprintf("%T%+v", ev, ev))
		default:
			drained = true
		}
	}
	return s.store.SaveLive(s.gov, s.led)
}

func (s *session) close() error {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	return s.store.Close()
}

func (s *session) decimals() int32 { return s.cfg.Decimals }

// mutate runs fn as the --from account and saves the result if it succeeds.
func mutate(fn func(c *cli.Context, s *session, from common.Address) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		from, err := fromAccount(c)
		if err != nil {
			return err
		}
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.close()

		if err := fn(c, s, from); err != nil {
			return err
		}
		return s.commit()
	}
}

// inspect runs a read-only fn.
func inspect(fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(c, s)
	}
}

func fromAccount(c *cli.Context) (common.Address, error) {
	if !c.IsSet(fromFlag.Name) {
		return common.Address{}, errors.New("missing --from account")
	}
	return parseAccount("--from", c.String(fromFlag.Name))
}

func parseAccount(name, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: invalid account %q", name, value)
	}
	return common.HexToAddress(value), nil
}

// args checks the positional argument count of a command.
func args(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%s: expected %d arguments, got %d (usage: %s)", c.Command.Name, n, c.NArg(), c.Command.ArgsUsage)
	}
	return nil
}

func argAccount(c *cli.Context, i int) (common.Address, error) {
	return parseAccount(fmt.Sprintf("argument %d", i+1), c.Args().Get(i))
}

func argUint(c *cli.Context, i int) (uint64, error) {
	v, err := strconv.ParseUint(c.Args().Get(i), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("argument %d: %w", i+1, err)
	}
	return v, nil
}

func argAmount(c *cli.Context, s *session, i int) (*big.Int, error) {
	return parseAmount(c.Args().Get(i), s.decimals())
}

func argAccounts(c *cli.Context) ([]common.Address, error) {
	out := make([]common.Address, 0, c.NArg())
	for i := 0; i < c.NArg(); i++ {
		a, err := argAccount(c, i)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
