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

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gofrs/flock"
	"github.com/mccoysc/stablegov/governance"
	"github.com/mccoysc/stablegov/ledger"
)

var (
	// Storage keys
	versionKey     = []byte("stablegov-version")
	governorKey    = []byte("gov-state")
	ledgerStateKey = []byte("ledger-state")
)

var (
	ErrNotFound          = errors.New("no snapshot stored")
	ErrDatadirUsed       = errors.New("data directory is locked by another process")
	ErrUnsupportedSchema = errors.New("unsupported snapshot schema version")
)

// Store persists governor and ledger snapshots in a key-value database.
type Store struct {
	db   ethdb.KeyValueStore
	lock *flock.Flock // nil for stores not backed by a data directory
	log  log.Logger
}

// New wraps an existing database.
func New(db ethdb.KeyValueStore) *Store {
	return &Store{db: db, log: log.New("module", "storage")}
}

// Open locks the data directory and opens its LevelDB database. The lock is
// held until Close, so concurrent invocations against one directory apply
// their calls one after another.
func Open(ctx context.Context, config *StorageConfig) (*Store, error) {
	if err := os.MkdirAll(config.DataPath, 0700); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(config.DataPath, "LOCK"))

	lockCtx, cancel := context.WithTimeout(ctx, config.LockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if !locked {
		return nil, ErrDatadirUsed
	}

	db, err := leveldb.New(filepath.Join(config.DataPath, "state"), config.Cache, config.Handles, "stablegov/db/", false)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	s := New(db)
	s.lock = lock
	s.log.Debug("Opened snapshot store", "path", config.DataPath)
	return s, nil
}

// Close closes the database and releases the data directory lock.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.lock != nil {
		if uerr := s.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// Save writes both snapshots in a single batch.
func (s *Store) Save(gov *governance.State, led *ledger.State) error {
	govData, err := rlp.EncodeToBytes(gov)
	if err != nil {
		return fmt.Errorf("encode governor state: %w", err)
	}
	ledData, err := rlp.EncodeToBytes(led)
	if err != nil {
		return fmt.Errorf("encode ledger state: %w", err)
	}
	batch := s.db.NewBatch()
	if err := batch.Put(versionKey, []byte{byte(SchemaV1)}); err != nil {
		return err
	}
	if err := batch.Put(governorKey, govData); err != nil {
		return err
	}
	if err := batch.Put(ledgerStateKey, ledData); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.log.Debug("Saved snapshot", "governor", len(govData), "ledger", len(ledData))
	return nil
}

// Load reads both snapshots. It returns ErrNotFound on an empty store.
func (s *Store) Load() (*governance.State, *ledger.State, error) {
	has, err := s.db.Has(versionKey)
	if err != nil {
		return nil, nil, err
	}
	if !has {
		return nil, nil, ErrNotFound
	}
	version, err := s.db.Get(versionKey)
	if err != nil {
		return nil, nil, err
	}
	if len(version) != 1 || SchemaVersion(version[0]) != SchemaV1 {
		return nil, nil, fmt.Errorf("%w: %x", ErrUnsupportedSchema, version)
	}

	govData, err := s.db.Get(governorKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read governor state: %w", err)
	}
	ledData, err := s.db.Get(ledgerStateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read ledger state: %w", err)
	}
	var (
		gov governance.State
		led ledger.State
	)
	if err := rlp.DecodeBytes(govData, &gov); err != nil {
		return nil, nil, fmt.Errorf("decode governor state: %w", err)
	}
	if err := rlp.DecodeBytes(ledData, &led); err != nil {
		return nil, nil, fmt.Errorf("decode ledger state: %w", err)
	}
	return &gov, &led, nil
}

// SaveLive snapshots a running governor and its ledger.
func (s *Store) SaveLive(gov *governance.Governor, led *ledger.Ledger) error {
	return s.Save(gov.Export(), led.Export())
}

// LoadLive rebuilds the governor and its ledger from the stored snapshots.
func (s *Store) LoadLive() (*governance.Governor, *ledger.Ledger, error) {
	govState, ledState, err := s.Load()
	if err != nil {
		return nil, nil, err
	}
	led, err := ledger.FromState(ledState)
	if err != nil {
		return nil, nil, fmt.Errorf("restore ledger: %w", err)
	}
	// An uninitialized governor holds no ledger reference.
	var bound governance.Ledger
	if govState.Ledger != (common.Address{}) {
		bound = led
	}
	gov, err := governance.FromState(govState, bound)
	if err != nil {
		return nil, nil, fmt.Errorf("restore governor: %w", err)
	}
	return gov, led, nil
}
