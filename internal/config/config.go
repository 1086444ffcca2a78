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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mccoysc/stablegov/genesis"
	"github.com/mccoysc/stablegov/governance"
	"gopkg.in/yaml.v3"
)

// Config is the operator configuration of a deployment. Sources are layered
// with increasing priority: defaults, config file, environment.
type Config struct {
	DataDir          string    `toml:"datadir" yaml:"datadir"`
	Deployer         string    `toml:"deployer" yaml:"deployer"`                   // derives unset governor, token, owner and issuer
	Governor         string    `toml:"governor" yaml:"governor"`                   // governor account
	Owner            string    `toml:"owner" yaml:"owner"`                         // governor owner
	Token            string    `toml:"token" yaml:"token"`                         // ledger account
	Issuer           string    `toml:"issuer" yaml:"issuer"`                       // initial ledger owner
	Approvers        []string  `toml:"approvers" yaml:"approvers"`                 // initial roster
	Proposers        []string  `toml:"proposers" yaml:"proposers"`                 // granted by bootstrap
	ProposalDuration uint64    `toml:"proposal_duration" yaml:"proposal_duration"` // 提案有效期（秒）
	Decimals         int32     `toml:"decimals" yaml:"decimals"`                   // 代币精度，仅用于显示
	Log              LogConfig `toml:"log" yaml:"log"`
}

// LogConfig configures log output.
type LogConfig struct {
	File       string `toml:"file" yaml:"file"`
	Verbosity  int    `toml:"verbosity" yaml:"verbosity"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
}

// Accounts are the validated account identifiers of a Config.
type Accounts struct {
	Governor  common.Address
	Owner     common.Address
	Token     common.Address
	Issuer    common.Address
	Approvers [governance.RosterSize]common.Address
	Proposers []common.Address
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		DataDir:          "stablegov-data",
		ProposalDuration: governance.DefaultConfig().ProposalDuration,
		Decimals:         6,
		Log: LogConfig{
			Verbosity:  3, // info
			MaxSizeMB:  100,
			MaxBackups: 10,
		},
	}
}

// Load reads the config file at path, if any, over the defaults and then
// applies STABLEGOV_* environment overrides. The file format follows the
// extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.DecodeFile(path, c)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%s: unknown field %q", path, undecoded[0].String())
		}
		return nil
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
}

// applyEnv overrides fields from the environment.
func (c *Config) applyEnv() error {
	c.DataDir = getEnvOrDefault("STABLEGOV_DATADIR", c.DataDir)
	c.Deployer = getEnvOrDefault("STABLEGOV_DEPLOYER", c.Deployer)
	c.Governor = getEnvOrDefault("STABLEGOV_GOVERNOR", c.Governor)
	c.Owner = getEnvOrDefault("STABLEGOV_OWNER", c.Owner)
	c.Token = getEnvOrDefault("STABLEGOV_TOKEN", c.Token)
	c.Issuer = getEnvOrDefault("STABLEGOV_ISSUER", c.Issuer)
	c.Log.File = getEnvOrDefault("STABLEGOV_LOG_FILE", c.Log.File)

	if v := os.Getenv("STABLEGOV_APPROVERS"); v != "" {
		c.Approvers = strings.Split(v, ",")
		for i := range c.Approvers {
			c.Approvers[i] = strings.TrimSpace(c.Approvers[i])
		}
	}
	if v := os.Getenv("STABLEGOV_PROPOSAL_DURATION"); v != "" {
		d, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("STABLEGOV_PROPOSAL_DURATION: %w", err)
		}
		c.ProposalDuration = d
	}
	if v := os.Getenv("STABLEGOV_DECIMALS"); v != "" {
		d, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("STABLEGOV_DECIMALS: %w", err)
		}
		c.Decimals = int32(d)
	}
	return nil
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	_, err := c.Accounts()
	if err != nil {
		return err
	}
	if c.ProposalDuration == 0 {
		return fmt.Errorf("proposal_duration: %w", governance.ErrInvalidDuration)
	}
	if c.Decimals < 0 || c.Decimals > 36 {
		return fmt.Errorf("decimals %d out of range [0, 36]", c.Decimals)
	}
	if c.DataDir == "" {
		return fmt.Errorf("datadir is empty")
	}
	return nil
}

// Accounts parses and checks every account of the configuration.
func (c *Config) Accounts() (*Accounts, error) {
	var (
		acc Accounts
		err error
	)
	governor, owner, token, issuer := c.Governor, c.Owner, c.Token, c.Issuer
	if c.Deployer != "" {
		deployer, err := parseAddress("deployer", c.Deployer)
		if err != nil {
			return nil, err
		}
		if governor == "" {
			governor = genesis.PredictGovernorAddress(deployer).Hex()
		}
		if token == "" {
			token = genesis.PredictTokenAddress(deployer).Hex()
		}
		if owner == "" {
			owner = deployer.Hex()
		}
		if issuer == "" {
			issuer = deployer.Hex()
		}
	}
	fields := []struct {
		name  string
		value string
		out   *common.Address
	}{
		{"governor", governor, &acc.Governor},
		{"owner", owner, &acc.Owner},
		{"token", token, &acc.Token},
		{"issuer", issuer, &acc.Issuer},
	}
	for _, f := range fields {
		if *f.out, err = parseAddress(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if len(c.Approvers) != governance.RosterSize {
		return nil, fmt.Errorf("approvers: expected %d accounts, got %d", governance.RosterSize, len(c.Approvers))
	}
	for i, s := range c.Approvers {
		if acc.Approvers[i], err = parseAddress(fmt.Sprintf("approvers[%d]", i), s); err != nil {
			return nil, err
		}
		for _, prev := range acc.Approvers[:i] {
			if prev == acc.Approvers[i] {
				return nil, fmt.Errorf("approvers[%d]: %w", i, governance.ErrDuplicateApprover)
			}
		}
	}
	for i, s := range c.Proposers {
		p, err := parseAddress(fmt.Sprintf("proposers[%d]", i), s)
		if err != nil {
			return nil, err
		}
		acc.Proposers = append(acc.Proposers, p)
	}
	if acc.Governor == acc.Token {
		return nil, fmt.Errorf("governor and token must be distinct accounts")
	}
	return &acc, nil
}

// Deployment returns the bootstrap description of the configured accounts.
func (c *Config) Deployment() (*genesis.Deployment, error) {
	acc, err := c.Accounts()
	if err != nil {
		return nil, err
	}
	return &genesis.Deployment{
		Token:      acc.Token,
		Governor:   acc.Governor,
		Issuer:     acc.Issuer,
		Owner:      acc.Owner,
		Approvers:  acc.Approvers,
		Proposers:  acc.Proposers,
		Governance: c.GovernanceConfig(),
	}, nil
}

// GovernanceConfig returns the governor parameters.
func (c *Config) GovernanceConfig() *governance.Config {
	return &governance.Config{ProposalDuration: c.ProposalDuration}
}

func parseAddress(name, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", name, value)
	}
	addr := common.HexToAddress(value)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%s: %w", name, governance.ErrZeroAddress)
	}
	return addr, nil
}
