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

// stablegov operates a governed-supply token: every command locks the data
// directory, loads the snapshot, applies one call and saves the result.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mccoysc/stablegov/internal/config"
	"github.com/mccoysc/stablegov/internal/logutil"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "TOML or YAML configuration file",
		EnvVars: []string{"STABLEGOV_CONFIG"},
	}
	datadirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the snapshot database",
	}
	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Account the call is made as",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Also write logs to this file, rotated by size",
	}

	rejectFlag = &cli.BoolFlag{
		Name:  "reject",
		Usage: "Vote against the proposal, which deletes it",
	}
	disableFlag = &cli.BoolFlag{
		Name:  "disable",
		Usage: "Revoke instead of grant",
	}
	exactFlag = &cli.BoolFlag{
		Name:  "exact",
		Usage: "Treat the amount as what the recipient receives after fees",
	}
)

const (
	configKey = "config"
	closerKey = "log-closer"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "stablegov",
		Usage: "multi-approver governance for a governed-supply token",
		Flags: []cli.Flag{
			configFlag,
			datadirFlag,
			fromFlag,
			verbosityFlag,
			logFileFlag,
		},
		Before:   setup,
		After:    teardown,
		Commands: commands(),
	}
}

// setup loads the configuration, applies flag overrides and installs the
// logger.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return err
	}
	if c.IsSet(datadirFlag.Name) {
		cfg.DataDir = c.String(datadirFlag.Name)
	}
	if c.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = c.Int(verbosityFlag.Name)
	}
	if c.IsSet(logFileFlag.Name) {
		cfg.Log.File = c.String(logFileFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	closer := logutil.Setup(logutil.Options{
		Verbosity:  cfg.Log.Verbosity,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]interface{})
	}
	c.App.Metadata[configKey] = cfg
	c.App.Metadata[closerKey] = closer
	return nil
}

func teardown(c *cli.Context) error {
	if closer, ok := c.App.Metadata[closerKey].(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
