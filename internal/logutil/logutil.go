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

// Package logutil installs the process-wide logger.
package logutil

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects log verbosity and output.
type Options struct {
	Verbosity  int    // 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace
	File       string // optional rotating log file
	MaxSizeMB  int
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the root logger. Output goes to stderr, coloured when it is
// a terminal, and is copied to File when one is set. The returned closer
// flushes and closes the log file.
func Setup(opts Options) io.Closer {
	var (
		output   io.Writer = os.Stderr
		closer   io.Closer = nopCloser{}
		useColor           = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	)
	if useColor {
		output = colorable.NewColorableStderr()
	}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		// Escape codes would end up in the file.
		output = io.MultiWriter(os.Stderr, rotating)
		useColor = false
		closer = rotating
	}
	handler := log.NewTerminalHandlerWithLevel(output, log.FromLegacyLevel(opts.Verbosity), useColor)
	log.SetDefault(log.NewLogger(handler))
	return closer
}
