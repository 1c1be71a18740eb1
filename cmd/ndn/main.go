// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command ndn runs one node of the tree-topology named-data network
// described in spec.md: it is simultaneously a client, a server, and a
// router for named objects. See usage below for its positional argument
// layout (spec.md §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"

	"ndnd.fuchsia.dev/ndn/internal/command"
	"ndnd.fuchsia.dev/ndn/internal/config"
	"ndnd.fuchsia.dev/ndn/internal/eventloop"
	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/node"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// Compile-time defaults used when neither -config nor the optional
// positional directory arguments are given (spec.md §6: "Missing directory
// defaults are compile-time constants").
const (
	defaultDirectoryIP   = "127.0.0.1"
	defaultDirectoryPort = 9090
)

var (
	configPath = flag.String("config", "", "optional path to a YAML startup config file (internal/config)")
	verbose    = flag.Bool("v", false, "enable debug-level logging")
)

const usage = `usage: ndn [-config path] [-v] <cache_size> <self_ip> <self_tcp> [<directory_ip> <directory_udp>]

Runs one node of the tree-topology named-data network. <cache_size> bounds
the FIFO object cache; <self_ip>/<self_tcp> is this node's own listening
endpoint; the optional trailing pair overrides the compiled-in registration
directory address. Positional arguments always take precedence over
-config and its compiled-in defaults.

Once running, type "h" or "help" at the prompt for the interactive command
set (join, create, retrieve, show topology, ...).
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	selfAddr, dirAddr, cacheSize, err := resolveArgs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ndn: %v\n\n", err)
		flag.Usage()
		os.Exit(1)
	}

	level := logger.Info
	if *verbose {
		level = logger.Debug
	}
	log := logger.NewLogger(level)
	ctx := logger.WithLogger(context.Background(), log)

	ln, err := net.Listen("tcp4", fmt.Sprintf("%s:%d", selfAddr.IP, selfAddr.Port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ndn: listen on %s: %v\n", selfAddr, err)
		os.Exit(1)
	}

	n := node.New(selfAddr, cacheSize, dirAddr, log)
	loop := eventloop.New(n, ln, os.Stdin, os.Stdout)

	ctx = command.CancelOnSignals(ctx, os.Interrupt)
	loop.Run(ctx)
}

// resolveArgs merges the optional -config file with the required and
// optional positional arguments (spec.md §6's CLI surface), positional
// arguments winning over the file, and the file winning over the
// compile-time directory default.
func resolveArgs(args []string) (self, directory wire.Addr, cacheSize int, err error) {
	var fileCfg config.Config
	if *configPath != "" {
		fileCfg, err = config.Load(*configPath)
		if err != nil {
			return wire.Addr{}, wire.Addr{}, 0, err
		}
	}

	if len(args) != 3 && len(args) != 5 {
		return wire.Addr{}, wire.Addr{}, 0, fmt.Errorf("expected 3 or 5 positional arguments, got %d", len(args))
	}

	var cliCfg config.Config
	if _, err := fmt.Sscanf(args[0], "%d", &cliCfg.CacheSize); err != nil {
		return wire.Addr{}, wire.Addr{}, 0, fmt.Errorf("invalid cache_size %q", args[0])
	}
	cliCfg.SelfIP = args[1]
	if _, err := fmt.Sscanf(args[2], "%d", &cliCfg.SelfPort); err != nil {
		return wire.Addr{}, wire.Addr{}, 0, fmt.Errorf("invalid self_tcp %q", args[2])
	}
	if len(args) == 5 {
		cliCfg.DirectoryIP = args[3]
		if _, err := fmt.Sscanf(args[4], "%d", &cliCfg.DirectoryPort); err != nil {
			return wire.Addr{}, wire.Addr{}, 0, fmt.Errorf("invalid directory_udp %q", args[4])
		}
	}

	merged := config.Config{
		DirectoryIP:   defaultDirectoryIP,
		DirectoryPort: defaultDirectoryPort,
	}.Merge(fileCfg).Merge(cliCfg)

	if merged.CacheSize <= 0 {
		merged.CacheSize = wire.MaxCacheDefault
	}

	self, err = wire.ParseAddrInt(merged.SelfIP, merged.SelfPort)
	if err != nil {
		return wire.Addr{}, wire.Addr{}, 0, fmt.Errorf("self address: %w", err)
	}
	directory, err = wire.ParseAddrInt(merged.DirectoryIP, merged.DirectoryPort)
	if err != nil {
		return wire.Addr{}, wire.Addr{}, 0, fmt.Errorf("directory address: %w", err)
	}
	return self, directory, merged.CacheSize, nil
}
