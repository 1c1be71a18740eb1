// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package node owns the single process-wide node state (spec.md §3) and the
// handlers that mutate it: topology maintenance (node/topology.go) and
// interest/response forwarding (node/forwarder.go). Every exported method
// here is meant to be called from a single-threaded dispatch loop
// (internal/eventloop) so none of them take locks; see spec.md §5.
package node

import (
	"fmt"
	"net"

	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/pit"
	"ndnd.fuchsia.dev/ndn/internal/registration"
	"ndnd.fuchsia.dev/ndn/internal/store"
	"ndnd.fuchsia.dev/ndn/internal/topology"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// DefaultDirectJoinNetwork is the network id direct_join assigns when no
// directory service is consulted (spec.md §4.3, §9: "the source assigns a
// fixed default network id (076) to direct_join").
const DefaultDirectJoinNetwork = "076"

// dialFunc opens an outbound stream to addr. Kept as a field so the dialer
// can be replaced, mirroring devFinderCmd's injected finder functions
// (tools/net/dev_finder/cmd/common.go); the package's tests use the real
// dialer against loopback listeners.
type dialFunc func(addr wire.Addr) (net.Conn, error)

// Node is the single process-wide aggregate described in spec.md §3. All
// mutation happens through its methods, called one at a time by the event
// loop; there is no internal locking.
type Node struct {
	SelfAddr      wire.Addr
	CacheCapacity int
	DirectoryAddr wire.Addr

	NetworkID string
	Joined    bool
	External  *wire.Addr
	Safety    *wire.Addr

	Neighbors *topology.Table
	Objects   *store.ObjectSet
	Cache     *store.Cache
	PIT       *pit.Table
	Reg       *registration.Client

	Log *logger.Logger

	dial dialFunc
}

// New constructs a standalone, unjoined Node ready to accept commands.
func New(selfAddr wire.Addr, cacheCapacity int, directoryAddr wire.Addr, log *logger.Logger) *Node {
	if log == nil {
		log = logger.NewLogger(logger.Info)
	}
	return &Node{
		SelfAddr:      selfAddr,
		CacheCapacity: cacheCapacity,
		DirectoryAddr: directoryAddr,
		Neighbors:     topology.NewTable(),
		Objects:       store.NewObjectSet(),
		Cache:         store.NewCache(cacheCapacity),
		PIT:           pit.NewTable(),
		Reg:           registration.NewClient(directoryAddr),
		Log:           log,
		dial:          dialTCP,
	}
}

func dialTCP(addr wire.Addr) (net.Conn, error) {
	return net.Dial("tcp4", fmt.Sprintf("%s:%d", addr.IP, addr.Port))
}

// hasObject reports whether name is available locally without any network
// round trip (spec.md §4.5 step 1: "name ∈ objects ∪ cache").
func (n *Node) hasObject(name string) bool {
	return n.Objects.Has(name) || n.Cache.Has(name)
}
