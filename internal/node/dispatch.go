// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package node

import (
	"context"
	"fmt"
	"net"

	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/topology"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// AcceptInbound registers a freshly accepted stream as an Unclassified
// neighbor (spec.md §3 Neighbor.role "initial state for inbound accepts
// before ENTRY"). The placeholder address is the ephemeral source address
// of the accepted socket; it is overwritten with the peer's advertised
// listening endpoint once its ENTRY message arrives (spec.md §4.3 step 1).
func (n *Node) AcceptInbound(conn net.Conn) (*topology.Neighbor, error) {
	placeholder := wire.Addr{}
	if tcp, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		placeholder = wire.Addr{IP: tcp.IP.To4(), Port: tcp.Port}
	}
	nb, err := n.Neighbors.Add(conn, placeholder, topology.Unclassified)
	if err != nil {
		return nil, fmt.Errorf("accept inbound: %w", err)
	}
	return nb, nil
}

// HandleLine parses one newline-stripped stream message received from nb
// and routes it to the matching handler (spec.md §4.4's wire type table
// dispatching into §4.3/§4.5's per-type handlers). Unknown or malformed
// lines are logged and ignored, never treated as fatal (spec.md §4.4
// "Unknown types are logged and ignored").
func (n *Node) HandleLine(ctx context.Context, nb *topology.Neighbor, line string) {
	msg, err := wire.ParseStreamLine(line)
	if err != nil {
		logger.Warningf(ctx, "node: %s: ignoring malformed line %q: %v", nb.Addr, line, err)
		return
	}
	switch msg.Type {
	case wire.TypeEntry:
		n.HandleEntry(ctx, nb, msg.Addr)
	case wire.TypeSafe:
		n.HandleSafe(ctx, msg.Addr)
	case wire.TypeInterest:
		if nb.InterfaceID > 0 {
			n.HandleInterest(ctx, nb, msg.Name)
		}
	case wire.TypeObject:
		if nb.InterfaceID > 0 {
			n.HandleObject(ctx, nb, msg.Name)
		}
	case wire.TypeNoObject:
		if nb.InterfaceID > 0 {
			n.HandleNoObject(ctx, nb, msg.Name)
		}
	}
}
