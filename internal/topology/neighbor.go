// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package topology holds the neighbor table: the live set of TCP
// connections to other nodes, their advertised addresses, and their role in
// the tree (spec.md §3, §4.3).
package topology

import (
	"net"

	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// Role classifies a neighbor relative to this node's position in the tree.
type Role int

const (
	// Unclassified is the initial state for an inbound accept before an
	// ENTRY message is received on it.
	Unclassified Role = iota
	External
	Internal
)

func (r Role) String() string {
	switch r {
	case External:
		return "external"
	case Internal:
		return "internal"
	default:
		return "unclassified"
	}
}

// Neighbor is one live connection to another node.
type Neighbor struct {
	Addr        wire.Addr
	Conn        net.Conn
	InterfaceID int
	Role        Role
	RxBuf       wire.RxBuffer
}

// Write sends line (expected to already be newline-terminated) to the
// neighbor. Write errors on a peer that has already closed must not
// terminate the process (spec.md §4.1) — callers are expected to treat a
// non-nil error as "this neighbor is going away" and let disconnect
// handling clean it up, not to panic or exit.
func (n *Neighbor) Write(line string) error {
	_, err := n.Conn.Write([]byte(line))
	return err
}
