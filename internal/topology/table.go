// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package topology

import (
	"fmt"
	"net"

	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// Table is the ordered neighbor collection (spec.md §3). interface_id is
// assigned as max(existing)+1 on insertion and is never reused while any
// neighbor holds it (spec.md invariant 1).
type Table struct {
	neighbors []*Neighbor
}

// NewTable returns an empty neighbor table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a new neighbor for conn, initially known only by addr (which
// may be a placeholder ephemeral address for an inbound accept, overwritten
// later on ENTRY) and role. It fails if the table is already at capacity
// (spec.md invariant 1: |neighbors| <= MAX_IFACE-1).
func (t *Table) Add(conn net.Conn, addr wire.Addr, role Role) (*Neighbor, error) {
	if len(t.neighbors) >= wire.MaxIface-1 {
		return nil, fmt.Errorf("neighbor table full (%d/%d)", len(t.neighbors), wire.MaxIface-1)
	}
	id := 0
	for _, n := range t.neighbors {
		if n.InterfaceID > id {
			id = n.InterfaceID
		}
	}
	id++
	n := &Neighbor{Addr: addr, Conn: conn, InterfaceID: id, Role: role}
	t.neighbors = append(t.neighbors, n)
	return n, nil
}

// Remove removes n from the table. It is a no-op if n is not present.
func (t *Table) Remove(n *Neighbor) {
	for i, c := range t.neighbors {
		if c == n {
			t.neighbors = append(t.neighbors[:i], t.neighbors[i+1:]...)
			return
		}
	}
}

// ByInterfaceID returns the neighbor with the given interface id, if live.
func (t *Table) ByInterfaceID(id int) (*Neighbor, bool) {
	for _, n := range t.neighbors {
		if n.InterfaceID == id {
			return n, true
		}
	}
	return nil, false
}

// ByAddr returns the neighbor whose advertised address equals addr, if any.
func (t *Table) ByAddr(addr wire.Addr) (*Neighbor, bool) {
	for _, n := range t.neighbors {
		if n.Addr.Equal(addr) {
			return n, true
		}
	}
	return nil, false
}

// ByConn returns the neighbor owning conn, if any. Used by the event loop
// to map a readable socket back to its Neighbor record.
func (t *Table) ByConn(conn net.Conn) (*Neighbor, bool) {
	for _, n := range t.neighbors {
		if n.Conn == conn {
			return n, true
		}
	}
	return nil, false
}

// External returns the current external neighbor, if any. spec.md invariant
// 5: at most one External neighbor exists at a time.
func (t *Table) External() (*Neighbor, bool) {
	for _, n := range t.neighbors {
		if n.Role == External {
			return n, true
		}
	}
	return nil, false
}

// Internals returns every Internal neighbor, in table order.
func (t *Table) Internals() []*Neighbor {
	var out []*Neighbor
	for _, n := range t.neighbors {
		if n.Role == Internal {
			out = append(out, n)
		}
	}
	return out
}

// All returns every live neighbor, in table order.
func (t *Table) All() []*Neighbor {
	out := make([]*Neighbor, len(t.neighbors))
	copy(out, t.neighbors)
	return out
}

// Len reports the number of live neighbors.
func (t *Table) Len() int { return len(t.neighbors) }

// Clear removes every neighbor without closing their connections; callers
// (topology.Leave) are responsible for closing sockets first.
func (t *Table) Clear() {
	t.neighbors = nil
}
