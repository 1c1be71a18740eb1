// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package render formats a node's current state as plain, deterministic
// text for the "show topology", "show names", and "show interest table"
// commands (spec.md §6). Color and other terminal decoration are explicitly
// out of scope (spec.md §1 Non-goals: "ANSI-color terminal rendering");
// this package only guarantees stable, sorted, greppable output that the
// excluded color layer could wrap.
package render

import (
	"fmt"
	"sort"
	"strings"

	"ndnd.fuchsia.dev/ndn/internal/pit"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// neighborView is the minimal read-only projection render needs from a
// neighbor, so this package depends on no concrete topology/node types and
// stays free of import cycles with internal/node.
type neighborView struct {
	Addr        wire.Addr
	InterfaceID int
	Role        string
}

// NodeView is the minimal read-only projection of node.Node that render
// needs. internal/command builds one of these rather than render importing
// internal/node directly.
type NodeView struct {
	SelfAddr  wire.Addr
	Joined    bool
	NetworkID string
	External  *wire.Addr
	Safety    *wire.Addr
	Neighbors []neighborView
	Objects   []string
	Cache     []string
	Interests []InterestView
}

// InterestView is the minimal read-only projection of a pit.Entry.
type InterestView struct {
	Name  string
	Slots [wire.MaxIface]pit.SlotState
}

// AddNeighbor appends a neighborView to view.Neighbors; exported as a
// function (not a struct literal) so callers outside this package never
// need to know the private type's shape.
func AddNeighbor(view *NodeView, addr wire.Addr, interfaceID int, role string) {
	view.Neighbors = append(view.Neighbors, neighborView{Addr: addr, InterfaceID: interfaceID, Role: role})
}

// Topology renders the node's self address, membership, external/safety
// endpoints, and neighbor table.
func Topology(v NodeView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "self: %s\n", v.SelfAddr)
	if v.Joined {
		fmt.Fprintf(&b, "joined: network %s\n", v.NetworkID)
	} else {
		b.WriteString("joined: no\n")
	}
	if v.External != nil {
		fmt.Fprintf(&b, "external: %s\n", *v.External)
	} else {
		b.WriteString("external: none\n")
	}
	if v.Safety != nil {
		fmt.Fprintf(&b, "safety: %s\n", *v.Safety)
	} else {
		b.WriteString("safety: none\n")
	}
	neighbors := append([]neighborView(nil), v.Neighbors...)
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].InterfaceID < neighbors[j].InterfaceID })
	fmt.Fprintf(&b, "neighbors: %d\n", len(neighbors))
	for _, n := range neighbors {
		fmt.Fprintf(&b, "  [%d] %s %s\n", n.InterfaceID, n.Addr, n.Role)
	}
	return b.String()
}

// Names renders the local object set, sorted, and the cache, in the order
// given (oldest-first for store.Cache.Names).
func Names(v NodeView) string {
	var b strings.Builder
	objects := append([]string(nil), v.Objects...)
	sort.Strings(objects)
	b.WriteString("objects:\n")
	for _, o := range objects {
		fmt.Fprintf(&b, "  %s\n", o)
	}
	b.WriteString("cache:\n")
	for _, c := range v.Cache {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	return b.String()
}

// InterestTable renders the PIT, one line per name, sorted, with the
// non-Unset slots listed as interface=state pairs.
func InterestTable(v NodeView) string {
	entries := append([]InterestView(nil), v.Interests...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s:", e.Name)
		for slot, state := range e.Slots {
			if state == pit.Unset {
				continue
			}
			fmt.Fprintf(&b, " %d=%s", slot, slotName(state))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func slotName(s pit.SlotState) string {
	switch s {
	case pit.Response:
		return "response"
	case pit.Waiting:
		return "waiting"
	case pit.Closed:
		return "closed"
	default:
		return "unset"
	}
}
