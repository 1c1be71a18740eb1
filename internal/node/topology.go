// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package node

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/retry"
	"ndnd.fuchsia.dev/ndn/internal/topology"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// Bounded retry budget for reconnecting to the safety node after the
// external neighbor disconnects (spec.md §4.3 recovery table). Grounded on
// tools/net/sshutil.ConnectDeprecated's retry.Retry/ConstantBackoff/
// WithMaxDuration usage (internal/retry's doc comment); a short budget
// keeps a transient dial failure from leaving the node stuck mid-recovery
// without retrying at all, while still converging quickly to the "clear
// external and remain joined as standalone" fallback spec.md §7 requires.
const (
	safetyRetryInterval = 100 * time.Millisecond
	safetyRetryBudget   = 500 * time.Millisecond
)

// Join performs the directory-mediated join (spec.md §4.3 "Directory-mediated
// join"): ask the directory for the current member list, pick one at
// random, and either pair up with it or become standalone if the network is
// empty.
func (n *Node) Join(ctx context.Context, netID string) error {
	if n.Joined {
		return fmt.Errorf("already joined to network %s", n.NetworkID)
	}
	if err := wire.ValidNetworkID(netID); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	addrs, err := n.Reg.Nodes(ctx, netID)
	if err != nil {
		return fmt.Errorf("join: %w", err)
	}

	var candidates []wire.Addr
	for _, a := range addrs {
		if a.IsZero() || a.Equal(n.SelfAddr) {
			continue
		}
		candidates = append(candidates, a)
	}

	if len(candidates) == 0 {
		if err := n.Reg.Register(ctx, netID, n.SelfAddr); err != nil {
			return fmt.Errorf("join: %w", err)
		}
		n.NetworkID = netID
		n.Joined = true
		n.External = nil
		n.Safety = nil
		logger.Infof(ctx, "node: joined network %s as standalone", netID)
		return nil
	}

	peer := candidates[rand.Intn(len(candidates))]
	if err := n.pairWithExternal(ctx, peer); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	if err := n.Reg.Register(ctx, netID, n.SelfAddr); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	n.NetworkID = netID
	n.Joined = true
	logger.Infof(ctx, "node: joined network %s via %s", netID, peer)
	return nil
}

// DirectJoin performs direct_join (spec.md §4.3 "Direct join"). An ip of
// 0.0.0.0 means "become standalone on the default network" with no
// directory round trip at all (spec.md §9 open question, resolved: never
// REG on this path, for either ip value, to keep the two direct_join forms
// consistent with each other).
func (n *Node) DirectJoin(ctx context.Context, ip string, port int) error {
	if n.Joined {
		return fmt.Errorf("already joined to network %s", n.NetworkID)
	}
	if ip == "0.0.0.0" {
		n.NetworkID = DefaultDirectJoinNetwork
		n.Joined = true
		n.External = nil
		n.Safety = nil
		logger.Infof(ctx, "node: direct_join standalone on default network %s", DefaultDirectJoinNetwork)
		return nil
	}

	peer, err := wire.ParseAddrInt(ip, port)
	if err != nil {
		return fmt.Errorf("direct_join: %w", err)
	}
	if err := n.pairWithExternal(ctx, peer); err != nil {
		return fmt.Errorf("direct_join: %w", err)
	}
	n.NetworkID = DefaultDirectJoinNetwork
	n.Joined = true
	logger.Infof(ctx, "node: direct_join paired with %s", peer)
	return nil
}

// pairWithExternal opens a stream to peer, installs it as the External
// neighbor, and announces ourselves (spec.md §4.3 step 5, common to both
// join paths).
func (n *Node) pairWithExternal(ctx context.Context, peer wire.Addr) error {
	conn, err := n.dial(peer)
	if err != nil {
		return fmt.Errorf("dial %s: %w", peer, err)
	}
	nb, err := n.Neighbors.Add(conn, peer, topology.External)
	if err != nil {
		conn.Close()
		return err
	}
	n.External = &nb.Addr
	if err := nb.Write(wire.FormatEntry(n.SelfAddr)); err != nil {
		return fmt.Errorf("write ENTRY to %s: %w", peer, err)
	}
	return nil
}

// HandleEntry processes an ENTRY message received on nb's stream (spec.md
// §4.3 "ENTRY reception").
func (n *Node) HandleEntry(ctx context.Context, nb *topology.Neighbor, addr wire.Addr) {
	nb.Addr = addr
	// A neighbor we ourselves dialed and marked External (pairWithExternal,
	// or the safety-node recovery paths) is confirmed, not demoted, by its
	// ENTRY reply. Only a fresh inbound accept (Unclassified) defaults to
	// Internal here.
	if nb.Role != topology.External {
		nb.Role = topology.Internal
	}

	firstPairing := n.External == nil
	if firstPairing {
		a := addr
		n.External = &a
		nb.Role = topology.External
		if err := nb.Write(wire.FormatEntry(n.SelfAddr)); err != nil {
			logger.Warningf(ctx, "node: write ENTRY reply to %s: %v", addr, err)
		}
	}

	var safetyAddr wire.Addr
	if firstPairing {
		safetyAddr = n.SelfAddr
	} else {
		safetyAddr = *n.External
	}
	if err := nb.Write(wire.FormatSafe(safetyAddr)); err != nil {
		logger.Warningf(ctx, "node: write SAFE to %s: %v", addr, err)
	}
}

// HandleSafe processes a SAFE message: overwrite local safety (spec.md §4.3
// "SAFE reception").
func (n *Node) HandleSafe(ctx context.Context, addr wire.Addr) {
	a := addr
	n.Safety = &a
	logger.Infof(ctx, "node: safety set to %s", addr)
}

// Leave tears down the network membership (spec.md §4.3 "Leave"). Objects
// and cache survive; only topology and membership state resets.
func (n *Node) Leave(ctx context.Context) error {
	if !n.Joined {
		return fmt.Errorf("not joined")
	}
	if err := n.Reg.Unregister(ctx, n.NetworkID, n.SelfAddr); err != nil {
		logger.Warningf(ctx, "node: UNREG failed during leave: %v", err)
	}
	for _, nb := range n.Neighbors.All() {
		nb.Conn.Close()
	}
	n.Neighbors.Clear()
	n.External = nil
	n.Safety = nil
	n.Joined = false
	n.NetworkID = ""
	logger.Infof(ctx, "node: left network")
	return nil
}

// HandleDisconnect processes the departure of neighbor d, detected by a
// read returning EOF or error (spec.md §4.3 "Neighbor disconnect"). It
// implements the safety-node recovery decision table.
func (n *Node) HandleDisconnect(ctx context.Context, d *topology.Neighbor) {
	wasExternal := n.External != nil && d.Addr.Equal(*n.External)
	n.Neighbors.Remove(d)
	d.Conn.Close()

	if !wasExternal {
		logger.Infof(ctx, "node: internal neighbor %s disconnected", d.Addr)
		return
	}

	logger.Warningf(ctx, "node: external neighbor %s disconnected, recovering", d.Addr)

	safetyIsUseless := n.Safety == nil || n.Safety.Equal(n.SelfAddr) || n.Safety.Equal(d.Addr)
	if !safetyIsUseless {
		safety := *n.Safety
		var conn net.Conn
		backoff := retry.WithMaxDuration(retry.NewConstantBackoff(safetyRetryInterval), safetyRetryBudget)
		dialErr := retry.Retry(ctx, backoff, func() error {
			c, err := n.dial(safety)
			if err != nil {
				return err
			}
			conn = c
			return nil
		}, func(err error, wait time.Duration) {
			logger.Warningf(ctx, "node: dial safety %s failed, retrying in %s: %v", safety, wait, err)
		})
		if dialErr != nil {
			logger.Errorf(ctx, "node: cannot reach safety %s: %v", safety, dialErr)
			n.External = nil
			n.Safety = nil
			return
		}
		nb, err := n.Neighbors.Add(conn, safety, topology.External)
		if err != nil {
			conn.Close()
			logger.Errorf(ctx, "node: cannot install safety %s: %v", safety, err)
			n.External = nil
			n.Safety = nil
			return
		}
		n.External = &nb.Addr
		if err := nb.Write(wire.FormatEntry(n.SelfAddr)); err != nil {
			logger.Warningf(ctx, "node: write ENTRY to recovered external %s: %v", safety, err)
		}
		n.propagateSafety(ctx)
		return
	}

	internals := n.Neighbors.Internals()
	if len(internals) == 0 {
		n.External = nil
		n.Safety = nil
		logger.Infof(ctx, "node: no internals left, reverting to standalone")
		return
	}

	c := internals[0]
	c.Role = topology.External
	addr := c.Addr
	n.External = &addr
	self := n.SelfAddr
	n.Safety = &self
	if err := c.Write(wire.FormatEntry(n.SelfAddr)); err != nil {
		logger.Warningf(ctx, "node: write ENTRY to new external %s: %v", addr, err)
	}
	n.propagateSafety(ctx)
}

// propagateSafety sends SAFE <our external> to every remaining internal
// neighbor (spec.md §4.3 "Safety propagation primitive").
func (n *Node) propagateSafety(ctx context.Context) {
	if n.External == nil {
		return
	}
	msg := wire.FormatSafe(*n.External)
	for _, nb := range n.Neighbors.Internals() {
		if err := nb.Write(msg); err != nil {
			logger.Warningf(ctx, "node: propagate SAFE to %s: %v", nb.Addr, err)
		}
	}
}
