// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package node

import (
	"context"
	"fmt"
	"time"

	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/pit"
	"ndnd.fuchsia.dev/ndn/internal/topology"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// Retrieve services a local retrieve command (spec.md §4.5 "Local retrieve
// request"). A nil error means the name was already available locally or
// the INTEREST was sent to at least one neighbor; in the latter case the
// eventual outcome is not reported by this call — callers needing it should
// use RetrieveAsync.
func (n *Node) Retrieve(ctx context.Context, name string) error {
	if n.hasObject(name) {
		return nil
	}
	if !n.Joined {
		return fmt.Errorf("retrieve %s: not joined", name)
	}
	neighbors := n.Neighbors.All()
	if len(neighbors) == 0 {
		return fmt.Errorf("retrieve %s: no neighbors", name)
	}

	e := n.PIT.GetOrCreate(name, now())
	e.Slots[wire.LocalSlot] = pit.Response

	sent := 0
	msg := wire.FormatInterest(name)
	for _, nb := range neighbors {
		if nb.InterfaceID <= 0 {
			continue
		}
		if err := nb.Write(msg); err != nil {
			logger.Warningf(ctx, "node: write INTEREST %s to %s: %v", name, nb.Addr, err)
			continue
		}
		e.Slots[nb.InterfaceID] = pit.Waiting
		sent++
	}
	if sent == 0 {
		n.PIT.Remove(name, false)
		return fmt.Errorf("retrieve %s: no neighbor accepted the interest", name)
	}
	e.CreatedAt = now()
	return nil
}

// RetrieveAsync is like Retrieve but reports the eventual outcome (object
// found or not) to done once the PIT entry for name resolves, via the
// callback plumbing pit.Entry.Notify already provides for the LOCAL slot.
func (n *Node) RetrieveAsync(ctx context.Context, name string, done func(found bool)) error {
	if n.hasObject(name) {
		done(true)
		return nil
	}
	if err := n.Retrieve(ctx, name); err != nil {
		return err
	}
	if e, ok := n.PIT.Get(name); ok {
		e.Notify = done
	}
	return nil
}

// HandleInterest processes an INTEREST received on neighbor iface (spec.md
// §4.5 "INTEREST reception on interface i").
func (n *Node) HandleInterest(ctx context.Context, iface *topology.Neighbor, name string) {
	if n.hasObject(name) {
		if err := iface.Write(wire.FormatObject(name)); err != nil {
			logger.Warningf(ctx, "node: write OBJECT %s to %s: %v", name, iface.Addr, err)
		}
		return
	}

	e := n.PIT.GetOrCreate(name, now())
	e.Slots[iface.InterfaceID] = pit.Response

	for slot, state := range e.Slots {
		if slot > 0 && slot != iface.InterfaceID && state == pit.Waiting {
			// Loop suppression: already forwarding this interest elsewhere.
			return
		}
	}

	msg := wire.FormatInterest(name)
	forwarded := 0
	for _, nb := range n.Neighbors.All() {
		if nb.InterfaceID <= 0 || nb.InterfaceID == iface.InterfaceID {
			continue
		}
		if err := nb.Write(msg); err != nil {
			logger.Warningf(ctx, "node: forward INTEREST %s to %s: %v", name, nb.Addr, err)
			continue
		}
		e.Slots[nb.InterfaceID] = pit.Waiting
		forwarded++
	}

	if forwarded == 0 {
		if err := iface.Write(wire.FormatNoObject(name)); err != nil {
			logger.Warningf(ctx, "node: write NOOBJECT %s to %s: %v", name, iface.Addr, err)
		}
		n.PIT.Remove(name, false)
		return
	}
	e.CreatedAt = now()
}

// HandleObject processes an OBJECT received on interface iface (spec.md
// §4.5 "OBJECT reception on interface i").
func (n *Node) HandleObject(ctx context.Context, iface *topology.Neighbor, name string) {
	n.insertIntoCache(ctx, name)

	e, ok := n.PIT.Get(name)
	if !ok {
		logger.Debugf(ctx, "node: unsolicited OBJECT %s from %s, cached only", name, iface.Addr)
		return
	}

	msg := wire.FormatObject(name)
	for slot, state := range e.Slots {
		if slot <= 0 || slot == wire.LocalSlot || state != pit.Response {
			continue
		}
		nb, ok := n.Neighbors.ByInterfaceID(slot)
		if !ok {
			continue
		}
		if err := nb.Write(msg); err != nil {
			logger.Warningf(ctx, "node: forward OBJECT %s to %s: %v", name, nb.Addr, err)
		}
	}
	if e.Slots[wire.LocalSlot] == pit.Response {
		logger.Infof(ctx, "node: retrieve %s succeeded", name)
	}
	n.PIT.Remove(name, true)
}

func (n *Node) insertIntoCache(ctx context.Context, name string) {
	evicted, didEvict := n.Cache.Insert(name)
	if didEvict {
		logger.Debugf(ctx, "node: cache evicted %s to admit %s", evicted, name)
	}
}

// HandleNoObject processes a NOOBJECT received on interface iface (spec.md
// §4.5 "NOOBJECT reception on interface i").
func (n *Node) HandleNoObject(ctx context.Context, iface *topology.Neighbor, name string) {
	e, ok := n.PIT.Get(name)
	if !ok {
		return
	}
	e.Slots[iface.InterfaceID] = pit.Closed

	anyWaiting := false
	for slot, state := range e.Slots {
		if slot <= 0 || state != pit.Waiting {
			continue
		}
		if _, live := n.Neighbors.ByInterfaceID(slot); !live {
			e.Slots[slot] = pit.Closed
			continue
		}
		anyWaiting = true
	}
	if anyWaiting {
		return
	}

	n.closeOutEntry(ctx, e)
}

// closeOutEntry sends NOOBJECT to every interface still holding a Response
// slot (including notifying the local application) and removes e.
func (n *Node) closeOutEntry(ctx context.Context, e *pit.Entry) {
	for slot, state := range e.Slots {
		if slot <= 0 || slot == wire.LocalSlot || state != pit.Response {
			continue
		}
		nb, ok := n.Neighbors.ByInterfaceID(slot)
		if !ok {
			continue
		}
		if err := nb.Write(wire.FormatNoObject(e.Name)); err != nil {
			logger.Warningf(ctx, "node: write NOOBJECT %s to %s: %v", e.Name, nb.Addr, err)
		}
	}
	if e.Slots[wire.LocalSlot] == pit.Response {
		logger.Infof(ctx, "node: retrieve %s not found", e.Name)
	}
	n.PIT.Remove(e.Name, false)
}

// ScanTimeouts is invoked by the event loop on each tick of its timeout
// ticker (spec.md §4.5 "Timeouts"). Any entry older than wire.InterestTimeout is closed out as
// if every outstanding interface had replied NOOBJECT.
func (n *Node) ScanTimeouts(ctx context.Context) {
	cutoff := now().Add(-wire.InterestTimeout)
	for _, e := range n.PIT.All() {
		if e.CreatedAt.Before(cutoff) {
			logger.Debugf(ctx, "node: interest %s timed out", e.Name)
			n.closeOutEntry(ctx, e)
		}
	}
}

// now is a seam so tests can control timeout behavior deterministically
// without sleeping for wire.InterestTimeout.
var now = time.Now
