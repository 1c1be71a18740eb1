// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pit implements the Pending Interest Table: per-name bookkeeping
// of which interfaces are awaiting a response, which already hold one to
// forward, and which are closed off (spec.md §3, §4.5).
package pit

import (
	"time"

	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// SlotState is the state of one interface slot of an Entry, following the
// state machine in spec.md §4.5:
//
//	Unset --INTEREST out--> Waiting --OBJECT in--> (entry removed)
//	Unset --INTEREST in --> Response
//	Waiting --NOOBJECT in--> Closed
//	Response is terminal (until entry removed). Closed is terminal.
type SlotState int

const (
	Unset SlotState = iota
	Response
	Waiting
	Closed
)

// Entry tracks one outstanding name across every interface. Slot
// wire.LocalSlot is reserved for the local application; slots
// 1..wire.LocalSlot-1 correspond to neighbor interface ids; slot 0 is never
// used for forwarding (spec.md §3).
type Entry struct {
	Name      string
	Slots     [wire.MaxIface]SlotState
	CreatedAt time.Time
	Dead      bool

	// Notify, if set, is called exactly once when this entry is resolved
	// (object found, or globally NOOBJECT/timeout) to report the result to
	// the local application that issued retrieve. It is cleared after
	// being called.
	Notify func(found bool)
}

// HasLiveSlot reports whether at least one slot is Response or Waiting,
// spec.md §3 invariant 6.
func (e *Entry) HasLiveSlot() bool {
	for _, s := range e.Slots {
		if s == Response || s == Waiting {
			return true
		}
	}
	return false
}

// resolve invokes and clears Notify, if set.
func (e *Entry) resolve(found bool) {
	if e.Notify != nil {
		e.Notify(found)
		e.Notify = nil
	}
}

// Table is the PIT: at most one live entry per name (spec.md §3 invariant 7).
type Table struct {
	entries map[string]*Entry
}

// NewTable returns an empty PIT.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Get returns the live entry for name, if any.
func (t *Table) Get(name string) (*Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// GetOrCreate returns the live entry for name, creating an empty one (all
// slots Unset, CreatedAt now) if absent.
func (t *Table) GetOrCreate(name string, now time.Time) *Entry {
	if e, ok := t.entries[name]; ok {
		return e
	}
	e := &Entry{Name: name, CreatedAt: now}
	t.entries[name] = e
	return e
}

// Remove removes the entry for name, if present, resolving its local slot
// with found so the caller is not left waiting.
func (t *Table) Remove(name string, found bool) {
	e, ok := t.entries[name]
	if !ok {
		return
	}
	e.Dead = true
	e.resolve(found)
	delete(t.entries, name)
}

// All returns every live entry, for "show interest table" and timeout
// scanning. Order is unspecified.
func (t *Table) All() []*Entry {
	out := make([]*Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

// Len reports the number of live entries.
func (t *Table) Len() int { return len(t.entries) }
