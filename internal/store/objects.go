// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package store implements the local object set and the FIFO-bounded cache
// (spec.md §4.6).
package store

import (
	"sort"

	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// ObjectSet is the name-unique set of locally published objects.
type ObjectSet struct {
	names map[string]struct{}
}

// NewObjectSet returns an empty ObjectSet.
func NewObjectSet() *ObjectSet {
	return &ObjectSet{names: make(map[string]struct{})}
}

// Create publishes name. A duplicate create is a no-op success, per
// spec.md §4.6.
func (s *ObjectSet) Create(name string) error {
	if err := wire.ValidName(name); err != nil {
		return err
	}
	s.names[name] = struct{}{}
	return nil
}

// Delete removes name. Deleting an absent name is a no-op.
func (s *ObjectSet) Delete(name string) {
	delete(s.names, name)
}

// Has reports whether name is locally published.
func (s *ObjectSet) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Names returns every published name in sorted order, for deterministic
// rendering (show names) and testing.
func (s *ObjectSet) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
