// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/node"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

func testNode(t *testing.T) *node.Node {
	t.Helper()
	self, err := wire.ParseAddrInt("10.0.0.1", 5000)
	if err != nil {
		t.Fatalf("ParseAddrInt: %v", err)
	}
	dir, err := wire.ParseAddrInt("10.0.0.9", 4000)
	if err != nil {
		t.Fatalf("ParseAddrInt: %v", err)
	}
	return node.New(self, 10, dir, logger.NewLogger(logger.Error+1))
}

func TestCanonicalizeShortAndLongForms(t *testing.T) {
	cases := []struct {
		in      string
		cmd     string
		argsLen int
	}{
		{"j 100", "j", 1},
		{"join 100", "j", 1},
		{"dj 1.0.0.1 5001", "dj", 2},
		{"direct join 1.0.0.1 5001", "dj", 2},
		{"c photo", "c", 1},
		{"create photo", "c", 1},
		{"dl photo", "dl", 1},
		{"delete photo", "dl", 1},
		{"r photo", "r", 1},
		{"retrieve photo", "r", 1},
		{"st", "st", 0},
		{"show topology", "st", 0},
		{"sn", "sn", 0},
		{"show names", "sn", 0},
		{"si", "si", 0},
		{"show interest table", "si", 0},
		{"l", "l", 0},
		{"leave", "l", 0},
		{"x", "x", 0},
		{"exit", "x", 0},
		{"h", "h", 0},
		{"help", "h", 0},
	}
	for _, c := range cases {
		fields := strings.Fields(strings.ToLower(c.in))
		cmd, args, err := canonicalize(fields)
		if err != nil {
			t.Errorf("canonicalize(%q): unexpected error: %v", c.in, err)
			continue
		}
		if cmd != c.cmd {
			t.Errorf("canonicalize(%q): cmd = %q, want %q", c.in, cmd, c.cmd)
		}
		if len(args) != c.argsLen {
			t.Errorf("canonicalize(%q): args = %v, want len %d", c.in, args, c.argsLen)
		}
	}
}

func TestCanonicalizeUnknown(t *testing.T) {
	if _, _, err := canonicalize([]string{"frobnicate"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if _, _, err := canonicalize([]string{"show", "bogus"}); err == nil {
		t.Fatal("expected error for unknown show target")
	}
	if _, _, err := canonicalize([]string{"direct", "nope"}); err == nil {
		t.Fatal("expected error for malformed direct join")
	}
}

func TestDispatchCreateDeleteRetrieveLocal(t *testing.T) {
	n := testNode(t)
	var out bytes.Buffer
	d := New(n, &out)
	ctx := context.Background()

	if exit := d.Dispatch(ctx, "create photo"); exit {
		t.Fatal("create should not request exit")
	}
	if !n.Objects.Has("photo") {
		t.Fatal("expected photo to be created")
	}

	out.Reset()
	if exit := d.Dispatch(ctx, "r photo"); exit {
		t.Fatal("retrieve should not request exit")
	}
	if !strings.Contains(out.String(), "found") {
		t.Errorf("expected local retrieve hit, got %q", out.String())
	}
	if n.PIT.Len() != 0 {
		t.Errorf("local retrieve hit must not create a PIT entry, got %d entries", n.PIT.Len())
	}

	out.Reset()
	d.Dispatch(ctx, "delete photo")
	if n.Objects.Has("photo") {
		t.Fatal("expected photo to be deleted")
	}
}

func TestDispatchRejectsMultiTokenName(t *testing.T) {
	n := testNode(t)
	var out bytes.Buffer
	d := New(n, &out)

	d.Dispatch(context.Background(), "create my object")
	if n.Objects.Has("my") || n.Objects.Has("object") {
		t.Fatal("multi-token name must be rejected, not partially applied")
	}
	if !strings.Contains(out.String(), "error") {
		t.Errorf("expected error output, got %q", out.String())
	}
}

func TestDispatchExit(t *testing.T) {
	n := testNode(t)
	var out bytes.Buffer
	d := New(n, &out)
	if exit := d.Dispatch(context.Background(), "x"); !exit {
		t.Fatal("expected exit command to request exit")
	}
	if exit := d.Dispatch(context.Background(), "exit"); !exit {
		t.Fatal("expected long-form exit command to request exit")
	}
}
