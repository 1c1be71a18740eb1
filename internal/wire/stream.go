// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wire

import (
	"fmt"
	"strings"
)

// StreamType identifies a topology/data message carried on a neighbor
// stream (spec.md §4.4).
type StreamType string

const (
	TypeEntry    StreamType = "ENTRY"
	TypeSafe     StreamType = "SAFE"
	TypeInterest StreamType = "INTEREST"
	TypeObject   StreamType = "OBJECT"
	TypeNoObject StreamType = "NOOBJECT"
)

// StreamMessage is a single parsed line from a neighbor stream.
type StreamMessage struct {
	Type StreamType
	Addr Addr   // populated for TypeEntry, TypeSafe
	Name string // populated for TypeInterest, TypeObject, TypeNoObject
}

// ParseStreamLine parses one newline-stripped line of the stream protocol.
// Unknown types return an error so the caller can log-and-ignore per
// spec.md §4.4 rather than propagate a fatal failure.
func ParseStreamLine(line string) (StreamMessage, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return StreamMessage{}, fmt.Errorf("empty message")
	}
	switch StreamType(fields[0]) {
	case TypeEntry, TypeSafe:
		if len(fields) != 3 {
			return StreamMessage{}, fmt.Errorf("%s: want 2 arguments, got %d", fields[0], len(fields)-1)
		}
		addr, err := ParseAddr(fields[1], fields[2])
		if err != nil {
			return StreamMessage{}, fmt.Errorf("%s: %v", fields[0], err)
		}
		return StreamMessage{Type: StreamType(fields[0]), Addr: addr}, nil
	case TypeInterest, TypeObject, TypeNoObject:
		if len(fields) != 2 {
			return StreamMessage{}, fmt.Errorf("%s: want 1 argument, got %d", fields[0], len(fields)-1)
		}
		if err := ValidName(fields[1]); err != nil {
			return StreamMessage{}, fmt.Errorf("%s: %v", fields[0], err)
		}
		return StreamMessage{Type: StreamType(fields[0]), Name: fields[1]}, nil
	default:
		return StreamMessage{}, fmt.Errorf("unknown message type %q", fields[0])
	}
}

// FormatEntry renders an ENTRY message announcing addr as the sender's
// listening endpoint.
func FormatEntry(addr Addr) string { return fmt.Sprintf("%s %s\n", TypeEntry, addr) }

// FormatSafe renders a SAFE message announcing addr as the safety endpoint
// the recipient should remember.
func FormatSafe(addr Addr) string { return fmt.Sprintf("%s %s\n", TypeSafe, addr) }

// FormatInterest renders an INTEREST message requesting name.
func FormatInterest(name string) string { return fmt.Sprintf("%s %s\n", TypeInterest, name) }

// FormatObject renders an OBJECT message carrying a positive response for
// name.
func FormatObject(name string) string { return fmt.Sprintf("%s %s\n", TypeObject, name) }

// FormatNoObject renders a NOOBJECT message carrying a negative response for
// name.
func FormatNoObject(name string) string { return fmt.Sprintf("%s %s\n", TypeNoObject, name) }
