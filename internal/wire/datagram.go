// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wire

import (
	"fmt"
	"strings"
)

// Datagram request/reply types exchanged with the registration directory
// service (spec.md §4.2). Unlike stream messages these carry no trailing
// newline on requests.
const (
	ReqReg       = "REG"
	ReqUnreg     = "UNREG"
	ReqNodes     = "NODES"
	RepOKReg     = "OKREG"
	RepOKUnreg   = "OKUNREG"
	RepNodesList = "NODESLIST"
)

// FormatReg renders a "REG <net> <ip> <tcp>" request.
func FormatReg(netID string, addr Addr) string {
	return fmt.Sprintf("%s %s %s", ReqReg, netID, addr)
}

// FormatUnreg renders an "UNREG <net> <ip> <tcp>" request.
func FormatUnreg(netID string, addr Addr) string {
	return fmt.Sprintf("%s %s %s", ReqUnreg, netID, addr)
}

// FormatNodes renders a "NODES <net>" request.
func FormatNodes(netID string) string {
	return fmt.Sprintf("%s %s", ReqNodes, netID)
}

// ParseNodesList parses a "NODESLIST <net>\n<ip> <tcp>\n..." reply. Entries
// that fail to parse as a valid Addr are skipped rather than treated as a
// fatal error, mirroring the tolerant handling the spec requires of
// directory-supplied data (the directory is a trusted collaborator but its
// payload may still contain sentinel/placeholder rows, see spec.md §4.3
// step 3).
func ParseNodesList(reply string) (netID string, addrs []Addr, err error) {
	lines := strings.Split(strings.TrimRight(reply, "\n"), "\n")
	if len(lines) == 0 {
		return "", nil, fmt.Errorf("empty NODESLIST reply")
	}
	header := strings.Fields(lines[0])
	if len(header) != 2 || header[0] != RepNodesList {
		return "", nil, fmt.Errorf("malformed NODESLIST header %q", lines[0])
	}
	netID = header[1]
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		addr, perr := ParseAddr(fields[0], fields[1])
		if perr != nil {
			continue
		}
		addrs = append(addrs, addr)
	}
	return netID, addrs, nil
}

// ParseSimpleReply reports whether reply is exactly the expected bare
// keyword (OKREG, OKUNREG), with no arguments.
func ParseSimpleReply(reply, want string) bool {
	return strings.TrimSpace(reply) == want
}
