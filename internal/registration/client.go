// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package registration implements the stateless datagram request/response
// protocol this node uses to talk to the registration directory service
// (spec.md §4.2). It follows the same "inject a dialer for testing" shape
// the teacher uses for devFinderCmd.newMDNSFunc/newNetbootFunc
// (tools/net/dev_finder/cmd/common.go).
package registration

import (
	"context"
	"fmt"
	"net"
	"time"

	"ndnd.fuchsia.dev/ndn/internal/logger"
	"ndnd.fuchsia.dev/ndn/internal/wire"
)

// defaultTimeout is the per-request receive deadline (spec.md §4.2).
const defaultTimeout = 5 * time.Second

// dialFunc opens a connected UDP socket to addr. Kept as a field so the
// dialer can be replaced; the package's tests use the real one against a
// loopback responder.
type dialFunc func(addr wire.Addr) (net.Conn, error)

// Client exchanges REG/UNREG/NODES requests with one directory service.
type Client struct {
	DirectoryAddr wire.Addr
	Timeout       time.Duration

	dial dialFunc
}

// NewClient returns a Client talking to directoryAddr with the default
// 5-second per-request deadline.
func NewClient(directoryAddr wire.Addr) *Client {
	return &Client{
		DirectoryAddr: directoryAddr,
		Timeout:       defaultTimeout,
		dial:          dialUDP,
	}
}

func dialUDP(addr wire.Addr) (net.Conn, error) {
	return net.Dial("udp4", fmt.Sprintf("%s:%d", addr.IP, addr.Port))
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

// roundTrip sends request and returns the raw reply payload, enforcing the
// per-request receive deadline. Unexpected replies are the caller's concern
// (spec.md §4.2: "Unexpected replies and timeouts are surfaced as failures
// to the caller").
func (c *Client) roundTrip(ctx context.Context, request string) (string, error) {
	conn, err := c.dial(c.DirectoryAddr)
	if err != nil {
		return "", fmt.Errorf("dial directory: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout())
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("set deadline: %w", err)
	}

	if _, err := conn.Write([]byte(request)); err != nil {
		return "", fmt.Errorf("write request: %w", err)
	}

	buf := make([]byte, wire.MaxWire*4)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	return string(buf[:n]), nil
}

// Register sends "REG <net> <ip> <tcp>" and expects "OKREG".
func (c *Client) Register(ctx context.Context, netID string, self wire.Addr) error {
	reply, err := c.roundTrip(ctx, wire.FormatReg(netID, self))
	if err != nil {
		return fmt.Errorf("REG: %w", err)
	}
	if !wire.ParseSimpleReply(reply, wire.RepOKReg) {
		return fmt.Errorf("REG: unexpected reply %q", reply)
	}
	logger.Infof(ctx, "registration: registered on network %s as %s", netID, self)
	return nil
}

// Unregister sends "UNREG <net> <ip> <tcp>" and expects "OKUNREG".
func (c *Client) Unregister(ctx context.Context, netID string, self wire.Addr) error {
	reply, err := c.roundTrip(ctx, wire.FormatUnreg(netID, self))
	if err != nil {
		return fmt.Errorf("UNREG: %w", err)
	}
	if !wire.ParseSimpleReply(reply, wire.RepOKUnreg) {
		return fmt.Errorf("UNREG: unexpected reply %q", reply)
	}
	logger.Infof(ctx, "registration: unregistered from network %s", netID)
	return nil
}

// Nodes sends "NODES <net>" and returns the parsed NODESLIST entries
// (spec.md allows up to 100).
func (c *Client) Nodes(ctx context.Context, netID string) ([]wire.Addr, error) {
	reply, err := c.roundTrip(ctx, wire.FormatNodes(netID))
	if err != nil {
		return nil, fmt.Errorf("NODES: %w", err)
	}
	gotNetID, addrs, err := wire.ParseNodesList(reply)
	if err != nil {
		return nil, fmt.Errorf("NODES: %w", err)
	}
	if gotNetID != netID {
		return nil, fmt.Errorf("NODES: reply for network %q, want %q", gotNetID, netID)
	}
	if len(addrs) > 100 {
		addrs = addrs[:100]
	}
	return addrs, nil
}
