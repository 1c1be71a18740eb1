// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package command

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ndnd.fuchsia.dev/ndn/internal/node"
	"ndnd.fuchsia.dev/ndn/internal/render"
)

const helpText = `commands (short | long):
  j  <net>          | join <net>               directory-mediated join
  dj <ip> <tcp>      | direct join <ip> <tcp>    direct join (ip 0.0.0.0 = standalone)
  c  <name>          | create <name>             publish a local object
  dl <name>          | delete <name>             remove a local object
  r  <name>          | retrieve <name>           fetch an object
  st                 | show topology             render tree-neighborhood state
  sn                 | show names                list objects and cache
  si                 | show interest table       dump the PIT
  l                  | leave                     leave the network
  x                  | exit                       shut down
  h                  | help                       this text
`

// Dispatcher parses and executes the interactive line commands of spec.md
// §6 against a single Node, writing all user-facing output to out.
type Dispatcher struct {
	Node *node.Node
	Out  io.Writer
}

// New returns a Dispatcher driving n, printing to out.
func New(n *node.Node, out io.Writer) *Dispatcher {
	return &Dispatcher{Node: n, Out: out}
}

// Dispatch parses and executes one line of interactive input. exit is true
// when the command was "exit"/"x" and the caller should begin shutdown.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}

	cmd, args, err := canonicalize(fields)
	if err != nil {
		fmt.Fprintf(d.Out, "error: %v\n", err)
		return false
	}

	switch cmd {
	case "j":
		return d.join(ctx, args)
	case "dj":
		return d.directJoin(ctx, args)
	case "c":
		return d.create(args)
	case "dl":
		return d.delete(args)
	case "r":
		return d.retrieve(ctx, args)
	case "st":
		d.showTopology()
	case "sn":
		d.showNames()
	case "si":
		d.showInterestTable()
	case "l":
		d.leave(ctx)
	case "x":
		return true
	case "h":
		fmt.Fprint(d.Out, helpText)
	}
	return false
}

// canonicalize maps a lower-cased, whitespace-tokenized command line to its
// short form plus remaining positional arguments, recognizing both the
// short and long spellings of spec.md §6's interactive command table.
func canonicalize(fields []string) (cmd string, args []string, err error) {
	switch fields[0] {
	case "j", "dj", "c", "dl", "r", "st", "sn", "si", "l", "x", "h":
		return fields[0], fields[1:], nil
	case "join":
		return "j", fields[1:], nil
	case "direct":
		if len(fields) < 2 || fields[1] != "join" {
			return "", nil, fmt.Errorf("unknown command %q", strings.Join(fields, " "))
		}
		return "dj", fields[2:], nil
	case "create":
		return "c", fields[1:], nil
	case "delete":
		return "dl", fields[1:], nil
	case "retrieve":
		return "r", fields[1:], nil
	case "leave":
		return "l", fields[1:], nil
	case "exit":
		return "x", fields[1:], nil
	case "help":
		return "h", fields[1:], nil
	case "show":
		if len(fields) < 2 {
			return "", nil, fmt.Errorf("show: missing topology|names|interest")
		}
		switch fields[1] {
		case "topology":
			return "st", nil, nil
		case "names":
			return "sn", nil, nil
		case "interest":
			if len(fields) < 3 || fields[2] != "table" {
				return "", nil, fmt.Errorf("show interest: missing table")
			}
			return "si", nil, nil
		default:
			return "", nil, fmt.Errorf("unknown show target %q", fields[1])
		}
	default:
		return "", nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

// singleArg extracts exactly one positional argument, rejecting both a
// missing argument and anything that would indicate the name actually
// contained whitespace before being tokenized (spec.md §6: "Names
// containing any whitespace must be rejected with a clear error").
func singleArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing argument")
	}
	if len(args) > 1 {
		return "", fmt.Errorf("name must not contain whitespace")
	}
	return args[0], nil
}

func (d *Dispatcher) join(ctx context.Context, args []string) bool {
	netID, err := singleArg(args)
	if err != nil {
		fmt.Fprintf(d.Out, "error: join: %v\n", err)
		return false
	}
	if err := d.Node.Join(ctx, netID); err != nil {
		fmt.Fprintf(d.Out, "error: %v\n", err)
		return false
	}
	fmt.Fprintf(d.Out, "joined network %s\n", netID)
	return false
}

func (d *Dispatcher) directJoin(ctx context.Context, args []string) bool {
	if len(args) != 2 {
		fmt.Fprintf(d.Out, "error: direct_join: expected <ip> <tcp>\n")
		return false
	}
	port, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(d.Out, "error: direct_join: invalid port %q\n", args[1])
		return false
	}
	if err := d.Node.DirectJoin(ctx, args[0], port); err != nil {
		fmt.Fprintf(d.Out, "error: %v\n", err)
		return false
	}
	fmt.Fprintf(d.Out, "direct_join complete\n")
	return false
}

func (d *Dispatcher) create(args []string) bool {
	name, err := singleArg(args)
	if err != nil {
		fmt.Fprintf(d.Out, "error: create: %v\n", err)
		return false
	}
	if err := d.Node.Objects.Create(name); err != nil {
		fmt.Fprintf(d.Out, "error: %v\n", err)
		return false
	}
	fmt.Fprintf(d.Out, "created %s\n", name)
	return false
}

func (d *Dispatcher) delete(args []string) bool {
	name, err := singleArg(args)
	if err != nil {
		fmt.Fprintf(d.Out, "error: delete: %v\n", err)
		return false
	}
	d.Node.Objects.Delete(name)
	fmt.Fprintf(d.Out, "deleted %s\n", name)
	return false
}

func (d *Dispatcher) retrieve(ctx context.Context, args []string) bool {
	name, err := singleArg(args)
	if err != nil {
		fmt.Fprintf(d.Out, "error: retrieve: %v\n", err)
		return false
	}
	err = d.Node.RetrieveAsync(ctx, name, func(found bool) {
		if found {
			fmt.Fprintf(d.Out, "retrieve %s: found\n", name)
		} else {
			fmt.Fprintf(d.Out, "retrieve %s: not found\n", name)
		}
	})
	if err != nil {
		fmt.Fprintf(d.Out, "error: %v\n", err)
	}
	return false
}

func (d *Dispatcher) leave(ctx context.Context) bool {
	if err := d.Node.Leave(ctx); err != nil {
		fmt.Fprintf(d.Out, "error: %v\n", err)
		return false
	}
	fmt.Fprintf(d.Out, "left network\n")
	return false
}

func (d *Dispatcher) showTopology() {
	fmt.Fprint(d.Out, render.Topology(d.buildView()))
}

func (d *Dispatcher) showNames() {
	fmt.Fprint(d.Out, render.Names(d.buildView()))
}

func (d *Dispatcher) showInterestTable() {
	fmt.Fprint(d.Out, render.InterestTable(d.buildView()))
}

// buildView projects Node's current state into the minimal read-only shape
// internal/render needs, keeping render free of a dependency on
// internal/node (see internal/render's doc comment).
func (d *Dispatcher) buildView() render.NodeView {
	n := d.Node
	v := render.NodeView{
		SelfAddr:  n.SelfAddr,
		Joined:    n.Joined,
		NetworkID: n.NetworkID,
		External:  n.External,
		Safety:    n.Safety,
		Objects:   n.Objects.Names(),
		Cache:     n.Cache.Names(),
	}
	for _, nb := range n.Neighbors.All() {
		render.AddNeighbor(&v, nb.Addr, nb.InterfaceID, nb.Role.String())
	}
	for _, e := range n.PIT.All() {
		v.Interests = append(v.Interests, render.InterestView{Name: e.Name, Slots: e.Slots})
	}
	return v
}
