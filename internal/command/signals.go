// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package command dispatches the interactive line commands described in
// spec.md §6 (join, direct_join, create, delete, retrieve, show topology,
// show names, show interest table, leave, exit, help) against a Node, and
// provides the interrupt-driven shutdown primitive the event loop uses.
package command

import (
	"context"
	"os"
	"os/signal"
)

// CancelOnSignals returns a Context that is done when any of sigs arrives,
// assuming those signals can be handled by the current process.
func CancelOnSignals(ctx context.Context, sigs ...os.Signal) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, sigs...)
	go func() {
		select {
		case s := <-signals:
			if s != nil {
				cancel()
				signal.Stop(signals)
			}
		case <-ctx.Done():
			signal.Stop(signals)
		}
	}()
	return ctx
}
