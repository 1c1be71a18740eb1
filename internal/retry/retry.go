// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package retry provides the backoff/retry primitives referenced by the
// teacher's tools/net/sshutil.ConnectDeprecated (retry.Retry, retry.ZeroBackoff,
// retry.WithMaxDuration) and tools/lib/syslog.Stream
// (retry.NewConstantBackoff), recreated here since the source file backing
// those call sites was not present in the retrieval pack.
package retry

import (
	"context"
	"time"
)

// Backoff computes successive wait durations between retry attempts.
type Backoff interface {
	// Next returns the duration to wait before the next attempt.
	Next() time.Duration

	// Reset restarts the backoff sequence.
	Reset()
}

// ZeroBackoff never waits between attempts.
type ZeroBackoff struct{}

func (*ZeroBackoff) Next() time.Duration { return 0 }
func (*ZeroBackoff) Reset()              {}

// ConstantBackoff waits a fixed duration between attempts.
type ConstantBackoff struct {
	interval time.Duration
}

// NewConstantBackoff returns a Backoff that always waits d between attempts.
func NewConstantBackoff(d time.Duration) *ConstantBackoff {
	return &ConstantBackoff{interval: d}
}

func (b *ConstantBackoff) Next() time.Duration { return b.interval }
func (b *ConstantBackoff) Reset()              {}

// maxDurationBackoff wraps a Backoff, limiting the elapsed time, counted
// from the first Next after a Reset, before Retry gives up.
type maxDurationBackoff struct {
	Backoff
	max   time.Duration
	start time.Time
	armed bool
}

// WithMaxDuration wraps b so that Retry stops attempting once max has
// elapsed since the first call to Next.
func WithMaxDuration(b Backoff, max time.Duration) Backoff {
	return &maxDurationBackoff{Backoff: b, max: max}
}

func (b *maxDurationBackoff) Next() time.Duration {
	if !b.armed {
		b.start = time.Now()
		b.armed = true
	}
	if time.Since(b.start) >= b.max {
		return -1
	}
	return b.Backoff.Next()
}

func (b *maxDurationBackoff) Reset() {
	b.armed = false
	b.Backoff.Reset()
}

// Retry calls fn until it succeeds, ctx is done, or backoff signals that no
// further attempt should be made (a negative duration from Next). notify, if
// non-nil, is called with each error before waiting to retry.
func Retry(ctx context.Context, backoff Backoff, fn func() error, notify func(error, time.Duration)) error {
	backoff.Reset()
	for {
		err := fn()
		if err == nil {
			return nil
		}
		wait := backoff.Next()
		if wait < 0 {
			return err
		}
		if notify != nil {
			notify(err, wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
