// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wire

import "bytes"

// RxBuffer reassembles newline-delimited messages out of a stream of partial
// reads, one per neighbor connection (spec.md §3 Neighbor.rx_buffer, §4.4).
//
// Overflow of a single, still-unterminated logical line is tolerated rather
// than fatal: the oldest bytes are discarded to make room, per spec.md §4.4.
type RxBuffer struct {
	buf []byte
}

// Feed appends newly read bytes and returns every complete line extracted
// as a result, in arrival order. Lines are returned without their
// terminating '\n'.
func (r *RxBuffer) Feed(data []byte) []string {
	r.buf = append(r.buf, data...)

	var lines []string
	for {
		idx := bytes.IndexByte(r.buf, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, string(r.buf[:idx]))
		r.buf = r.buf[idx+1:]
	}
	if len(r.buf) > MaxWire {
		r.buf = r.buf[len(r.buf)-MaxWire:]
	}
	return lines
}
