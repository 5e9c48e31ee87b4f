// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

// Package progress defines the progress callback the engine invokes
// as blocks complete, and a terminal meter for the CLI. There is no
// process-wide progress state: callers that want reporting pass a
// callback explicitly.
package progress

import (
	"fmt"
	"io"
	"sync"
)

// Func is called after each completed unit of work. done counts
// completed blocks; total is the request's block count. Calls arrive
// from the engine's coordinator goroutine, in order.
type Func func(done, total int)

// Meter renders a single-line block counter to a terminal. Create
// one with NewMeter, pass its Update method as the engine callback,
// and call Finish when the request returns.
type Meter struct {
	mu    sync.Mutex
	w     io.Writer
	verb  string
	drawn bool
}

// NewMeter creates a meter writing to w (normally stderr). The verb
// names the operation ("compressed", "decompressed").
func NewMeter(w io.Writer, verb string) *Meter {
	return &Meter{w: w, verb: verb}
}

// Update redraws the meter line.
func (m *Meter) Update(done, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.w, "\r%s %d/%d blocks", m.verb, done, total)
	m.drawn = true
}

// Finish terminates the meter line, if one was drawn.
func (m *Meter) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drawn {
		fmt.Fprintln(m.w)
		m.drawn = false
	}
}
