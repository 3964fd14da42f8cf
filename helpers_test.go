// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "github.com/pion/logging"

// fakeRoute is a trivial RouteCache for tests: never stale, fixed MTU, no
// checksum offload, unless overridden.
type fakeRoute struct {
	mtu             uint32
	stale           bool
	refreshErr      error
	checksumOffload bool
	refreshed       int
}

func (r *fakeRoute) Stale() bool { return r.stale }

func (r *fakeRoute) Refresh() error {
	r.refreshed++
	r.stale = false

	return r.refreshErr
}

func (r *fakeRoute) MTU() uint32 { return r.mtu }

func (r *fakeRoute) ChecksumOffload() bool { return r.checksumOffload }

// newTestAssociation builds an Association with a quiet logger, suitable
// for tests that don't care about log output.
func newTestAssociation(cfg AssociationConfig) *Association {
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}

	return NewAssociation(cfg)
}

// newTestTransport wires a Transport to an Association and a fakeRoute
// with a given PMTU, the common fixture every admission/emit test starts
// from.
func newTestTransport(assoc *Association, pmtu uint32) (*Transport, *fakeRoute) {
	route := &fakeRoute{mtu: pmtu}
	tr := NewTransport(assoc, pmtu, route)
	tr.SetCWND(1 << 20)

	return tr, route
}

// newTestHooks returns a Hooks with TSN/SSN allocation and the stdlib
// CRC32-C default wired, suitable for most admission tests. AUTH/SACK
// construction is left to the caller to opt into per test.
func newTestHooks() *Hooks {
	h := NewHooks()
	tsn := newTSNAllocator()
	ssn := newSSNAllocator()
	h.AssignTSN = func(c *chunkPayloadData) uint32 { return tsn.assign(c) }
	h.AssignSSN = func(c *chunkPayloadData) uint16 { return ssn.assign(c) }

	return h
}

func newTestDataChunk(size int) *chunkPayloadData {
	return &chunkPayloadData{
		beginning: true,
		ending:    true,
		userData:  make([]byte, size),
		canDelay:  true,
	}
}
