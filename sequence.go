// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "github.com/pion/randutil"

// globalMathRandomGenerator seeds initial TSN values the same way the
// teacher association seeds myNextTSN/myVerificationTag: from a
// crypto-grade source, not a fixed constant, so two associations racing
// to the same peer don't collide on TSN space.
var globalMathRandomGenerator = randutil.NewMathRandomGenerator() //nolint:gochecknoglobals

// tsnAllocator hands out per-association TSNs in order. The caller
// (association lock holder) is responsible for serializing access, per
// spec section 5.
type tsnAllocator struct {
	next uint32
}

func newTSNAllocator() *tsnAllocator {
	return &tsnAllocator{next: globalMathRandomGenerator.Uint32()}
}

func (a *tsnAllocator) assign(c *chunkPayloadData) uint32 {
	tsn := a.next
	a.next++
	c.tsn = tsn
	c.hasTSN = true

	return tsn
}

// ssnAllocator hands out per-stream SSNs. Streams are external to this
// core (spec non-goals); callers key one allocator per stream id.
type ssnAllocator struct {
	next uint16
}

func newSSNAllocator() *ssnAllocator {
	return &ssnAllocator{next: uint16(globalMathRandomGenerator.Uint32())} //nolint:gosec // G115
}

func (a *ssnAllocator) assign(c *chunkPayloadData) uint16 {
	ssn := a.next
	a.next++
	c.streamSequenceNumber = ssn

	return ssn
}
