// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCanAppendDataRWNDFullRejectsWhenInflight covers RFC2960 6.1 rule A:
// a probe is only exempted from the rwnd check when nothing is in flight.
func TestCanAppendDataRWNDFullRejectsWhenInflight(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500})
	tr, _ := newTestTransport(assoc, 1500)
	p := NewPacket(tr, 1, 2, 1, 48)

	peer := &Peer{rwnd: 10}
	outQ := &OutQueue{outstandingBytes: 500}
	ctx := &sendContext{peer: peer, outQueue: outQ, hooks: newTestHooks()}

	c := newTestDataChunk(100)
	assert.Equal(t, RWNDFull, canAppendData(p, c, ctx))
}

// TestCanAppendDataAllowsProbeWhenNothingInFlight covers the rule A
// exception: with inflight == 0, a chunk larger than rwnd still probes
// through.
func TestCanAppendDataAllowsProbeWhenNothingInFlight(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: false})
	tr, _ := newTestTransport(assoc, 1500)
	p := NewPacket(tr, 1, 2, 1, 48)

	peer := &Peer{rwnd: 10}
	outQ := &OutQueue{outstandingBytes: 0}
	ctx := &sendContext{peer: peer, outQueue: outQ, hooks: newTestHooks()}

	c := newTestDataChunk(100)
	assert.Equal(t, OK, canAppendData(p, c, ctx))
}

// TestCanAppendDataFastRetransmitIgnoresCWND is scenario 6: flight_size ==
// cwnd would normally reject, but a chunk marked NEED_FRTX ignores cwnd.
func TestCanAppendDataFastRetransmitIgnoresCWND(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: false})
	tr, _ := newTestTransport(assoc, 1500)
	tr.SetCWND(10000)
	tr.AddFlightSize(10000)
	p := NewPacket(tr, 1, 2, 1, 48)

	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{}
	ctx := &sendContext{peer: peer, outQueue: outQ, hooks: newTestHooks()}

	c := newTestDataChunk(100)
	c.fastRetransmit = FRTXNeeded
	assert.Equal(t, OK, canAppendData(p, c, ctx))

	// without the fast-retransmit marker the same flight/cwnd state rejects.
	c2 := newTestDataChunk(100)
	assert.Equal(t, RWNDFull, canAppendData(p, c2, ctx))
}

// TestCanAppendDataNagleDefer is scenario 4: Nagle enabled, established
// association, something in flight, an empty packet, and a delay-eligible
// chunk that would not fill a packet on its own -- expect DELAY.
func TestCanAppendDataNagleDefer(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: true})
	tr, _ := newTestTransport(assoc, 1500)
	p := NewPacket(tr, 1, 2, 1, 48)

	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{outstandingBytes: 200, qlen: 50}
	ctx := &sendContext{peer: peer, outQueue: outQ, hooks: newTestHooks()}

	c := newTestDataChunk(50 - dataChunkHeaderSize) // skbLen() == 50
	c.canDelay = true
	require.Equal(t, 50, c.skbLen())

	assert.Equal(t, Delay, canAppendData(p, c, ctx))
}

func TestCanAppendDataNagleSkipsWhenPacketNonEmpty(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: true})
	tr, _ := newTestTransport(assoc, 1500)
	p := NewPacket(tr, 1, 2, 1, 48)
	require.Equal(t, OK, p.appendRaw(newTestDataChunk(4), newTestCtx()))

	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{outstandingBytes: 200, qlen: 50}
	ctx := &sendContext{peer: peer, outQueue: outQ, hooks: newTestHooks()}

	c := newTestDataChunk(4)
	c.canDelay = true
	assert.Equal(t, OK, canAppendData(p, c, ctx))
}

// TestSackBundlingOrdersSackBeforeData is scenario 2: bundling produces
// [SACK, DATA] and cancels the pending SACK timer.
func TestSackBundlingOrdersSackBeforeData(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: false})
	assoc.ArmSackTimer()
	tr, _ := newTestTransport(assoc, 1500)

	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{}
	hooks := newTestHooks()
	hooks.MakeSack = func(*Association) (*chunkSelectiveAck, bool) {
		return &chunkSelectiveAck{cumulativeTSNAck: 1}, true
	}

	pz := NewPacketizer(tr, peer, outQ, hooks, 1, 2, 1, 48)

	c := newTestDataChunk(100)
	v := pz.AppendChunk(c)
	require.Equal(t, OK, v)

	chunks := pz.Packet().Chunks()
	require.Len(t, chunks, 2)
	_, firstIsSack := chunks[0].(*chunkSelectiveAck)
	assert.True(t, firstIsSack)
	_, secondIsData := chunks[1].(*chunkPayloadData)
	assert.True(t, secondIsData)

	assert.True(t, pz.Packet().HasData())
	assert.False(t, assoc.SackTimerPending())
}

// TestNoSecondSackOnceBundled is the spec's named invariant in practice:
// SackBundler only fires while !has_sack, so a second DATA append against
// the same packet never bundles a second SACK.
func TestNoSecondSackOnceBundled(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: false})
	assoc.ArmSackTimer()
	tr, _ := newTestTransport(assoc, 1500)
	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{}
	hooks := newTestHooks()
	hooks.MakeSack = func(*Association) (*chunkSelectiveAck, bool) {
		return &chunkSelectiveAck{cumulativeTSNAck: 1}, true
	}

	pz := NewPacketizer(tr, peer, outQ, hooks, 1, 2, 1, 48)

	require.Equal(t, OK, pz.AppendChunk(newTestDataChunk(10)))
	assert.True(t, pz.Packet().HasData())

	// bundling cancelled the SACK timer; re-arm it so a SACK is due again.
	// has_sack is now true on this packet, so a second DATA append must
	// not bundle another SACK ahead of it.
	assoc.ArmSackTimer()
	require.Equal(t, OK, pz.AppendChunk(newTestDataChunk(10)))

	sacks := 0
	for _, c := range pz.Packet().Chunks() {
		if _, ok := c.(*chunkSelectiveAck); ok {
			sacks++
		}
	}
	assert.Equal(t, 1, sacks)
}

// TestNoSackAfterDataWhenFirstDataDidNotBundle covers invariant 3 (spec
// section 3) for the case TestNoSecondSackOnceBundled does not: the first
// DATA append bundles no SACK at all (the timer isn't armed yet), so
// has_sack would still be false going into a later append if appendRaw
// did not itself set it. A SACK must never follow DATA on this packet,
// even once the timer arms afterward.
func TestNoSackAfterDataWhenFirstDataDidNotBundle(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: false})
	tr, _ := newTestTransport(assoc, 1500)
	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{}
	hooks := newTestHooks()
	hooks.MakeSack = func(*Association) (*chunkSelectiveAck, bool) {
		return &chunkSelectiveAck{cumulativeTSNAck: 1}, true
	}

	pz := NewPacketizer(tr, peer, outQ, hooks, 1, 2, 1, 48)

	require.Equal(t, OK, pz.AppendChunk(newTestDataChunk(10)))
	assert.True(t, pz.Packet().HasData())

	// only now does a SACK become due; it must not be spliced in behind
	// the DATA chunk already on the packet.
	assoc.ArmSackTimer()
	require.Equal(t, OK, pz.AppendChunk(newTestDataChunk(10)))

	for _, c := range pz.Packet().Chunks() {
		_, isSack := c.(*chunkSelectiveAck)
		assert.False(t, isSack, "SACK must not be appended after DATA")
	}
}
