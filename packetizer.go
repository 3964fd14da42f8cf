// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "time"

// Packetizer is the outbound queue's entry point into this core: one per
// (transport, src-port, dst-port) triple, wrapping a Packet together with
// the peer/outqueue/hooks collaborators its predicates and the Emitter
// need. The outbound queue drives it exclusively through TransmitChunk
// (spec section 4.6); AppendChunk is exposed separately for callers (and
// tests) that want to react to PMTU_FULL themselves.
type Packetizer struct {
	packet   *Packet
	transport *Transport
	peer     *Peer
	outQueue *OutQueue
	hooks    *Hooks

	now func() time.Time

	onePacket bool // when true, TransmitChunk never retries after a flush
}

// NewPacketizer constructs a Packetizer for one transport.
func NewPacketizer(tr *Transport, peer *Peer, outQueue *OutQueue, hooks *Hooks, srcPort, dstPort uint16, vtag, overhead uint32) *Packetizer {
	return &Packetizer{
		packet:   NewPacket(tr, srcPort, dstPort, vtag, overhead),
		transport: tr,
		peer:     peer,
		outQueue: outQueue,
		hooks:    hooks,
		now:      time.Now,
	}
}

// SetOnePacket controls whether TransmitChunk is allowed to retry once
// after a PMTU_FULL flush (spec section 4.6).
func (pz *Packetizer) SetOnePacket(v bool) { pz.onePacket = v }

func (pz *Packetizer) ctx() *sendContext {
	return &sendContext{peer: pz.peer, outQueue: pz.outQueue, hooks: pz.hooks, now: pz.now}
}

// AppendChunk is the public AppendChunk admission routine (spec
// section 4.5).
func (pz *Packetizer) AppendChunk(c chunk) Verdict {
	return appendChunk(pz.packet, c, pz.ctx())
}

// Packet exposes the current accumulator, mainly for tests and for
// callers that need to inspect HasData/Size/IPFragOK between calls.
func (pz *Packetizer) Packet() *Packet { return pz.packet }
