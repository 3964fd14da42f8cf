// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

/*
Packet is the per-transport outbound accumulator (spec section 3). It
cycles reset -> {append...} -> emit -> reset for the lifetime of its
Transport, exactly the way the teacher's packet struct is filled by
createPacket/AppendChunk and drained by marshalPacket -- generalized here
to carry the congestion/PMTU/bundling state the teacher keeps on
Association instead.

Invariants (spec section 3):
 1. size == overhead + sum(paddedLength(c) for c in chunkList).
 2. At most one AUTH chunk is present; if present, it precedes every
    chunk that requires authentication.
 3. Once hasData is true, no further SACK or AUTH chunk may be appended.
 4. If hasCookieEcho, the packet may exceed soft thresholds but still
    must not exceed PMTU unless ipfragok is set.
 5. A chunk's transport field, once appended, equals the packet's
    transport.
*/
type Packet struct {
	transport *Transport

	sourcePort      uint16
	destinationPort uint16
	vtag            uint32

	chunkList []chunk
	size      uint32
	overhead  uint32

	hasCookieEcho bool
	hasSack       bool
	hasData       bool
	hasAuth       bool
	ipfragok      bool

	auth *chunkAuth
}

// NewPacket initializes a Packet for one (transport, src-port, dst-port)
// triple. overhead is the fixed network-layer-header-plus-12-byte-SCTP-
// common-header reservation (spec section 3).
func NewPacket(tr *Transport, srcPort, dstPort uint16, vtag, overhead uint32) *Packet {
	p := &Packet{
		transport:       tr,
		sourcePort:      srcPort,
		destinationPort: dstPort,
		vtag:            vtag,
		overhead:        overhead,
	}
	p.reset()

	return p
}

// Size returns the packet's current running byte count, including
// overhead.
func (p *Packet) Size() uint32 { return p.size }

// HasData reports whether a DATA chunk has been appended.
func (p *Packet) HasData() bool { return p.hasData }

// HasCookieEcho reports whether a COOKIE_ECHO chunk has been appended.
func (p *Packet) HasCookieEcho() bool { return p.hasCookieEcho }

// IPFragOK reports whether IP-layer fragmentation was permitted for this
// packet (the empty-packet WillFit escape hatch, spec section 4.1 rule 1).
func (p *Packet) IPFragOK() bool { return p.ipfragok }

// Chunks exposes the ordered chunk list for the Emitter; callers outside
// this package never see it directly.
func (p *Packet) Chunks() []chunk { return p.chunkList }

// reset drains the chunk list and restores the packet to its empty state
// (spec section 4.8 "Reset"). Callers (TransmitChunk, Emitter) are
// responsible for having already released/retained chunks per the
// resource-discipline rules in spec section 5 before calling this.
func (p *Packet) reset() {
	p.chunkList = nil
	p.size = p.overhead
	p.hasCookieEcho = false
	p.hasSack = false
	p.hasData = false
	p.hasAuth = false
	p.ipfragok = false
	p.auth = nil
}

// pathMTU resolves "asoc.pathmtu when associated else transport.pathmtu"
// (spec section 4.1).
func (p *Packet) pathMTU() uint32 {
	if p.transport.association != nil {
		return p.transport.association.PathMTU()
	}

	return p.transport.PathMTU()
}

// willFit is the WillFit predicate (spec section 4.1): does a candidate
// chunk of padded length L fit in the current packet?
func (p *Packet) willFit(c chunk, length uint32) Verdict {
	pmtu := p.pathMTU()
	psize := p.size

	if psize+length <= pmtu {
		return OK
	}

	// Rule 1: empty packet, or data-less packet with an auth-requiring
	// chunk -- let IP fragment; SCTP never re-fragments itself.
	requiresAuth := false
	if dc, ok := c.(*chunkPayloadData); ok {
		requiresAuth = dc.authRequired
	}
	if len(p.chunkList) == 0 || (!p.hasData && requiresAuth) {
		p.ipfragok = true

		return OK
	}

	// Rule 2: the AUTH chunk (if any) counts against the room budget
	// for every candidate.
	authLen := uint32(0)
	if p.auth != nil {
		authLen = uint32(paddedLength(p.auth))
	}
	maxsize := int64(pmtu) - int64(p.overhead) - int64(authLen)
	if maxsize < 0 || int64(length) > maxsize {
		return PMTUFull
	}

	// Rule 3: flush before appending a trailing control chunk on a
	// DATA-bearing packet.
	if _, isData := c.(*chunkPayloadData); !isData && p.hasData {
		return PMTUFull
	}

	// Rule 4: GSO cap.
	if psize+length > p.transport.MaxSize() {
		return PMTUFull
	}

	// Rule 5: burst/cwnd guard -- a single GSO super-packet must not
	// consume more than half of cwnd.
	if p.transport.BurstLimited() == 0 {
		if psize+length > p.transport.CWND()/2 {
			return PMTUFull
		}
	} else if psize+length > p.transport.BurstLimited()/2 {
		return PMTUFull
	}

	return OK
}

// appendRaw is AppendChunk_Raw (spec section 4.4): measure, WillFit-gate,
// dispatch per-type bookkeeping, then append. ctx carries the
// peer/outqueue/hooks/clock collaborators DataAccount needs for DATA
// chunks; it is unused for every other chunk type.
func (p *Packet) appendRaw(c chunk, ctx *sendContext) Verdict {
	length := uint32(paddedLength(c))

	if v := p.willFit(c, length); v != OK {
		return v
	}

	switch tc := c.(type) {
	case *chunkPayloadData:
		dataAccount(p.transport, ctx.outQueue, ctx.peer, ctx.hooks, tc)
		// Invariants 2/3 (spec section 3): once a DATA chunk is in, no
		// later SACK or AUTH may be appended either.
		p.hasSack = true
		p.hasAuth = true
		p.hasData = true
		tc.sentAt = ctx.now()
		tc.sentCount++
	case *chunkCookieEcho:
		p.hasCookieEcho = true
	case *chunkSelectiveAck:
		p.hasSack = true
		if assoc := p.transport.association; assoc != nil && assoc.stats != nil {
			assoc.stats.SACKsSent.Inc()
		}
	case *chunkAuth:
		p.hasAuth = true
		p.auth = tc
	}

	if ts, ok := c.(transportSetter); ok {
		ts.setTransport(p.transport)
	}

	p.chunkList = append(p.chunkList, c)
	p.size += length

	return OK
}

// transportSetter is implemented by chunk types the retransmission queue
// needs to trace back to the transport they were sent on (invariant 5,
// spec section 3).
type transportSetter interface {
	setTransport(t *Transport)
}
