// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "time"

// sendContext bundles the per-call collaborators CanAppendData,
// AuthBundler, SackBundler and DataAccount need but Packet itself does
// not own: the peer's receive state, the outbound queue's byte
// counters, the injected Hooks, and a clock (spec section 1: these are
// external collaborators reached only through narrow interfaces).
type sendContext struct {
	peer     *Peer
	outQueue *OutQueue
	hooks    *Hooks
	now      func() time.Time
}

// canAppendData is the CanAppendData predicate (spec section 4.2),
// evaluated for DATA chunks only.
func canAppendData(p *Packet, c *chunkPayloadData, ctx *sendContext) Verdict {
	assoc := p.transport.association
	rwnd := ctx.peer.RWND()
	inflight := ctx.outQueue.OutstandingBytes()
	flight := p.transport.FlightSize()
	ds := c.dataSize()

	// RFC 2960 section 6.1 rule A: a probe is always allowed when
	// nothing is in flight, regardless of rwnd.
	if ds > rwnd && inflight > 0 {
		return RWNDFull
	}

	// RFC 2960 section 6.1 rule B, with the fast-retransmit exception:
	// a chunk being fast-retransmitted ignores cwnd.
	if c.fastRetransmit == FRTXNeeded {
		if assoc != nil && assoc.stats != nil {
			assoc.stats.FastRetrans.Inc()
		}
	} else if flight >= p.transport.CWND() {
		return RWNDFull
	}

	// Nagle.
	if assoc == nil || !assoc.NagleEnabled() {
		return OK
	}
	if len(p.chunkList) > 0 {
		return OK
	}
	if inflight == 0 {
		return OK
	}
	if assoc.State() != StateEstablished {
		return OK
	}

	// Pack-or-defer: is there already enough queued to fill a packet?
	room := int(p.pathMTU()) - int(p.overhead) - dataChunkHeaderSize - 4
	if c.skbLen()+ctx.outQueue.Qlen() > room {
		return OK
	}
	if !c.canDelay {
		return OK
	}

	return Delay
}

// authBundler is the AuthBundler (spec section 4.3): opportunistically
// insert an AUTH chunk before the first chunk of the outgoing packet
// that requires authentication.
func authBundler(p *Packet, incoming chunk, ctx *sendContext) Verdict {
	assoc := p.transport.association
	if assoc == nil {
		return OK
	}
	if _, isAuth := incoming.(*chunkAuth); isAuth {
		return OK
	}
	if p.hasAuth {
		return OK
	}

	requiresAuth := false
	if dc, ok := incoming.(*chunkPayloadData); ok {
		requiresAuth = dc.authRequired
	}
	if !requiresAuth {
		return OK
	}

	if ctx.hooks.MakeAuth == nil {
		return OK
	}
	auth, ok := ctx.hooks.MakeAuth(assoc)
	if !ok || auth == nil {
		return OK
	}

	// On append failure the constructed AUTH chunk is simply discarded
	// (spec section 4.3 "on append failure, release it"); Go's GC
	// reclaims it, there is nothing further to do.
	return p.appendRaw(auth, ctx)
}

// sackBundler is the SackBundler (spec section 4.3): invoked only for
// DATA chunks on a packet that has neither a SACK nor a COOKIE_ECHO yet.
func sackBundler(p *Packet, ctx *sendContext) Verdict {
	if p.hasSack || p.hasCookieEcho {
		return OK
	}

	assoc := p.transport.association
	if assoc == nil || !assoc.SackTimerPending() {
		return OK
	}
	if p.transport.SackGeneration() != ctx.peer.SackGeneration() {
		return OK
	}
	if ctx.hooks.MakeSack == nil {
		return OK
	}

	sack, ok := ctx.hooks.MakeSack(assoc)
	if !ok || sack == nil {
		return OK
	}
	sack.advertisedReceiverWindowCredit = ctx.peer.RWND()

	if v := p.appendRaw(sack, ctx); v != OK {
		return v
	}

	// SACKsSent is counted in appendRaw's *chunkSelectiveAck case (spec
	// section 4.4), so every admission path -- not just this bundler --
	// is counted once.
	ctx.peer.sackNeeded = false
	assoc.CancelSackTimer()

	return OK
}

// appendChunk is the public AppendChunk (spec section 4.5): for DATA
// chunks, gate on CanAppendData first; then AuthBundler; then
// SackBundler; then the raw append. Any non-OK verdict short-circuits.
func appendChunk(p *Packet, c chunk, ctx *sendContext) Verdict {
	dc, isData := c.(*chunkPayloadData)
	if isData {
		if v := canAppendData(p, dc, ctx); v != OK {
			return v
		}
	}

	if v := authBundler(p, c, ctx); v != OK {
		return v
	}

	if isData {
		if v := sackBundler(p, ctx); v != OK {
			return v
		}
	}

	return p.appendRaw(c, ctx)
}
