// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

// dataAccount is the DataAccount routine (spec section 4.7), invoked on
// DATA admission: it mutates flight-size, outstanding-bytes and the
// peer's rwnd view, assigns TSN/SSN via the injected allocators, and
// marks the message no-longer-abandonable when the association is not
// PR-SCTP capable (mirroring the teacher's checkPartialReliabilityStatus
// gate on useForwardTSN).
func dataAccount(tr *Transport, outQ *OutQueue, peer *Peer, hooks *Hooks, c *chunkPayloadData) {
	ds := c.dataSize()

	tr.AddFlightSize(ds)
	outQ.AddOutstandingBytes(ds)
	peer.shrinkRWND(ds)

	if tr.association != nil && !tr.association.PRSCTPCapable() {
		c.canAbandon = false
	}

	if hooks.AssignTSN != nil {
		hooks.AssignTSN(c)
	}
	if hooks.AssignSSN != nil {
		hooks.AssignSSN(c)
	}
}
