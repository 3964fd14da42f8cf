// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

// OutQueue is the narrow view this core has of the outbound retransmit
// queue: the two byte counters CanAppendData's rwnd-probe and Nagle
// rules read (spec section 4.2). The queue itself — scheduling which
// chunk to offer next — is out of scope (spec section 1).
type OutQueue struct {
	outstandingBytes uint32
	qlen             int
}

// OutstandingBytes is the RFC 2960 section 6.1 rule A "inflight" value:
// bytes sent to this transport but not yet acknowledged.
func (q *OutQueue) OutstandingBytes() uint32 { return q.outstandingBytes }

// AddOutstandingBytes mutates the outstanding-bytes counter on DATA
// admission (DataAccount).
func (q *OutQueue) AddOutstandingBytes(d uint32) { q.outstandingBytes += d }

// Qlen is the queued-byte length CanAppendData's pack-or-defer rule
// compares against available packet room.
func (q *OutQueue) Qlen() int { return q.qlen }

// SetQlen updates the queued-byte length.
func (q *OutQueue) SetQlen(n int) { q.qlen = n }
