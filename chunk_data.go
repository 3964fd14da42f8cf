// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"encoding/binary"
	"time"
)

const dataChunkHeaderSize = 12 // TSN(4) + stream id(2) + SSN(2) + PPID(4), after the 4-byte chunk header

// DATA chunk flag bits (RFC 4960 section 3.3.1).
const (
	dataFlagEnding    = 1 << 0
	dataFlagBeginning = 1 << 1
	dataFlagUnordered = 1 << 2
	dataFlagImmediate = 1 << 3
)

// FastRetransmitState tracks whether a DATA chunk is a candidate for, or
// currently undergoing, a fast retransmission per RFC 4960 section 7.2.4.
type FastRetransmitState int

// FastRetransmitState enums.
const (
	FRTXNone FastRetransmitState = iota
	FRTXNeeded
	FRTXDone
)

// chunkPayloadData represents a DATA chunk, RFC 4960 section 3.3.1, plus
// the outbound-path bookkeeping fields this packetizer reads and writes
// (spec section 3 "Chunk (external, but the fields this core reads/writes)").
type chunkPayloadData struct {
	chunkHeader

	unordered      bool
	beginning      bool
	ending         bool
	immediateSack  bool

	tsn                  uint32
	streamID             uint16
	streamSequenceNumber uint16
	payloadProtocolID    uint32
	userData             []byte

	// fields the core itself mutates or consults; never serialized.
	authRequired    bool
	fastRetransmit  FastRetransmitState
	canDelay        bool
	canAbandon      bool
	resent          bool
	sentAt          time.Time
	sentCount       int
	rttInProgress bool
	hasTSN        bool

	transport *Transport // set on admission; invariant 5, spec section 3
}

// setTransport implements transportSetter.
func (d *chunkPayloadData) setTransport(t *Transport) { d.transport = t }

// dataSize is the payload length this chunk contributes to rwnd/cwnd
// accounting (spec calls this data_size).
func (d *chunkPayloadData) dataSize() uint32 {
	return uint32(len(d.userData)) //nolint:gosec // G115
}

// skbLen mirrors the Linux `chunk->skb->len` concept CanAppendData's
// pack-or-defer rule compares against room: header plus payload.
func (d *chunkPayloadData) skbLen() int {
	return dataChunkHeaderSize + len(d.userData)
}

func (d *chunkPayloadData) Type() ChunkType { return ctPayloadData }

func (d *chunkPayloadData) valueLength() int {
	return dataChunkHeaderSize + len(d.userData)
}

func (d *chunkPayloadData) Marshal() ([]byte, error) {
	value := make([]byte, dataChunkHeaderSize+len(d.userData))
	binary.BigEndian.PutUint32(value[0:], d.tsn)
	binary.BigEndian.PutUint16(value[4:], d.streamID)
	binary.BigEndian.PutUint16(value[6:], d.streamSequenceNumber)
	binary.BigEndian.PutUint32(value[8:], d.payloadProtocolID)
	copy(value[dataChunkHeaderSize:], d.userData)

	var flags byte
	if d.ending {
		flags |= dataFlagEnding
	}
	if d.beginning {
		flags |= dataFlagBeginning
	}
	if d.unordered {
		flags |= dataFlagUnordered
	}
	if d.immediateSack {
		flags |= dataFlagImmediate
	}

	d.chunkHeader.typ = ctPayloadData
	d.chunkHeader.flags = flags
	d.chunkHeader.raw = value

	return d.chunkHeader.marshal()
}
