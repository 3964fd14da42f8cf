// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "encoding/binary"

// chunkSelectiveAck is a SACK chunk, RFC 4960 section 3.3.4, trimmed to
// the fields SackBundler needs to construct one opportunistically.
type chunkSelectiveAck struct {
	chunkHeader

	cumulativeTSNAck               uint32
	advertisedReceiverWindowCredit uint32
	gapAckBlocks                   []byte // pre-encoded, opaque to this core
	duplicateTSNs                  []byte // pre-encoded, opaque to this core
}

func (s *chunkSelectiveAck) Type() ChunkType { return ctSack }

func (s *chunkSelectiveAck) valueLength() int {
	return 12 + len(s.gapAckBlocks) + len(s.duplicateTSNs)
}

func (s *chunkSelectiveAck) Marshal() ([]byte, error) {
	value := make([]byte, s.valueLength())
	binary.BigEndian.PutUint32(value[0:], s.cumulativeTSNAck)
	binary.BigEndian.PutUint32(value[4:], s.advertisedReceiverWindowCredit)
	binary.BigEndian.PutUint16(value[8:], uint16(len(s.gapAckBlocks)/4))  //nolint:gosec // G115
	binary.BigEndian.PutUint16(value[10:], uint16(len(s.duplicateTSNs)/4)) //nolint:gosec // G115
	copy(value[12:], s.gapAckBlocks)
	copy(value[12+len(s.gapAckBlocks):], s.duplicateTSNs)

	s.chunkHeader.typ = ctSack
	s.chunkHeader.raw = value

	return s.chunkHeader.marshal()
}

// chunkCookieEcho is the association-establishment chunk, RFC 4960
// section 3.3.2. Its body (the echoed state cookie) is opaque to this
// core; only its type matters for the "packets carrying COOKIE_ECHO are
// exempt from PMTU flush-and-retry" rule (spec section 4.1 / GLOSSARY).
type chunkCookieEcho struct {
	chunkHeader

	cookie []byte
}

func (c *chunkCookieEcho) Type() ChunkType { return ctCookieEcho }

func (c *chunkCookieEcho) valueLength() int { return len(c.cookie) }

func (c *chunkCookieEcho) Marshal() ([]byte, error) {
	c.chunkHeader.typ = ctCookieEcho
	c.chunkHeader.raw = c.cookie

	return c.chunkHeader.marshal()
}

// opaqueControlChunk wraps any pre-marshaled control chunk body (ABORT,
// SHUTDOWN, ERROR, ...) the outbound queue hands in fully formed. These
// chunk types carry no bundling rules of their own (spec section 4.1-4.3
// only single out DATA, SACK, COOKIE_ECHO and AUTH), so the packetizer
// treats an opaqueControlChunk purely as bytes to append and drain.
type opaqueControlChunk struct {
	typ   ChunkType
	value []byte
}

// newOpaqueControlChunk wraps a control chunk body the caller has already
// serialized (e.g. an ABORT cause list), for submission through
// Packetizer.TransmitChunk alongside DATA/SACK/AUTH.
func newOpaqueControlChunk(typ ChunkType, value []byte) *opaqueControlChunk {
	return &opaqueControlChunk{typ: typ, value: value}
}

func (o *opaqueControlChunk) Type() ChunkType { return o.typ }

func (o *opaqueControlChunk) valueLength() int { return len(o.value) }

func (o *opaqueControlChunk) Marshal() ([]byte, error) {
	h := chunkHeader{typ: o.typ, raw: o.value}

	return h.marshal()
}
