// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const chunkHeaderSize = 4

// ChunkType is an enum for the SCTP Chunk Type field (RFC 4960 section 3.2).
type ChunkType uint8

// Known chunk types. Only the handful the packetizer itself reasons about
// by type carry names here; the rest are passed through opaquely by the
// outbound queue.
const (
	ctPayloadData ChunkType = 0
	ctInit        ChunkType = 1
	ctInitAck     ChunkType = 2
	ctSack        ChunkType = 3
	ctCookieEcho  ChunkType = 10
	ctCookieAck   ChunkType = 11
	ctAuth        ChunkType = 15
)

func (c ChunkType) String() string {
	switch c {
	case ctPayloadData:
		return "DATA"
	case ctInit:
		return "INIT"
	case ctInitAck:
		return "INIT ACK"
	case ctSack:
		return "SACK"
	case ctCookieEcho:
		return "COOKIE ECHO"
	case ctCookieAck:
		return "COOKIE ACK"
	case ctAuth:
		return "AUTH"
	default:
		return fmt.Sprintf("Unknown ChunkType: %d", uint8(c))
	}
}

// ErrParseChunkNotEnoughData is returned when the raw buffer is shorter
// than the chunk header declares.
var ErrParseChunkNotEnoughData = errors.New("unable to parse SCTP chunk, not enough data for complete header")

// chunkHeader is the common 4-byte framing every chunk carries.
type chunkHeader struct {
	typ   ChunkType
	flags byte
	raw   []byte // the chunk value, excluding the header and any padding
}

func (c *chunkHeader) unmarshal(raw []byte) error {
	if len(raw) < chunkHeaderSize {
		return fmt.Errorf("%w: have %d want %d", ErrParseChunkNotEnoughData, len(raw), chunkHeaderSize)
	}
	c.typ = ChunkType(raw[0])
	c.flags = raw[1]
	length := int(binary.BigEndian.Uint16(raw[2:]))
	valueLength := length - chunkHeaderSize
	if valueLength < 0 || chunkHeaderSize+valueLength > len(raw) {
		return fmt.Errorf("%w: declared length %d exceeds buffer", ErrParseChunkNotEnoughData, length)
	}
	c.raw = raw[chunkHeaderSize : chunkHeaderSize+valueLength]

	return nil
}

func (c *chunkHeader) marshal() ([]byte, error) {
	raw := make([]byte, chunkHeaderSize+len(c.raw))
	raw[0] = uint8(c.typ)
	raw[1] = c.flags
	binary.BigEndian.PutUint16(raw[2:], uint16(chunkHeaderSize+len(c.raw))) //nolint:gosec // G115
	copy(raw[chunkHeaderSize:], c.raw)

	return raw, nil
}

func (c *chunkHeader) valueLength() int {
	return len(c.raw)
}

// chunk is the narrow interface this package needs from any SCTP chunk.
// Construction of concrete chunk bodies (DATA/SACK/AUTH payloads) is the
// job of the outbound queue / association; this package only needs to
// measure, append, drain and (for DATA/AUTH) annotate them.
type chunk interface {
	// Type reports the chunk's wire type.
	Type() ChunkType
	// Marshal renders the chunk (header + value, unpadded) to wire bytes.
	Marshal() ([]byte, error)
	// valueLength is the unpadded length of the chunk value, for sizing.
	valueLength() int
}

// rawLength is the unpadded on-wire length of a chunk: header plus value.
func rawLength(c chunk) int {
	return chunkHeaderSize + c.valueLength()
}

// getPadding returns how many zero bytes are needed to round length up to
// the next multiple of 4.
func getPadding(length int) int {
	if r := length % 4; r != 0 {
		return 4 - r
	}

	return 0
}

// paddedLength is ⌈raw_len(c)/4⌉·4, the invariant spec §3 defines packet
// size in terms of.
func paddedLength(c chunk) int {
	l := rawLength(c)

	return l + getPadding(l)
}
