// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // RFC 4895 mandates HMAC-SHA1 as the default
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// HMACID identifies the keyed-hash algorithm an AUTH chunk's MAC was
// computed with, RFC 4895 section 3.2.
type HMACID uint16

// HMAC identifiers defined by RFC 4895 section 6.1.
const (
	HMACIDSHA1   HMACID = 1
	HMACIDSHA256 HMACID = 3
)

// macSize sizes the MAC buffer for newChunkAuth. An unrecognized id falls
// back to the SHA1 size rather than erroring here -- DefaultCalculateHMAC
// is what rejects an unsupported HMACID, not this accessor.
func (h HMACID) macSize() int {
	switch h {
	case HMACIDSHA256:
		return sha256.Size
	case HMACIDSHA1:
		return sha1.Size
	default:
		return sha1.Size
	}
}

// ErrUnsupportedHMACID is returned by DefaultCalculateHMAC for an HMACID
// other than SHA1/SHA256.
var ErrUnsupportedHMACID = fmt.Errorf("unsupported HMAC identifier")

// chunkAuth is the AUTH chunk, RFC 4895 section 3.1: a shared-key MAC
// over itself (with the MAC field zeroed) and every chunk that follows
// it in the same packet.
type chunkAuth struct {
	chunkHeader

	sharedKeyID uint16
	hmacID      HMACID
	mac         []byte // zeroed until Emit back-patches it
}

func newChunkAuth(sharedKeyID uint16, hmacID HMACID) *chunkAuth {
	return &chunkAuth{
		sharedKeyID: sharedKeyID,
		hmacID:      hmacID,
		mac:         make([]byte, hmacID.macSize()),
	}
}

func (a *chunkAuth) Type() ChunkType { return ctAuth }

func (a *chunkAuth) valueLength() int {
	return 4 + len(a.mac)
}

func (a *chunkAuth) Marshal() ([]byte, error) {
	value := make([]byte, a.valueLength())
	binary.BigEndian.PutUint16(value[0:], a.sharedKeyID)
	binary.BigEndian.PutUint16(value[2:], uint16(a.hmacID))
	copy(value[4:], a.mac)

	a.chunkHeader.typ = ctAuth
	a.chunkHeader.raw = value

	return a.chunkHeader.marshal()
}

// DefaultCalculateHMAC implements the Hooks.CalculateHMAC collaborator per
// SCTP-AUTH (RFC 4895) section 6.2: the input is the AUTH chunk itself
// (header included, MAC field zeroed) followed by every chunk placed
// after it in the sub-packet -- never the SCTP common header or any
// chunk preceding AUTH. authChunkStart is the offset of the AUTH chunk's
// own header within buf; the computed digest is patched into buf in
// place at the chunk's MAC field.
func DefaultCalculateHMAC(key []byte, hmacID HMACID, buf []byte, authChunkStart int) error {
	var mac hmacFunc

	switch hmacID {
	case HMACIDSHA1:
		mac = hmac.New(sha1.New, key) //nolint:gosec // RFC 4895 default
	case HMACIDSHA256:
		mac = hmac.New(sha256.New, key)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedHMACID, hmacID)
	}

	macSize := hmacID.macSize()
	macOffset := authChunkStart + chunkHeaderSize + 4
	if authChunkStart < 0 || macOffset+macSize > len(buf) {
		return fmt.Errorf("%w: auth chunk at %d, mac size %d exceeds buffer of %d", ErrAuthHMACFailed, authChunkStart, macSize, len(buf))
	}

	zeroed := make([]byte, len(buf)-authChunkStart)
	copy(zeroed, buf[authChunkStart:])
	relOffset := macOffset - authChunkStart
	for i := 0; i < macSize; i++ {
		zeroed[relOffset+i] = 0
	}

	if _, err := mac.Write(zeroed); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthHMACFailed, err)
	}

	digest := mac.Sum(nil)
	copy(buf[macOffset:macOffset+macSize], digest)

	return nil
}

// hmacFunc is the narrow surface of hash.Hash DefaultCalculateHMAC needs.
type hmacFunc interface {
	Write(p []byte) (int, error)
	Sum(b []byte) []byte
}
