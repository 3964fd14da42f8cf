// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransmitChunkFlushesOnPMTUFullAndRetries is scenario 3: a packet
// already near PMTU is flushed and the new chunk lands in the next one.
func TestTransmitChunkFlushesOnPMTUFullAndRetries(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 1500, NagleEnabled: false})
	tr, _ := newTestTransport(assoc, 1500)
	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{}
	hooks := newTestHooks()

	var transmitted []*Datagram
	hooks.Transmit = func(dg *Datagram, _ *Transport) error {
		transmitted = append(transmitted, dg)

		return nil
	}

	pz := NewPacketizer(tr, peer, outQ, hooks, 1, 2, 1, 48)

	// fill the packet to 1480 bytes including overhead (48 + 1432).
	filler := newOpaqueControlChunk(ChunkType(6), make([]byte, 1432-chunkHeaderSize))
	require.Equal(t, OK, pz.Packet().appendRaw(filler, &sendContext{peer: peer, outQueue: outQ, hooks: hooks}))
	require.Equal(t, uint32(1480), pz.Packet().Size())

	next := newTestDataChunk(40 - dataChunkHeaderSize - chunkHeaderSize)
	v := pz.TransmitChunk(next)

	require.Equal(t, OK, v)
	require.Len(t, transmitted, 1)
	assert.True(t, pz.Packet().HasData())
	assert.Len(t, pz.Packet().Chunks(), 1)
}

// TestAuthBackPatchCoversAppendedChunks is scenario 5: the AUTH chunk's
// MAC, once back-patched, verifies against HMAC(AUTH-with-zeroed-MAC ||
// chunks placed after it).
func TestAuthBackPatchCoversAppendedChunks(t *testing.T) {
	key := []byte("correct horse battery staple")
	assoc := newTestAssociation(AssociationConfig{
		PathMTU: 1500, NagleEnabled: false, AuthKey: key, AuthHMACID: HMACIDSHA1,
	})
	tr, _ := newTestTransport(assoc, 1500)
	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{}
	hooks := newTestHooks()
	hooks.MakeAuth = func(*Association) (*chunkAuth, bool) {
		return newChunkAuth(7, HMACIDSHA1), true
	}

	var transmitted *Datagram
	hooks.Transmit = func(dg *Datagram, _ *Transport) error {
		transmitted = dg

		return nil
	}

	pz := NewPacketizer(tr, peer, outQ, hooks, 1, 2, 0xfeed, 48)

	first := newTestDataChunk(20)
	first.authRequired = true
	require.Equal(t, OK, pz.AppendChunk(first))

	second := newTestDataChunk(12)
	second.authRequired = true
	require.Equal(t, OK, pz.AppendChunk(second))

	_, err := pz.Emit()
	require.NoError(t, err)
	require.NotNil(t, transmitted)
	require.Len(t, transmitted.Segments, 1)

	buf := transmitted.Segments[0]

	// locate the AUTH chunk: header(12) then AUTH (AuthBundler runs before
	// SackBundler and inserts AUTH ahead of the first auth-requiring
	// chunk; the SACK timer is not armed here, so no SACK is bundled).
	offset := packetHeaderSize
	typ := ChunkType(buf[offset])
	require.Equal(t, ctAuth, typ)
	length := int(buf[offset+2])<<8 | int(buf[offset+3])
	macOffset := offset + chunkHeaderSize + 4

	zeroed := make([]byte, len(buf))
	copy(zeroed, buf)
	for i := 0; i < sha1Size; i++ {
		zeroed[macOffset+i] = 0
	}

	require.NoError(t, DefaultCalculateHMAC(key, HMACIDSHA1, zeroed, offset))
	assert.Equal(t, zeroed[macOffset:macOffset+sha1Size], buf[macOffset:macOffset+sha1Size])

	_ = length
}

// TestGSOSegmentCount covers the packing property: a batch exceeding PMTU
// but individually-fitting chunks produces ceil(total/pmtu) segments.
func TestGSOSegmentCount(t *testing.T) {
	assoc := newTestAssociation(AssociationConfig{PathMTU: 500, NagleEnabled: false})
	tr, _ := newTestTransport(assoc, 500)
	tr.EnableGSO(4096)
	peer := &Peer{rwnd: 1 << 20}
	outQ := &OutQueue{}
	hooks := newTestHooks()

	var transmitted *Datagram
	hooks.Transmit = func(dg *Datagram, _ *Transport) error {
		transmitted = dg

		return nil
	}

	pz := NewPacketizer(tr, peer, outQ, hooks, 1, 2, 1, 48)

	ctx := &sendContext{peer: peer, outQueue: outQ, hooks: hooks}
	chunkSize := 400
	count := 4
	for i := 0; i < count; i++ {
		c := newOpaqueControlChunk(ChunkType(6), make([]byte, chunkSize-chunkHeaderSize))
		require.Equal(t, OK, pz.Packet().appendRaw(c, ctx))
	}

	total := pz.Packet().Size()
	_, err := pz.Emit()
	require.NoError(t, err)
	require.NotNil(t, transmitted)

	wantSegments := int((total + 499) / 500)
	assert.Equal(t, wantSegments, len(transmitted.Segments))
}

const sha1Size = 20
