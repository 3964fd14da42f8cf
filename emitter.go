// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"encoding/binary"
	"fmt"
)

const packetHeaderSize = 12 // source port(2) + destination port(2) + vtag(4) + checksum(4)

// Datagram is what the Emitter hands to Hooks.Transmit: either a single
// self-contained SCTP packet (len(Segments) == 1) or, for a GSO burst, an
// ordered vector of PMTU-sized sub-packets that together form one
// logical super-packet (spec section 9: "a primary buffer plus a vector
// of tail segments").
type Datagram struct {
	Segments [][]byte
	IPFragOK bool

	// ChecksumOffload reports that every segment's checksum field (bytes
	// 8:12, immediately after the vtag) was left zeroed for the NIC/IP
	// primitive to fill in, per spec section 4.8 step 7; when false the
	// CRC32-C was already computed and patched in.
	ChecksumOffload bool
	ECNCapable      bool
}

// Emit is the Emitter (spec section 4.8): it converts the packet's chunk
// list into one or more wire buffers, building the SCTP common header,
// segmenting into a GSO super-packet when the packet exceeds PMTU and
// offload is available, computing or deferring the checksum, back-
// patching any AUTH chunk's HMAC, and handing the result to
// Hooks.Transmit. Regardless of outcome, the packet is reset before
// returning (spec section 4.8 "Reset").
func (pz *Packetizer) Emit() (*Datagram, error) {
	p := pz.packet

	// Zero-chunk emit silently succeeds with no side effect.
	if len(p.chunkList) == 0 {
		return nil, nil
	}

	assoc := p.transport.association

	if err := p.transport.RefreshRouteIfStale(); err != nil {
		if assoc != nil && assoc.stats != nil {
			assoc.stats.OutNoRoutes.Inc()
		}
		pz.discard()

		return nil, fmt.Errorf("%w: %w", ErrNoRoute, err)
	}

	pmtu := p.pathMTU()
	useGSO := p.size > pmtu && !p.ipfragok

	if useGSO && !p.transport.GSOAvailable() {
		if assoc != nil {
			assoc.Log().Warnf("[%s] packet of %d bytes exceeds PMTU %d and GSO is unavailable", p.transport.ID(), p.size, pmtu)
		}
		pz.discard()

		return nil, ErrGSOUnsupported
	}

	segments, dataWentOut, err := pz.buildSegments(useGSO, pmtu)
	if err != nil {
		pz.discard()

		return nil, err
	}

	if assoc != nil && assoc.stats != nil {
		assoc.stats.PacketsSent.Inc()
		if len(segments) > 1 {
			assoc.stats.GSOSegments.Add(float64(len(segments)))
		}
	}
	p.transport.lastSentTo = true
	if dataWentOut && assoc != nil {
		assoc.RestartAutocloseTimer()
	}

	dg := &Datagram{
		Segments:        segments,
		IPFragOK:        p.ipfragok,
		ChecksumOffload: p.transport.ChecksumOffload(),
	}
	if pz.hooks.ECNCapable != nil {
		dg.ECNCapable = pz.hooks.ECNCapable(p.transport)
	}

	pz.discard()

	if pz.hooks.Transmit != nil {
		// Downstream transmit errors are not attributed to the
		// association (spec section 7): log and move on.
		if err := pz.hooks.Transmit(dg, p.transport); err != nil && assoc != nil {
			assoc.Log().Warnf("[%s] ip transmit failed: %s", p.transport.ID(), err)
		}
	}

	return dg, nil
}

// discard implements the "Reset" step common to every Emit exit path:
// drop our reference to the chunk list (control chunks are thereby
// released; DATA chunks remain owned by the retransmission queue that
// handed them in) and restore the packet to empty.
func (pz *Packetizer) discard() {
	pz.packet.reset()
}

// buildSegments runs the sub-packet loop (spec section 4.8 step 6).
func (pz *Packetizer) buildSegments(useGSO bool, pmtu uint32) (segments [][]byte, dataWentOut bool, err error) {
	p := pz.packet
	remaining := append([]chunk(nil), p.chunkList...)

	var authChunk *chunkAuth
	if p.auth != nil {
		authChunk = p.auth
	}

	for len(remaining) > 0 {
		segChunks, rest, perr := pickSegmentChunks(remaining, authChunk, pmtu, p.overhead, useGSO)
		if perr != nil {
			return nil, false, perr
		}

		buf, authChunkStart, hadData, berr := pz.buildSegment(segChunks, p)
		if berr != nil {
			return nil, false, berr
		}
		if hadData {
			dataWentOut = true
		}

		if authChunk != nil && authChunkStart >= 0 {
			if err := pz.calculateHMAC(p.transport.association, buf, authChunkStart); err != nil {
				return nil, false, err
			}
		}

		if !p.transport.ChecksumOffload() {
			sum := pz.hooks.ComputeCRC32C(buf)
			writeChecksum(buf, sum)
		}

		segments = append(segments, buf)
		remaining = rest

		if !useGSO {
			break
		}

		// Re-insert AUTH at the head of the list for the next
		// sub-packet: its MAC covers only the chunks that follow it
		// *within that sub-packet* (spec section 4.8 step 6.e).
		if len(remaining) > 0 && authChunk != nil {
			remaining = append([]chunk{authChunk}, remaining...)
		}
	}

	return segments, dataWentOut, nil
}

// calculateHMAC patches the AUTH chunk's MAC field given authChunkStart,
// the offset of the AUTH chunk's own header within buf (not the MAC
// field itself): RFC 4895 section 6.2 hashes the AUTH chunk (MAC
// zeroed) plus every chunk after it, never the SCTP common header or
// any chunk preceding AUTH in the same sub-packet.
func (pz *Packetizer) calculateHMAC(assoc *Association, buf []byte, authChunkStart int) error {
	if pz.hooks.CalculateHMAC != nil {
		return pz.hooks.CalculateHMAC(assoc, buf, authChunkStart)
	}
	if assoc == nil {
		return fmt.Errorf("%w: no association to source the AUTH key from", ErrAuthHMACFailed)
	}

	return DefaultCalculateHMAC(assoc.AuthKey(), assoc.AuthHMACID(), buf, authChunkStart)
}

// pickSegmentChunks selects the next run of chunks to place in one
// sub-packet (spec section 4.8 step 6.a). When useGSO is false, every
// remaining chunk goes into the single segment.
//
// Simplification: when an AUTH chunk is in use, this core assumes it
// sits at the head of the (remaining) list for every sub-packet -- true
// for the first sub-packet whenever AuthBundler ran before any other
// chunk was appended (the common and tested path), and true for every
// later sub-packet because buildSegments re-inserts it at the head.
func pickSegmentChunks(remaining []chunk, authChunk *chunkAuth, pmtu, overhead uint32, useGSO bool) (segChunks, rest []chunk, err error) {
	if !useGSO {
		return remaining, nil, nil
	}

	idx := 0
	authLen := 0
	if authChunk != nil {
		authLen = paddedLength(authChunk)
		if len(remaining) > 0 {
			if ac, ok := remaining[0].(*chunkAuth); ok && ac == authChunk {
				segChunks = append(segChunks, remaining[0])
				idx = 1
			}
		}
	}

	used := 0
	for idx < len(remaining) {
		c := remaining[idx]
		l := paddedLength(c)
		if used+l+int(overhead)+authLen > int(pmtu) {
			if used == 0 {
				return nil, nil, ErrEmptySubPacket
			}

			break
		}
		segChunks = append(segChunks, c)
		used += l
		idx++
	}

	if len(segChunks) == 0 {
		return nil, nil, ErrEmptySubPacket
	}

	return segChunks, remaining[idx:], nil
}

// buildSegment serializes one sub-packet: the SCTP common header
// followed by each chunk, zero-padded to a 4-byte boundary. authChunkStart
// is the byte offset of the AUTH chunk's own header within buf, or -1 if
// this sub-packet carries none.
func (pz *Packetizer) buildSegment(chunks []chunk, p *Packet) (buf []byte, authChunkStart int, hadData bool, err error) {
	buf = make([]byte, packetHeaderSize)
	binary.BigEndian.PutUint16(buf[0:], p.sourcePort)
	binary.BigEndian.PutUint16(buf[2:], p.destinationPort)
	binary.BigEndian.PutUint32(buf[4:], p.vtag)

	authChunkStart = -1

	for _, c := range chunks {
		if dc, ok := c.(*chunkPayloadData); ok {
			hadData = true
			if !dc.resent && !p.transport.RTOPending() {
				dc.rttInProgress = true
				p.transport.SetRTOPending(true)
			}
		}

		chunkStart := len(buf)

		raw, merr := c.Marshal()
		if merr != nil {
			return nil, -1, false, fmt.Errorf("%w: %w", ErrAllocFailed, merr)
		}
		buf = append(buf, raw...)

		if pad := getPadding(len(raw)); pad > 0 {
			buf = append(buf, make([]byte, pad)...)
		}

		if _, ok := c.(*chunkAuth); ok {
			authChunkStart = chunkStart
		}
	}

	return buf, authChunkStart, hadData, nil
}
