// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

// Hooks collects the external collaborator callbacks this core invokes
// (spec section 6). The association/endpoint state machine, HMAC and
// CRC32-C primitives, TSN/SSN sequencing and the IP transmit primitive
// all live outside this package; Hooks is the seam.
//
// A zero-value Hooks is unusable: NewHooks fills in the stdlib-backed
// default for ComputeCRC32C, since no third-party CRC32-C implementation
// appears anywhere in this core's dependency pack (CalculateHMAC falls
// back to DefaultCalculateHMAC at call time when left nil, for the same
// reason). Every other field must be supplied by the caller because it
// requires association/transport-specific state this package does not
// own.
type Hooks struct {
	// MakeAuth constructs an AUTH chunk with a zeroed MAC for the given
	// association, or ok=false if the association has no AUTH key
	// configured.
	MakeAuth func(assoc *Association) (auth *chunkAuth, ok bool)

	// MakeSack constructs a current SACK chunk reflecting the
	// association's receive state, or ok=false if none is available.
	MakeSack func(assoc *Association) (sack *chunkSelectiveAck, ok bool)

	// CalculateHMAC patches the MAC field of the AUTH chunk whose own
	// header starts at authChunkStart within buf, per RFC 4895 section
	// 6.2 (hash covers the AUTH chunk, MAC zeroed, plus every chunk
	// after it -- nothing before it in the same sub-packet).
	CalculateHMAC func(assoc *Association, buf []byte, authChunkStart int) error

	// ComputeCRC32C computes the CRC32-C checksum of a fully assembled
	// packet with its checksum field treated as zero.
	ComputeCRC32C func(buf []byte) uint32

	// AssignTSN allocates the next TSN for a DATA chunk.
	AssignTSN func(c *chunkPayloadData) uint32

	// AssignSSN allocates the next per-stream SSN for a DATA chunk.
	AssignSSN func(c *chunkPayloadData) uint16

	// ECNCapable reports whether the outgoing datagram should be marked
	// ECT-capable for this transport's address family.
	ECNCapable func(tr *Transport) bool

	// Transmit hands a fully serialized datagram to the IP-level
	// transmit primitive. Its return value is not surfaced as a verdict
	// (spec section 7): transport failures are the path-management
	// subsystem's concern, not the packetizer's.
	Transmit func(dg *Datagram, tr *Transport) error
}

// NewHooks returns a Hooks with the stdlib-backed CRC32-C default
// pre-filled; CalculateHMAC is left nil (the Emitter then uses
// DefaultCalculateHMAC), and every association-aware field is left nil
// and must be set by the caller before use.
func NewHooks() *Hooks {
	return &Hooks{
		ComputeCRC32C: DefaultComputeCRC32C,
	}
}
