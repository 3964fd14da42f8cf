// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "github.com/rs/xid"

// RouteCache is the narrow view of the shared route/dst lookup this core
// consults before emitting (spec section 5): a short, allocation-free
// read, refreshed by the caller's own route-update mechanism.
type RouteCache interface {
	// Stale reports whether the cached route needs refreshing.
	Stale() bool
	// Refresh re-resolves the route. May block briefly on
	// association-level locks the caller already holds (spec section 5).
	Refresh() error
	// MTU is the path MTU the cached route currently reports, used to
	// resynchronize Transport.PathMTU when PMTUD is enabled.
	MTU() uint32
	// ChecksumOffload reports whether the device backing this route
	// offers SCTP CRC32-C offload (spec section 9: "must expose a
	// pluggable predicate rather than hard-coding it").
	ChecksumOffload() bool
}

// Transport is the per-peer-address outbound state the packetizer reads
// congestion/PMTU information from and reports packets through. It is a
// non-owning back-reference: the transport outlives any Packet built
// against it (spec section 9 "Back-reference cycles").
type Transport struct {
	id xid.ID // log-correlation only, never serialized on the wire

	association *Association

	pathmtu      uint32
	gsoMaxSize   uint32 // device GSO cap; equals pathmtu when offload is unavailable
	gsoAvailable bool

	cwnd         uint32
	burstLimited uint32 // 0 means "not burst limited"
	flightSize   uint32

	rtoPending bool

	sackGeneration uint32

	dst        RouteCache
	pmtudOn    bool
	lastSentTo bool // true once this transport has carried an emitted packet; never cleared
}

// NewTransport constructs a Transport for one peer address. pathmtu and
// gsoMaxSize follow spec section 3: gsoMaxSize equals pathmtu when
// segmentation offload is unavailable.
func NewTransport(assoc *Association, pathmtu uint32, dst RouteCache) *Transport {
	t := &Transport{
		id:          xid.New(),
		association: assoc,
		pathmtu:     pathmtu,
		gsoMaxSize:  pathmtu,
		dst:         dst,
	}

	return t
}

// ID is a compact, sortable identifier for correlating this transport's
// trace lines in an interleaved multi-transport log stream.
func (t *Transport) ID() string { return t.id.String() }

// PathMTU returns the current path MTU for this transport.
func (t *Transport) PathMTU() uint32 { return t.pathmtu }

// SetPathMTU updates the path MTU, e.g. after a PMTUD resync.
func (t *Transport) SetPathMTU(v uint32) { t.pathmtu = v }

// MaxSize returns the segmentation-offload cap (or pathmtu, if offload is
// unavailable) a GSO super-packet must not exceed.
func (t *Transport) MaxSize() uint32 {
	if t.gsoAvailable {
		return t.gsoMaxSize
	}

	return t.pathmtu
}

// EnableGSO marks this transport as segmentation-offload capable with the
// given device cap.
func (t *Transport) EnableGSO(maxSize uint32) {
	t.gsoAvailable = true
	t.gsoMaxSize = maxSize
}

// GSOAvailable reports whether this transport can emit a GSO super-packet.
func (t *Transport) GSOAvailable() bool { return t.gsoAvailable }

// CWND returns the current congestion window.
func (t *Transport) CWND() uint32 { return t.cwnd }

// SetCWND sets the congestion window.
func (t *Transport) SetCWND(v uint32) { t.cwnd = v }

// BurstLimited returns the burst-limit cap, or 0 if not burst limited.
func (t *Transport) BurstLimited() uint32 { return t.burstLimited }

// SetBurstLimited sets the burst-limit cap.
func (t *Transport) SetBurstLimited(v uint32) { t.burstLimited = v }

// FlightSize returns bytes sent but not yet acknowledged on this transport.
func (t *Transport) FlightSize() uint32 { return t.flightSize }

// AddFlightSize mutates flight size on DATA admission (DataAccount).
func (t *Transport) AddFlightSize(d uint32) { t.flightSize += d }

// RTOPending reports whether an RTT sample is already in progress for
// this transport (spec section 4.8 step 6.c.i: one sample per RTT per
// destination).
func (t *Transport) RTOPending() bool { return t.rtoPending }

// SetRTOPending marks an RTT sample in progress.
func (t *Transport) SetRTOPending(v bool) { t.rtoPending = v }

// SackGeneration returns this transport's view of the peer's SACK
// generation, compared against Peer.SackGeneration by SackBundler.
func (t *Transport) SackGeneration() uint32 { return t.sackGeneration }

// SetSackGeneration sets this transport's SACK generation view.
func (t *Transport) SetSackGeneration(v uint32) { t.sackGeneration = v }

// RefreshRouteIfStale re-resolves the route cache and, if PMTUD is
// enabled, resynchronizes pathmtu from it (spec section 4.8 step 4).
func (t *Transport) RefreshRouteIfStale() error {
	if t.dst == nil {
		return nil
	}
	if t.dst.Stale() {
		if err := t.dst.Refresh(); err != nil {
			return err
		}
	}
	if t.pmtudOn {
		t.pathmtu = t.dst.MTU()
	}

	return nil
}

// ChecksumOffload reports whether the route's device offers SCTP CRC32-C
// offload, per the pluggable predicate spec section 9 requires.
func (t *Transport) ChecksumOffload() bool {
	return t.dst != nil && t.dst.ChecksumOffload()
}

// SetPMTUD enables or disables path-MTU-discovery resync on route
// refresh.
func (t *Transport) SetPMTUD(on bool) { t.pmtudOn = on }

// LastSentTo reports whether this transport has carried at least one
// emitted packet. The flag is per transport and is not cleared when
// another transport of the same association sends, so it does not
// identify which transport sent the association's most recent packet.
func (t *Transport) LastSentTo() bool { return t.lastSentTo }
