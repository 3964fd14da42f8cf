// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "github.com/pion/logging"

// State mirrors the handful of association states this core branches on
// (spec section 4.2 Nagle rule, section 3). The full handshake/shutdown
// state machine is an external collaborator (spec section 1); this core
// only needs to tell ESTABLISHED apart from everything else.
type State uint32

// Association states this core distinguishes.
const (
	StateClosed State = iota
	StateCookieWait
	StateCookieEchoed
	StateEstablished
	StateShutdownPending
	StateShutdownSent
	StateShutdownReceived
	StateShutdownAckSent
)

// Association is the narrow view this core has of the association/
// endpoint state machine: path MTU fallback, capability flags, the
// SACK/AUTOCLOSE timer interactions AuthBundler/SackBundler/Emit trigger,
// and the handful of stats counters spec section 4.8 step 9 and section 7
// attribute to the association rather than the transport.
type Association struct {
	state         State
	pathmtu       uint32
	prsctpCapable bool

	sackTimerPending bool
	nagleEnabled     bool

	authKey []byte
	authHMACID HMACID

	autocloseArmed bool

	stats *Stats

	log logging.LeveledLogger
}

// AssociationConfig collects Association construction arguments, the same
// way the teacher's Config struct does for its Association.
type AssociationConfig struct {
	PathMTU       uint32
	PRSCTPEnabled bool
	NagleEnabled  bool
	AuthKey       []byte
	AuthHMACID    HMACID
	LoggerFactory logging.LoggerFactory
	Stats         *Stats
}

// NewAssociation constructs the narrow Association view this packetizer
// core consumes.
func NewAssociation(cfg AssociationConfig) *Association {
	factory := cfg.LoggerFactory
	if factory == nil {
		factory = logging.NewDefaultLoggerFactory()
	}
	stats := cfg.Stats
	if stats == nil {
		stats = NewStats(nil)
	}

	return &Association{
		state:         StateEstablished,
		pathmtu:       cfg.PathMTU,
		prsctpCapable: cfg.PRSCTPEnabled,
		nagleEnabled:  cfg.NagleEnabled,
		authKey:       cfg.AuthKey,
		authHMACID:    cfg.AuthHMACID,
		stats:         stats,
		log:           factory.NewLogger("sctp"),
	}
}

// State returns the association's current state.
func (a *Association) State() State { return a.state }

// SetState sets the association's state.
func (a *Association) SetState(s State) { a.state = s }

// PathMTU is the fallback path MTU used when no per-transport value
// applies (WillFit: "pmtu = asoc.pathmtu when associated else
// transport.pathmtu").
func (a *Association) PathMTU() uint32 { return a.pathmtu }

// PRSCTPCapable reports whether the partial-reliability extension was
// negotiated (spec section 4.7).
func (a *Association) PRSCTPCapable() bool { return a.prsctpCapable }

// NagleEnabled reports whether Nagle-style coalescing is enabled for this
// association (spec section 4.2).
func (a *Association) NagleEnabled() bool { return a.nagleEnabled }

// SackTimerPending reports whether a SACK is due once current conditions
// allow bundling it (spec section 4.3).
func (a *Association) SackTimerPending() bool { return a.sackTimerPending }

// ArmSackTimer marks a SACK as due.
func (a *Association) ArmSackTimer() { a.sackTimerPending = true }

// CancelSackTimer clears the pending-SACK flag, called by SackBundler
// after successfully bundling one (spec section 4.3).
func (a *Association) CancelSackTimer() { a.sackTimerPending = false }

// AuthKey and AuthHMACID return the shared-key material MakeAuth/
// CalculateHMAC need; nil/zero means AUTH is not configured.
func (a *Association) AuthKey() []byte   { return a.authKey }
func (a *Association) AuthHMACID() HMACID { return a.authHMACID }

// RestartAutocloseTimer restarts the idle-autoclose timer, called after
// any DATA goes out (spec section 4.8 step 10).
func (a *Association) RestartAutocloseTimer() {
	a.autocloseArmed = true
}

// AutocloseArmed reports whether the autoclose timer is currently armed.
func (a *Association) AutocloseArmed() bool { return a.autocloseArmed }

// Log exposes the association's leveled logger to collaborating code in
// this package (Packet, Emitter) the way the teacher threads a.log
// through every method.
func (a *Association) Log() logging.LeveledLogger { return a.log }

// Stats returns the association's stats sink.
func (a *Association) Stats() *Stats { return a.stats }
