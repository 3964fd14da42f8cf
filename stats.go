// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "github.com/prometheus/client_golang/prometheus"

// Stats collects the association-level counters spec section 4.8 step 9
// ("increment association out-packet counter") and section 7's error
// taxonomy ("association's out-no-routes stat is incremented") call for,
// exposed as Prometheus instruments the way go-tcpinfo registers its
// socket-sample gauges against a caller-supplied Registerer.
type Stats struct {
	PacketsSent   prometheus.Counter
	SACKsSent     prometheus.Counter
	OutNoRoutes   prometheus.Counter
	FastRetrans   prometheus.Counter
	GSOSegments   prometheus.Counter
}

// NewStats builds a Stats instance and, if reg is non-nil, registers its
// instruments against it. Passing a nil Registerer is valid: the counters
// still work, they are simply not exported anywhere.
func NewStats(reg prometheus.Registerer) *Stats {
	s := &Stats{
		PacketsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sctp_packetizer_packets_sent_total",
			Help: "Number of SCTP packets handed to the IP transmit primitive.",
		}),
		SACKsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sctp_packetizer_sacks_sent_total",
			Help: "Number of SACK chunks admitted into an outbound packet.",
		}),
		OutNoRoutes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sctp_packetizer_out_no_routes_total",
			Help: "Number of emit attempts abandoned for lack of a route.",
		}),
		FastRetrans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sctp_packetizer_fast_retransmits_total",
			Help: "Number of DATA chunks admitted under the fast-retransmit cwnd exception.",
		}),
		GSOSegments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sctp_packetizer_gso_segments_total",
			Help: "Number of PMTU-sized sub-packets emitted as part of a GSO super-packet.",
		}),
	}

	if reg != nil {
		reg.MustRegister(s.PacketsSent, s.SACKsSent, s.OutNoRoutes, s.FastRetrans, s.GSOSegments)
	}

	return s
}
