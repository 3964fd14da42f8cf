// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

// TransmitChunk is the outbound queue's one-shot entry point (spec
// section 4.6): append the chunk, and if the packet reports PMTU_FULL
// on a packet not carrying a COOKIE_ECHO, flush it and retry the append
// once against the now-empty packet. RWND_FULL and DELAY bubble straight
// up -- the queue is responsible for reacting.
func (pz *Packetizer) TransmitChunk(c chunk) Verdict {
	v := pz.AppendChunk(c)
	if v != PMTUFull || pz.packet.HasCookieEcho() {
		return v
	}

	if _, err := pz.Emit(); err != nil {
		return PMTUFull
	}

	if pz.onePacket {
		return v
	}

	return pz.AppendChunk(c)
}
