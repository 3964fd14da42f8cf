// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import "errors"

// Packetizer errors.
var (
	ErrChunkTooLarge         = errors.New("chunk padded length exceeds path MTU minus overhead")
	ErrAuthChunkAppendFailed = errors.New("failed to append bundled AUTH chunk")
	ErrGSOUnsupported        = errors.New("packet exceeds PMTU and segmentation offload is unavailable")
	ErrNoRoute               = errors.New("no route to transport")
	ErrAllocFailed           = errors.New("failed to allocate emit buffer")
	ErrAuthHMACFailed        = errors.New("failed to compute AUTH chunk HMAC")
	ErrChecksumFailed        = errors.New("failed to compute packet checksum")
	ErrEmptySubPacket        = errors.New("AUTH chunk plus one data chunk does not fit in PMTU")
)
