// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"encoding/binary"
	"hash/crc32"
)

// castagnoliTable is the CRC32-C polynomial table used for the SCTP
// common-header checksum, RFC 4960 section 6.8 (Appendix B).
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli) //nolint:gochecknoglobals

// fourZeroes stands in for the checksum field while it is computed, so we
// never need to allocate a scratch copy of the packet.
var fourZeroes [4]byte //nolint:gochecknoglobals

// DefaultComputeCRC32C implements the Hooks.ComputeCRC32C collaborator:
// CRC32-C over buf with the 4-byte checksum field at offset 8 treated as
// zero. golang's CRC32C uses reflected input/output, so the result must
// be written back with binary.LittleEndian to land in spec-compliant
// byte order.
func DefaultComputeCRC32C(buf []byte) uint32 {
	sum := crc32.Update(0, castagnoliTable, buf[0:8])
	sum = crc32.Update(sum, castagnoliTable, fourZeroes[:])
	sum = crc32.Update(sum, castagnoliTable, buf[12:])

	return sum
}

// writeChecksum patches buf's checksum field (bytes 8:12) with sum,
// honoring the reflected-CRC byte order DefaultComputeCRC32C relies on.
func writeChecksum(buf []byte, sum uint32) {
	binary.LittleEndian.PutUint32(buf[8:], sum)
}
