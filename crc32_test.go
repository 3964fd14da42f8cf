// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package sctp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCRC32CRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	for i := range buf {
		buf[i] = byte(i)
	}
	// checksum field starts zeroed.
	buf[8], buf[9], buf[10], buf[11] = 0, 0, 0, 0

	sum := DefaultComputeCRC32C(buf)
	writeChecksum(buf, sum)

	// Recomputing over the same buffer with the checksum field re-zeroed
	// must reproduce the same sum a receiver would verify against.
	verify := make([]byte, len(buf))
	copy(verify, buf)
	verify[8], verify[9], verify[10], verify[11] = 0, 0, 0, 0
	assert.Equal(t, sum, DefaultComputeCRC32C(verify))
}

func TestComputeCRC32CChangesWithPayload(t *testing.T) {
	a := make([]byte, 16)
	b := make([]byte, 16)
	b[15] = 0xFF

	assert.NotEqual(t, DefaultComputeCRC32C(a), DefaultComputeCRC32C(b))
}
