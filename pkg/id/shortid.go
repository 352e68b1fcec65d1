// Package id generates compact identifiers for queue jobs and request
// correlation.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// crockfordBase32 is Douglas Crockford's base32 alphabet: no I, L, O or U,
// so identifiers stay unambiguous when read aloud or retyped.
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewShortID generates a 16-character identifier: 6 characters of
// millisecond timestamp followed by 10 random characters. URL-safe and
// lexicographically sortable by creation time.
func NewShortID() string {
	ms := uint64(time.Now().UnixMilli())

	randomBytes := make([]byte, 6)
	if _, err := rand.Read(randomBytes); err != nil {
		// Degraded but functional: fall back to time-based entropy.
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
		copy(randomBytes, buf[2:])
	}

	var shortID [16]byte

	// Lower 30 bits of the millisecond clock give ~34 years of unique,
	// ordered prefixes.
	ts := ms & 0x3FFFFFFF
	shortID[0] = crockfordBase32[(ts>>25)&0x1F]
	shortID[1] = crockfordBase32[(ts>>20)&0x1F]
	shortID[2] = crockfordBase32[(ts>>15)&0x1F]
	shortID[3] = crockfordBase32[(ts>>10)&0x1F]
	shortID[4] = crockfordBase32[(ts>>5)&0x1F]
	shortID[5] = crockfordBase32[ts&0x1F]

	// Pack 48 random bits into 10 base32 characters.
	shortID[6] = crockfordBase32[(randomBytes[0]>>3)&0x1F]
	shortID[7] = crockfordBase32[((randomBytes[0]&0x07)<<2)|((randomBytes[1]>>6)&0x03)]
	shortID[8] = crockfordBase32[(randomBytes[1]>>1)&0x1F]
	shortID[9] = crockfordBase32[((randomBytes[1]&0x01)<<4)|((randomBytes[2]>>4)&0x0F)]
	shortID[10] = crockfordBase32[((randomBytes[2]&0x0F)<<1)|((randomBytes[3]>>7)&0x01)]
	shortID[11] = crockfordBase32[(randomBytes[3]>>2)&0x1F]
	shortID[12] = crockfordBase32[((randomBytes[3]&0x03)<<3)|((randomBytes[4]>>5)&0x07)]
	shortID[13] = crockfordBase32[randomBytes[4]&0x1F]
	shortID[14] = crockfordBase32[(randomBytes[5]>>3)&0x1F]
	shortID[15] = crockfordBase32[(randomBytes[5]&0x07)<<2]

	return string(shortID[:])
}
