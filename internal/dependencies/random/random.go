// Package random is the source of session tokens and user IDs.
package random

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
)

// Random mints opaque strings and time-ordered IDs. Tests swap in a
// queue-backed implementation.
type Random interface {
	// String returns length characters drawn uniformly from alphabet
	String(length int, alphabet string) string

	// ULID returns a new ULID timestamped at t
	ULID(t time.Time) ulid.ULID
}

// CryptoRandom draws from crypto/rand.
type CryptoRandom struct {
	entropy io.Reader
}

func New() *CryptoRandom {
	return &CryptoRandom{entropy: rand.Reader}
}

// String uses rejection sampling over random bytes so every alphabet
// character is equally likely. Alphabets longer than 256 are truncated.
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	if len(alphabet) > 256 {
		alphabet = alphabet[:256]
	}
	limit := 256 - 256%len(alphabet)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(r.entropy, buf); err != nil {
			panic("random: entropy source failed: " + err.Error())
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}

func (r *CryptoRandom) ULID(t time.Time) ulid.ULID {
	return ulid.MustNew(ulid.Timestamp(t), r.entropy)
}
