package mocks

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nelson/you-are-the-hero/internal/dependencies/random"
)

// MockRandom hands out queued tokens and sequential ULIDs
type MockRandom struct {
	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	// ulidSeq makes generated ULIDs unique and ordered
	ulidSeq uint64
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// String returns the next queued result, or a string of the first
// alphabet character if none remain
func (r *MockRandom) String(length int, alphabet string) string {
	if r.stringIndex >= len(r.StringResults) {
		if alphabet == "" {
			return ""
		}
		b := make([]byte, length)
		for i := range b {
			b[i] = alphabet[0]
		}
		return string(b)
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// ULID returns a deterministic ULID: the timestamp of t followed by a counter
func (r *MockRandom) ULID(t time.Time) ulid.ULID {
	r.ulidSeq++
	var id ulid.ULID
	_ = id.SetTime(ulid.Timestamp(t))
	entropy := make([]byte, 10)
	for i := 0; i < 8; i++ {
		entropy[9-i] = byte(r.ulidSeq >> (8 * i))
	}
	_ = id.SetEntropy(entropy)
	return id
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.StringResults = append(r.StringResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.StringResults = nil
	r.stringIndex = 0
	r.ulidSeq = 0
}
