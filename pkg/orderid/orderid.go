// Package orderid generates display order numbers: a date prefix for easy
// eyeballing on receipts plus a random suffix. Uniqueness is not guaranteed
// by construction; callers insert under a unique index and retry on
// collision (see MaxAttempts).
package orderid

import (
	"crypto/rand"
	"time"
)

const (
	// suffix alphabet omits 0/O and 1/I to keep receipts unambiguous
	alphabet  = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	suffixLen = 6

	// MaxAttempts is how many times callers should retry generation when an
	// insert collides with an existing order number.
	MaxAttempts = 5
)

// New returns an order number like "20260830-K7P2QM".
func New(now time.Time) string {
	buf := make([]byte, suffixLen)
	// rand.Read never returns an error on supported platforms
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return now.Format("20060102") + "-" + string(buf)
}
