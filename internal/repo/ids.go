package repo

import (
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// idAlphabet is the character set for the random suffix.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// idSuffixLength is the number of random characters after the timestamp.
const idSuffixLength = 8

// newID returns a process-local unique id: millisecond timestamp plus a
// random suffix. Uniqueness is good enough for a single campus's volume; the
// store itself enforces nothing.
func newID(now time.Time) string {
	suffix, err := nanoid.Generate(idAlphabet, idSuffixLength)
	if err != nil {
		// crypto/rand failing is not a recoverable situation for a caller,
		// fall back to the nanosecond clock rather than aborting a write.
		suffix = fmt.Sprintf("%08x", now.UnixNano()&0xffffffff)
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}
