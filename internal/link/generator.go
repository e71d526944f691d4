package link

import (
	"strings"

	"github.com/google/uuid"
)

// New mints a fresh link identifier: a version-4 UUID from crypto/rand.
// Uniqueness is probabilistic; the identifier is never recorded here.
func New() string {
	return uuid.NewString()
}

// Valid reports whether s is a well-formed version-4 identifier in canonical
// textual form (fixed length, hyphenation, version nibble). uuid.Parse also
// accepts braced, urn and unhyphenated forms, so the length is checked first.
func Valid(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4
}
