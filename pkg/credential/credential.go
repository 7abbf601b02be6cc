// Package credential defines the fixed-width proximity credential identifier
// shared by the store, the controller, and the hardware abstraction layer.
package credential

import (
	"encoding/hex"
	"fmt"
)

// IDLen is the wire size of a credential identifier in bytes.
const IDLen = 4

// ID is an opaque 4-byte proximity credential identifier. Equality is exact
// byte-wise comparison; identifiers beginning with a zero byte are valid and
// match like any other.
type ID [IDLen]byte

// ParseID parses an 8-digit hex string into an ID.
func ParseID(s string) (ID, error) {
	var id ID
	if len(s) != IDLen*2 {
		return id, fmt.Errorf("credential must be %d hex digits, got %d", IDLen*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid credential %q: %w", s, err)
	}
	copy(id[:], b)
	return id, nil
}

// FromBytes builds an ID from a raw 4-byte slice.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != IDLen {
		return id, fmt.Errorf("credential must be %d bytes, got %d", IDLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// String returns the identifier as lowercase hex.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether every byte of the identifier is zero.
func (id ID) IsZero() bool {
	return id == ID{}
}
