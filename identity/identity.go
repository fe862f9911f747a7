// Package identity defines the caller identities used by the custody engine
// and the single authorisation predicate the engine relies on: "does this
// credential prove the expected identity".
//
// An Identity is HASH160(compressed public key), the same 20-byte form used for
// P2PKH addresses.
package identity

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// Size is the byte length of an Identity.
const Size = 20

// Identity identifies a seller, contributor, operator or fee destination.
type Identity [Size]byte

// Zero is the unset identity.
var Zero Identity

// FromPublicKey derives the identity of a secp256k1 public key.
func FromPublicKey(pub *ec.PublicKey) (Identity, error) {
	if pub == nil {
		return Zero, ErrNilPublicKey
	}
	var id Identity
	copy(id[:], pub.Hash())
	return id, nil
}

// FromBytes copies a 20-byte slice into an Identity.
func FromBytes(b []byte) (Identity, error) {
	if len(b) != Size {
		return Zero, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, Size, len(b))
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

// Parse decodes a hex-encoded identity.
func Parse(s string) (Identity, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	return FromBytes(b)
}

// String returns the hex encoding of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool {
	return id == Zero
}
