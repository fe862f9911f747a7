package identity

import "errors"

var (
	// ErrInvalidIdentity indicates an identity string or byte slice is malformed.
	ErrInvalidIdentity = errors.New("identity: invalid identity")

	// ErrNilPublicKey indicates a required public key is nil.
	ErrNilPublicKey = errors.New("identity: public key is nil")
)
