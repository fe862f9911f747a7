package identity

import (
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// Credential is what an entry surface receives from a caller: a public key
// and a DER signature over a request digest.
type Credential struct {
	PubKey    []byte // compressed public key (33 bytes)
	Signature []byte // DER-encoded ECDSA signature
}

// Sign produces a Credential for digest using priv.
func Sign(priv *ec.PrivateKey, digest []byte) (Credential, error) {
	sig, err := priv.Sign(digest)
	if err != nil {
		return Credential{}, err
	}
	return Credential{
		PubKey:    priv.PubKey().Compressed(),
		Signature: sig.Serialize(),
	}, nil
}

// Identity returns the identity the credential claims.
func (c Credential) Identity() (Identity, error) {
	pub, err := ec.PublicKeyFromBytes(c.PubKey)
	if err != nil {
		return Zero, err
	}
	return FromPublicKey(pub)
}

// Proves reports whether c carries a valid signature over digest made by the
// key behind expected. Any malformed input yields false.
func (c Credential) Proves(expected Identity, digest []byte) bool {
	pub, err := ec.PublicKeyFromBytes(c.PubKey)
	if err != nil {
		return false
	}
	id, err := FromPublicKey(pub)
	if err != nil || id != expected {
		return false
	}
	sig, err := ec.ParseDERSignature(c.Signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pub)
}
