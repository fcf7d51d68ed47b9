// Package crypto provides the ed25519 identities of pool owners. An owner
// is referred to by the address derived from its public key.
package crypto

import (
	"encoding/hex"
	"encoding/json"
	"io"

	msig "github.com/bhau7233/MSig"
	"github.com/bhau7233/MSig/errors"
	"golang.org/x/crypto/ed25519"
)

// addressPrefix namespaces public key derived addresses so that they never
// collide with an address derived from other data.
const addressPrefix = "ed25519/"

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// Address returns the owner address controlled by this key.
func (p *PublicKey) Address() msig.Address {
	return msig.NewAddress(append([]byte(addressPrefix), p.Ed25519...))
}

// Verify returns true if sig is a valid signature of message made with the
// private counterpart of this key.
func (p *PublicKey) Verify(message, sig []byte) bool {
	if len(p.Ed25519) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

// GenPrivateKey returns a new private key read from given source of
// randomness. When rand is nil, crypto/rand is used.
func GenPrivateKey(rand io.Reader) (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &PrivateKey{Ed25519: priv}, nil
}

// PrivateKeyFromSeed deterministically creates a private key from a 32 byte
// seed. Use it for tests or when an external source of randomness is
// available.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the public counterpart of this key.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// Sign returns the signature of given message.
func (p *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
}

// Address is a shortcut for PublicKey().Address().
func (p *PrivateKey) Address() msig.Address {
	return p.PublicKey().Address()
}

// MarshalJSON serializes the key as a hex string.
func (p *PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Ed25519))
}

// UnmarshalJSON loads a key serialized by MarshalJSON.
func (p *PrivateKey) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	b, err := hex.DecodeString(enc)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "private key hex")
	}
	if len(b) != ed25519.PrivateKeySize {
		return errors.Wrapf(errors.ErrInput, "private key must be %d bytes", ed25519.PrivateKeySize)
	}
	p.Ed25519 = b
	return nil
}
