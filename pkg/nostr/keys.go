package nostr

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Key sizes in bytes.
const (
	PublicKeySize = 32
	SecretKeySize = 32
)

// PublicKey is a BIP-340 x-only secp256k1 public key.
type PublicKey struct {
	key *btcec.PublicKey
}

// ParsePublicKey decodes a 32-byte x-only public key.
func ParsePublicKey(raw []byte) (PublicKey, error) {
	if len(raw) != PublicKeySize {
		return PublicKey{}, ErrInvalidPublicKey
	}
	key, err := schnorr.ParsePubKey(raw)
	if err != nil {
		return PublicKey{}, ErrInvalidPublicKey
	}
	return PublicKey{key: key}, nil
}

// PublicKeyFromHex decodes a hex encoded x-only public key.
// Only the 64 lowercase hex characters of NIP-01 are accepted.
func PublicKeyFromHex(value string) (PublicKey, error) {
	raw, ok := decodeFixedHex(value, PublicKeySize)
	if !ok {
		return PublicKey{}, ErrInvalidPublicKey
	}
	return ParsePublicKey(raw)
}

// IsZero reports whether the key was never set.
func (p PublicKey) IsZero() bool {
	return p.key == nil
}

// Bytes returns the 32-byte x-only encoding, all zero for an unset key.
func (p PublicKey) Bytes() []byte {
	if p.key == nil {
		return make([]byte, PublicKeySize)
	}
	return schnorr.SerializePubKey(p.key)
}

// Hex returns the lowercase hex encoding.
func (p PublicKey) Hex() string {
	return hex.EncodeToString(p.Bytes())
}

// String implements fmt.Stringer.
func (p PublicKey) String() string {
	return p.Hex()
}

// Equal reports whether both keys encode the same point.
func (p PublicKey) Equal(other PublicKey) bool {
	if p.key == nil || other.key == nil {
		return p.key == other.key
	}
	return p.Hex() == other.Hex()
}

// MarshalJSON encodes the key as a hex string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.Hex() + `"`), nil
}

// Keys holds a secp256k1 secret key used to sign events.
type Keys struct {
	secret *btcec.PrivateKey
	public PublicKey
}

// GenerateKeys creates a fresh random key pair.
func GenerateKeys() (Keys, error) {
	secret, err := btcec.NewPrivateKey()
	if err != nil {
		return Keys{}, err
	}
	return keysFromPrivateKey(secret)
}

// KeysFromSecretBytes builds a key pair from a 32-byte secret scalar.
func KeysFromSecretBytes(raw []byte) (Keys, error) {
	if len(raw) != SecretKeySize {
		return Keys{}, ErrInvalidSecretKey
	}
	secret, _ := btcec.PrivKeyFromBytes(raw)
	if secret.Key.IsZero() {
		return Keys{}, ErrInvalidSecretKey
	}
	return keysFromPrivateKey(secret)
}

// KeysFromSecretHex builds a key pair from a hex encoded secret key.
func KeysFromSecretHex(value string) (Keys, error) {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return Keys{}, ErrInvalidSecretKey
	}
	return KeysFromSecretBytes(raw)
}

func keysFromPrivateKey(secret *btcec.PrivateKey) (Keys, error) {
	public, err := ParsePublicKey(schnorr.SerializePubKey(secret.PubKey()))
	if err != nil {
		return Keys{}, err
	}
	return Keys{secret: secret, public: public}, nil
}

// PublicKey returns the x-only public key of the pair.
func (k Keys) PublicKey() PublicKey {
	return k.public
}

// SecretHex returns the secret key as hex.
func (k Keys) SecretHex() string {
	if k.secret == nil {
		return ""
	}
	return hex.EncodeToString(k.secret.Serialize())
}

// Sign produces a BIP-340 signature over a 32-byte digest.
func (k Keys) Sign(digest EventID) (Signature, error) {
	if k.secret == nil {
		return Signature{}, ErrInvalidSecretKey
	}
	signature, err := schnorr.Sign(k.secret, digest[:])
	if err != nil {
		return Signature{}, err
	}
	var out Signature
	copy(out[:], signature.Serialize())
	return out, nil
}
