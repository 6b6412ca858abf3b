package nostr

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// SignatureSize is the length of a BIP-340 signature in bytes.
const SignatureSize = schnorr.SignatureSize

// Signature is a 64-byte BIP-340 Schnorr signature.
type Signature [SignatureSize]byte

// ParseSignature checks the structural encoding of a signature: its length and
// that r and s are in range. No verification happens here.
func ParseSignature(raw []byte) (Signature, error) {
	if len(raw) != SignatureSize {
		return Signature{}, ErrInvalidSignatureFormat
	}
	if _, err := schnorr.ParseSignature(raw); err != nil {
		return Signature{}, ErrInvalidSignatureFormat
	}
	var out Signature
	copy(out[:], raw)
	return out, nil
}

// SignatureFromHex decodes the 128 lowercase hex characters NIP-01 uses for signatures.
func SignatureFromHex(value string) (Signature, error) {
	raw, ok := decodeFixedHex(value, SignatureSize)
	if !ok {
		return Signature{}, ErrInvalidSignatureFormat
	}
	return ParseSignature(raw)
}

// Hex returns the lowercase hex encoding.
func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}

// String implements fmt.Stringer.
func (s Signature) String() string {
	return s.Hex()
}

// MarshalJSON encodes the signature as a hex string.
func (s Signature) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.Hex() + `"`), nil
}

// VerifySignature checks signature against a 32-byte digest and public key.
// A malformed signature yields ErrInvalidSignatureFormat before any curve
// arithmetic; a well-formed one that does not verify yields ErrValidationFail.
func VerifySignature(publicKey PublicKey, digest EventID, signature []byte) error {
	if publicKey.IsZero() {
		return ErrInvalidPublicKey
	}
	if len(signature) != SignatureSize {
		return ErrInvalidSignatureFormat
	}
	parsed, err := schnorr.ParseSignature(signature)
	if err != nil {
		return ErrInvalidSignatureFormat
	}
	if !parsed.Verify(digest[:], publicKey.key) {
		return ErrValidationFail
	}
	return nil
}

// Verify is VerifySignature for an already parsed signature.
func (s Signature) Verify(publicKey PublicKey, digest EventID) error {
	return VerifySignature(publicKey, digest, s[:])
}
