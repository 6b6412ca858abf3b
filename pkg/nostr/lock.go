package nostr

import (
	"bytes"
	"encoding/hex"
	"errors"
	"hash"
	"math/bits"

	"github.com/minio/blake2b-simd"
)

// KindUnlock is the event kind signed to unlock a CKB nostr-lock cell.
const KindUnlock uint16 = 23334

// UnlockContent is the fixed content of every unlock event.
const UnlockContent = "Signing a CKB transaction\n\nIMPORTANT: Please verify the integrity and authenticity of connected Nostr client before signing this message\n"

// TagCKBSighashAll names the tag carrying the transaction sighash_all digest.
const TagCKBSighashAll = "ckb_sighash_all"

const (
	// PubkeyHashSize is the length of the pubkey hash stored in lock args.
	PubkeyHashSize = 20
	// LockArgsSize is one pow byte followed by the pubkey hash.
	LockArgsSize = 1 + PubkeyHashSize
	// MaxPow is the largest difficulty lock args can encode.
	MaxPow = 255
)

const ckbHashPersonalization = "ckb-default-hash"

// Lock failures are not serialization or signature failures, so they live
// outside the ErrorKind taxonomy.
var (
	ErrNotUnlockEvent     = errors.New("not a CKB unlock event")
	ErrMissingSighashAll  = errors.New("missing ckb_sighash_all tag")
	ErrInvalidSighashAll  = errors.New("invalid ckb_sighash_all tag")
	ErrPowOutOfRange      = errors.New("max pow value is 255")
	ErrInsufficientPow    = errors.New("event id does not meet the required difficulty")
	ErrInvalidLockArgs    = errors.New("invalid nostr lock args")
	ErrPubkeyHashMismatch = errors.New("event author does not match lock args")
)

// SighashAll is the 32-byte CKB transaction digest an unlock event commits to.
type SighashAll [32]byte

// Hex returns the digest as lowercase hex without a 0x prefix.
func (s SighashAll) Hex() string {
	return hex.EncodeToString(s[:])
}

func newCKBHasher() hash.Hash {
	hasher, err := blake2b.New(&blake2b.Config{Size: 32, Person: []byte(ckbHashPersonalization)})
	if err != nil {
		panic("nostr: invalid ckb hasher config: " + err.Error())
	}
	return hasher
}

// CKBHash is blake2b-256 personalised with "ckb-default-hash".
func CKBHash(data ...[]byte) [32]byte {
	hasher := newCKBHasher()
	for _, chunk := range data {
		hasher.Write(chunk)
	}
	var out [32]byte
	copy(out[:], hasher.Sum(nil))
	return out
}

// NewUnlockEvent builds the unsigned event that authorises a transaction
// with the given sighash_all. A zero createdAt uses the current time.
func NewUnlockEvent(publicKey PublicKey, sighashAll SighashAll, createdAt int64) UnsignedEvent {
	unsigned := NewTextNote(publicKey, UnlockContent, Tags{{TagCKBSighashAll, sighashAll.Hex()}}, createdAt)
	unsigned.Kind = KindUnlock
	return unsigned
}

// DummyUnlockEvent has the exact JSON length of a signed unlock event, with
// zero id, pubkey, signature and sighash. It sizes the witness placeholder
// before the real digest is known.
func DummyUnlockEvent(createdAt int64) Event {
	unsigned := NewUnlockEvent(PublicKey{}, SighashAll{}, createdAt)
	return Event{
		CreatedAt: unsigned.CreatedAt,
		Kind:      unsigned.Kind,
		Tags:      unsigned.Tags,
		Content:   unsigned.Content,
	}
}

// SighashAll returns the digest committed to by the event's ckb_sighash_all tag.
func (e Event) SighashAll() (SighashAll, error) {
	tag, found := e.Tags.Find(TagCKBSighashAll)
	if !found || len(tag) < 2 {
		return SighashAll{}, ErrMissingSighashAll
	}
	raw, ok := decodeFixedHex(tag[1], len(SighashAll{}))
	if !ok {
		return SighashAll{}, ErrInvalidSighashAll
	}
	var out SighashAll
	copy(out[:], raw)
	return out, nil
}

// ValidateUnlockEvent checks the unlock event shape, then the id and signature.
// It returns the committed sighash_all.
func ValidateUnlockEvent(event Event) (SighashAll, error) {
	if event.Kind != KindUnlock || event.Content != UnlockContent {
		return SighashAll{}, ErrNotUnlockEvent
	}
	sighashAll, err := event.SighashAll()
	if err != nil {
		return SighashAll{}, err
	}
	if err := event.Verify(); err != nil {
		return SighashAll{}, err
	}
	return sighashAll, nil
}

// PubkeyHash is the first 20 bytes of the CKB hash of the x-only public key.
func PubkeyHash(publicKey PublicKey) [PubkeyHashSize]byte {
	digest := CKBHash(publicKey.Bytes())
	var out [PubkeyHashSize]byte
	copy(out[:], digest[:PubkeyHashSize])
	return out
}

// PubkeyScriptArgs builds lock args that only the owner of publicKey can unlock.
func PubkeyScriptArgs(publicKey PublicKey) []byte {
	pubkeyHash := PubkeyHash(publicKey)
	args := make([]byte, 0, LockArgsSize)
	args = append(args, 0)
	return append(args, pubkeyHash[:]...)
}

// PowScriptArgs builds lock args unlocked by any event whose id has at least
// pow leading zero bits.
func PowScriptArgs(pow int) ([]byte, error) {
	if pow < 0 || pow > MaxPow {
		return nil, ErrPowOutOfRange
	}
	args := make([]byte, LockArgsSize)
	args[0] = byte(pow)
	return args, nil
}

// LockArgs is the decoded form of nostr-lock script args.
type LockArgs struct {
	Pow        uint8
	PubkeyHash [PubkeyHashSize]byte
}

// ParseLockArgs decodes 21 bytes of lock args.
func ParseLockArgs(raw []byte) (LockArgs, error) {
	if len(raw) != LockArgsSize {
		return LockArgs{}, ErrInvalidLockArgs
	}
	var args LockArgs
	args.Pow = raw[0]
	copy(args.PubkeyHash[:], raw[1:])
	return args, nil
}

// Bytes encodes the args back to their 21-byte form.
func (a LockArgs) Bytes() []byte {
	out := make([]byte, 0, LockArgsSize)
	out = append(out, a.Pow)
	return append(out, a.PubkeyHash[:]...)
}

// HasPubkeyHash reports whether the args pin an owner. Pow-only args carry a
// zero hash.
func (a LockArgs) HasPubkeyHash() bool {
	return a.PubkeyHash != [PubkeyHashSize]byte{}
}

// Unlock validates event against the args: a valid unlock event, enough
// difficulty when Pow is set and a matching author when a hash is set.
func (a LockArgs) Unlock(event Event) (SighashAll, error) {
	sighashAll, err := ValidateUnlockEvent(event)
	if err != nil {
		return SighashAll{}, err
	}
	if err := CheckDifficulty(event.ID, int(a.Pow)); err != nil {
		return SighashAll{}, err
	}
	if a.HasPubkeyHash() {
		owner := PubkeyHash(event.PubKey)
		if !bytes.Equal(owner[:], a.PubkeyHash[:]) {
			return SighashAll{}, ErrPubkeyHashMismatch
		}
	}
	return sighashAll, nil
}

// Difficulty counts the leading zero bits of the id (NIP-13).
func (id EventID) Difficulty() int {
	count := 0
	for _, b := range id {
		if b == 0 {
			count += 8
			continue
		}
		return count + bits.LeadingZeros8(b)
	}
	return count
}

// CheckDifficulty returns ErrInsufficientPow when id has fewer than target
// leading zero bits.
func CheckDifficulty(id EventID, target int) error {
	if id.Difficulty() < target {
		return ErrInsufficientPow
	}
	return nil
}
