package nostr

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"github.com/minio/sha256-simd"
)

// EventIDSize is the length of an event id in bytes.
const EventIDSize = sha256.Size

// EventID is the sha256 digest of an event's NIP-01 serialization.
type EventID [EventIDSize]byte

// ParseEventID copies a 32-byte event id.
func ParseEventID(raw []byte) (EventID, error) {
	if len(raw) != EventIDSize {
		return EventID{}, ErrInvalidEventID
	}
	var id EventID
	copy(id[:], raw)
	return id, nil
}

// EventIDFromHex decodes the 64 lowercase hex characters NIP-01 uses for ids.
func EventIDFromHex(value string) (EventID, error) {
	raw, ok := decodeFixedHex(value, EventIDSize)
	if !ok {
		return EventID{}, ErrInvalidEventID
	}
	return ParseEventID(raw)
}

// Hex returns the lowercase hex encoding.
func (id EventID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements fmt.Stringer.
func (id EventID) String() string {
	return id.Hex()
}

// MarshalJSON encodes the id as a hex string.
func (id EventID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.Hex() + `"`), nil
}

// ComputeEventID hashes [0,pubkey,created_at,kind,tags,content].
func ComputeEventID(publicKey PublicKey, createdAt int64, kind uint16, tags Tags, content string) EventID {
	return EventID(sha256.Sum256(serializeForID(publicKey, createdAt, kind, tags, content)))
}

func serializeForID(publicKey PublicKey, createdAt int64, kind uint16, tags Tags, content string) []byte {
	buf := make([]byte, 0, 128+len(content))
	buf = append(buf, `[0,"`...)
	buf = append(buf, publicKey.Hex()...)
	buf = append(buf, `",`...)
	buf = strconv.AppendInt(buf, createdAt, 10)
	buf = append(buf, ',')
	buf = strconv.AppendUint(buf, uint64(kind), 10)
	buf = append(buf, ',')
	buf = appendTags(buf, tags)
	buf = append(buf, ',')
	buf = appendJSONString(buf, content)
	buf = append(buf, ']')
	return buf
}

func appendTags(buf []byte, tags Tags) []byte {
	buf = append(buf, '[')
	for tagIndex, tag := range tags {
		if tagIndex > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for valueIndex, value := range tag {
			if valueIndex > 0 {
				buf = append(buf, ',')
			}
			buf = appendJSONString(buf, value)
		}
		buf = append(buf, ']')
	}
	return append(buf, ']')
}

const lowerHex = "0123456789abcdef"

// appendJSONString escapes the way NIP-01 requires: no HTML escaping and no
// escaping of U+2028/U+2029, unlike encoding/json and json-iterator.
func appendJSONString(buf []byte, value string) []byte {
	buf = append(buf, '"')
	for index := 0; index < len(value); {
		character := value[index]
		if character >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(value[index:])
			if r == utf8.RuneError && size == 1 {
				buf = append(buf, "�"...)
			} else {
				buf = append(buf, value[index:index+size]...)
			}
			index += size
			continue
		}
		switch character {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			if character < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', lowerHex[character>>4], lowerHex[character&0xf])
			} else {
				buf = append(buf, character)
			}
		}
		index++
	}
	return append(buf, '"')
}
