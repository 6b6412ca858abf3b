package nostr

import "encoding/hex"

// decodeFixedHex decodes exactly size bytes of lowercase hex. Whitespace,
// uppercase digits, prefixes and other lengths are rejected.
func decodeFixedHex(value string, size int) ([]byte, bool) {
	if len(value) != 2*size {
		return nil, false
	}
	for index := 0; index < len(value); index++ {
		character := value[index]
		if (character < '0' || character > '9') && (character < 'a' || character > 'f') {
			return nil, false
		}
	}
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, false
	}
	return raw, true
}
