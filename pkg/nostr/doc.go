// Package nostr implements the key, signature, event-id and event JSON
// handling used to validate NIP-01 events, together with the error taxonomy
// every one of those operations reports through.
//
// # Errors
//
// All validation failures are values of type Error, classified by ErrorKind:
//
//   - KindInvalidPublicKey: a public key is not a valid 32-byte x-only key.
//   - KindInvalidEventID: an event id is malformed or does not match the event.
//   - KindValidationFail: a well-formed signature did not verify.
//   - KindInvalidSignatureFormat: a signature is malformed; nothing was verified.
//   - KindUnknownKey: a JSON object carried a field the target does not know.
//   - KindJSON: any other JSON failure, with the codec's diagnostic text.
//
// Error values are comparable, so callers can test them with == or errors.Is:
//
//	if err := event.Verify(); errors.Is(err, nostr.ErrValidationFail) {
//		// reject
//	}
//
// # CKB nostr-lock
//
// NewUnlockEvent builds the kind 23334 event that commits to a transaction's
// sighash_all. PubkeyScriptArgs and PowScriptArgs build the lock script args,
// and LockArgs.Unlock checks an unlock event against them.
//
// # Protocol
//
// NIP-01: https://github.com/nostr-protocol/nips/blob/master/01.md
//
// BIP-340: https://github.com/bitcoin/bips/blob/master/bip-0340.mediawiki
//
// NIP-13: https://github.com/nostr-protocol/nips/blob/master/13.md
package nostr
