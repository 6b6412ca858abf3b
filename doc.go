// Package nostrutils is the Go implementation of the CKB nostr utilities:
// validation of NIP-01 events as used by the CKB nostr lock and mint
// contracts. It parses x-only public keys, computes event ids, verifies
// BIP-340 signatures and decodes event JSON strictly, reporting every failure
// through a single closed error taxonomy.
//
// # Packages
//
//   - pkg/nostr: keys, signatures, event ids, events, strict JSON codec and
//     the Error / ErrorKind taxonomy.
//   - pkg/shared: signer configuration from environment variables and .env files.
//
// # Command line
//
// cmd/nostrutil signs and verifies events from the shell:
//
//	NOSTR_SECRET_KEY=<hex> nostrutil sign --content "gm" | nostrutil verify
//
// # Installation
//
//	go get github.com/ckb-nostr/nostr-utils-go@latest
package nostrutils
