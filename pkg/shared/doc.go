// Package shared provides helpers used by the command line tools and
// examples: signer configuration loaded from environment variables or a
// .env file, and secret-key parsing.
//
// # Environment Variables
//
//   - NOSTR_SECRET_KEY (or NOSTR_PRIVATE_KEY, SECRET_KEY): hex secret key.
//   - NOSTR_CREATED_AT: optional unix timestamp used for new events.
//
// Variables already present in the environment are never overridden by the
// .env file.
package shared
