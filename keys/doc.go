// Package keys provides the key-pair collaborator of the signing chain.
//
// API stability:
//
// Stable:
//   - Key-pair generation and PEM serialization (Generate, KeyPair, DescribePrivate).
//
// Experimental:
//   - Filesystem-backed key storage (KeyStore and related functions).
//     These are local-first utilities and may change in MINOR releases.
//
// The chain signer consumes the private PEM blob as raw bytes; nothing in this
// module parses key structure on the signing path.
package keys
