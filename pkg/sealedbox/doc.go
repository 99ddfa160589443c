// Package sealedbox encrypts values for GitHub Actions secrets.
//
// GitHub expects secret values sealed with libsodium's crypto_box_seal
// against the repository or environment public key. The sealed output is
// the ephemeral public key followed by the XSalsa20-Poly1305 box, and the
// API accepts it base64 encoded in the encrypted_value field.
package sealedbox
