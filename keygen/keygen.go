// Package keygen derives long-lived secret scalars from textual seeds, following the KeyGen
// procedure of the BLS signature draft (HKDF-SHA256 with the "BLS-SIG-KEYGEN-SALT-" salt,
// 48 bytes of output keying material reduced modulo the group order).
package keygen

import (
	"crypto/sha256"
	"io"
	"unicode/utf8"

	"github.com/go-errors/errors"
	"golang.org/x/crypto/hkdf"

	"github.com/ccdid/idwallet/curve"
)

const (
	salt = "BLS-SIG-KEYGEN-SALT-"

	// okmLength is ceil((3 * ceil(log2(r))) / 16) for the BLS12-381 group order r.
	okmLength = 48
)

var ErrInvalidUTF8 = errors.New("seed is not valid UTF-8")

// DeriveSecret deterministically derives a nonzero scalar from seed. Any valid UTF-8 seed is
// accepted, the empty one included. keyInfo separates derivations that must not share keys;
// the wallet uses an empty keyInfo, so that the same seed always yields the same identity
// credential secret or PRF key.
func DeriveSecret(seed string, keyInfo []byte) (curve.Scalar, error) {
	if !utf8.ValidString(seed) {
		return curve.Scalar{}, ErrInvalidUTF8
	}

	ikm := append([]byte(seed), 0)
	info := append(append([]byte{}, keyInfo...), 0, okmLength)

	s := sha256.Sum256([]byte(salt))
	currentSalt := s[:]
	for {
		okm := make([]byte, okmLength)
		if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, currentSalt, info), okm); err != nil {
			return curve.Scalar{}, errors.WrapPrefix(err, "hkdf expansion failed", 0)
		}
		sk := curve.ScalarFromBytesWide(okm)
		if !sk.IsZero() {
			return sk, nil
		}
		next := sha256.Sum256(currentSalt)
		currentSalt = next[:]
	}
}
