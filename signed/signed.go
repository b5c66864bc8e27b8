// Package signed contains
// (1) Ed25519 account verify keys and fixed length signatures, with the hex encodings they
// travel in;
// (2) functions for signing and verifying structs over the digest of their canonical CBOR
// encoding.
package signed

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/cbor"
)

// SignatureSize is the size in bytes of a signature; its hex form has twice as many characters.
const SignatureSize = ed25519.SignatureSize

// SchemeEd25519 is the only supported signature scheme identifier.
const SchemeEd25519 = "Ed25519"

var (
	ErrInvalidSignatureLength = errors.Errorf("signature must be %d bytes", SignatureSize)
	ErrInvalidSignature       = errors.New("ed25519 signature was invalid")
	ErrUnknownScheme          = errors.New("unsupported signature scheme")
	ErrMissingVerifyKey       = errors.New("account key has no verify key")
)

type (
	// VerifyKey is an Ed25519 verify key, hex encoded in JSON.
	VerifyKey struct {
		key ed25519.PublicKey
	}

	// AccountKey is an account verify key tagged with its scheme, as it appears in
	// credential key maps.
	AccountKey struct {
		SchemeID  string    `json:"schemeId"`
		VerifyKey VerifyKey `json:"verifyKey"`
	}

	// Signature is an Ed25519 signature, hex encoded in JSON.
	Signature [SignatureSize]byte
)

// GenerateKey returns a fresh key pair.
func GenerateKey() (VerifyKey, ed25519.PrivateKey, error) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return VerifyKey{}, nil, err
	}
	return VerifyKey{key: pk}, sk, nil
}

// Key (un)marshaling

func NewVerifyKey(bts []byte) (VerifyKey, error) {
	if len(bts) != ed25519.PublicKeySize {
		return VerifyKey{}, errors.Errorf("verify key must be %d bytes, got %d", ed25519.PublicKeySize, len(bts))
	}
	return VerifyKey{key: append(ed25519.PublicKey{}, bts...)}, nil
}

func (vk VerifyKey) Bytes() []byte {
	return append([]byte{}, vk.key...)
}

// IsZero reports whether vk holds no key.
func (vk VerifyKey) IsZero() bool {
	return len(vk.key) == 0
}

func (vk VerifyKey) String() string {
	return hex.EncodeToString(vk.key)
}

func (vk VerifyKey) MarshalBinary() ([]byte, error) {
	if len(vk.key) != ed25519.PublicKeySize {
		return nil, errors.New("empty verify key")
	}
	return vk.Bytes(), nil
}

func (vk *VerifyKey) UnmarshalBinary(bts []byte) error {
	k, err := NewVerifyKey(bts)
	if err != nil {
		return err
	}
	*vk = k
	return nil
}

func (vk VerifyKey) MarshalText() ([]byte, error) {
	return []byte(vk.String()), nil
}

func (vk *VerifyKey) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.WrapPrefix(err, "verify key is not valid hex", 0)
	}
	return vk.UnmarshalBinary(raw)
}

func NewAccountKey(vk VerifyKey) AccountKey {
	return AccountKey{SchemeID: SchemeEd25519, VerifyKey: vk}
}

// UnmarshalJSON rejects schemes other than Ed25519 and a missing verify key.
func (ak *AccountKey) UnmarshalJSON(bts []byte) error {
	type plain AccountKey
	var tmp plain
	if err := json.Unmarshal(bts, &tmp); err != nil {
		return err
	}
	if tmp.SchemeID != SchemeEd25519 {
		return errors.WrapPrefix(ErrUnknownScheme, tmp.SchemeID, 0)
	}
	if tmp.VerifyKey.IsZero() {
		return ErrMissingVerifyKey
	}
	*ak = AccountKey(tmp)
	return nil
}

// Signature decoding

// DecodeSignature parses the 128 character hex form of a signature.
func DecodeSignature(s string) (Signature, error) {
	var sig Signature
	raw, err := hex.DecodeString(s)
	if err != nil {
		return sig, errors.WrapPrefix(err, "signature is not valid hex", 0)
	}
	if len(raw) != SignatureSize {
		return sig, ErrInvalidSignatureLength
	}
	copy(sig[:], raw)
	return sig, nil
}

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signature) UnmarshalText(text []byte) error {
	sig, err := DecodeSignature(string(text))
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

func (s Signature) MarshalBinary() ([]byte, error) {
	return append([]byte{}, s[:]...), nil
}

func (s *Signature) UnmarshalBinary(bts []byte) error {
	if len(bts) != SignatureSize {
		return ErrInvalidSignatureLength
	}
	copy(s[:], bts)
	return nil
}

// Sign and verify bytes

func Sign(sk ed25519.PrivateKey, bts []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(sk, bts))
	return sig
}

func Verify(vk VerifyKey, bts []byte, sig Signature) error {
	if len(vk.key) != ed25519.PublicKeySize {
		return errors.New("empty verify key")
	}
	if !ed25519.Verify(vk.key, bts, sig[:]) {
		return ErrInvalidSignature
	}
	return nil
}

// sign and verify structs

// MessageDigest returns the SHA-256 digest of the canonical CBOR encoding of message. This is
// what SignMessage signs.
func MessageDigest(message interface{}) ([]byte, error) {
	digest, err := cbor.Digest(message)
	if err != nil {
		return nil, err
	}
	return digest[:], nil
}

// SignMessage signs the digest of message.
func SignMessage(sk ed25519.PrivateKey, message interface{}) (Signature, error) {
	digest, err := MessageDigest(message)
	if err != nil {
		return Signature{}, err
	}
	return Sign(sk, digest), nil
}

// VerifyMessage verifies a signature produced by SignMessage.
func VerifyMessage(vk VerifyKey, message interface{}, sig Signature) error {
	digest, err := MessageDigest(message)
	if err != nil {
		return err
	}
	return Verify(vk, digest, sig)
}
