// Package cbor provides the canonical byte encoding used for block items and signed
// messages, by wrapping functions provided by github.com/fxamacker/cbor.
//
//  1. CBOR is encoded using Core Deterministic Encoding defined in RFC 8949, so that
//     equal values always produce equal bytes and hashes over them are well defined.
//  2. The decoder rejects duplicate map keys, indefinite lengths and trailing bytes,
//     so that every accepted byte string has exactly one decoding.
//  3. Group elements and scalars are encoded as byte strings through their
//     encoding.BinaryMarshaler implementations.
//
// For more info, see:
//   - https://github.com/fxamacker/cbor
//   - https://tools.ietf.org/html/rfc8949
package cbor

import (
	"crypto/sha256"

	"github.com/fxamacker/cbor/v2" // imports as cbor
	"github.com/go-errors/errors"
)

const MaxArrayElements = 1024 * 16
const MaxMapPairs = 1024 * 16

var (
	encOptions = cbor.EncOptions{
		// Core Deterministic Encoding, https://datatracker.ietf.org/doc/html/rfc8949#section-4.2.1
		IndefLength:   cbor.IndefLengthForbidden,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,
		NilContainers: cbor.NilContainerAsEmpty,

		// Block items carry no tags
		TagsMd: cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength: cbor.IndefLengthForbidden,

		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,

		TagsMd: cbor.TagsForbidden,

		// A canonical encoding has no room for fields the decoder does not know about
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src into its canonical CBOR byte string.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes canonical CBOR in data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}

// Digest returns the SHA-256 hash of the canonical encoding of src.
func Digest(src interface{}) ([32]byte, error) {
	bts, err := Marshal(src)
	if err != nil {
		return [32]byte{}, errors.WrapPrefix(err, "failed to encode value for hashing", 0)
	}
	return sha256.Sum256(bts), nil
}
