package idwallet

import (
	"fmt"
	"math"

	"github.com/ccdid/idwallet/id"
)

// MissingFieldError is returned when a required document field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %q not present, but should be", e.Field)
}

// MalformedFieldError is returned when a document field is present but does not parse.
type MalformedFieldError struct {
	Field string
	Err   error
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("field %q is malformed: %v", e.Field, e.Err)
}

func (e *MalformedFieldError) Unwrap() error { return e.Err }

// KeyDerivationError is returned when a secret cannot be derived from the seed of Field.
type KeyDerivationError struct {
	Field string
	Err   error
}

func (e *KeyDerivationError) Error() string {
	return fmt.Sprintf("could not derive %s: %v", e.Field, e.Err)
}

func (e *KeyDerivationError) Unwrap() error { return e.Err }

// ContextError is returned when the issuance context cannot be assembled.
type ContextError struct {
	Reason string
}

func (e *ContextError) Error() string {
	return "invalid issuance context: " + e.Reason
}

// ThresholdError is returned for a revocation threshold outside [1, Revokers], or above 255.
type ThresholdError struct {
	Threshold int
	Revokers  int
}

func (e *ThresholdError) Error() string {
	upper := e.Revokers
	if upper > math.MaxUint8 {
		upper = math.MaxUint8
	}
	return fmt.Sprintf("revocation threshold %d not in [1, %d]", e.Threshold, upper)
}

// PreIdentityBuildError is returned when the pre-identity object cannot be constructed.
type PreIdentityBuildError struct {
	Err error
}

func (e *PreIdentityBuildError) Error() string {
	return "could not build pre-identity object: " + e.Err.Error()
}

func (e *PreIdentityBuildError) Unwrap() error { return e.Err }

// DuplicateAttributeError is returned when a tag is revealed more than once.
type DuplicateAttributeError struct {
	Tag id.AttributeTag
}

func (e *DuplicateAttributeError) Error() string {
	return "attribute revealed more than once: " + e.Tag.String()
}

// UnknownAttributeError is returned when a revealed tag is not in the attribute list.
type UnknownAttributeError struct {
	Tag id.AttributeTag
}

func (e *UnknownAttributeError) Error() string {
	return "attribute not in the identity's attribute list: " + e.Tag.String()
}

// CredentialBuildError is returned when the unsigned credential cannot be constructed.
type CredentialBuildError struct {
	Err error
}

func (e *CredentialBuildError) Error() string {
	return "could not build credential: " + e.Err.Error()
}

func (e *CredentialBuildError) Unwrap() error { return e.Err }

// SignatureDecodeError is returned for a signature that is not 128 hex characters.
type SignatureDecodeError struct {
	Err error
}

func (e *SignatureDecodeError) Error() string {
	return "could not decode signature: " + e.Err.Error()
}

func (e *SignatureDecodeError) Unwrap() error { return e.Err }

// AmountOutOfRangeError is returned when ciphertext Index of a batch decrypts to a value
// outside the range of the discrete logarithm table.
type AmountOutOfRangeError struct {
	Index int
}

func (e *AmountOutOfRangeError) Error() string {
	return fmt.Sprintf("encrypted amount %d is out of range", e.Index)
}
