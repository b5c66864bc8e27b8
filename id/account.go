package id

import (
	"bytes"
	"crypto/sha256"

	"github.com/go-errors/errors"
	"github.com/mr-tron/base58"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/signed"
)

// AccountAddressVersion is the version byte prepended to an address before base58check encoding.
const AccountAddressVersion = 1

type (
	KeyIndex uint8

	// SignatureThreshold is the number of account keys that must sign a transaction.
	SignatureThreshold uint8

	// CredentialPublicKeys are the keys that control an account, with their threshold.
	CredentialPublicKeys struct {
		Keys      map[KeyIndex]signed.AccountKey `json:"keys"`
		Threshold SignatureThreshold             `json:"threshold"`
	}

	// InitialAccountData are the keys of the initial account the identity provider creates
	// along with the identity.
	InitialAccountData = CredentialPublicKeys

	// InitialAccountDataWithSignature is InitialAccountData signed by key 0, proving the
	// account holder controls it.
	InitialAccountDataWithSignature struct {
		InitialAccountData
		Signature signed.Signature
	}

	// AccountAddress is the SHA-256 hash of the registration id of an account's first
	// credential. Its text form is base58check with AccountAddressVersion.
	AccountAddress [32]byte
)

// NewCredentialPublicKeys numbers the keys from 0 in the given order.
func NewCredentialPublicKeys(keys []signed.AccountKey, threshold SignatureThreshold) CredentialPublicKeys {
	m := make(map[KeyIndex]signed.AccountKey, len(keys))
	for i, k := range keys {
		m[KeyIndex(i)] = k
	}
	return CredentialPublicKeys{Keys: m, Threshold: threshold}
}

// Validate checks that every key is set and 1 <= threshold <= number of keys.
func (c *CredentialPublicKeys) Validate() error {
	if len(c.Keys) == 0 {
		return errors.New("account has no keys")
	}
	if len(c.Keys) > 255 {
		return errors.Errorf("account has %d keys, at most 255 allowed", len(c.Keys))
	}
	for i, k := range c.Keys {
		if k.VerifyKey.IsZero() {
			return errors.Errorf("account key %d has no verify key", i)
		}
	}
	if c.Threshold < 1 || int(c.Threshold) > len(c.Keys) {
		return errors.Errorf("signature threshold %d out of range for %d keys", c.Threshold, len(c.Keys))
	}
	return nil
}

// NewAccountAddress derives the address of the account whose first credential has registration id credID.
func NewAccountAddress(credID curve.Point) AccountAddress {
	b := credID.Bytes()
	return sha256.Sum256(b[:])
}

func checksum(b []byte) []byte {
	h := sha256.Sum256(b)
	h = sha256.Sum256(h[:])
	return h[:4]
}

func (a AccountAddress) String() string {
	payload := append([]byte{AccountAddressVersion}, a[:]...)
	return base58.Encode(append(payload, checksum(payload)...))
}

func (a AccountAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountAddress) UnmarshalText(text []byte) error {
	raw, err := base58.Decode(string(text))
	if err != nil {
		return errors.WrapPrefix(err, "address is not valid base58", 0)
	}
	if len(raw) != 1+len(a)+4 {
		return errors.Errorf("address has %d bytes, expected %d", len(raw), 1+len(a)+4)
	}
	payload, sum := raw[:1+len(a)], raw[1+len(a):]
	if !bytes.Equal(checksum(payload), sum) {
		return errors.New("address checksum mismatch")
	}
	if payload[0] != AccountAddressVersion {
		return errors.Errorf("unsupported address version %d", payload[0])
	}
	copy(a[:], payload[1:])
	return nil
}

func (a AccountAddress) MarshalBinary() ([]byte, error) {
	return append([]byte{}, a[:]...), nil
}

func (a *AccountAddress) UnmarshalBinary(b []byte) error {
	if len(b) != len(a) {
		return errors.Errorf("address must be %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return nil
}
