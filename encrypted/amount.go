// Package encrypted contains account amounts encrypted in the exponent under an account's
// ElGamal key. An amount is split into a low and a high 32-bit chunk that are encrypted
// separately, so decryption only ever solves discrete logarithms below 2^32.
package encrypted

import (
	"encoding/hex"
	"strconv"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
)

// TableSize is the number of baby steps of the decryption table; it covers chunks below
// TableSize^2 = 2^32.
const TableSize = 1 << 16

// Size is the size in bytes of an encoded EncryptedAmount.
const Size = 2 * elgamal.CipherSize

// Amount is an amount of micro units. It is a decimal string in JSON.
type Amount uint64

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return errors.WrapPrefix(err, "amount is not a decimal uint64", 0)
	}
	*a = Amount(v)
	return nil
}

// EncryptedAmount holds the encryptions of the low and high 32 bits of an amount.
type EncryptedAmount struct {
	Low  elgamal.Cipher
	High elgamal.Cipher
}

// NewTable builds the decryption table over the encryption-in-exponent generator h.
func NewTable(h curve.Point) *elgamal.BabyStepGiantStep {
	return elgamal.NewBabyStepGiantStep(h, TableSize)
}

// EncryptAmount encrypts amount in the exponent of h under pk.
func EncryptAmount(h curve.Point, pk elgamal.PublicKey, amount Amount) (EncryptedAmount, error) {
	low, _, err := pk.EncryptExponent(h, curve.NewScalar(uint64(amount)&0xffffffff))
	if err != nil {
		return EncryptedAmount{}, err
	}
	high, _, err := pk.EncryptExponent(h, curve.NewScalar(uint64(amount)>>32))
	if err != nil {
		return EncryptedAmount{}, err
	}
	return EncryptedAmount{Low: low, High: high}, nil
}

// DecryptAmount recovers the amount with the secret key, where table is built over the same
// generator the amount was encrypted with. A chunk outside the table's range yields
// elgamal.ErrOutOfRange.
func DecryptAmount(table *elgamal.BabyStepGiantStep, sk elgamal.SecretKey, ea EncryptedAmount) (Amount, error) {
	low, err := sk.DecryptExponent(table, ea.Low)
	if err != nil {
		return 0, err
	}
	high, err := sk.DecryptExponent(table, ea.High)
	if err != nil {
		return 0, err
	}
	if low>>32 != 0 || high>>32 != 0 {
		return 0, elgamal.ErrOutOfRange
	}
	return Amount(high<<32 | low), nil
}

func (ea EncryptedAmount) MarshalBinary() ([]byte, error) {
	low, _ := ea.Low.MarshalBinary()
	high, _ := ea.High.MarshalBinary()
	return append(low, high...), nil
}

func (ea *EncryptedAmount) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return errors.Errorf("encrypted amount must be %d bytes, got %d", Size, len(b))
	}
	if err := ea.Low.UnmarshalBinary(b[:elgamal.CipherSize]); err != nil {
		return err
	}
	return ea.High.UnmarshalBinary(b[elgamal.CipherSize:])
}

func (ea EncryptedAmount) MarshalText() ([]byte, error) {
	b, _ := ea.MarshalBinary()
	return []byte(hex.EncodeToString(b)), nil
}

func (ea *EncryptedAmount) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.WrapPrefix(err, "encrypted amount is not valid hex", 0)
	}
	return ea.UnmarshalBinary(b)
}
