package encrypted

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
)

var (
	testH     = curve.Generator().Mul(curve.NewScalar(7))
	tableOnce sync.Once
	table     *elgamal.BabyStepGiantStep
)

func testTable() *elgamal.BabyStepGiantStep {
	tableOnce.Do(func() { table = NewTable(testH) })
	return table
}

func TestAmountText(t *testing.T) {
	bts, err := json.Marshal(Amount(18446744073709551615))
	require.NoError(t, err)
	assert.Equal(t, `"18446744073709551615"`, string(bts))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &a))
	assert.Equal(t, Amount(42), a)
	assert.Error(t, json.Unmarshal([]byte(`"-1"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`"18446744073709551616"`), &a))
}

func TestEncryptDecryptAmount(t *testing.T) {
	s, err := curve.RandomScalar()
	require.NoError(t, err)
	sk := elgamal.NewSecretKey(curve.Generator(), s)

	for _, a := range []Amount{0, 1, 1000000, 1<<32 - 1, 1 << 32, 123456789012345, 1<<64 - 1} {
		ea, err := EncryptAmount(testH, sk.PublicKey(), a)
		require.NoError(t, err)
		got, err := DecryptAmount(testTable(), sk, ea)
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
}

func TestDecryptAmountOutOfRange(t *testing.T) {
	s, err := curve.RandomScalar()
	require.NoError(t, err)
	sk := elgamal.NewSecretKey(curve.Generator(), s)

	low, _, err := sk.PublicKey().EncryptExponent(testH, curve.NewScalar(5))
	require.NoError(t, err)
	high, _, err := sk.PublicKey().EncryptExponent(testH, curve.NewScalar(1<<32))
	require.NoError(t, err)

	_, err = DecryptAmount(testTable(), sk, EncryptedAmount{Low: low, High: high})
	assert.ErrorIs(t, err, elgamal.ErrOutOfRange)
}

func TestEncryptedAmountEncoding(t *testing.T) {
	s, err := curve.RandomScalar()
	require.NoError(t, err)
	pk := elgamal.NewSecretKey(curve.Generator(), s).PublicKey()
	ea, err := EncryptAmount(testH, pk, 77)
	require.NoError(t, err)

	bts, err := json.Marshal(ea)
	require.NoError(t, err)
	assert.Len(t, bts, 2*Size+2)

	var back EncryptedAmount
	require.NoError(t, json.Unmarshal(bts, &back))
	assert.Equal(t, ea.Low.C1.Bytes(), back.Low.C1.Bytes())
	assert.Equal(t, ea.High.C2.Bytes(), back.High.C2.Bytes())

	assert.Error(t, back.UnmarshalBinary(make([]byte, Size)))
	assert.Error(t, json.Unmarshal([]byte(`"00ff"`), &back))
}
