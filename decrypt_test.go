package idwallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
	"github.com/ccdid/idwallet/encrypted"
	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/prf"
)

// accountKey returns the ElGamal key of credential credIndex of the PRF key derived from seed.
func accountKey(t *testing.T, global id.GlobalContext, seed string, credIndex uint8) elgamal.PublicKey {
	k, err := deriveSecret("prfKey", seed)
	require.NoError(t, err)
	exponent, err := prf.NewSecretKey(k).Exponent(credIndex)
	require.NoError(t, err)
	return elgamal.NewSecretKey(global.ElgamalGenerator(), exponent).PublicKey()
}

func TestDecryptAmounts(t *testing.T) {
	env := newTestEnv(t, 1)
	pk := accountKey(t, env.global, "s2", 3)
	h := env.global.EncryptionInExponentGenerator()

	amounts := []encrypted.Amount{1 << 40, 0, 5000000}
	ciphertexts := make([]encrypted.EncryptedAmount, len(amounts))
	for i, a := range amounts {
		c, err := encrypted.EncryptAmount(h, pk, a)
		require.NoError(t, err)
		ciphertexts[i] = c
	}

	out, err := New().DecryptAmounts(toJSON(t, map[string]interface{}{
		"global":           env.global,
		"encryptedAmounts": ciphertexts,
		"prfKey":           "s2",
		"credentialNumber": 3,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `["1099511627776", "0", "5000000"]`, out)

	// another credential index has another key
	_, err = DecryptBatch(env.global, prfKeyOf(t, "s2"), 2, ciphertexts[1:2])
	var rangeErr *AmountOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 0, rangeErr.Index)

	got, err := DecryptBatch(env.global, prfKeyOf(t, "s2"), 3, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecryptBatchOutOfRange(t *testing.T) {
	env := newTestEnv(t, 1)
	pk := accountKey(t, env.global, "s2", 0)
	h := env.global.EncryptionInExponentGenerator()

	good, err := encrypted.EncryptAmount(h, pk, 42)
	require.NoError(t, err)
	low, _, err := pk.EncryptExponent(h, curve.NewScalar(1<<32))
	require.NoError(t, err)
	bad := encrypted.EncryptedAmount{Low: low, High: good.High}

	_, err = DecryptBatch(env.global, prfKeyOf(t, "s2"), 0, []encrypted.EncryptedAmount{good, bad, good})
	var rangeErr *AmountOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 1, rangeErr.Index)
}

func prfKeyOf(t *testing.T, seed string) prf.SecretKey {
	k, err := deriveSecret("prfKey", seed)
	require.NoError(t, err)
	return prf.NewSecretKey(k)
}
