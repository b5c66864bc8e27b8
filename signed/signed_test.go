package signed

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test struct for signing and verifying
type test struct {
	X string
	Z int
	T *test // allow recursion
}

func TestSigned(t *testing.T) {
	vk, sk, err := GenerateKey()
	require.NoError(t, err)

	before := test{X: "hello", Z: 12, T: &test{X: "world"}}

	sig, err := SignMessage(sk, before)
	require.NoError(t, err)
	require.NoError(t, VerifyMessage(vk, before, sig))

	before.T.Z = 1
	require.ErrorIs(t, VerifyMessage(vk, before, sig), ErrInvalidSignature)
}

func TestDecodeSignature(t *testing.T) {
	_, sk, err := GenerateKey()
	require.NoError(t, err)
	sig := Sign(sk, []byte("message"))

	back, err := DecodeSignature(sig.String())
	require.NoError(t, err)
	assert.Equal(t, sig, back)
	assert.Len(t, sig.String(), 2*SignatureSize)

	_, err = DecodeSignature(sig.String()[:126])
	assert.ErrorIs(t, err, ErrInvalidSignatureLength)
	_, err = DecodeSignature(strings.Repeat("zz", SignatureSize))
	assert.Error(t, err)
	_, err = DecodeSignature(sig.String() + "00")
	assert.ErrorIs(t, err, ErrInvalidSignatureLength)
}

func TestAccountKeyJSON(t *testing.T) {
	vk, _, err := GenerateKey()
	require.NoError(t, err)

	bts, err := json.Marshal(NewAccountKey(vk))
	require.NoError(t, err)
	assert.Equal(t, `{"schemeId":"Ed25519","verifyKey":"`+vk.String()+`"}`, string(bts))

	var back AccountKey
	require.NoError(t, json.Unmarshal(bts, &back))
	assert.Equal(t, vk.Bytes(), back.VerifyKey.Bytes())

	assert.Error(t, json.Unmarshal([]byte(`{"schemeId":"Ed448","verifyKey":"`+vk.String()+`"}`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"schemeId":"Ed25519","verifyKey":"0011"}`), &back))
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"schemeId":"Ed25519","verifyKey":null}`), &back), ErrMissingVerifyKey)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"schemeId":"Ed25519"}`), &back), ErrMissingVerifyKey)
}

func TestVerifyKeyText(t *testing.T) {
	vk, _, err := GenerateKey()
	require.NoError(t, err)

	var back VerifyKey
	require.NoError(t, back.UnmarshalText([]byte(vk.String())))
	assert.Equal(t, vk.Bytes(), back.Bytes())
	assert.Error(t, back.UnmarshalText([]byte("not hex")))
}

func TestSignatureJSON(t *testing.T) {
	_, sk, err := GenerateKey()
	require.NoError(t, err)
	sig := Sign(sk, []byte("x"))

	bts, err := json.Marshal(sig)
	require.NoError(t, err)
	var back Signature
	require.NoError(t, json.Unmarshal(bts, &back))
	assert.Equal(t, sig, back)
}
