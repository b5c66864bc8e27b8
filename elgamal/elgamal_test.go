package elgamal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet/curve"
)

func testKey(t *testing.T) SecretKey {
	s, err := curve.RandomScalar()
	require.NoError(t, err)
	return NewSecretKey(curve.Generator(), s)
}

func TestEncryptDecryptPoint(t *testing.T) {
	sk := testKey(t)
	m := curve.Generator().Mul(curve.NewScalar(12345))

	c, r, err := sk.PublicKey().EncryptPoint(m)
	require.NoError(t, err)
	assert.True(t, c.C1.Equal(curve.Generator().Mul(r)))
	assert.True(t, sk.DecryptPoint(c).Equal(m))

	other := testKey(t)
	assert.False(t, other.DecryptPoint(c).Equal(m))
}

func TestDecryptExponent(t *testing.T) {
	sk := testKey(t)
	h, err := curve.HashToPoint([]byte("h"), []byte("elgamal-test"))
	require.NoError(t, err)
	table := NewBabyStepGiantStep(h, 1<<8)

	for _, v := range []uint64{0, 1, 255, 256, 4097, 1<<16 - 1} {
		c, _, err := sk.PublicKey().EncryptExponent(h, curve.NewScalar(v))
		require.NoError(t, err)
		got, err := sk.DecryptExponent(table, c)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	c, _, err := sk.PublicKey().EncryptExponent(h, curve.NewScalar(1<<16))
	require.NoError(t, err)
	_, err = sk.DecryptExponent(table, c)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSplitChunks(t *testing.T) {
	v := curve.NewScalar(0x1122334455667788)
	chunks := SplitChunks(v)
	require.Len(t, chunks, 8)
	assert.Equal(t, uint64(0x55667788), chunks[0])
	assert.Equal(t, uint64(0x11223344), chunks[1])
	for _, c := range chunks[2:] {
		assert.Zero(t, c)
	}

	s, err := curve.RandomScalar()
	require.NoError(t, err)
	var back curve.Scalar
	for i, c := range SplitChunks(s) {
		back = back.Add(ChunkBase(i).Mul(curve.NewScalar(c)))
	}
	assert.True(t, s.Equal(back))
}

func TestEncryptExponentChunks(t *testing.T) {
	sk := testKey(t)
	h := curve.Generator().Mul(curve.NewScalar(3))
	v := curve.NewScalar(0xabcdef)

	ciphers, chunks, rands, err := sk.PublicKey().EncryptExponentChunks(h, v)
	require.NoError(t, err)
	require.Len(t, ciphers, 8)
	require.Len(t, rands, 8)
	assert.Equal(t, uint64(0xabcdef), chunks[0])
	for i, c := range ciphers {
		assert.True(t, sk.DecryptPoint(c).Equal(h.Mul(curve.NewScalar(chunks[i]))))
	}
}

func TestCipherEncoding(t *testing.T) {
	sk := testKey(t)
	c, _, err := sk.PublicKey().EncryptPoint(curve.Generator())
	require.NoError(t, err)

	bts, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Len(t, bts, 2*CipherSize+2)

	var back Cipher
	require.NoError(t, json.Unmarshal(bts, &back))
	assert.True(t, back.C1.Equal(c.C1))
	assert.True(t, back.C2.Equal(c.C2))

	assert.Error(t, back.UnmarshalBinary(make([]byte, CipherSize-1)))
	assert.Error(t, json.Unmarshal([]byte(`"xyz"`), &back))
}

func TestBabyStepGiantStepFullTable(t *testing.T) {
	g := curve.Generator()
	table := NewBabyStepGiantStep(g, 1<<4)
	assert.Equal(t, uint64(16), table.Size())
	for x := uint64(0); x < 256; x += 17 {
		got, err := table.DiscreteLog(g.Mul(curve.NewScalar(x)))
		require.NoError(t, err)
		assert.Equal(t, x, got)
	}
}
