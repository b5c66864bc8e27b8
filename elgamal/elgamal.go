// Package elgamal implements ElGamal encryption over G1, both of group elements and of
// small integers "in the exponent", together with the baby-step giant-step table needed to
// decrypt the latter.
package elgamal

import (
	"encoding/hex"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
)

// ChunkBits is the size of the chunks that large scalars are split into before encryption
// in the exponent; each chunk is recoverable with a table of 2^(ChunkBits/2) entries.
const ChunkBits = 32

// CipherSize is the size in bytes of an encoded Cipher.
const CipherSize = 2 * curve.PointSize

type (
	// PublicKey is an ElGamal public key Key = s*Generator.
	PublicKey struct {
		Generator curve.Point `json:"generator"`
		Key       curve.Point `json:"key"`
	}

	// SecretKey is the scalar s with the generator it acts on.
	SecretKey struct {
		Generator curve.Point
		Scalar    curve.Scalar
	}

	// Cipher is the pair (r*G, m + r*Key).
	Cipher struct {
		C1 curve.Point
		C2 curve.Point
	}
)

func NewSecretKey(generator curve.Point, scalar curve.Scalar) SecretKey {
	return SecretKey{Generator: generator, Scalar: scalar}
}

func (sk SecretKey) PublicKey() PublicKey {
	return PublicKey{Generator: sk.Generator, Key: sk.Generator.Mul(sk.Scalar)}
}

// EncryptPointWithRandomness encrypts the group element m using the given randomness.
func (pk PublicKey) EncryptPointWithRandomness(m curve.Point, r curve.Scalar) Cipher {
	return Cipher{
		C1: pk.Generator.Mul(r),
		C2: m.Add(pk.Key.Mul(r)),
	}
}

// EncryptPoint encrypts the group element m and returns the randomness it used.
func (pk PublicKey) EncryptPoint(m curve.Point) (Cipher, curve.Scalar, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return Cipher{}, curve.Scalar{}, err
	}
	return pk.EncryptPointWithRandomness(m, r), r, nil
}

// EncryptExponent encrypts v as v*h.
func (pk PublicKey) EncryptExponent(h curve.Point, v curve.Scalar) (Cipher, curve.Scalar, error) {
	return pk.EncryptPoint(h.Mul(v))
}

// EncryptExponentChunks splits v into little-endian chunks of ChunkBits bits and encrypts
// each of them in the exponent of h. It returns the ciphers, the chunks and the randomness
// used for each cipher.
func (pk PublicKey) EncryptExponentChunks(h curve.Point, v curve.Scalar) ([]Cipher, []uint64, []curve.Scalar, error) {
	chunks := SplitChunks(v)
	ciphers := make([]Cipher, len(chunks))
	rands := make([]curve.Scalar, len(chunks))
	for i, c := range chunks {
		cipher, r, err := pk.EncryptExponent(h, curve.NewScalar(c))
		if err != nil {
			return nil, nil, nil, err
		}
		ciphers[i], rands[i] = cipher, r
	}
	return ciphers, chunks, rands, nil
}

// SplitChunks returns the ChunkBits-bit chunks of v, least significant first.
func SplitChunks(v curve.Scalar) []uint64 {
	b := v.Bytes()
	n := len(b) * 8 / ChunkBits
	chunks := make([]uint64, n)
	for i := 0; i < n; i++ {
		var c uint64
		// big-endian bytes, chunk i covers bytes [len-4(i+1), len-4i)
		for _, x := range b[len(b)-4*(i+1) : len(b)-4*i] {
			c = c<<8 | uint64(x)
		}
		chunks[i] = c
	}
	return chunks
}

// ChunkBase returns 2^(ChunkBits*i).
func ChunkBase(i int) curve.Scalar {
	s := curve.NewScalar(1)
	step := curve.NewScalar(1 << ChunkBits)
	for j := 0; j < i; j++ {
		s = s.Mul(step)
	}
	return s
}

// DecryptPoint returns C2 - s*C1.
func (sk SecretKey) DecryptPoint(c Cipher) curve.Point {
	return c.C2.Sub(c.C1.Mul(sk.Scalar))
}

// DecryptExponent recovers v from an encryption of v*h, where the table is built over h.
func (sk SecretKey) DecryptExponent(table *BabyStepGiantStep, c Cipher) (uint64, error) {
	return table.DiscreteLog(sk.DecryptPoint(c))
}

func (c Cipher) MarshalBinary() ([]byte, error) {
	b1, b2 := c.C1.Bytes(), c.C2.Bytes()
	return append(b1[:], b2[:]...), nil
}

func (c *Cipher) UnmarshalBinary(b []byte) error {
	if len(b) != CipherSize {
		return errors.Errorf("cipher must be %d bytes, got %d", CipherSize, len(b))
	}
	if err := c.C1.SetBytes(b[:curve.PointSize]); err != nil {
		return err
	}
	return c.C2.SetBytes(b[curve.PointSize:])
}

func (c Cipher) MarshalText() ([]byte, error) {
	b, _ := c.MarshalBinary()
	return []byte(hex.EncodeToString(b)), nil
}

func (c *Cipher) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.WrapPrefix(err, "cipher is not valid hex", 0)
	}
	return c.UnmarshalBinary(b)
}
