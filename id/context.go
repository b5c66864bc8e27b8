// Package id contains the identity layer of the wallet: the public parameters of identity
// providers, anonymity revokers and the chain, the attribute lists identity providers sign,
// and the account holder side of the pre-identity and credential protocols.
package id

import (
	"encoding/hex"
	"strconv"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
	"github.com/ccdid/idwallet/signed"
)

const (
	dstIPSignBase1  = "IDWALLET-IP-SIG-Y1"
	dstIPSignBase2  = "IDWALLET-IP-SIG-Y2"
	dstIPCommitBase = "IDWALLET-IP-COMMIT-H"
)

type (
	// CommitmentKey is the pair of bases (G, H) for Pedersen commitments G*m + H*r. In JSON it
	// is the hex of both compressed points, concatenated.
	CommitmentKey struct {
		G curve.Point
		H curve.Point
	}

	// GlobalContext holds the chain wide cryptographic parameters. G is the generator of
	// ElGamal keys and H the generator that amounts are encrypted in the exponent of.
	GlobalContext struct {
		OnChainCommitmentKey CommitmentKey `json:"onChainCommitmentKey"`
		GenesisString        string        `json:"genesisString"`
	}

	Description struct {
		Name        string `json:"name"`
		URL         string `json:"url"`
		Description string `json:"description"`
	}

	IpIdentity uint32

	// IpInfo is the public information of an identity provider.
	IpInfo struct {
		IpIdentity     IpIdentity       `json:"ipIdentity"`
		IpDescription  Description      `json:"ipDescription"`
		IpVerifyKey    HexBytes         `json:"ipVerifyKey"`
		IpCdiVerifyKey signed.VerifyKey `json:"ipCdiVerifyKey"`
	}

	// ArIdentity identifies an anonymity revoker. It doubles as the point at which the
	// revoker's secret shares are evaluated, so it is never zero.
	ArIdentity uint32

	// ArInfo is the public information of an anonymity revoker.
	ArInfo struct {
		ArIdentity    ArIdentity  `json:"arIdentity"`
		ArDescription Description `json:"arDescription"`
		ArPublicKey   curve.Point `json:"arPublicKey"`
	}

	// Context collects everything the account holder needs to know about the identity provider,
	// the anonymity revokers and the chain. It is read only once built.
	Context struct {
		IpInfo   IpInfo
		ArsInfos map[ArIdentity]ArInfo
		Global   GlobalContext
	}

	// HexBytes is a byte string that is hex encoded in JSON.
	HexBytes []byte
)

func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h)), nil
}

func (h *HexBytes) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*h = b
	return nil
}

func (k CommitmentKey) MarshalText() ([]byte, error) {
	g, h := k.G.Bytes(), k.H.Bytes()
	return []byte(hex.EncodeToString(g[:]) + hex.EncodeToString(h[:])), nil
}

func (k *CommitmentKey) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.WrapPrefix(err, "commitment key is not valid hex", 0)
	}
	if len(b) != 2*curve.PointSize {
		return errors.Errorf("commitment key must be %d bytes, got %d", 2*curve.PointSize, len(b))
	}
	if err = k.G.SetBytes(b[:curve.PointSize]); err != nil {
		return err
	}
	return k.H.SetBytes(b[curve.PointSize:])
}

// Commit returns G*m + H*r.
func (k CommitmentKey) Commit(m, r curve.Scalar) curve.Point {
	return k.G.Mul(m).Add(k.H.Mul(r))
}

// ElgamalGenerator is the generator of account and revoker ElGamal keys.
func (g GlobalContext) ElgamalGenerator() curve.Point {
	return g.OnChainCommitmentKey.G
}

// EncryptionInExponentGenerator is the generator amounts are encrypted in the exponent of.
func (g GlobalContext) EncryptionInExponentGenerator() curve.Point {
	return g.OnChainCommitmentKey.H
}

// PublicKey returns the revoker's ElGamal key.
func (ar ArInfo) PublicKey(global GlobalContext) elgamal.PublicKey {
	return elgamal.PublicKey{Generator: global.ElgamalGenerator(), Key: ar.ArPublicKey}
}

func (a ArIdentity) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// NewContext assembles a context. It does not validate; see Validate.
func NewContext(ip IpInfo, ars map[ArIdentity]ArInfo, global GlobalContext) *Context {
	return &Context{IpInfo: ip, ArsInfos: ars, Global: global}
}

// ArIdentities returns the revoker identities in increasing order.
func (c *Context) ArIdentities() []ArIdentity {
	ids := make([]ArIdentity, 0, len(c.ArsInfos))
	for id := range c.ArsInfos {
		ids = append(ids, id)
	}
	sortArIdentities(ids)
	return ids
}

// ipBases derives the bases the identity provider signs commitments with from its verify key.
func (c *Context) ipBases() (y1, y2, h curve.Point, err error) {
	key := c.IpInfo.IpVerifyKey
	if len(key) == 0 {
		return y1, y2, h, errors.New("identity provider has no verify key")
	}
	if y1, err = curve.HashToPoint(key, []byte(dstIPSignBase1)); err != nil {
		return
	}
	if y2, err = curve.HashToPoint(key, []byte(dstIPSignBase2)); err != nil {
		return
	}
	h, err = curve.HashToPoint(key, []byte(dstIPCommitBase))
	return
}
