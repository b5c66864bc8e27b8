package id

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
	"github.com/ccdid/idwallet/prf"
	"github.com/ccdid/idwallet/secretsharing"
	"github.com/ccdid/idwallet/signed"
)

type fixture struct {
	ctx        *Context
	ipSK       ed25519.PrivateKey
	arSKs      map[ArIdentity]elgamal.SecretKey
	accountVK  signed.VerifyKey
	accountSK  ed25519.PrivateKey
	aci        *AccCredentialInfo
	initial    *InitialAccountData
	attributes *AttributeList
}

func testGlobal(t *testing.T) GlobalContext {
	h, err := curve.HashToPoint([]byte("test"), []byte("IDWALLET-TEST-H"))
	require.NoError(t, err)
	return GlobalContext{
		OnChainCommitmentKey: CommitmentKey{G: curve.Generator(), H: h},
		GenesisString:        "test genesis",
	}
}

func newFixture(t *testing.T, ars ...ArIdentity) *fixture {
	global := testGlobal(t)

	cdiVK, ipSK, err := signed.GenerateKey()
	require.NoError(t, err)
	ip := IpInfo{
		IpIdentity:     7,
		IpDescription:  Description{Name: "test ip", URL: "https://ip.example", Description: "identity provider"},
		IpVerifyKey:    HexBytes("identity provider verify key"),
		IpCdiVerifyKey: cdiVK,
	}

	arInfos := make(map[ArIdentity]ArInfo, len(ars))
	arSKs := make(map[ArIdentity]elgamal.SecretKey, len(ars))
	for _, ar := range ars {
		s, err := curve.RandomScalar()
		require.NoError(t, err)
		sk := elgamal.NewSecretKey(global.ElgamalGenerator(), s)
		arSKs[ar] = sk
		arInfos[ar] = ArInfo{
			ArIdentity:    ar,
			ArDescription: Description{Name: "ar " + ar.String()},
			ArPublicKey:   sk.PublicKey().Key,
		}
	}

	accountVK, accountSK, err := signed.GenerateKey()
	require.NoError(t, err)
	initial := NewCredentialPublicKeys([]signed.AccountKey{signed.NewAccountKey(accountVK)}, 1)

	ics, err := curve.RandomScalar()
	require.NoError(t, err)
	k, err := curve.RandomScalar()
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &fixture{
		ctx:       NewContext(ip, arInfos, global),
		ipSK:      ipSK,
		arSKs:     arSKs,
		accountVK: accountVK,
		accountSK: accountSK,
		aci: &AccCredentialInfo{
			CredHolderInfo: CredentialHolderInfo{IdCredSec: ics},
			PrfKey:         prf.NewSecretKey(k),
		},
		initial: &initial,
		attributes: &AttributeList{
			CreatedAt:   NewYearMonth(now),
			ValidTo:     NewYearMonth(now.AddDate(5, 0, 0)),
			MaxAccounts: 4,
			ChosenAttributes: map[AttributeTag]AttributeValue{
				TagFirstName:          "Jane",
				TagLastName:           "Doe",
				TagCountryOfResidence: "NL",
				TagDob:                "19800229",
			},
		},
	}
}

// signedInitial signs the public information of the initial account with the account key.
func (f *fixture) signedInitial(t *testing.T) *InitialAccountDataWithSignature {
	pubInfo, err := AccountHolder{}.BuildPubInfoForIP(f.ctx, f.aci.CredHolderInfo.IdCredSec, f.aci.PrfKey, f.initial)
	require.NoError(t, err)
	sig, err := signed.SignMessage(f.accountSK, pubInfo)
	require.NoError(t, err)
	return &InitialAccountDataWithSignature{InitialAccountData: *f.initial, Signature: sig}
}

func (f *fixture) pio(t *testing.T, threshold secretsharing.Threshold) (*PreIdentityObject, *SigRetrievalRandomness) {
	pio, randomness, err := AccountHolder{}.GeneratePIO(f.ctx, threshold, f.aci, f.signedInitial(t))
	require.NoError(t, err)
	return pio, randomness
}

// identity runs the identity provider's side of issuance on a fresh pre-identity object.
func (f *fixture) identity(t *testing.T, threshold secretsharing.Threshold) (*IdentityObject, *IdObjectUseData) {
	pio, randomness := f.pio(t, threshold)
	require.NoError(t, VerifyPreIdentityObject(f.ctx, pio))
	idObject, err := SignIdentityObject(f.ctx, f.ipSK, pio, f.attributes)
	require.NoError(t, err)
	return idObject, &IdObjectUseData{Aci: *f.aci, Randomness: *randomness}
}
