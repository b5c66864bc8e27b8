package idwallet

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/signed"
)

// testEnv plays the identity provider, the revokers and the chain.
type testEnv struct {
	global     id.GlobalContext
	ip         id.IpInfo
	ipSK       ed25519.PrivateKey
	ars        map[id.ArIdentity]id.ArInfo
	accountSK  ed25519.PrivateKey
	keys       []signed.AccountKey
	attributes *id.AttributeList
}

func newTestEnv(t *testing.T, ars ...id.ArIdentity) *testEnv {
	h, err := curve.HashToPoint([]byte("wallet test"), []byte("IDWALLET-TEST-H"))
	require.NoError(t, err)
	global := id.GlobalContext{
		OnChainCommitmentKey: id.CommitmentKey{G: curve.Generator(), H: h},
		GenesisString:        "wallet test genesis",
	}

	cdiVK, ipSK, err := signed.GenerateKey()
	require.NoError(t, err)
	ip := id.IpInfo{
		IpIdentity:     0,
		IpDescription:  id.Description{Name: "ip", URL: "https://ip.example", Description: "test identity provider"},
		IpVerifyKey:    id.HexBytes("ip verify key"),
		IpCdiVerifyKey: cdiVK,
	}

	infos := make(map[id.ArIdentity]id.ArInfo, len(ars))
	for _, ar := range ars {
		s, err := curve.RandomScalar()
		require.NoError(t, err)
		infos[ar] = id.ArInfo{
			ArIdentity:    ar,
			ArDescription: id.Description{Name: "ar " + ar.String()},
			ArPublicKey:   elgamal.NewSecretKey(global.ElgamalGenerator(), s).PublicKey().Key,
		}
	}

	vk, accountSK, err := signed.GenerateKey()
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &testEnv{
		global:    global,
		ip:        ip,
		ipSK:      ipSK,
		ars:       infos,
		accountSK: accountSK,
		keys:      []signed.AccountKey{signed.NewAccountKey(vk)},
		attributes: &id.AttributeList{
			CreatedAt:   id.NewYearMonth(now),
			ValidTo:     id.NewYearMonth(now.AddDate(3, 0, 0)),
			MaxAccounts: 2,
			ChosenAttributes: map[id.AttributeTag]id.AttributeValue{
				id.TagFirstName:          "John",
				id.TagLastName:           "Smith",
				id.TagCountryOfResidence: "DK",
				id.TagNationality:        "DK",
			},
		},
	}
}

func (e *testEnv) context(t *testing.T) *id.Context {
	ctx, err := AssembleContext(e.ip, e.ars, e.global)
	require.NoError(t, err)
	return ctx
}

// input returns the fields shared by the issuance documents, plus extra.
func (e *testEnv) input(extra map[string]interface{}) map[string]interface{} {
	doc := map[string]interface{}{
		"ipInfo":     e.ip,
		"global":     e.global,
		"arsInfos":   e.ars,
		"publicKeys": e.keys,
		"threshold":  1,
	}
	for k, v := range extra {
		doc[k] = v
	}
	return doc
}

// issue verifies the request and signs it with the attributes of the environment.
func (e *testEnv) issue(t *testing.T, pio *id.PreIdentityObject) *id.IdentityObject {
	ctx := e.context(t)
	require.NoError(t, id.VerifyPreIdentityObject(ctx, pio))
	idObject, err := id.SignIdentityObject(ctx, e.ipSK, pio, e.attributes)
	require.NoError(t, err)
	return idObject
}

// signedInitial signs the initial account information of the given secrets with key 0.
func (e *testEnv) signedInitial(t *testing.T, aci *id.AccCredentialInfo) *id.InitialAccountDataWithSignature {
	initial := id.NewCredentialPublicKeys(e.keys, 1)
	info, err := New().BuildPubInfoForIP(e.context(t), aci.CredHolderInfo.IdCredSec, aci.PrfKey, &initial)
	require.NoError(t, err)
	sig, err := signed.SignMessage(e.accountSK, info)
	require.NoError(t, err)
	return &id.InitialAccountDataWithSignature{InitialAccountData: initial, Signature: sig}
}

func toJSON(t *testing.T, v interface{}) string {
	bts, err := json.Marshal(v)
	require.NoError(t, err)
	return string(bts)
}

func fromJSON(t *testing.T, s string, v interface{}) {
	require.NoError(t, json.Unmarshal([]byte(s), v))
}
