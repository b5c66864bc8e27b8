package id

import (
	"fmt"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/cbor"
	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
	"github.com/ccdid/idwallet/prf"
	"github.com/ccdid/idwallet/secretsharing"
	"github.com/ccdid/idwallet/signed"
	"github.com/ccdid/idwallet/zkproof"
)

const pioProofLabel = "pre-identity-object"

var (
	ErrNoRevokers               = errors.New("at least one anonymity revoker is required")
	ErrUnknownRevoker           = errors.New("anonymity revoker not in context")
	ErrInitialAccountSignature  = errors.New("initial account signature does not verify under key 0")
	ErrMalformedPreIdentity     = errors.New("malformed pre-identity object")
	ErrMissingInitialAccountKey = errors.New("initial account has no key with index 0")
)

type (
	// CredentialHolderInfo holds the long lived secret of an identity.
	CredentialHolderInfo struct {
		IdCredSec curve.Scalar `json:"idCredSecret"`
	}

	// AccCredentialInfo holds all secrets of an identity.
	AccCredentialInfo struct {
		CredHolderInfo CredentialHolderInfo `json:"credentialHolderInformation"`
		PrfKey         prf.SecretKey        `json:"prfKey"`
	}

	// SigRetrievalRandomness is the blinding factor of the signature commitment in a
	// pre-identity object. It is needed again for every credential of the identity.
	SigRetrievalRandomness struct {
		curve.Scalar
	}

	RandomnessWrapper struct {
		Randomness SigRetrievalRandomness `json:"randomness"`
	}

	// IdObjectUseData is what an account holder keeps to create credentials from an identity.
	IdObjectUseData struct {
		Aci        AccCredentialInfo      `json:"aci"`
		Randomness SigRetrievalRandomness `json:"randomness"`
	}

	// PublicInformationForIP is the initial account data the account holder signs and the
	// identity provider uses to open the initial account.
	PublicInformationForIP struct {
		IdCredPub  curve.Point        `json:"idCredPub"`
		RegId      curve.Point        `json:"regId"`
		PublicKeys InitialAccountData `json:"publicKeys"`
	}

	// IPArData is a revoker's share of the PRF key, encrypted in chunks under the revoker's key.
	IPArData struct {
		EncPrfKeyShare []elgamal.Cipher `json:"encPrfKeyShare"`
	}

	ChoiceArParameters struct {
		ArIdentities []ArIdentity            `json:"arIdentities"`
		Threshold    secretsharing.Threshold `json:"threshold"`
	}

	// PreIdentityObject is the request for an identity sent to an identity provider.
	PreIdentityObject struct {
		PubInfoForIP                  PublicInformationForIP  `json:"pubInfoForIp"`
		InitialAccountSignature       signed.Signature        `json:"initialAccountSignature"`
		IpArData                      map[ArIdentity]IPArData `json:"ipArData"`
		ChoiceArData                  ChoiceArParameters      `json:"choiceArData"`
		IdCredSecCommitment           curve.Point             `json:"idCredSecCommitment"`
		PrfKeyCommitmentWithIP        curve.Point             `json:"prfKeyCommitmentWithIP"`
		PrfKeySharingCoeffCommitments []curve.Point           `json:"prfKeySharingCoeffCommitments"`
		SigCommitment                 curve.Point             `json:"sigCommitment"`
		ProofsOfKnowledge             zkproof.Proof           `json:"proofsOfKnowledge"`
	}
)

// AccountHolder implements the account holder side of identity issuance and credential
// creation.
type AccountHolder struct{}

// BuildPubInfoForIP derives the public information of the initial account. GeneratePIO embeds
// exactly this value.
func (AccountHolder) BuildPubInfoForIP(ctx *Context, idCredSec curve.Scalar, prfKey prf.SecretKey, initial *InitialAccountData) (*PublicInformationForIP, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	g := ctx.Global.ElgamalGenerator()
	regID, err := prfKey.Prf(g, 0)
	if err != nil {
		return nil, err
	}
	return &PublicInformationForIP{
		IdCredPub:  g.Mul(idCredSec),
		RegId:      regID,
		PublicKeys: *initial,
	}, nil
}

// GeneratePIO builds a pre-identity object in which the PRF key is shared among all revokers
// of the context with the given threshold. It returns the randomness of the signature
// commitment.
func (ah AccountHolder) GeneratePIO(ctx *Context, threshold secretsharing.Threshold, aci *AccCredentialInfo, initial *InitialAccountDataWithSignature) (*PreIdentityObject, *SigRetrievalRandomness, error) {
	arIDs := ctx.ArIdentities()
	if len(arIDs) == 0 {
		return nil, nil, ErrNoRevokers
	}
	if err := threshold.Validate(len(arIDs)); err != nil {
		return nil, nil, err
	}

	idCredSec, prfKey := aci.CredHolderInfo.IdCredSec, aci.PrfKey
	pubInfo, err := ah.BuildPubInfoForIP(ctx, idCredSec, prfKey, &initial.InitialAccountData)
	if err != nil {
		return nil, nil, err
	}
	key0, ok := pubInfo.PublicKeys.Keys[0]
	if !ok {
		return nil, nil, ErrMissingInitialAccountKey
	}
	if err = signed.VerifyMessage(key0.VerifyKey, pubInfo, initial.Signature); err != nil {
		return nil, nil, ErrInitialAccountSignature
	}

	y1, y2, hIP, err := ctx.ipBases()
	if err != nil {
		return nil, nil, err
	}
	ck := ctx.Global.OnChainCommitmentKey

	rnd, err := randomScalars(3)
	if err != nil {
		return nil, nil, err
	}
	sigRand, rhoIdCredSec, rhoPrfKey := rnd[0], rnd[1], rnd[2]

	prfPoly, err := secretsharing.NewPolynomial(prfKey.Scalar, threshold)
	if err != nil {
		return nil, nil, err
	}
	sigma0, err := curve.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	sigmaPoly, err := secretsharing.NewPolynomial(sigma0, threshold)
	if err != nil {
		return nil, nil, err
	}
	coeffCommitments := make([]curve.Point, len(prfPoly))
	for j := range prfPoly {
		coeffCommitments[j] = ck.Commit(prfPoly[j], sigmaPoly[j])
	}

	pio := &PreIdentityObject{
		PubInfoForIP:                  *pubInfo,
		InitialAccountSignature:       initial.Signature,
		IpArData:                      make(map[ArIdentity]IPArData, len(arIDs)),
		ChoiceArData:                  ChoiceArParameters{ArIdentities: arIDs, Threshold: threshold},
		IdCredSecCommitment:           ck.Commit(idCredSec, rhoIdCredSec),
		PrfKeyCommitmentWithIP:        ck.G.Mul(prfKey.Scalar).Add(hIP.Mul(rhoPrfKey)),
		PrfKeySharingCoeffCommitments: coeffCommitments,
		SigCommitment:                 ck.G.Mul(sigRand).Add(y1.Mul(idCredSec)).Add(y2.Mul(prfKey.Scalar)),
	}

	secrets := map[string]curve.Scalar{
		"idCredSec":    idCredSec,
		"prfKey":       prfKey.Scalar,
		"sigRand":      sigRand,
		"rhoIdCredSec": rhoIdCredSec,
		"rhoPrfKey":    rhoPrfKey,
		"sigma0":       sigma0,
	}
	h := ctx.Global.EncryptionInExponentGenerator()
	for _, ar := range arIDs {
		info := ctx.ArsInfos[ar]
		share := prfPoly.Evaluate(curve.NewScalar(uint64(ar)))
		ciphers, chunks, rands, err := info.PublicKey(ctx.Global).EncryptExponentChunks(h, share)
		if err != nil {
			return nil, nil, err
		}
		pio.IpArData[ar] = IPArData{EncPrfKeyShare: ciphers}
		for i := range chunks {
			secrets[arName(ar, "chunk", i)] = curve.NewScalar(chunks[i])
			secrets[arName(ar, "rand", i)] = rands[i]
		}
		secrets[arName(ar, "tau", 0)] = sigmaPoly.Evaluate(curve.NewScalar(uint64(ar)))
	}

	structures, bases, err := pioStatement(ctx, pio)
	if err != nil {
		return nil, nil, err
	}
	proofContext, err := pioProofContext(ctx, pio)
	if err != nil {
		return nil, nil, err
	}
	proof, err := zkproof.Prove(pioProofLabel, structures, bases, zkproof.NewSecrets(secrets), proofContext)
	if err != nil {
		return nil, nil, err
	}
	pio.ProofsOfKnowledge = *proof

	return pio, &SigRetrievalRandomness{Scalar: sigRand}, nil
}

// VerifyPreIdentityObject checks the initial account signature and the proofs of knowledge
// of a pre-identity object, as the identity provider does before issuing an identity.
func VerifyPreIdentityObject(ctx *Context, pio *PreIdentityObject) error {
	if err := pio.PubInfoForIP.PublicKeys.Validate(); err != nil {
		return err
	}
	key0, ok := pio.PubInfoForIP.PublicKeys.Keys[0]
	if !ok {
		return ErrMissingInitialAccountKey
	}
	if err := signed.VerifyMessage(key0.VerifyKey, pio.PubInfoForIP, pio.InitialAccountSignature); err != nil {
		return ErrInitialAccountSignature
	}
	structures, bases, err := pioStatement(ctx, pio)
	if err != nil {
		return err
	}
	proofContext, err := pioProofContext(ctx, pio)
	if err != nil {
		return err
	}
	return zkproof.Verify(pioProofLabel, structures, bases, &pio.ProofsOfKnowledge, proofContext)
}

// pioStatement lists the relations a pre-identity object proves:
//
//	idCredPub = idCredSec*g
//	g = prfKey*regId
//	idCredSecCommitment = idCredSec*g + rhoIdCredSec*h
//	prfKeyCommitmentWithIP = prfKey*g + rhoPrfKey*hIP
//	coeff_0 = prfKey*g + sigma0*h
//	sigCommitment = sigRand*g + idCredSec*y1 + prfKey*y2
//
// and for every revoker x with share commitment S_x = sum(x^j * coeff_j) and ciphers (c1_i, c2_i):
//
//	S_x = sum(chunk_i * 2^(32i)*g) + tau*h
//	c1_i = rand_i*g
//	c2_i = chunk_i*h + rand_i*pk_x
func pioStatement(ctx *Context, pio *PreIdentityObject) ([]zkproof.RepresentationProofStructure, zkproof.BaseLookup, error) {
	choice := pio.ChoiceArData
	if len(choice.ArIdentities) == 0 {
		return nil, nil, ErrNoRevokers
	}
	if err := choice.Threshold.Validate(len(choice.ArIdentities)); err != nil {
		return nil, nil, err
	}
	if len(pio.PrfKeySharingCoeffCommitments) != int(choice.Threshold) || len(pio.IpArData) != len(choice.ArIdentities) {
		return nil, nil, ErrMalformedPreIdentity
	}

	y1, y2, hIP, err := ctx.ipBases()
	if err != nil {
		return nil, nil, err
	}
	ck := ctx.Global.OnChainCommitmentKey
	bases := zkproof.Bases{
		"g":                      ck.G,
		"h":                      ck.H,
		"hIP":                    hIP,
		"y1":                     y1,
		"y2":                     y2,
		"idCredPub":              pio.PubInfoForIP.IdCredPub,
		"regId":                  pio.PubInfoForIP.RegId,
		"idCredSecCommitment":    pio.IdCredSecCommitment,
		"prfKeyCommitmentWithIP": pio.PrfKeyCommitmentWithIP,
		"coeff0":                 pio.PrfKeySharingCoeffCommitments[0],
		"sigCommitment":          pio.SigCommitment,
	}
	chunkBases := chunkBases(ck.G)
	for i, b := range chunkBases {
		bases[fmt.Sprintf("g.%d", i)] = b
	}

	structures := []zkproof.RepresentationProofStructure{
		{
			Lhs: []zkproof.LhsContribution{{Base: "idCredPub", Power: 1}},
			Rhs: []zkproof.RhsContribution{{Base: "g", Secret: "idCredSec", Power: 1}},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "g", Power: 1}},
			Rhs: []zkproof.RhsContribution{{Base: "regId", Secret: "prfKey", Power: 1}},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "idCredSecCommitment", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "idCredSec", Power: 1},
				{Base: "h", Secret: "rhoIdCredSec", Power: 1},
			},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "prfKeyCommitmentWithIP", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "prfKey", Power: 1},
				{Base: "hIP", Secret: "rhoPrfKey", Power: 1},
			},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "coeff0", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "prfKey", Power: 1},
				{Base: "h", Secret: "sigma0", Power: 1},
			},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "sigCommitment", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "sigRand", Power: 1},
				{Base: "y1", Secret: "idCredSec", Power: 1},
				{Base: "y2", Secret: "prfKey", Power: 1},
			},
		},
	}

	parts := []zkproof.BaseLookup{bases}
	for _, ar := range choice.ArIdentities {
		info, ok := ctx.ArsInfos[ar]
		if !ok || ar == 0 {
			return nil, nil, errors.WrapPrefix(ErrUnknownRevoker, ar.String(), 0)
		}
		data, ok := pio.IpArData[ar]
		if !ok || len(data.EncPrfKeyShare) != len(chunkBases) {
			return nil, nil, ErrMalformedPreIdentity
		}
		shareCom, err := curve.MultiExp(pio.PrfKeySharingCoeffCommitments, secretsharing.Powers(uint32(ar), len(pio.PrfKeySharingCoeffCommitments)))
		if err != nil {
			return nil, nil, err
		}
		pkName := arName(ar, "pk", 0)
		shareName := arName(ar, "shareCom", 0)
		arBases := zkproof.Bases{pkName: info.ArPublicKey, shareName: shareCom}
		parts = append(parts, arBases)

		shareRel := zkproof.RepresentationProofStructure{
			Lhs: []zkproof.LhsContribution{{Base: shareName, Power: 1}},
			Rhs: []zkproof.RhsContribution{{Base: "h", Secret: arName(ar, "tau", 0), Power: 1}},
		}
		for i, c := range data.EncPrfKeyShare {
			c1, c2 := arName(ar, "c1", i), arName(ar, "c2", i)
			chunk, rand := arName(ar, "chunk", i), arName(ar, "rand", i)
			arBases[c1], arBases[c2] = c.C1, c.C2
			shareRel.Rhs = append(shareRel.Rhs, zkproof.RhsContribution{Base: fmt.Sprintf("g.%d", i), Secret: chunk, Power: 1})
			structures = append(structures,
				zkproof.RepresentationProofStructure{
					Lhs: []zkproof.LhsContribution{{Base: c1, Power: 1}},
					Rhs: []zkproof.RhsContribution{{Base: "g", Secret: rand, Power: 1}},
				},
				zkproof.RepresentationProofStructure{
					Lhs: []zkproof.LhsContribution{{Base: c2, Power: 1}},
					Rhs: []zkproof.RhsContribution{
						{Base: "h", Secret: chunk, Power: 1},
						{Base: pkName, Secret: rand, Power: 1},
					},
				},
			)
		}
		structures = append(structures, shareRel)
	}
	return structures, zkproof.NewBaseMerge(parts...), nil
}

// pioProofContext is the public data outside the bases that the proof binds.
func pioProofContext(ctx *Context, pio *PreIdentityObject) ([]byte, error) {
	return cbor.Marshal(struct {
		PubInfoForIP  PublicInformationForIP
		ChoiceArData  ChoiceArParameters
		IpIdentity    IpIdentity
		GenesisString string
	}{pio.PubInfoForIP, pio.ChoiceArData, ctx.IpInfo.IpIdentity, ctx.Global.GenesisString})
}

func arName(ar ArIdentity, what string, i int) string {
	return fmt.Sprintf("ar%d.%s.%d", ar, what, i)
}

// chunkBases returns 2^(32i)*g for every chunk of a scalar.
func chunkBases(g curve.Point) []curve.Point {
	n := curve.ScalarSize * 8 / elgamal.ChunkBits
	res := make([]curve.Point, n)
	for i := range res {
		res[i] = g.Mul(elgamal.ChunkBase(i))
	}
	return res
}

func randomScalars(n int) ([]curve.Scalar, error) {
	res := make([]curve.Scalar, n)
	for i := range res {
		s, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		res[i] = s
	}
	return res, nil
}
