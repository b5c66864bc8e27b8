package id

import (
	"crypto/ed25519"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/cbor"
	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/elgamal"
	"github.com/ccdid/idwallet/secretsharing"
	"github.com/ccdid/idwallet/signed"
	"github.com/ccdid/idwallet/zkproof"
)

const credentialProofLabel = "credential-deployment"

var (
	ErrTooManyCredentials       = errors.New("credential number exceeds the identity's maximum number of accounts")
	ErrRandomnessMismatch       = errors.New("randomness does not open the identity's signature commitment")
	ErrIdentitySignature        = errors.New("identity provider signature does not verify")
	ErrMalformedCredential      = errors.New("malformed credential")
	ErrAccountOwnershipMismatch = errors.New("account ownership signatures do not verify")
)

type (
	// IdentityObject is an identity as issued by an identity provider: the request, the
	// attributes the provider vouches for and the provider's signature over both.
	IdentityObject struct {
		PreIdentityObject PreIdentityObject `json:"preIdentityObject"`
		AttributeList     AttributeList     `json:"attributeList"`
		Signature         signed.Signature  `json:"signature"`
	}

	// ChainArData is a revoker's share of idCredPub, encrypted under the revoker's key.
	ChainArData struct {
		EncIdCredPubShare elgamal.Cipher `json:"encIdCredPubShare"`
	}

	// CredentialDeploymentValues are the public values of a credential.
	CredentialDeploymentValues struct {
		CredentialPublicKeys CredentialPublicKeys       `json:"credentialPublicKeys"`
		CredId               curve.Point                `json:"credId"`
		IpIdentity           IpIdentity                 `json:"ipIdentity"`
		RevocationThreshold  secretsharing.Threshold    `json:"revocationThreshold"`
		ArData               map[ArIdentity]ChainArData `json:"arData"`
		Policy               Policy                     `json:"policy"`
	}

	CredentialDeploymentCommitments struct {
		CmmPrf                   curve.Point   `json:"cmmPrf"`
		CmmCredCounter           curve.Point   `json:"cmmCredCounter"`
		CmmIdCredSecSharingCoeff []curve.Point `json:"cmmIdCredSecSharingCoeff"`
	}

	// IdOwnershipProofs prove that the credential derives from an identity object: Sig is a
	// re-randomization of the identity's signature commitment.
	IdOwnershipProofs struct {
		Sig         curve.Point                     `json:"sig"`
		Commitments CredentialDeploymentCommitments `json:"commitments"`
		Proof       zkproof.Proof                   `json:"proof"`
	}

	UnsignedCredentialDeploymentInfo struct {
		CredentialDeploymentValues
		Proofs IdOwnershipProofs `json:"proofs"`
	}

	AccountOwnershipProof struct {
		Sigs map[KeyIndex]signed.Signature `json:"sigs"`
	}

	CredDeploymentProofs struct {
		IdOwnershipProofs
		ProofAccSk AccountOwnershipProof `json:"proofAccSk"`
	}

	// CredentialDeploymentInfo is a credential signed by the keys of the account it deploys.
	CredentialDeploymentInfo struct {
		CredentialDeploymentValues
		Proofs CredDeploymentProofs `json:"proofs"`
	}

	issuedContent struct {
		IpIdentity    IpIdentity
		SigCommitment curve.Point
		AttributeList AttributeList
	}
)

// SignIdentityObject is what an identity provider does after verifying a pre-identity object:
// it signs the signature commitment together with the attribute list with its CDI key.
func SignIdentityObject(ctx *Context, sk ed25519.PrivateKey, pio *PreIdentityObject, alist *AttributeList) (*IdentityObject, error) {
	sig, err := signed.SignMessage(sk, issuedContent{ctx.IpInfo.IpIdentity, pio.SigCommitment, *alist})
	if err != nil {
		return nil, err
	}
	return &IdentityObject{PreIdentityObject: *pio, AttributeList: *alist, Signature: sig}, nil
}

// VerifySignature checks the identity provider's signature on the identity object.
func (o *IdentityObject) VerifySignature(ctx *Context) error {
	content := issuedContent{ctx.IpInfo.IpIdentity, o.PreIdentityObject.SigCommitment, o.AttributeList}
	if err := signed.VerifyMessage(ctx.IpInfo.IpCdiVerifyKey, content, o.Signature); err != nil {
		return ErrIdentitySignature
	}
	return nil
}

// CreateUnsignedCredential builds credential number credNum of the identity, revealing the
// attributes of the policy and controlled by keys. A nil address deploys a new account,
// otherwise the credential is added to the existing account at address.
func (AccountHolder) CreateUnsignedCredential(
	ctx *Context,
	idObject *IdentityObject,
	useData *IdObjectUseData,
	credNum uint8,
	policy *Policy,
	keys *CredentialPublicKeys,
	address *AccountAddress,
) (*UnsignedCredentialDeploymentInfo, error) {
	if credNum >= idObject.AttributeList.MaxAccounts {
		return nil, ErrTooManyCredentials
	}
	if err := keys.Validate(); err != nil {
		return nil, err
	}
	if err := idObject.VerifySignature(ctx); err != nil {
		return nil, err
	}

	idCredSec := useData.Aci.CredHolderInfo.IdCredSec
	prfKey := useData.Aci.PrfKey
	ck := ctx.Global.OnChainCommitmentKey
	g := ck.G

	y1, y2, _, err := ctx.ipBases()
	if err != nil {
		return nil, err
	}
	sigRand := useData.Randomness.Scalar
	if !g.Mul(sigRand).Add(y1.Mul(idCredSec)).Add(y2.Mul(prfKey.Scalar)).Equal(idObject.PreIdentityObject.SigCommitment) {
		return nil, ErrRandomnessMismatch
	}

	credID, err := prfKey.Prf(g, credNum)
	if err != nil {
		return nil, err
	}

	choice := idObject.PreIdentityObject.ChoiceArData
	if err = choice.Threshold.Validate(len(choice.ArIdentities)); err != nil {
		return nil, err
	}
	for _, ar := range choice.ArIdentities {
		if _, ok := ctx.ArsInfos[ar]; !ok || ar == 0 {
			return nil, errors.WrapPrefix(ErrUnknownRevoker, ar.String(), 0)
		}
	}

	rnd, err := randomScalars(4)
	if err != nil {
		return nil, err
	}
	delta, rhoPrf, rhoCounter, nu0 := rnd[0], rnd[1], rnd[2], rnd[3]

	icsPoly, err := secretsharing.NewPolynomial(idCredSec, choice.Threshold)
	if err != nil {
		return nil, err
	}
	nuPoly, err := secretsharing.NewPolynomial(nu0, choice.Threshold)
	if err != nil {
		return nil, err
	}
	coeffCommitments := make([]curve.Point, len(icsPoly))
	for j := range icsPoly {
		coeffCommitments[j] = ck.Commit(icsPoly[j], nuPoly[j])
	}

	info := &UnsignedCredentialDeploymentInfo{
		CredentialDeploymentValues: CredentialDeploymentValues{
			CredentialPublicKeys: *keys,
			CredId:               credID,
			IpIdentity:           ctx.IpInfo.IpIdentity,
			RevocationThreshold:  choice.Threshold,
			ArData:               make(map[ArIdentity]ChainArData, len(choice.ArIdentities)),
			Policy:               *policy,
		},
		Proofs: IdOwnershipProofs{
			Sig: idObject.PreIdentityObject.SigCommitment.Add(g.Mul(delta)),
			Commitments: CredentialDeploymentCommitments{
				CmmPrf:                   ck.Commit(prfKey.Scalar, rhoPrf),
				CmmCredCounter:           ck.Commit(curve.NewScalar(uint64(credNum)), rhoCounter),
				CmmIdCredSecSharingCoeff: coeffCommitments,
			},
		},
	}

	secrets := map[string]curve.Scalar{
		"idCredSec":  idCredSec,
		"prfKey":     prfKey.Scalar,
		"credNum":    curve.NewScalar(uint64(credNum)),
		"sigRand":    sigRand.Add(delta),
		"rhoPrf":     rhoPrf,
		"rhoCounter": rhoCounter,
		"nu0":        nu0,
	}
	for _, ar := range choice.ArIdentities {
		x := curve.NewScalar(uint64(ar))
		share := icsPoly.Evaluate(x)
		cipher, rho, err := ctx.ArsInfos[ar].PublicKey(ctx.Global).EncryptPoint(g.Mul(share))
		if err != nil {
			return nil, err
		}
		info.ArData[ar] = ChainArData{EncIdCredPubShare: cipher}
		secrets[arName(ar, "share", 0)] = share
		secrets[arName(ar, "nu", 0)] = nuPoly.Evaluate(x)
		secrets[arName(ar, "rho", 0)] = rho
	}

	structures, bases, err := credentialStatement(ctx, info)
	if err != nil {
		return nil, err
	}
	proofContext, err := credentialProofContext(ctx, &info.CredentialDeploymentValues, address)
	if err != nil {
		return nil, err
	}
	proof, err := zkproof.Prove(credentialProofLabel, structures, bases, zkproof.NewSecrets(secrets), proofContext)
	if err != nil {
		return nil, err
	}
	info.Proofs.Proof = *proof
	return info, nil
}

// VerifyCredential checks the proofs of an unsigned credential for the given target address.
func VerifyCredential(ctx *Context, info *UnsignedCredentialDeploymentInfo, address *AccountAddress) error {
	structures, bases, err := credentialStatement(ctx, info)
	if err != nil {
		return err
	}
	proofContext, err := credentialProofContext(ctx, &info.CredentialDeploymentValues, address)
	if err != nil {
		return err
	}
	return zkproof.Verify(credentialProofLabel, structures, bases, &info.Proofs.Proof, proofContext)
}

// credentialStatement lists the relations a credential proves:
//
//	sig = sigRand*g + idCredSec*y1 + prfKey*y2
//	g = prfKey*credId + credNum*credId
//	cmmPrf = prfKey*g + rhoPrf*h
//	cmmCredCounter = credNum*g + rhoCounter*h
//	coeff_0 = idCredSec*g + nu0*h
//
// and for every revoker x with share commitment S_x = sum(x^j * coeff_j) and cipher (c1, c2):
//
//	S_x = share*g + nu*h
//	c1 = rho*g
//	c2 = share*g + rho*pk_x
func credentialStatement(ctx *Context, info *UnsignedCredentialDeploymentInfo) ([]zkproof.RepresentationProofStructure, zkproof.BaseLookup, error) {
	coeffs := info.Proofs.Commitments.CmmIdCredSecSharingCoeff
	if err := info.RevocationThreshold.Validate(len(info.ArData)); err != nil {
		return nil, nil, err
	}
	if len(coeffs) != int(info.RevocationThreshold) {
		return nil, nil, ErrMalformedCredential
	}
	y1, y2, _, err := ctx.ipBases()
	if err != nil {
		return nil, nil, err
	}
	ck := ctx.Global.OnChainCommitmentKey
	bases := zkproof.Bases{
		"g":              ck.G,
		"h":              ck.H,
		"y1":             y1,
		"y2":             y2,
		"sig":            info.Proofs.Sig,
		"credId":         info.CredId,
		"cmmPrf":         info.Proofs.Commitments.CmmPrf,
		"cmmCredCounter": info.Proofs.Commitments.CmmCredCounter,
		"coeff0":         coeffs[0],
	}
	structures := []zkproof.RepresentationProofStructure{
		{
			Lhs: []zkproof.LhsContribution{{Base: "sig", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "sigRand", Power: 1},
				{Base: "y1", Secret: "idCredSec", Power: 1},
				{Base: "y2", Secret: "prfKey", Power: 1},
			},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "g", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "credId", Secret: "prfKey", Power: 1},
				{Base: "credId", Secret: "credNum", Power: 1},
			},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "cmmPrf", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "prfKey", Power: 1},
				{Base: "h", Secret: "rhoPrf", Power: 1},
			},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "cmmCredCounter", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "credNum", Power: 1},
				{Base: "h", Secret: "rhoCounter", Power: 1},
			},
		},
		{
			Lhs: []zkproof.LhsContribution{{Base: "coeff0", Power: 1}},
			Rhs: []zkproof.RhsContribution{
				{Base: "g", Secret: "idCredSec", Power: 1},
				{Base: "h", Secret: "nu0", Power: 1},
			},
		},
	}

	ars := make([]ArIdentity, 0, len(info.ArData))
	for ar := range info.ArData {
		ars = append(ars, ar)
	}
	sortArIdentities(ars)
	parts := []zkproof.BaseLookup{bases}
	for _, ar := range ars {
		arInfo, ok := ctx.ArsInfos[ar]
		if !ok || ar == 0 {
			return nil, nil, errors.WrapPrefix(ErrUnknownRevoker, ar.String(), 0)
		}
		shareCom, err := curve.MultiExp(coeffs, secretsharing.Powers(uint32(ar), len(coeffs)))
		if err != nil {
			return nil, nil, err
		}
		c := info.ArData[ar].EncIdCredPubShare
		pk, shareName := arName(ar, "pk", 0), arName(ar, "shareCom", 0)
		c1, c2 := arName(ar, "c1", 0), arName(ar, "c2", 0)
		share, nu, rho := arName(ar, "share", 0), arName(ar, "nu", 0), arName(ar, "rho", 0)
		parts = append(parts, zkproof.Bases{pk: arInfo.ArPublicKey, shareName: shareCom, c1: c.C1, c2: c.C2})
		structures = append(structures,
			zkproof.RepresentationProofStructure{
				Lhs: []zkproof.LhsContribution{{Base: shareName, Power: 1}},
				Rhs: []zkproof.RhsContribution{
					{Base: "g", Secret: share, Power: 1},
					{Base: "h", Secret: nu, Power: 1},
				},
			},
			zkproof.RepresentationProofStructure{
				Lhs: []zkproof.LhsContribution{{Base: c1, Power: 1}},
				Rhs: []zkproof.RhsContribution{{Base: "g", Secret: rho, Power: 1}},
			},
			zkproof.RepresentationProofStructure{
				Lhs: []zkproof.LhsContribution{{Base: c2, Power: 1}},
				Rhs: []zkproof.RhsContribution{
					{Base: "g", Secret: share, Power: 1},
					{Base: pk, Secret: rho, Power: 1},
				},
			},
		)
	}
	return structures, zkproof.NewBaseMerge(parts...), nil
}

// credentialProofContext binds the keys, policy and target address to the proof.
func credentialProofContext(ctx *Context, values *CredentialDeploymentValues, address *AccountAddress) ([]byte, error) {
	return cbor.Marshal(struct {
		Values        *CredentialDeploymentValues
		Address       *AccountAddress
		GenesisString string
	}{values, address, ctx.Global.GenesisString})
}

// SigningDigest returns the digest the account keys sign to prove ownership of the account
// the credential is deployed on.
func (u *UnsignedCredentialDeploymentInfo) SigningDigest(address *AccountAddress) ([]byte, error) {
	return signed.MessageDigest(struct {
		Values  *CredentialDeploymentValues
		Proofs  *IdOwnershipProofs
		Address *AccountAddress
	}{&u.CredentialDeploymentValues, &u.Proofs, address})
}

// Address returns the address of the new account this credential creates.
func (u *UnsignedCredentialDeploymentInfo) Address() AccountAddress {
	return NewAccountAddress(u.CredId)
}

// Sign attaches account ownership signatures to the credential.
func (u *UnsignedCredentialDeploymentInfo) Sign(sigs map[KeyIndex]signed.Signature) *CredentialDeploymentInfo {
	return &CredentialDeploymentInfo{
		CredentialDeploymentValues: u.CredentialDeploymentValues,
		Proofs: CredDeploymentProofs{
			IdOwnershipProofs: u.Proofs,
			ProofAccSk:        AccountOwnershipProof{Sigs: sigs},
		},
	}
}

// Unsigned strips the account ownership signatures.
func (c *CredentialDeploymentInfo) Unsigned() *UnsignedCredentialDeploymentInfo {
	return &UnsignedCredentialDeploymentInfo{
		CredentialDeploymentValues: c.CredentialDeploymentValues,
		Proofs:                     c.Proofs.IdOwnershipProofs,
	}
}

// VerifyAccountOwnership checks that at least threshold of the credential's keys signed it
// and that every signature is valid.
func (c *CredentialDeploymentInfo) VerifyAccountOwnership(address *AccountAddress) error {
	keys := c.CredentialPublicKeys
	sigs := c.Proofs.ProofAccSk.Sigs
	if len(sigs) < int(keys.Threshold) {
		return ErrAccountOwnershipMismatch
	}
	digest, err := c.Unsigned().SigningDigest(address)
	if err != nil {
		return err
	}
	for idx, sig := range sigs {
		key, ok := keys.Keys[idx]
		if !ok {
			return ErrAccountOwnershipMismatch
		}
		if err = signed.Verify(key.VerifyKey, digest, sig); err != nil {
			return ErrAccountOwnershipMismatch
		}
	}
	return nil
}
