package idwallet

import (
	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/signed"
)

// UnsignedCredential is the output of GenerateUnsignedCredential: the credential together with
// the digest the account keys must sign to deploy it.
type UnsignedCredential struct {
	*id.UnsignedCredentialDeploymentInfo
	AccountOwnershipChallenge id.HexBytes `json:"accountOwnershipChallenge"`
}

// BuildUnsignedCredential builds credential number credIndex of the identity, revealing the
// attributes tagged in tags and controlled by keys with the given threshold. A nil address
// targets a new account whose address derives from the credential.
func (w *Wallet) BuildUnsignedCredential(
	ctx *id.Context,
	idObject *id.IdentityObject,
	useData *id.IdObjectUseData,
	credIndex uint8,
	tags []id.AttributeTag,
	keys []signed.AccountKey,
	threshold id.SignatureThreshold,
	address *id.AccountAddress,
) (*id.UnsignedCredentialDeploymentInfo, error) {
	policy, err := id.NewPolicy(&idObject.AttributeList, tags)
	if err != nil {
		var attrErr *id.AttributeError
		if errors.As(err, &attrErr) {
			if errors.Is(attrErr.Err, id.ErrDuplicateAttribute) {
				return nil, &DuplicateAttributeError{Tag: attrErr.Tag}
			}
			return nil, &UnknownAttributeError{Tag: attrErr.Tag}
		}
		return nil, &CredentialBuildError{Err: err}
	}
	w.log.WithFields(logrus.Fields{
		"credentialIndex": credIndex,
		"revealed":        len(tags),
		"newAccount":      address == nil,
	}).Debug("Building unsigned credential")

	pks := id.NewCredentialPublicKeys(keys, threshold)
	unsigned, err := w.protocol.CreateUnsignedCredential(ctx, idObject, useData, credIndex, policy, &pks, address)
	if err != nil {
		return nil, &CredentialBuildError{Err: err}
	}
	return unsigned, nil
}

// GenerateUnsignedCredential is the document form of BuildUnsignedCredential. The input holds
// ipInfo, global, arsInfos, identityObject, revealedAttributes, credentialNumber, publicKeys,
// threshold, the idCredSec and prfKey seeds, the randomness returned by CreateIDRequest and
// optionally the address of an existing account. It returns an UnsignedCredential.
func (w *Wallet) GenerateUnsignedCredential(input string) (string, error) {
	doc, err := parseDocument("input", input)
	if err != nil {
		return "", err
	}
	ctx, err := doc.context()
	if err != nil {
		return "", err
	}
	var (
		idObject              id.IdentityObject
		tags                  []id.AttributeTag
		credIndex             uint8
		keys                  []signed.AccountKey
		threshold             id.SignatureThreshold
		idCredSecSeed, prfKey string
		randomness            id.RandomnessWrapper
		address               id.AccountAddress
	)
	for _, f := range []struct {
		name string
		v    interface{}
	}{
		{"identityObject", &idObject},
		{"revealedAttributes", &tags},
		{"credentialNumber", &credIndex},
		{"publicKeys", &keys},
		{"threshold", &threshold},
		{"idCredSec", &idCredSecSeed},
		{"prfKey", &prfKey},
		{"randomness", &randomness},
	} {
		if err = doc.required(f.name, f.v); err != nil {
			return "", err
		}
	}
	hasAddress, err := doc.optional("address", &address)
	if err != nil {
		return "", err
	}
	var target *id.AccountAddress
	if hasAddress {
		target = &address
	}

	aci, err := deriveSecrets(idCredSecSeed, prfKey)
	if err != nil {
		return "", err
	}
	useData := &id.IdObjectUseData{Aci: *aci, Randomness: randomness.Randomness}
	unsigned, err := w.BuildUnsignedCredential(ctx, &idObject, useData, credIndex, tags, keys, threshold, target)
	if err != nil {
		return "", err
	}
	challenge, err := unsigned.SigningDigest(target)
	if err != nil {
		return "", &CredentialBuildError{Err: err}
	}
	return marshal(UnsignedCredential{
		UnsignedCredentialDeploymentInfo: unsigned,
		AccountOwnershipChallenge:        challenge,
	})
}
