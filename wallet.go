package idwallet

import (
	"github.com/sirupsen/logrus"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/keygen"
	"github.com/ccdid/idwallet/prf"
	"github.com/ccdid/idwallet/secretsharing"
)

// Protocol constructs the zero-knowledge parts of identity issuance and credential creation.
// id.AccountHolder is the default implementation.
type Protocol interface {
	BuildPubInfoForIP(ctx *id.Context, idCredSec curve.Scalar, prfKey prf.SecretKey, initial *id.InitialAccountData) (*id.PublicInformationForIP, error)
	GeneratePIO(ctx *id.Context, threshold secretsharing.Threshold, aci *id.AccCredentialInfo, initial *id.InitialAccountDataWithSignature) (*id.PreIdentityObject, *id.SigRetrievalRandomness, error)
	CreateUnsignedCredential(ctx *id.Context, idObject *id.IdentityObject, useData *id.IdObjectUseData, credNum uint8, policy *id.Policy, keys *id.CredentialPublicKeys, address *id.AccountAddress) (*id.UnsignedCredentialDeploymentInfo, error)
}

// Wallet runs the account holder's side of identity issuance, credential deployment and
// amount decryption. A Wallet holds no state between calls and may be used concurrently.
type Wallet struct {
	log      logrus.FieldLogger
	protocol Protocol
}

type Option func(*Wallet)

// WithProtocol replaces the construction of pre-identity objects and credentials.
func WithProtocol(p Protocol) Option {
	return func(w *Wallet) {
		if p != nil {
			w.protocol = p
		}
	}
}

func New(opts ...Option) *Wallet {
	w := &Wallet{
		log:      discardLogger(),
		protocol: id.AccountHolder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AssembleContext checks the revoker registry and collects the issuance context. Every
// revoker must be registered under its own, nonzero, identity.
func AssembleContext(ip id.IpInfo, ars map[id.ArIdentity]id.ArInfo, global id.GlobalContext) (*id.Context, error) {
	if len(ars) == 0 {
		return nil, &ContextError{Reason: "at least one anonymity revoker is required"}
	}
	for key, ar := range ars {
		if key == 0 {
			return nil, &ContextError{Reason: "anonymity revoker identity must be at least 1"}
		}
		if key != ar.ArIdentity {
			return nil, &ContextError{Reason: "anonymity revoker " + key.String() + " is registered with identity " + ar.ArIdentity.String()}
		}
	}
	return id.NewContext(ip, ars, global), nil
}

// deriveSecret derives the secret for field from its seed.
func deriveSecret(field, seed string) (curve.Scalar, error) {
	s, err := keygen.DeriveSecret(seed, nil)
	if err != nil {
		return curve.Scalar{}, &KeyDerivationError{Field: field, Err: err}
	}
	return s, nil
}

// deriveSecrets derives the identity's credential holder secret and PRF key.
func deriveSecrets(idCredSecSeed, prfKeySeed string) (*id.AccCredentialInfo, error) {
	idCredSec, err := deriveSecret("idCredSec", idCredSecSeed)
	if err != nil {
		return nil, err
	}
	prfKey, err := deriveSecret("prfKey", prfKeySeed)
	if err != nil {
		return nil, err
	}
	return &id.AccCredentialInfo{
		CredHolderInfo: id.CredentialHolderInfo{IdCredSec: idCredSec},
		PrfKey:         prf.NewSecretKey(prfKey),
	}, nil
}
