package idwallet

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/ccdid/idwallet/curve"
	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/prf"
	"github.com/ccdid/idwallet/secretsharing"
	"github.com/ccdid/idwallet/transactions"
)

// IDRequest is the output of CreateIDRequest: the versioned pre-identity object for the
// identity provider, and the randomness the account holder keeps for creating credentials.
type IDRequest struct {
	IdObjectRequest   transactions.Versioned[*id.PreIdentityObject] `json:"idObjectRequest"`
	RandomnessWrapped id.RandomnessWrapper                          `json:"randomness_wrapped"`
}

// BuildPubInfoForIP derives the public information of the initial account, which key 0 of
// the account signs before the request is built.
func (w *Wallet) BuildPubInfoForIP(ctx *id.Context, idCredSec curve.Scalar, prfKey prf.SecretKey, initial *id.InitialAccountData) (*id.PublicInformationForIP, error) {
	info, err := w.protocol.BuildPubInfoForIP(ctx, idCredSec, prfKey, initial)
	if err != nil {
		return nil, &PreIdentityBuildError{Err: err}
	}
	return info, nil
}

// BuildRequest builds the pre-identity object. A nil threshold selects
// secretsharing.DefaultThreshold of the number of revokers. The returned randomness is
// needed for every credential of the identity and must be kept secret.
func (w *Wallet) BuildRequest(
	ctx *id.Context,
	idCredSec curve.Scalar,
	prfKey prf.SecretKey,
	threshold *secretsharing.Threshold,
	initial *id.InitialAccountDataWithSignature,
) (*id.PreIdentityObject, *id.SigRetrievalRandomness, error) {
	n := len(ctx.ArsInfos)
	if n == 0 {
		return nil, nil, &ContextError{Reason: "at least one anonymity revoker is required"}
	}
	t := secretsharing.DefaultThreshold(n)
	if threshold != nil {
		t = *threshold
	}
	if err := t.Validate(n); err != nil {
		return nil, nil, &ThresholdError{Threshold: int(t), Revokers: n}
	}
	w.log.WithFields(logrus.Fields{"revokers": n, "threshold": t}).Debug("Building pre-identity object")

	aci := &id.AccCredentialInfo{
		CredHolderInfo: id.CredentialHolderInfo{IdCredSec: idCredSec},
		PrfKey:         prfKey,
	}
	pio, randomness, err := w.protocol.GeneratePIO(ctx, t, aci, initial)
	if err != nil {
		return nil, nil, &PreIdentityBuildError{Err: err}
	}
	return pio, randomness, nil
}

// PubInfoForIP is the document form of BuildPubInfoForIP. The input holds ipInfo, global,
// arsInfos, publicKeys and threshold.
func (w *Wallet) PubInfoForIP(input, idCredSecSeed, prfKeySeed string) (string, error) {
	doc, err := parseDocument("input", input)
	if err != nil {
		return "", err
	}
	ctx, err := doc.context()
	if err != nil {
		return "", err
	}
	keys, err := doc.accountKeys()
	if err != nil {
		return "", err
	}
	aci, err := deriveSecrets(idCredSecSeed, prfKeySeed)
	if err != nil {
		return "", err
	}
	info, err := w.BuildPubInfoForIP(ctx, aci.CredHolderInfo.IdCredSec, aci.PrfKey, keys)
	if err != nil {
		return "", err
	}
	return marshal(info)
}

// CreateIDRequest is the document form of BuildRequest. The input is that of PubInfoForIP,
// optionally with an explicit arThreshold, and signature is key 0's signature on the public
// information. It returns an IDRequest.
func (w *Wallet) CreateIDRequest(input, signature, idCredSecSeed, prfKeySeed string) (string, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return "", err
	}
	doc, err := parseDocument("input", input)
	if err != nil {
		return "", err
	}
	ctx, err := doc.context()
	if err != nil {
		return "", err
	}
	keys, err := doc.accountKeys()
	if err != nil {
		return "", err
	}
	var (
		arThreshold int
		threshold   *secretsharing.Threshold
	)
	ok, err := doc.optional("arThreshold", &arThreshold)
	if err != nil {
		return "", err
	}
	if ok {
		if arThreshold < 1 || arThreshold > len(ctx.ArsInfos) || arThreshold > math.MaxUint8 {
			return "", &ThresholdError{Threshold: arThreshold, Revokers: len(ctx.ArsInfos)}
		}
		t := secretsharing.Threshold(arThreshold)
		threshold = &t
	}
	aci, err := deriveSecrets(idCredSecSeed, prfKeySeed)
	if err != nil {
		return "", err
	}

	initial := &id.InitialAccountDataWithSignature{InitialAccountData: *keys, Signature: sig}
	pio, randomness, err := w.BuildRequest(ctx, aci.CredHolderInfo.IdCredSec, aci.PrfKey, threshold, initial)
	if err != nil {
		return "", err
	}
	return marshal(IDRequest{
		IdObjectRequest:   transactions.NewVersioned(transactions.Version0, pio),
		RandomnessWrapped: id.RandomnessWrapper{Randomness: *randomness},
	})
}
