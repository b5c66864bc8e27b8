package idwallet

import (
	"github.com/sirupsen/logrus"

	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/signed"
	"github.com/ccdid/idwallet/transactions"
)

// DeploymentDetails is a credential deployment ready for submission.
type DeploymentDetails struct {
	CredInfo *id.CredentialDeploymentInfo `json:"credInfo"`
	// Hex is the versioned wire encoding of the block item.
	Hex string `json:"hex"`
	// Hash is the hash of the unversioned encoding of the block item.
	Hash    transactions.TransactionHash `json:"hash"`
	Address id.AccountAddress            `json:"address"`
}

// Deploy attaches the signature of key 0 of the account to the credential.
// TODO: accept signatures under caller chosen key indices for accounts with several keys.
func Deploy(unsigned *id.UnsignedCredentialDeploymentInfo, sig signed.Signature) *id.CredentialDeploymentInfo {
	return unsigned.Sign(map[id.KeyIndex]signed.Signature{0: sig})
}

// Finalize signs the credential with Deploy and packages it as a block item expiring at expiry.
// A credential that cannot be encoded yields a CredentialBuildError.
func Finalize(unsigned *id.UnsignedCredentialDeploymentInfo, sig signed.Signature, expiry transactions.TransactionTime) (*DeploymentDetails, error) {
	if err := unsigned.CredentialPublicKeys.Validate(); err != nil {
		return nil, &CredentialBuildError{Err: err}
	}
	cdi := Deploy(unsigned, sig)
	item := transactions.NewCredentialDeployment(cdi, expiry)
	hash, err := item.Hash()
	if err != nil {
		return nil, &CredentialBuildError{Err: err}
	}
	hex, err := item.Hex()
	if err != nil {
		return nil, &CredentialBuildError{Err: err}
	}
	return &DeploymentDetails{
		CredInfo: cdi,
		Hex:      hex,
		Hash:     hash,
		Address:  unsigned.Address(),
	}, nil
}

// unsignedCredential reads an unsigned credential document field by field.
func unsignedCredential(input string) (*id.UnsignedCredentialDeploymentInfo, error) {
	doc, err := parseDocument("unsignedInfo", input)
	if err != nil {
		return nil, err
	}
	var u id.UnsignedCredentialDeploymentInfo
	if err = doc.required("credentialPublicKeys", &u.CredentialPublicKeys); err != nil {
		return nil, err
	}
	if err = u.CredentialPublicKeys.Validate(); err != nil {
		return nil, &MalformedFieldError{Field: "credentialPublicKeys", Err: err}
	}
	for _, f := range []struct {
		name string
		v    interface{}
	}{
		{"credId", &u.CredId},
		{"ipIdentity", &u.IpIdentity},
		{"revocationThreshold", &u.RevocationThreshold},
		{"arData", &u.ArData},
		{"policy", &u.Policy},
		{"proofs", &u.Proofs},
	} {
		if err = doc.required(f.name, f.v); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

// GetCredentialDeploymentInfo is the document form of Deploy. The signature is decoded before
// anything else.
func (w *Wallet) GetCredentialDeploymentInfo(signature, unsignedInfo string) (string, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return "", err
	}
	unsigned, err := unsignedCredential(unsignedInfo)
	if err != nil {
		return "", err
	}
	return marshal(Deploy(unsigned, sig))
}

// GetCredentialDeploymentDetails is the document form of Finalize, with expiry in seconds since
// the Unix epoch. It returns DeploymentDetails.
func (w *Wallet) GetCredentialDeploymentDetails(signature, unsignedInfo string, expiry uint64) (string, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return "", err
	}
	unsigned, err := unsignedCredential(unsignedInfo)
	if err != nil {
		return "", err
	}
	expiryTime := transactions.TransactionTime(expiry)
	details, err := Finalize(unsigned, sig, expiryTime)
	if err != nil {
		return "", err
	}
	w.log.WithFields(logrus.Fields{"hash": details.Hash, "expiry": expiryTime.Time()}).Debug("Finalized credential deployment")
	return marshal(details)
}
