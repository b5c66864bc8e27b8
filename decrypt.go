package idwallet

import (
	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/elgamal"
	"github.com/ccdid/idwallet/encrypted"
	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/prf"
)

// DecryptBatch decrypts amounts encrypted under the account key of credential credIndex. The
// decryption table is built once for the whole batch. Either every amount is returned, in the
// order of ciphertexts, or the first failure.
func DecryptBatch(global id.GlobalContext, prfKey prf.SecretKey, credIndex uint8, ciphertexts []encrypted.EncryptedAmount) ([]encrypted.Amount, error) {
	exponent, err := prfKey.Exponent(credIndex)
	if err != nil {
		return nil, &KeyDerivationError{Field: "prfKey", Err: err}
	}
	sk := elgamal.NewSecretKey(global.ElgamalGenerator(), exponent)
	table := encrypted.NewTable(global.EncryptionInExponentGenerator())

	amounts := make([]encrypted.Amount, len(ciphertexts))
	for i, c := range ciphertexts {
		amounts[i], err = encrypted.DecryptAmount(table, sk, c)
		if errors.Is(err, elgamal.ErrOutOfRange) {
			return nil, &AmountOutOfRangeError{Index: i}
		}
		if err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

// DecryptAmounts is the document form of DecryptBatch. The input holds encryptedAmounts, the
// prfKey seed, credentialNumber and global. It returns the amounts as a list of decimal strings.
func (w *Wallet) DecryptAmounts(input string) (string, error) {
	doc, err := parseDocument("input", input)
	if err != nil {
		return "", err
	}
	var (
		global      id.GlobalContext
		ciphertexts []encrypted.EncryptedAmount
		seed        string
		credIndex   uint8
	)
	if err = doc.required("global", &global); err != nil {
		return "", err
	}
	if err = doc.required("encryptedAmounts", &ciphertexts); err != nil {
		return "", err
	}
	if err = doc.required("prfKey", &seed); err != nil {
		return "", err
	}
	if err = doc.required("credentialNumber", &credIndex); err != nil {
		return "", err
	}
	prfKey, err := deriveSecret("prfKey", seed)
	if err != nil {
		return "", err
	}

	w.log.WithField("count", len(ciphertexts)).Debug("Decrypting amounts")
	amounts, err := DecryptBatch(global, prf.NewSecretKey(prfKey), credIndex, ciphertexts)
	if err != nil {
		return "", err
	}
	return marshal(amounts)
}
