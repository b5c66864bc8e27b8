package idwallet

import (
	"encoding/json"

	"github.com/ccdid/idwallet/id"
	"github.com/ccdid/idwallet/signed"
)

// document is a JSON object whose fields are decoded on demand, so that a missing field and
// a malformed one give different errors.
type document map[string]json.RawMessage

func parseDocument(name, input string) (document, error) {
	var doc document
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return nil, &MalformedFieldError{Field: name, Err: err}
	}
	return doc, nil
}

// required decodes field into v.
func (d document) required(field string, v interface{}) error {
	raw, ok := d[field]
	if !ok {
		return &MissingFieldError{Field: field}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &MalformedFieldError{Field: field, Err: err}
	}
	return nil
}

// optional decodes field into v if it is present and not null, and reports whether it did.
func (d document) optional(field string, v interface{}) (bool, error) {
	raw, ok := d[field]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &MalformedFieldError{Field: field, Err: err}
	}
	return true, nil
}

// context reads the global parameters, the identity provider and the revokers.
func (d document) context() (*id.Context, error) {
	var (
		global id.GlobalContext
		ip     id.IpInfo
		ars    map[id.ArIdentity]id.ArInfo
	)
	if err := d.required("global", &global); err != nil {
		return nil, err
	}
	if err := d.required("ipInfo", &ip); err != nil {
		return nil, err
	}
	if err := d.required("arsInfos", &ars); err != nil {
		return nil, err
	}
	return AssembleContext(ip, ars, global)
}

// accountKeys reads the publicKeys list, numbered from 0, and its signature threshold.
func (d document) accountKeys() (*id.CredentialPublicKeys, error) {
	var (
		keys      []signed.AccountKey
		threshold id.SignatureThreshold
	)
	if err := d.required("publicKeys", &keys); err != nil {
		return nil, err
	}
	if err := d.required("threshold", &threshold); err != nil {
		return nil, err
	}
	pks := id.NewCredentialPublicKeys(keys, threshold)
	return &pks, nil
}

func decodeSignature(s string) (signed.Signature, error) {
	sig, err := signed.DecodeSignature(s)
	if err != nil {
		return signed.Signature{}, &SignatureDecodeError{Err: err}
	}
	return sig, nil
}

func marshal(v interface{}) (string, error) {
	bts, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bts), nil
}
