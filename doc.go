// Package idwallet implements the account holder's side of identity issuance on a
// Concordium-style chain: deriving secrets from seeds, requesting an identity from an
// identity provider, turning the identity into account credentials, packaging a signed
// credential as a block item and decrypting the amounts encrypted to an account.
//
// Every operation exists in two forms. The typed form (BuildRequest, BuildUnsignedCredential,
// Finalize, DecryptBatch) works on the types of package id. The document form (CreateIDRequest,
// GenerateUnsignedCredential, GetCredentialDeploymentDetails, DecryptAmounts) takes and returns
// JSON, and reports a missing or malformed input field as a MissingFieldError or
// MalformedFieldError naming the field. See wallet_test.go for the complete flow.
package idwallet
