package main

import (
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
)

// Flags of the subcommands. They are bound to the configuration, so the secrets may also be
// given in the environment, e.g. IDWALLET_PRF_KEY.
const (
	keyInput     = "input"
	keySignature = "signature"
	keyIdCredSec = "id-cred-sec"
	keyPrfKey    = "prf-key"
	keyExpiry    = "expiry"
)

func inputFlag(cmd *cobra.Command, what string) {
	cmd.Flags().StringP(keyInput, "i", "-", what+" document, - for stdin")
}

func seedFlags(cmd *cobra.Command) {
	cmd.Flags().String(keyIdCredSec, "", "seed of the credential holder secret")
	cmd.Flags().String(keyPrfKey, "", "seed of the PRF key")
}

func signatureFlag(cmd *cobra.Command, what string) {
	cmd.Flags().StringP(keySignature, "s", "", what+", 128 hex characters")
}

// run reads the input document, applies op and writes its result.
func (a *app) run(cmd *cobra.Command, op func(input string) (string, error)) error {
	input, err := readInput(a.conf.GetString(keyInput), cmd.InOrStdin())
	if err != nil {
		return err
	}
	out, err := op(input)
	if err != nil {
		return err
	}
	return a.writeOutput(out, cmd.OutOrStdout())
}

func newPubInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pub-info",
		Short: "Derive the public information of the initial account",
		Long: `Derives the public information of the initial account, which key 0 of the account signs
before the identity request is created. The input holds ipInfo, global, arsInfos, publicKeys
and threshold.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(input string) (string, error) {
				return a.wallet.PubInfoForIP(input, a.conf.GetString(keyIdCredSec), a.conf.GetString(keyPrfKey))
			})
		},
	}
	inputFlag(cmd, "issuance")
	seedFlags(cmd)
	return cmd
}

func newIDRequestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id-request",
		Short: "Create the request for an identity",
		Long: `Creates the pre-identity object sent to the identity provider and the randomness to keep
for creating credentials. The input is that of pub-info, optionally with arThreshold.`,
		Example: `  idwallet pub-info -i issuance.json --id-cred-sec s1 --prf-key s2 -o pubinfo.json
  # sign pubinfo.json with key 0 of the initial account
  idwallet id-request -i issuance.json --id-cred-sec s1 --prf-key s2 -s <signature>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(input string) (string, error) {
				return a.wallet.CreateIDRequest(input, a.conf.GetString(keySignature),
					a.conf.GetString(keyIdCredSec), a.conf.GetString(keyPrfKey))
			})
		},
	}
	inputFlag(cmd, "issuance")
	seedFlags(cmd)
	signatureFlag(cmd, "signature of the initial account information")
	return cmd
}

func newCredentialCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Create an unsigned account credential from an identity",
		Long: `Creates an unsigned credential from an identity object. The input holds ipInfo, global,
arsInfos, identityObject, revealedAttributes, credentialNumber, publicKeys, threshold, the
idCredSec and prfKey seeds, randomness and optionally the address of an existing account. The
output contains the accountOwnershipChallenge the account keys sign.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, a.wallet.GenerateUnsignedCredential)
		},
	}
	inputFlag(cmd, "credential")
	return cmd
}

func newDeploymentInfoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployment-info",
		Short: "Attach the account signature to an unsigned credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(input string) (string, error) {
				return a.wallet.GetCredentialDeploymentInfo(a.conf.GetString(keySignature), input)
			})
		},
	}
	inputFlag(cmd, "unsigned credential")
	signatureFlag(cmd, "signature of the account ownership challenge")
	return cmd
}

func newDeploymentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deployment",
		Short: "Package a signed credential for submission",
		Long: `Attaches the account signature to an unsigned credential and packages it as a block item
expiring at the given time. The output holds the credential, the hex of the block item, its
hash and the address of the account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expiry := a.conf.GetUint64(keyExpiry)
			if expiry == 0 {
				return errors.New("--expiry is required")
			}
			return a.run(cmd, func(input string) (string, error) {
				return a.wallet.GetCredentialDeploymentDetails(a.conf.GetString(keySignature), input, expiry)
			})
		},
	}
	inputFlag(cmd, "unsigned credential")
	signatureFlag(cmd, "signature of the account ownership challenge")
	cmd.Flags().Uint64(keyExpiry, 0, "expiry of the block item in seconds since the Unix epoch")
	return cmd
}

func newDecryptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt amounts encrypted to an account",
		Long: `Decrypts amounts encrypted under the key of an account credential. The input holds
encryptedAmounts, the prfKey seed, credentialNumber and global.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, a.wallet.DecryptAmounts)
		},
	}
	inputFlag(cmd, "decryption")
	return cmd
}
