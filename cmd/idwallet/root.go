package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		a       = &app{}
	)

	rootCmd := &cobra.Command{
		Use:   "idwallet",
		Short: "Identity wallet for account holders",
		Long: `Runs the account holder's side of identity issuance: it requests an identity from an
identity provider, turns the identity into account credentials, packages signed credentials
for submission and decrypts amounts encrypted to an account. Documents are JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := newApp(cfgFile, cmd.Flags(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*a = *loaded
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.idwallet.yaml)")
	flags.String(keyLogLevel, "warning", "log level (trace, debug, info, warning, error)")
	flags.String(keyLogFormat, "text", "log format (text or json)")
	flags.StringP(keyOutput, "o", "-", "output file, - for stdout")

	rootCmd.AddCommand(
		newPubInfoCmd(a),
		newIDRequestCmd(a),
		newCredentialCmd(a),
		newDeploymentInfoCmd(a),
		newDeploymentCmd(a),
		newDecryptCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}
