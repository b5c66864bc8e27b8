package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccdid/idwallet/server"
)

const (
	keyHost        = "host"
	keyPort        = "port"
	keyEnableCORS  = "enable-cors"
	keyCorsOrigins = "cors-origins"
	keyMaxRequest  = "max-request-size"
)

func newServeCmd(a *app) *cobra.Command {
	defaults := server.DefaultServeConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document operations over HTTP",
		Long: `Serves every document operation as a POST endpoint taking {input, signature, idCredSec,
prfKey, expiry}. Requests carry secrets, so only listen on a local interface.`,
		Example: `  idwallet serve --port 9090
  curl -d '{"input": {...}, "prfKey": "s2"}' localhost:9090/decrypt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaults
			cfg.Host = a.conf.GetString(keyHost)
			cfg.Port = a.conf.GetInt(keyPort)
			cfg.EnableCORS = a.conf.GetBool(keyEnableCORS)
			cfg.CorsOrigins = a.conf.GetStringSlice(keyCorsOrigins)
			cfg.MaxRequestSize = a.conf.GetInt64(keyMaxRequest)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, &cfg, a.wallet, a.log)
		},
	}

	cmd.Flags().String(keyHost, defaults.Host, "host to bind to")
	cmd.Flags().IntP(keyPort, "p", defaults.Port, "port to listen on")
	cmd.Flags().Bool(keyEnableCORS, false, "enable CORS middleware")
	cmd.Flags().StringSlice(keyCorsOrigins, defaults.CorsOrigins, "allowed CORS origins")
	cmd.Flags().Int64(keyMaxRequest, defaults.MaxRequestSize, "maximum request body size in bytes")
	return cmd
}
