package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/minipas/internal/server"
)

var serveAddr string

// serve: HTTP front end for run/eval
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve POST /run and POST /eval over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Serve.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		// Request logs are shown by default; --verbose adds debug output.
		logger := slog.Default()
		if !verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		}
		opts := []server.Option{server.WithLogger(logger)}
		store, err := openRecorder()
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
			opts = append(opts, server.WithRecorder(store))
		}

		okColor.Fprintf(cmd.OutOrStdout(), "↪ serving on http://%s\n", addr)
		return server.New(cfg.Serve.MaxBody, opts...).ListenAndServe(addr)
	},
}

func init() {
	ServeCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
