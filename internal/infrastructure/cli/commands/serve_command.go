package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nlp2cmd/nlp2cmd/internal/app"
	"github.com/nlp2cmd/nlp2cmd/internal/infrastructure/httpapi"
)

// NewServeCommand creates the 'serve' command: run the HTTP front-end.
func NewServeCommand(container *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP query service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := httpapi.LoadServerConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			appCfg, err := container.ConfigLoader.Load(ctx)
			if err != nil {
				return err
			}
			opts := httpapi.Options{
				AutoRepair:     appCfg.Synthesis.AutoRepair,
				Resolver:       appCfg.Synthesis.DefaultResolver,
				TimeoutSeconds: appCfg.Synthesis.TimeoutSeconds,
			}

			server := httpapi.NewServer(container.SynthService, container.DoctorService, container.Logger, opts)
			return server.ListenAndServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides NLP2CMD_ADDR)")
	return cmd
}
