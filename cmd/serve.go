package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathmind/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		d, err := buildDeps(cmd, depsOptions{withMetrics: true})
		if err != nil {
			return err
		}
		defer d.close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			d.cfg.Server.Addr = addr
		}

		srv := server.New(server.Deps{
			Generator: d.gen,
			Recorder:  d.writer,
			Progress:  d.progress,
			Lessons:   d.lessons,
			Metrics:   d.metrics,
			Log:       d.log,
			Config:    d.cfg.Server,
		})

		d.log.Info("serving", "addr", d.cfg.Server.Addr, "provider", d.cfg.LLM.Provider, "model", d.provider.ModelID(), "database", d.store.Dialect())
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
