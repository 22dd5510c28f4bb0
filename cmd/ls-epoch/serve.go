package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-epoch/internal/server"
	"github.com/litescript/ls-epoch/internal/state"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups and conversions over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from listen_addr)")
	serveCmd.Flags().Bool("watch", false, "reload the data file when it changes")
	_ = viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("watch", serveCmd.Flags().Lookup("watch"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mgr := state.NewManager(state.DefaultConfig())
	_, stop, err := openTable(ctx, cfg, mgr, log, reg)
	if err != nil {
		return err
	}
	defer stop()

	return server.New(cfg.ListenAddr, mgr, reg, log).Run(ctx)
}
