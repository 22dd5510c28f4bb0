package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-epoch/internal/logging"
	"github.com/litescript/ls-epoch/internal/state"
	"github.com/litescript/ls-epoch/internal/ui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse time scales and Earth orientation in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("view needs a terminal; use lookup or convert for scripted output")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The viewer owns the terminal, so nothing may log to it.
	mgr := state.NewManager(state.DefaultConfig())
	loader, stop, err := openTable(cmd.Context(), cfg, mgr, logging.Discard(), nil)
	if err != nil {
		return err
	}
	defer stop()

	var reload ui.ReloadFunc
	if loader != nil {
		reload = loader.Reload
	}
	return ui.Run(mgr, reload)
}
