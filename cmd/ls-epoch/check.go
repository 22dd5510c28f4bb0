package main

import (
	"github.com/spf13/cobra"

	"github.com/litescript/ls-epoch/internal/state"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse an Earth orientation table and summarize it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := dataPath(cfg, args)
		if err != nil {
			return err
		}

		table, err := state.LoadFile(path)
		if err != nil {
			return err
		}
		writeSummary(cmd.OutOrStdout(), path, table)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
