package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-epoch/internal/server"
	"github.com/litescript/ls-epoch/internal/state"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [file]",
	Short: "Print the interpolated table record at an instant",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().Float64("mjd", 0, "Modified Julian Day of the instant")
	lookupCmd.Flags().String("scale", "UTC", "scale of --mjd (UTC, TAI or UT1)")
	lookupCmd.Flags().Bool("json", false, "output the record as JSON")
	_ = lookupCmd.MarkFlagRequired("mjd")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := dataPath(cfg, args)
	if err != nil {
		return err
	}
	mjd, _ := cmd.Flags().GetFloat64("mjd")
	scale, _ := cmd.Flags().GetString("scale")
	asJSON, _ := cmd.Flags().GetBool("json")

	table, err := state.LoadFile(path)
	if err != nil {
		return err
	}

	scale = strings.ToUpper(scale)
	rec, ok, err := table.LookupMJD(scale, mjd)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no data for MJD %v %s in %s", mjd, scale, path)
	}

	if asJSON {
		return server.WriteJSON(cmd.OutOrStdout(), server.ExportRecord(rec))
	}
	writeRecord(cmd.OutOrStdout(), fmt.Sprintf("MJD %v %s", mjd, scale), rec)
	return nil
}
