package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-epoch/internal/server"
	"github.com/litescript/ls-epoch/internal/state"
	"github.com/litescript/ls-epoch/internal/timescale"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a Modified Julian Day between time scales",
	Long: "Convert a Modified Julian Day between " + strings.Join(timescale.Scales(), ", ") + ".\n" +
		"Conversions to or from UTC read leap seconds from the data file; the others need none.",
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("from", "", "source scale")
	convertCmd.Flags().String("to", "", "target scale")
	convertCmd.Flags().Float64("mjd", 0, "Modified Julian Day in the source scale")
	convertCmd.Flags().Bool("json", false, "output the result as JSON")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")
	_ = convertCmd.MarkFlagRequired("mjd")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	mjd, _ := cmd.Flags().GetFloat64("mjd")
	asJSON, _ := cmd.Flags().GetBool("json")

	conv, ok := timescale.Lookup(from, to)
	if !ok {
		return fmt.Errorf("no conversion from %q to %q (scales: %s)", from, to, strings.Join(timescale.Scales(), ", "))
	}

	var p timescale.Provider = timescale.NullProvider{}
	if !conv.Fixed {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := dataPath(cfg, args)
		if err != nil {
			return fmt.Errorf("%s to %s needs leap seconds: %w", conv.From, conv.To, err)
		}
		if p, err = state.LoadFile(path); err != nil {
			return err
		}
	}

	out, cal, ok := conv.ApplyMJD(mjd, p)
	if !ok {
		return fmt.Errorf("no leap second data for MJD %v", mjd)
	}

	if asJSON {
		return server.WriteJSON(cmd.OutOrStdout(), server.ConvertExport{
			From:     conv.From,
			To:       conv.To,
			Fixed:    conv.Fixed,
			MJDIn:    mjd,
			MJD:      out,
			Calendar: cal.Format(time.RFC3339Nano),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(fmt.Sprintf("MJD %v %s", mjd, conv.From)))
	field(cmd.OutOrStdout(), conv.To, "MJD %.9f  %s", out, cal.Format(calendarLayout))
	return nil
}
