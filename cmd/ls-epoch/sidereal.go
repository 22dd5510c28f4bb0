package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-epoch/internal/astro"
	"github.com/litescript/ls-epoch/internal/state"
	"github.com/litescript/ls-epoch/internal/timescale"
)

var siderealCmd = &cobra.Command{
	Use:   "sidereal [file]",
	Short: "Print Earth rotation angle and sidereal time for a site",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSidereal,
}

func init() {
	siderealCmd.Flags().Float64("mjd", 0, "UTC Modified Julian Day (default now)")
	siderealCmd.Flags().Float64("lon", 0, "site longitude in degrees, east positive")
	siderealCmd.Flags().Float64("lat", 0, "site latitude in degrees, north positive")
	siderealCmd.Flags().Float64("ra", 0, "target right ascension in degrees; prints its azimuth and elevation")
	siderealCmd.Flags().Float64("dec", 0, "target declination in degrees")
	rootCmd.AddCommand(siderealCmd)
}

func runSidereal(cmd *cobra.Command, args []string) error {
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

	at := timescale.FromCalendar[timescale.UTC](time.Now().UTC())
	if cmd.Flags().Changed("mjd") {
		mjd, _ := cmd.Flags().GetFloat64("mjd")
		at = timescale.FromMJD[timescale.UTC](mjd)
	}
	lon, _ := cmd.Flags().GetFloat64("lon")
	lat, _ := cmd.Flags().GetFloat64("lat")
	site := astro.Observer{LatDeg: lat, LonDeg: lon}

	rec, ok := table.LookupUTC(at)
	if !ok {
		return fmt.Errorf("no data for %s in %s", at, path)
	}
	ut1, _ := timescale.UTCToUT1(at, table)
	gmst := astro.GreenwichMeanSiderealTime(ut1)
	era := astro.EarthRotationAngle(ut1)
	pole := site.AtPole(rec.X, rec.Y)

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("site %.4f° %.4f°", lat, lon)))
	field(w, "UTC", "%s", at.Calendar().Format(calendarLayout))
	field(w, "UT1", "%s", ut1.Calendar().Format(calendarLayout))
	field(w, "ERA", "%s  %.6f°", astro.FormatHours(era), era)
	field(w, "GMST", "%s  %.6f°", astro.FormatHours(gmst), gmst)
	field(w, "LMST", "%s", astro.FormatHours(astro.LocalSiderealTime(ut1, lon)))
	field(w, "LMST pole", "%s  (site %.6f° %.6f°)", astro.FormatHours(astro.LocalSiderealTime(ut1, pole.LonDeg)), pole.LatDeg, pole.LonDeg)

	if cmd.Flags().Changed("ra") {
		ra, _ := cmd.Flags().GetFloat64("ra")
		dec, _ := cmd.Flags().GetFloat64("dec")
		target := astro.Equatorial{RADeg: ra, DecDeg: dec}
		hz := pole.ToHorizontal(target, ut1)
		field(w, "hour angle", "%s", astro.FormatHours(pole.HourAngle(ut1, ra)))
		field(w, "az, el", "%.4f° %.4f°", hz.AzDeg, hz.ElDeg)
	}
	return nil
}
