// Package astro provides Earth rotation angles driven by UT1.
package astro

import (
	"fmt"
	"math"

	"github.com/litescript/ls-epoch/internal/timescale"
)

// j2000JD is the Julian Date of J2000.0.
const j2000JD = 2451545.0

// EarthRotationAngle returns the IAU 2000 Earth Rotation Angle in degrees
// (0-360) at a UT1 instant.
func EarthRotationAngle(t timescale.Instant[timescale.UT1]) float64 {
	du := t.JulianDay().Days() - j2000JD

	// Split off whole days so the large multiple of 360 never enters the sum.
	_, frac := math.Modf(du)
	turns := frac + 0.7790572732640 + 0.00273781191135448*du
	return normalize360(360 * turns)
}

// GreenwichMeanSiderealTime returns GMST in degrees (0-360) at a UT1 instant.
// Uses the IAU 1982 formula.
func GreenwichMeanSiderealTime(t timescale.Instant[timescale.UT1]) float64 {
	jd := t.JulianDay().Days()

	// Julian centuries since J2000.0
	T := (jd - j2000JD) / 36525.0

	// GMST = 280.46061837 + 360.98564736629*(JD-2451545) + 0.000387933*T^2 - T^3/38710000
	gmst := 280.46061837 +
		360.98564736629*(jd-j2000JD) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalize360(gmst)
}

// LocalSiderealTime returns the local mean sidereal time in degrees for an
// observer at lonDeg (east positive).
func LocalSiderealTime(t timescale.Instant[timescale.UT1], lonDeg float64) float64 {
	return normalize360(GreenwichMeanSiderealTime(t) + lonDeg)
}

// SiderealFromUTC converts t to UT1 with p and returns GMST. It reports false
// when p has no UT1-UTC for t.
func SiderealFromUTC(t timescale.Instant[timescale.UTC], p timescale.RotationProvider) (float64, bool) {
	ut1, ok := timescale.UTCToUT1(t, p)
	if !ok {
		return 0, false
	}
	return GreenwichMeanSiderealTime(ut1), true
}

// FormatHours renders an angle in degrees as hours, minutes and seconds of
// time, e.g. "06h40m36.63s".
func FormatHours(deg float64) string {
	secs := normalize360(deg) / 15 * 3600
	h := int(secs / 3600)
	secs -= float64(h) * 3600
	m := int(secs / 60)
	secs -= float64(m) * 60
	return fmt.Sprintf("%02dh%02dm%05.2fs", h, m, secs)
}

func normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
