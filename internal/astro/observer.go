package astro

import (
	"math"

	"github.com/litescript/ls-epoch/internal/timescale"
)

// Equatorial holds apparent right ascension and declination in degrees.
type Equatorial struct {
	RADeg  float64 // 0-360
	DecDeg float64 // -90 to +90
}

// Horizontal holds observer-relative coordinates in degrees.
type Horizontal struct {
	AzDeg float64 // 0=N, 90=E, 180=S, 270=W
	ElDeg float64 // 0=horizon, 90=zenith
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
}

// AtPole refers the site to the instantaneous rotation pole, given the pole
// offsets x and y in arcseconds as published in Earth orientation tables.
func (o Observer) AtPole(xArcsec, yArcsec float64) Observer {
	lat, lon := degToRad(o.LatDeg), degToRad(o.LonDeg)
	x, y := xArcsec/3600, yArcsec/3600
	return Observer{
		LatDeg: o.LatDeg + x*math.Cos(lon) - y*math.Sin(lon),
		LonDeg: o.LonDeg + (x*math.Sin(lon)+y*math.Cos(lon))*math.Tan(lat),
	}
}

// HourAngle returns the local hour angle in degrees (0-360) of a target at
// right ascension raDeg.
func (o Observer) HourAngle(t timescale.Instant[timescale.UT1], raDeg float64) float64 {
	return normalize360(LocalSiderealTime(t, o.LonDeg) - raDeg)
}

// ToHorizontal converts equatorial coordinates to azimuth and elevation for
// the observer at a UT1 instant.
func (o Observer) ToHorizontal(eq Equatorial, t timescale.Instant[timescale.UT1]) Horizontal {
	lat := degToRad(o.LatDeg)
	dec := degToRad(eq.DecDeg)
	ha := degToRad(o.HourAngle(t, eq.RADeg))

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clamp1(sinAlt))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clamp1(cosAz))

	// West of the meridian the azimuth is past south.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}
	return Horizontal{
		AzDeg: normalize360(radToDeg(az)),
		ElDeg: radToDeg(alt),
	}
}

// clamp1 keeps rounding error out of Asin and Acos.
func clamp1(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
