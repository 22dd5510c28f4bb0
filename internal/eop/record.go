// Package eop reads Earth orientation parameter tables and serves the
// leap second and UT1-UTC offsets they contain.
//
// The input is the columnar CSV published by Celestrak (EOP-All.csv,
// EOP-Last5Years.csv): one row per UTC day with polar motion, UT1-UTC,
// length of day, nutation corrections and TAI-UTC.
package eop

import (
	"github.com/litescript/ls-epoch/internal/timescale"
)

// Provenance tells whether a row holds measured or forecast values.
type Provenance int

const (
	Observed Provenance = iota
	Predicted
)

// String returns the code used in the DATA_TYPE column.
func (p Provenance) String() string {
	switch p {
	case Observed:
		return "O"
	case Predicted:
		return "P"
	default:
		return "?"
	}
}

// ParseProvenance parses a DATA_TYPE code.
func ParseProvenance(s string) (Provenance, bool) {
	switch s {
	case "O":
		return Observed, true
	case "P":
		return Predicted, true
	default:
		return Observed, false
	}
}

// Merge combines the provenance of two rows used together. Anything built
// from a prediction is a prediction.
func (p Provenance) Merge(o Provenance) Provenance {
	if p == Predicted || o == Predicted {
		return Predicted
	}
	return Observed
}

// Record is one row of the table.
type Record struct {
	Time timescale.Instant[timescale.UTC] // start of the UTC day

	X      float64 // polar motion, arcsec
	Y      float64 // polar motion, arcsec
	UT1UTC float64 // seconds
	LOD    float64 // excess length of day, seconds
	DPSI   float64 // nutation in longitude, arcsec
	DEPS   float64 // nutation in obliquity, arcsec
	DX     float64 // celestial pole offset, arcsec
	DY     float64 // celestial pole offset, arcsec

	DAT int64 // TAI-UTC, whole seconds

	Provenance Provenance
}

// LeapOffset returns DAT as a TAI duration.
func (r Record) LeapOffset() timescale.Duration[timescale.TAI] {
	d, _ := timescale.NewDuration[timescale.TAI](r.DAT, 0)
	return d
}

// RotationOffset returns UT1-UTC as a UT1 duration.
func (r Record) RotationOffset() timescale.Duration[timescale.UT1] {
	return timescale.FromSeconds[timescale.UT1](r.UT1UTC)
}

// TAI returns the record time in TAI.
func (r Record) TAI() timescale.Instant[timescale.TAI] {
	return timescale.ApplyLeapOffset(r.Time, r.LeapOffset())
}

// UT1 returns the record time in UT1.
func (r Record) UT1() timescale.Instant[timescale.UT1] {
	return timescale.ApplyRotationOffset(r.Time, r.RotationOffset())
}

// interpolate blends r toward next by the fraction g. DAT is a step
// function and is taken from r, as is Time, which marks where that DAT
// begins to apply.
func (r Record) interpolate(next Record, g float64) Record {
	lerp := func(a, b float64) float64 { return (1-g)*a + g*b }
	return Record{
		Time:       r.Time,
		X:          lerp(r.X, next.X),
		Y:          lerp(r.Y, next.Y),
		UT1UTC:     lerp(r.UT1UTC, next.UT1UTC),
		LOD:        lerp(r.LOD, next.LOD),
		DPSI:       lerp(r.DPSI, next.DPSI),
		DEPS:       lerp(r.DEPS, next.DEPS),
		DX:         lerp(r.DX, next.DX),
		DY:         lerp(r.DY, next.DY),
		DAT:        r.DAT,
		Provenance: r.Provenance.Merge(next.Provenance),
	}
}
