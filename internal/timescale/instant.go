package timescale

import "time"

// Reference names. They are calendar labels, not instants: the same label
// denotes a different physical moment in every scale.
var (
	// ReferenceName is the origin every Instant is counted from.
	ReferenceName = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

	// JulianDayZero is noon of 1 January 4713 BC in the Julian calendar,
	// written in the proleptic Gregorian calendar Go uses.
	JulianDayZero = time.Date(-4713, time.November, 24, 12, 0, 0, 0, time.UTC)

	// ModifiedJulianDayZero is JD 2400000.5.
	ModifiedJulianDayZero = time.Date(1858, time.November, 17, 0, 0, 0, 0, time.UTC)
)

// J2000 is the standard astronomical epoch, 2000-01-01 12:00:00 TT.
var J2000 = FromCalendar[TT](time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC))

const calendarLayout = "2006-01-02 15:04:05.999999999"

var referenceUnix = ReferenceName.Unix()

// Instant is a point in time in scale S, stored as the Duration elapsed since
// ReferenceName read in that same scale.
type Instant[S Scale] struct {
	d Duration[S]
}

// FromReference returns the instant d after ReferenceName.
func FromReference[S Scale](d Duration[S]) Instant[S] {
	return Instant[S]{d: d}
}

// SinceReference returns the time elapsed since ReferenceName.
func (i Instant[S]) SinceReference() Duration[S] {
	return i.d
}

// FromCalendar reads the wall clock fields of t as a date in scale S. The
// location of t is ignored.
func FromCalendar[S Scale](t time.Time) Instant[S] {
	return Instant[S]{d: Duration[S]{v: calendarSpan(t)}}
}

// Calendar returns the calendar date of i. The result is in time.UTC but only
// its fields are meaningful; they are labels in scale S.
func (i Instant[S]) Calendar() time.Time {
	return spanCalendar(i.d.v)
}

// FromCalendarOffset returns the instant d after the calendar name in scale S.
func FromCalendarOffset[S Scale](name time.Time, d Duration[S]) Instant[S] {
	return FromCalendar[S](name).Add(d)
}

// OffsetFrom returns the time elapsed since the calendar name in scale S.
func (i Instant[S]) OffsetFrom(name time.Time) Duration[S] {
	return i.Since(FromCalendar[S](name))
}

// FromJulianDay converts a Julian Day number in scale S.
func FromJulianDay[S Scale](d Duration[S]) Instant[S] {
	return FromCalendarOffset(JulianDayZero, d)
}

// JulianDay returns the time elapsed since JulianDayZero.
func (i Instant[S]) JulianDay() Duration[S] {
	return i.OffsetFrom(JulianDayZero)
}

// FromModifiedJulianDay converts a Modified Julian Day number in scale S.
func FromModifiedJulianDay[S Scale](d Duration[S]) Instant[S] {
	return FromCalendarOffset(ModifiedJulianDayZero, d)
}

// ModifiedJulianDay returns the time elapsed since ModifiedJulianDayZero.
func (i Instant[S]) ModifiedJulianDay() Duration[S] {
	return i.OffsetFrom(ModifiedJulianDayZero)
}

// FromMJD is FromModifiedJulianDay for a day count.
func FromMJD[S Scale](days float64) Instant[S] {
	return Instant[S]{d: Duration[S]{v: mjdSpan(days)}}
}

// MJD returns the Modified Julian Day as a day count.
func (i Instant[S]) MJD() float64 {
	return spanMJD(i.d.v)
}

// Add returns i+d.
func (i Instant[S]) Add(d Duration[S]) Instant[S] {
	return Instant[S]{d: i.d.Add(d)}
}

// Sub returns i-d.
func (i Instant[S]) Sub(d Duration[S]) Instant[S] {
	return Instant[S]{d: i.d.Sub(d)}
}

// Since returns i-o.
func (i Instant[S]) Since(o Instant[S]) Duration[S] {
	return i.d.Sub(o.d)
}

func (i Instant[S]) Compare(o Instant[S]) int { return i.d.Compare(o.d) }
func (i Instant[S]) Equal(o Instant[S]) bool  { return i.d.Equal(o.d) }
func (i Instant[S]) Before(o Instant[S]) bool { return i.d.Before(o.d) }
func (i Instant[S]) After(o Instant[S]) bool  { return i.d.After(o.d) }

// String formats i as its calendar name followed by the scale,
// e.g. "2000-01-01 12:00:00 TT".
func (i Instant[S]) String() string {
	var s S
	return i.Calendar().Format(calendarLayout) + " " + s.Name()
}

// Untagged forms of the calendar conversions, shared with the dispatch table.

func calendarSpan(t time.Time) span {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return makeSpan(wall.Unix()-referenceUnix, int64(wall.Nanosecond()))
}

func spanCalendar(v span) time.Time {
	return time.Unix(referenceUnix+v.secs, v.nanos).UTC()
}

func mjdSpan(days float64) span {
	return calendarSpan(ModifiedJulianDayZero).add(secondsSpan(days * SecondsPerDay))
}

func spanMJD(v span) float64 {
	return v.sub(calendarSpan(ModifiedJulianDayZero)).seconds() / SecondsPerDay
}
