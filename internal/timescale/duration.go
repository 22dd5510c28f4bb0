package timescale

import (
	"math"
	"strconv"
	"strings"
)

const (
	NanosPerMicro  = 1_000
	NanosPerMilli  = 1_000_000
	NanosPerSecond = 1_000_000_000
	SecondsPerDay  = 86_400
)

// span is an untagged signed time count. nanos is always in [0, NanosPerSecond),
// so negative values borrow from secs: -1.5s is {secs: -2, nanos: 500_000_000}.
type span struct {
	secs  int64
	nanos int64
}

// makeSpan normalizes an arbitrary (secs, nanos) pair.
func makeSpan(secs, nanos int64) span {
	secs += nanos / NanosPerSecond
	nanos %= NanosPerSecond
	if nanos < 0 {
		secs--
		nanos += NanosPerSecond
	}
	return span{secs: secs, nanos: nanos}
}

func (a span) add(b span) span {
	return makeSpan(a.secs+b.secs, a.nanos+b.nanos)
}

func (a span) sub(b span) span {
	return makeSpan(a.secs-b.secs, a.nanos-b.nanos)
}

func (a span) neg() span {
	return makeSpan(-a.secs, -a.nanos)
}

func (a span) cmp(b span) int {
	switch {
	case a.secs < b.secs:
		return -1
	case a.secs > b.secs:
		return 1
	case a.nanos < b.nanos:
		return -1
	case a.nanos > b.nanos:
		return 1
	default:
		return 0
	}
}

func secondsSpan(seconds float64) span {
	whole := math.Trunc(seconds)
	nanos := math.Floor((seconds - whole) * NanosPerSecond)
	return makeSpan(int64(whole), int64(nanos))
}

func (a span) seconds() float64 {
	return float64(a.secs) + float64(a.nanos)/NanosPerSecond
}

// Duration is a signed elapsed time measured in scale S. It has no epoch.
// The scale tag only keeps durations from different scales apart; two
// durations can be combined only if they share it.
type Duration[S Scale] struct {
	v span
	_ [0]S
}

// NewDuration builds a duration from whole seconds and a sub-second
// nanosecond count. It reports false if nanos is not below one second.
func NewDuration[S Scale](secs int64, nanos uint32) (Duration[S], bool) {
	if nanos >= NanosPerSecond {
		return Duration[S]{}, false
	}
	return Duration[S]{v: span{secs: secs, nanos: int64(nanos)}}, true
}

// FromSeconds converts a finite number of seconds. The value is truncated
// toward zero and the remaining fraction is kept as whole nanoseconds.
func FromSeconds[S Scale](seconds float64) Duration[S] {
	return Duration[S]{v: secondsSpan(seconds)}
}

// FromDays converts a number of 86400-second days.
func FromDays[S Scale](days float64) Duration[S] {
	return FromSeconds[S](days * SecondsPerDay)
}

// Raw returns the duration as whole seconds plus a nanosecond count in
// [0, 1e9). Negative durations borrow from the seconds.
func (d Duration[S]) Raw() (secs int64, nanos uint32) {
	return d.v.secs, uint32(d.v.nanos)
}

// Seconds returns the duration as a floating point number of seconds.
func (d Duration[S]) Seconds() float64 {
	return d.v.seconds()
}

// Days returns the duration as a floating point number of 86400-second days.
func (d Duration[S]) Days() float64 {
	return d.v.seconds() / SecondsPerDay
}

// Add returns d+o.
func (d Duration[S]) Add(o Duration[S]) Duration[S] {
	return Duration[S]{v: d.v.add(o.v)}
}

// Sub returns d-o.
func (d Duration[S]) Sub(o Duration[S]) Duration[S] {
	return Duration[S]{v: d.v.sub(o.v)}
}

// Neg returns -d.
func (d Duration[S]) Neg() Duration[S] {
	return Duration[S]{v: d.v.neg()}
}

// Compare returns -1, 0 or +1 as d is shorter than, equal to or longer than o.
func (d Duration[S]) Compare(o Duration[S]) int {
	return d.v.cmp(o.v)
}

func (d Duration[S]) Equal(o Duration[S]) bool  { return d.v == o.v }
func (d Duration[S]) Before(o Duration[S]) bool { return d.v.cmp(o.v) < 0 }
func (d Duration[S]) After(o Duration[S]) bool  { return d.v.cmp(o.v) > 0 }
func (d Duration[S]) IsZero() bool              { return d.v == span{} }

// String formats the duration exactly, e.g. "-1.5s TAI".
func (d Duration[S]) String() string {
	var s S
	return formatSpan(d.v) + "s " + s.Name()
}

func formatSpan(v span) string {
	sign := ""
	if v.secs < 0 {
		sign = "-"
		v = v.neg()
	}
	out := sign + strconv.FormatInt(v.secs, 10)
	if v.nanos != 0 {
		frac := strconv.FormatInt(v.nanos+NanosPerSecond, 10)[1:]
		out += "." + strings.TrimRight(frac, "0")
	}
	return out
}

// transmute reinterprets d in another scale without changing its value.
// It is only meaningful where the two scales are known to share an origin
// for the quantity at hand, which is why it stays unexported.
func transmute[To, From Scale](d Duration[From]) Duration[To] {
	return Duration[To]{v: d.v}
}
