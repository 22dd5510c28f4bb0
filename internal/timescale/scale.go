// Package timescale provides scale-tagged durations and instants and the
// conversions between the atomic, dynamical, satellite and civil time scales.
//
// Every value carries its scale as a type parameter, so a TAI duration cannot
// be added to a UTC one and a UTC instant cannot be converted without a
// Provider that knows the leap seconds. All conversions go through TAI.
package timescale

// Scale is implemented by the zero-size scale markers.
type Scale interface {
	Name() string
}

// ConvertibleScale is a scale reachable from TAI, possibly with the help of a
// Provider.
type ConvertibleScale interface {
	Scale
	toAtomic(v span, p Provider) (span, bool)
	fromAtomic(v span, p Provider) (span, bool)
}

// FixedScale is a scale whose offset from TAI is a constant.
type FixedScale interface {
	ConvertibleScale
	// atomicOffset is this scale minus TAI.
	atomicOffset() span
}

// TAI is International Atomic Time.
type TAI struct{}

// TT is Terrestrial Time, TAI + 32.184 s.
type TT struct{}

// GPS is GPS system time, TAI - 19 s.
type GPS struct{}

// UTC is Coordinated Universal Time. Its offset from TAI changes with every
// leap second and needs a Provider.
type UTC struct{}

// UT1 follows the rotation of the Earth. It is only reachable through a
// RotationProvider and does not take part in Convert or ConvertWith.
type UT1 struct{}

func (TAI) Name() string { return "TAI" }
func (TT) Name() string  { return "TT" }
func (GPS) Name() string { return "GPS" }
func (UTC) Name() string { return "UTC" }
func (UT1) Name() string { return "UT1" }

var (
	offsetTT  = span{secs: 32, nanos: 184_000_000}
	offsetGPS = span{secs: -19}
)

func (TAI) atomicOffset() span { return span{} }
func (TT) atomicOffset() span  { return offsetTT }
func (GPS) atomicOffset() span { return offsetGPS }

func (TAI) toAtomic(v span, _ Provider) (span, bool)   { return v, true }
func (TAI) fromAtomic(v span, _ Provider) (span, bool) { return v, true }

func (TT) toAtomic(v span, _ Provider) (span, bool)   { return v.sub(offsetTT), true }
func (TT) fromAtomic(v span, _ Provider) (span, bool) { return v.add(offsetTT), true }

func (GPS) toAtomic(v span, _ Provider) (span, bool)   { return v.sub(offsetGPS), true }
func (GPS) fromAtomic(v span, _ Provider) (span, bool) { return v.add(offsetGPS), true }

func (UTC) toAtomic(v span, p Provider) (span, bool) {
	dat, ok := p.LeapOffsetUTC(Instant[UTC]{d: Duration[UTC]{v: v}})
	if !ok {
		return span{}, false
	}
	return v.add(dat.v), true
}

func (UTC) fromAtomic(v span, p Provider) (span, bool) {
	dat, ok := p.LeapOffsetTAI(Instant[TAI]{d: Duration[TAI]{v: v}})
	if !ok {
		return span{}, false
	}
	return v.sub(dat.v), true
}
