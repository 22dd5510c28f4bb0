package timescale

// Convert moves i between two scales with a constant offset. It never needs
// external data. UTC is not a FixedScale, so Convert[UTC] does not compile,
// not even as an identity; use ConvertWith, which returns a UTC instant
// unchanged without consulting its provider.
func Convert[To, From FixedScale](i Instant[From]) Instant[To] {
	var from From
	var to To
	v := i.d.v.sub(from.atomicOffset()).add(to.atomicOffset())
	return Instant[To]{d: Duration[To]{v: v}}
}

// ConvertWith moves i from one scale to another through TAI, asking p for the
// leap second offset when either end is UTC. It reports false when p has no
// data for i. Converting a scale to itself returns i unchanged without
// consulting p. A nil p behaves like NullProvider.
func ConvertWith[To, From ConvertibleScale](i Instant[From], p Provider) (Instant[To], bool) {
	var from From
	var to To
	if any(from) == any(to) {
		return Instant[To]{d: Duration[To]{v: i.d.v}}, true
	}
	v, ok := convertSpan(from, to, i.d.v, p)
	if !ok {
		return Instant[To]{}, false
	}
	return Instant[To]{d: Duration[To]{v: v}}, true
}

func convertSpan(from, to ConvertibleScale, v span, p Provider) (span, bool) {
	if p == nil {
		p = NullProvider{}
	}
	atomic, ok := from.toAtomic(v, p)
	if !ok {
		return span{}, false
	}
	return to.fromAtomic(atomic, p)
}
