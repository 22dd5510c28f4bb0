package timescale

// Provider supplies the TAI-UTC offset (whole leap seconds). Both methods
// report false when the instant is outside the provider's data.
type Provider interface {
	// LeapOffsetUTC returns TAI-UTC at a UTC instant.
	LeapOffsetUTC(t Instant[UTC]) (Duration[TAI], bool)
	// LeapOffsetTAI returns TAI-UTC at a TAI instant.
	LeapOffsetTAI(t Instant[TAI]) (Duration[TAI], bool)
}

// RotationProvider additionally supplies UT1-UTC.
type RotationProvider interface {
	Provider
	RotationOffsetUTC(t Instant[UTC]) (Duration[UT1], bool)
	RotationOffsetUT1(t Instant[UT1]) (Duration[UT1], bool)
}

// NullProvider has no data. Only fixed conversions succeed with it.
type NullProvider struct{}

func (NullProvider) LeapOffsetUTC(Instant[UTC]) (Duration[TAI], bool) { return Duration[TAI]{}, false }
func (NullProvider) LeapOffsetTAI(Instant[TAI]) (Duration[TAI], bool) { return Duration[TAI]{}, false }

// ApplyLeapOffset returns the TAI instant t+dat for a UTC instant t.
func ApplyLeapOffset(t Instant[UTC], dat Duration[TAI]) Instant[TAI] {
	return Instant[TAI]{d: transmute[TAI](t.d).Add(dat)}
}

// RemoveLeapOffset returns the UTC instant t-dat for a TAI instant t.
func RemoveLeapOffset(t Instant[TAI], dat Duration[TAI]) Instant[UTC] {
	return Instant[UTC]{d: transmute[UTC](t.d.Sub(dat))}
}

// ApplyRotationOffset returns the UT1 instant t+dut1 for a UTC instant t.
func ApplyRotationOffset(t Instant[UTC], dut1 Duration[UT1]) Instant[UT1] {
	return Instant[UT1]{d: transmute[UT1](t.d).Add(dut1)}
}

// RemoveRotationOffset returns the UTC instant t-dut1 for a UT1 instant t.
func RemoveRotationOffset(t Instant[UT1], dut1 Duration[UT1]) Instant[UTC] {
	return Instant[UTC]{d: transmute[UTC](t.d.Sub(dut1))}
}

// UTCToUT1 converts a UTC instant to UT1 with the offset p reports for it.
func UTCToUT1(t Instant[UTC], p RotationProvider) (Instant[UT1], bool) {
	dut1, ok := p.RotationOffsetUTC(t)
	if !ok {
		return Instant[UT1]{}, false
	}
	return ApplyRotationOffset(t, dut1), true
}

// UT1ToUTC converts a UT1 instant to UTC with the offset p reports for it.
func UT1ToUTC(t Instant[UT1], p RotationProvider) (Instant[UTC], bool) {
	dut1, ok := p.RotationOffsetUT1(t)
	if !ok {
		return Instant[UTC]{}, false
	}
	return RemoveRotationOffset(t, dut1), true
}
