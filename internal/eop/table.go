package eop

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/litescript/ls-epoch/internal/timescale"
)

// Table is an immutable, time-ordered series of records. It implements
// timescale.RotationProvider.
type Table struct {
	records []Record
}

var _ timescale.RotationProvider = (*Table)(nil)

// New builds a table from records, which are copied and sorted by UTC time.
func New(records []Record) *Table {
	rs := make([]Record, len(records))
	copy(rs, records)
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Time.Before(rs[j].Time)
	})
	return &Table{records: rs}
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the records in time order.
func (t *Table) Records() []Record {
	rs := make([]Record, len(t.records))
	copy(rs, t.records)
	return rs
}

// Span returns the times of the first and last records.
func (t *Table) Span() (first, last timescale.Instant[timescale.UTC], ok bool) {
	if len(t.records) == 0 {
		return first, last, false
	}
	return t.records[0].Time, t.records[len(t.records)-1].Time, true
}

// Predicted returns the first predicted record.
func (t *Table) Predicted() (Record, bool) {
	for _, r := range t.records {
		if r.Provenance == Predicted {
			return r, true
		}
	}
	return Record{}, false
}

// LookupUTC interpolates the record at a UTC instant. It reports false before
// the first record and at or after the last.
func (t *Table) LookupUTC(at timescale.Instant[timescale.UTC]) (Record, bool) {
	return lookup(t.records, at, func(r Record) timescale.Instant[timescale.UTC] { return r.Time })
}

// LookupTAI is LookupUTC with record times moved to TAI by their own DAT.
func (t *Table) LookupTAI(at timescale.Instant[timescale.TAI]) (Record, bool) {
	return lookup(t.records, at, Record.TAI)
}

// LookupUT1 is LookupUTC with record times moved to UT1 by their own UT1-UTC.
func (t *Table) LookupUT1(at timescale.Instant[timescale.UT1]) (Record, bool) {
	return lookup(t.records, at, Record.UT1)
}

// ErrUnknownScale is returned by LookupMJD for a scale it cannot query.
var ErrUnknownScale = errors.New("eop: unknown scale (want UTC, TAI or UT1)")

// LookupMJD interpolates the record at a Modified Julian Day read in the named
// scale, which is matched without regard to case. It reports false where the
// typed lookups do.
func (t *Table) LookupMJD(scale string, mjd float64) (Record, bool, error) {
	switch strings.ToUpper(scale) {
	case timescale.UTC{}.Name():
		rec, ok := t.LookupUTC(timescale.FromMJD[timescale.UTC](mjd))
		return rec, ok, nil
	case timescale.TAI{}.Name():
		rec, ok := t.LookupTAI(timescale.FromMJD[timescale.TAI](mjd))
		return rec, ok, nil
	case timescale.UT1{}.Name():
		rec, ok := t.LookupUT1(timescale.FromMJD[timescale.UT1](mjd))
		return rec, ok, nil
	}
	return Record{}, false, fmt.Errorf("%w: %q", ErrUnknownScale, scale)
}

// lookup finds the first record whose key is after at and interpolates
// between it and its predecessor. The fraction is measured in the scale of
// the query.
func lookup[S timescale.Scale](records []Record, at timescale.Instant[S], key func(Record) timescale.Instant[S]) (Record, bool) {
	idx := -1
	for i, r := range records {
		if key(r).After(at) {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return Record{}, false
	}

	prev, next := records[idx-1], records[idx]
	start := key(prev)
	g := at.Since(start).Seconds() / key(next).Since(start).Seconds()
	return prev.interpolate(next, g), true
}

// LeapOffsetUTC implements timescale.Provider.
func (t *Table) LeapOffsetUTC(at timescale.Instant[timescale.UTC]) (timescale.Duration[timescale.TAI], bool) {
	r, ok := t.LookupUTC(at)
	if !ok {
		return timescale.Duration[timescale.TAI]{}, false
	}
	return r.LeapOffset(), true
}

// LeapOffsetTAI implements timescale.Provider.
func (t *Table) LeapOffsetTAI(at timescale.Instant[timescale.TAI]) (timescale.Duration[timescale.TAI], bool) {
	r, ok := t.LookupTAI(at)
	if !ok {
		return timescale.Duration[timescale.TAI]{}, false
	}
	return r.LeapOffset(), true
}

// RotationOffsetUTC implements timescale.RotationProvider.
func (t *Table) RotationOffsetUTC(at timescale.Instant[timescale.UTC]) (timescale.Duration[timescale.UT1], bool) {
	r, ok := t.LookupUTC(at)
	if !ok {
		return timescale.Duration[timescale.UT1]{}, false
	}
	return r.RotationOffset(), true
}

// RotationOffsetUT1 implements timescale.RotationProvider.
func (t *Table) RotationOffsetUT1(at timescale.Instant[timescale.UT1]) (timescale.Duration[timescale.UT1], bool) {
	r, ok := t.LookupUT1(at)
	if !ok {
		return timescale.Duration[timescale.UT1]{}, false
	}
	return r.RotationOffset(), true
}
