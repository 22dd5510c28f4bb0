package timescale

import (
	"sort"
	"strings"
	"time"
)

// Conversion is one entry of the runtime conversion table, for callers that
// only know the scales by name.
type Conversion struct {
	From  string
	To    string
	Fixed bool // true when no Provider is consulted

	apply func(v span, p Provider) (span, bool)
}

// Apply converts a raw reading (seconds and nanoseconds since ReferenceName)
// from c.From to c.To. It reports false if nanos is out of range or the
// provider has no data.
func (c Conversion) Apply(secs int64, nanos uint32, p Provider) (int64, uint32, bool) {
	if nanos >= NanosPerSecond {
		return 0, 0, false
	}
	v, ok := c.apply(span{secs: secs, nanos: int64(nanos)}, p)
	if !ok {
		return 0, 0, false
	}
	return v.secs, uint32(v.nanos), true
}

// ApplyMJD converts a Modified Julian Day and also returns the calendar name
// of the result in c.To.
func (c Conversion) ApplyMJD(days float64, p Provider) (float64, time.Time, bool) {
	v, ok := c.apply(mjdSpan(days), p)
	if !ok {
		return 0, time.Time{}, false
	}
	return spanMJD(v), spanCalendar(v), true
}

// ApplyCalendar converts a calendar name in c.From to the matching name in c.To.
func (c Conversion) ApplyCalendar(t time.Time, p Provider) (time.Time, bool) {
	v, ok := c.apply(calendarSpan(t), p)
	if !ok {
		return time.Time{}, false
	}
	return spanCalendar(v), true
}

type pair struct{ from, to string }

var conversions = buildConversions()

func fixedEdge[To, From FixedScale]() Conversion {
	var from From
	var to To
	return Conversion{
		From:  from.Name(),
		To:    to.Name(),
		Fixed: true,
		apply: func(v span, _ Provider) (span, bool) {
			return Convert[To](Instant[From]{d: Duration[From]{v: v}}).d.v, true
		},
	}
}

func edge[To, From ConvertibleScale]() Conversion {
	var from From
	var to To
	return Conversion{
		From:  from.Name(),
		To:    to.Name(),
		Fixed: from.Name() == to.Name(),
		apply: func(v span, p Provider) (span, bool) {
			out, ok := ConvertWith[To](Instant[From]{d: Duration[From]{v: v}}, p)
			return out.d.v, ok
		},
	}
}

func buildConversions() map[pair]Conversion {
	list := []Conversion{
		fixedEdge[TAI, TAI](),
		fixedEdge[TT, TAI](),
		fixedEdge[GPS, TAI](),
		fixedEdge[TAI, TT](),
		fixedEdge[TT, TT](),
		fixedEdge[GPS, TT](),
		fixedEdge[TAI, GPS](),
		fixedEdge[TT, GPS](),
		fixedEdge[GPS, GPS](),
		edge[UTC, TAI](),
		edge[UTC, TT](),
		edge[UTC, GPS](),
		edge[TAI, UTC](),
		edge[TT, UTC](),
		edge[GPS, UTC](),
		edge[UTC, UTC](),
	}
	m := make(map[pair]Conversion, len(list))
	for _, c := range list {
		m[pair{c.From, c.To}] = c
	}
	return m
}

// Lookup finds the conversion between two scales by name. Names are matched
// case-insensitively. UT1 is not part of the table.
func Lookup(from, to string) (Conversion, bool) {
	c, ok := conversions[pair{strings.ToUpper(from), strings.ToUpper(to)}]
	return c, ok
}

// Scales returns the names accepted by Lookup, sorted.
func Scales() []string {
	seen := make(map[string]bool)
	for p := range conversions {
		seen[p.from] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
