package timescale

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestLookupTable(t *testing.T) {
	fixed := map[string]bool{"TAI": true, "TT": true, "GPS": true}
	for _, from := range Scales() {
		for _, to := range Scales() {
			c, ok := Lookup(from, to)
			if !ok {
				t.Errorf("Lookup(%s, %s) missing", from, to)
				continue
			}
			if c.From != from || c.To != to {
				t.Errorf("Lookup(%s, %s) returned %s->%s", from, to, c.From, c.To)
			}
			wantFixed := (fixed[from] && fixed[to]) || from == to
			if c.Fixed != wantFixed {
				t.Errorf("Lookup(%s, %s).Fixed = %v, want %v", from, to, c.Fixed, wantFixed)
			}
		}
	}
}

func TestLookupNames(t *testing.T) {
	if got := Scales(); !reflect.DeepEqual(got, []string{"GPS", "TAI", "TT", "UTC"}) {
		t.Errorf("Scales() = %v", got)
	}
	if _, ok := Lookup("tai", "Tt"); !ok {
		t.Error("Lookup should ignore case")
	}
	if _, ok := Lookup("UT1", "TAI"); ok {
		t.Error("UT1 should not be in the table")
	}
	if _, ok := Lookup("TCB", "TAI"); ok {
		t.Error("unknown scale should not be found")
	}
}

func TestConversionApply(t *testing.T) {
	c, _ := Lookup("TAI", "TT")
	secs, nanos, ok := c.Apply(0, 0, nil)
	if !ok || secs != 32 || nanos != 184_000_000 {
		t.Errorf("Apply(0, 0) = (%d, %d, %v), want (32, 184000000, true)", secs, nanos, ok)
	}
	if _, _, ok := c.Apply(0, NanosPerSecond, nil); ok {
		t.Error("Apply should reject nanos >= 1e9")
	}
}

func TestConversionApplyMJD(t *testing.T) {
	c, _ := Lookup("UTC", "TAI")
	if _, _, ok := c.ApplyMJD(58849, NullProvider{}); ok {
		t.Error("UTC->TAI should be absent without data")
	}

	mjd, cal, ok := c.ApplyMJD(58849, &leapStub{dat: 37})
	if !ok {
		t.Fatal("UTC->TAI reported no data")
	}
	if want := 58849 + 37.0/SecondsPerDay; math.Abs(mjd-want) > 1e-9 {
		t.Errorf("MJD = %v, want %v", mjd, want)
	}
	if want := time.Date(2020, 1, 1, 0, 0, 37, 0, time.UTC); !cal.Equal(want) {
		t.Errorf("calendar = %v, want %v", cal, want)
	}

	self, _ := Lookup("UTC", "UTC")
	if mjd, _, ok := self.ApplyMJD(58849.5, NullProvider{}); !ok || mjd != 58849.5 {
		t.Errorf("UTC->UTC = %v, %v", mjd, ok)
	}
}

func TestConversionApplyCalendar(t *testing.T) {
	c, _ := Lookup("GPS", "TT")
	got, ok := c.ApplyCalendar(newYear2020, nil)
	if !ok {
		t.Fatal("GPS->TT reported no data")
	}
	if want := time.Date(2020, 1, 1, 0, 0, 51, 184_000_000, time.UTC); !got.Equal(want) {
		t.Errorf("ApplyCalendar = %v, want %v", got, want)
	}
}
