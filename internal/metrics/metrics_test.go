package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-epoch/internal/eop"
	"github.com/litescript/ls-epoch/internal/timescale"
)

func testTable() *eop.Table {
	return eop.New([]eop.Record{
		{Time: timescale.FromMJD[timescale.UTC](0), DAT: 10, UT1UTC: -0.1},
		{Time: timescale.FromMJD[timescale.UTC](1), DAT: 11, UT1UTC: -0.2},
	})
}

func TestProviderCountsLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProvider(testTable(), reg)

	if _, ok := timescale.ConvertWith[timescale.TAI](timescale.FromMJD[timescale.UTC](0.5), p); !ok {
		t.Fatal("UTC->TAI should succeed inside the table")
	}
	if _, ok := timescale.ConvertWith[timescale.UTC](timescale.FromMJD[timescale.TAI](5), p); ok {
		t.Fatal("TAI->UTC should fail outside the table")
	}
	if _, ok := timescale.UTCToUT1(timescale.FromMJD[timescale.UTC](0.25), p); !ok {
		t.Fatal("UTC->UT1 should succeed inside the table")
	}

	tests := []struct {
		method string
		result string
		want   float64
	}{
		{"leap_utc", ResultHit, 1},
		{"leap_utc", ResultMiss, 0},
		{"leap_tai", ResultMiss, 1},
		{"rotation_utc", ResultHit, 1},
		{"rotation_ut1", ResultHit, 0},
	}
	for _, tc := range tests {
		got := testutil.ToFloat64(p.lookups.WithLabelValues(tc.method, tc.result))
		if got != tc.want {
			t.Errorf("lookups{%s,%s} = %v, want %v", tc.method, tc.result, got, tc.want)
		}
	}
}

func TestProviderIdentitySkipsLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProvider(testTable(), reg)

	timescale.ConvertWith[timescale.UTC](timescale.FromMJD[timescale.UTC](0.5), p)
	if n := testutil.CollectAndCount(p.lookups); n != 0 {
		t.Errorf("identity conversion produced %d series", n)
	}
}

func TestReloads(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewReloads(reg)

	r.Succeeded(3, 60002)
	r.Failed()
	r.Failed()

	if got := testutil.ToFloat64(r.total.WithLabelValues(ResultOK)); got != 1 {
		t.Errorf("ok reloads = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.total.WithLabelValues(ResultFail)); got != 2 {
		t.Errorf("failed reloads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.records); got != 3 {
		t.Errorf("records = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.lastMJD); got != 60002 {
		t.Errorf("last MJD = %v, want 60002", got)
	}
}

func TestRegisterTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewReloads(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering the same metrics twice should panic")
		}
	}()
	NewReloads(reg)
}
