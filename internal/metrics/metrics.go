// Package metrics exports Prometheus counters for offset lookups and table
// reloads.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/litescript/ls-epoch/internal/timescale"
)

const (
	ProviderLookupsN = "ls_epoch_provider_lookups_total"
	ProviderLookupsH = "The total number of offset lookups, by method and result"
	TableReloadsN    = "ls_epoch_table_reloads_total"
	TableReloadsH    = "The total number of table reloads, by result"
	TableRecordsN    = "ls_epoch_table_records"
	TableRecordsH    = "The number of records in the current table"
	TableLastMJDN    = "ls_epoch_table_last_mjd"
	TableLastMJDH    = "The UTC Modified Julian Day of the last record in the current table"
)

// Label values.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
	ResultOK   = "ok"
	ResultFail = "error"
)

// Provider counts the lookups made through a RotationProvider.
type Provider struct {
	next    timescale.RotationProvider
	lookups *prometheus.CounterVec
}

var _ timescale.RotationProvider = (*Provider)(nil)

// NewProvider wraps next and registers its counter with reg.
func NewProvider(next timescale.RotationProvider, reg prometheus.Registerer) *Provider {
	return &Provider{
		next: next,
		lookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: ProviderLookupsN,
			Help: ProviderLookupsH,
		}, []string{"method", "result"}),
	}
}

func (p *Provider) observe(method string, ok bool) {
	result := ResultMiss
	if ok {
		result = ResultHit
	}
	p.lookups.WithLabelValues(method, result).Inc()
}

func (p *Provider) LeapOffsetUTC(t timescale.Instant[timescale.UTC]) (timescale.Duration[timescale.TAI], bool) {
	d, ok := p.next.LeapOffsetUTC(t)
	p.observe("leap_utc", ok)
	return d, ok
}

func (p *Provider) LeapOffsetTAI(t timescale.Instant[timescale.TAI]) (timescale.Duration[timescale.TAI], bool) {
	d, ok := p.next.LeapOffsetTAI(t)
	p.observe("leap_tai", ok)
	return d, ok
}

func (p *Provider) RotationOffsetUTC(t timescale.Instant[timescale.UTC]) (timescale.Duration[timescale.UT1], bool) {
	d, ok := p.next.RotationOffsetUTC(t)
	p.observe("rotation_utc", ok)
	return d, ok
}

func (p *Provider) RotationOffsetUT1(t timescale.Instant[timescale.UT1]) (timescale.Duration[timescale.UT1], bool) {
	d, ok := p.next.RotationOffsetUT1(t)
	p.observe("rotation_ut1", ok)
	return d, ok
}

// Reloads tracks table reloads.
type Reloads struct {
	total   *prometheus.CounterVec
	records prometheus.Gauge
	lastMJD prometheus.Gauge
}

// NewReloads registers the reload metrics with reg.
func NewReloads(reg prometheus.Registerer) *Reloads {
	f := promauto.With(reg)
	return &Reloads{
		total: f.NewCounterVec(prometheus.CounterOpts{
			Name: TableReloadsN,
			Help: TableReloadsH,
		}, []string{"result"}),
		records: f.NewGauge(prometheus.GaugeOpts{
			Name: TableRecordsN,
			Help: TableRecordsH,
		}),
		lastMJD: f.NewGauge(prometheus.GaugeOpts{
			Name: TableLastMJDN,
			Help: TableLastMJDH,
		}),
	}
}

// Succeeded records a reload that installed a table of n records ending at lastMJD.
func (r *Reloads) Succeeded(n int, lastMJD float64) {
	r.total.WithLabelValues(ResultOK).Inc()
	r.records.Set(float64(n))
	r.lastMJD.Set(lastMJD)
}

// Failed records a reload that left the previous table in place.
func (r *Reloads) Failed() {
	r.total.WithLabelValues(ResultFail).Inc()
}
