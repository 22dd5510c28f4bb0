package server

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-epoch/internal/eop"
	"github.com/litescript/ls-epoch/internal/state"
)

// RecordExport is the JSON form of one (possibly interpolated) table record.
type RecordExport struct {
	MJD        float64 `json:"mjd"`
	UTC        string  `json:"utc"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	UT1UTC     float64 `json:"ut1_utc"`
	LOD        float64 `json:"lod"`
	DPSI       float64 `json:"dpsi"`
	DEPS       float64 `json:"deps"`
	DX         float64 `json:"dx"`
	DY         float64 `json:"dy"`
	DAT        int64   `json:"dat"`
	Provenance string  `json:"provenance"`
}

// ExportRecord converts a record for output.
func ExportRecord(r eop.Record) RecordExport {
	return RecordExport{
		MJD:        r.Time.MJD(),
		UTC:        r.Time.Calendar().Format(time.RFC3339Nano),
		X:          r.X,
		Y:          r.Y,
		UT1UTC:     r.UT1UTC,
		LOD:        r.LOD,
		DPSI:       r.DPSI,
		DEPS:       r.DEPS,
		DX:         r.DX,
		DY:         r.DY,
		DAT:        r.DAT,
		Provenance: r.Provenance.String(),
	}
}

// ConvertExport is the result of a single named conversion.
type ConvertExport struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Fixed    bool    `json:"fixed"`
	MJDIn    float64 `json:"mjd_in"`
	MJD      float64 `json:"mjd"`
	Calendar string  `json:"calendar"`
}

// TableExport summarizes the loaded table and its recent history.
type TableExport struct {
	Source           string        `json:"source,omitempty"`
	Records          int           `json:"records"`
	FirstMJD         float64       `json:"first_mjd,omitempty"`
	LastMJD          float64       `json:"last_mjd,omitempty"`
	PredictedFromMJD *float64      `json:"predicted_from_mjd,omitempty"`
	LoadedAt         *time.Time    `json:"loaded_at,omitempty"`
	LoadDurationMS   int64         `json:"load_duration_ms"`
	LastError        string        `json:"last_error,omitempty"`
	Events           []state.Event `json:"events"`
}

// ExportTable builds a TableExport from a manager snapshot.
func ExportTable(snap state.Snapshot) TableExport {
	export := TableExport{
		Source:         snap.Source,
		LoadDurationMS: snap.LoadDuration.Milliseconds(),
		Events:         snap.Events,
	}
	if export.Events == nil {
		export.Events = []state.Event{}
	}
	if snap.LastError != nil {
		export.LastError = snap.LastError.Error()
	}
	if !snap.LoadedAt.IsZero() {
		loaded := snap.LoadedAt.UTC()
		export.LoadedAt = &loaded
	}
	if snap.Table == nil {
		return export
	}

	export.Records = snap.Table.Len()
	if first, last, ok := snap.Table.Span(); ok {
		export.FirstMJD = first.MJD()
		export.LastMJD = last.MJD()
	}
	if p, ok := snap.Table.Predicted(); ok {
		mjd := p.Time.MJD()
		export.PredictedFromMJD = &mjd
	}
	return export
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
