package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-epoch/internal/astro"
	"github.com/litescript/ls-epoch/internal/eop"
	"github.com/litescript/ls-epoch/internal/state"
	"github.com/litescript/ls-epoch/internal/timescale"
)

const displayLayout = "2006-01-02 15:04:05.000"

var (
	panelTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	observedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	predictedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F59E0B"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

// row is one label/value line of a panel. Missing values render as "no data".
type row struct {
	Label string
	Value string
	OK    bool
}

// scaleRows shows the UTC instant at in every scale the provider can reach.
func scaleRows(at timescale.Instant[timescale.UTC], p timescale.RotationProvider) []row {
	rows := []row{{Label: "UTC", Value: at.Calendar().Format(displayLayout), OK: true}}

	if tai, ok := timescale.ConvertWith[timescale.TAI](at, p); ok {
		rows = append(rows,
			row{Label: "TAI", Value: tai.Calendar().Format(displayLayout), OK: true},
			row{Label: "TT", Value: timescale.Convert[timescale.TT](tai).Calendar().Format(displayLayout), OK: true},
			row{Label: "GPS", Value: timescale.Convert[timescale.GPS](tai).Calendar().Format(displayLayout), OK: true},
		)
	} else {
		rows = append(rows, row{Label: "TAI"}, row{Label: "TT"}, row{Label: "GPS"})
	}

	if ut1, ok := timescale.UTCToUT1(at, p); ok {
		rows = append(rows, row{Label: "UT1", Value: ut1.Calendar().Format(displayLayout), OK: true})
	} else {
		rows = append(rows, row{Label: "UT1"})
	}

	rows = append(rows,
		row{Label: "MJD", Value: fmt.Sprintf("%.6f", at.MJD()), OK: true},
		row{Label: "JD", Value: fmt.Sprintf("%.6f", at.JulianDay().Days()), OK: true},
	)
	return rows
}

// rotationRows shows the Earth rotation angles at the UT1 instant matching at.
func rotationRows(at timescale.Instant[timescale.UTC], p timescale.RotationProvider) []row {
	ut1, ok := timescale.UTCToUT1(at, p)
	if !ok {
		return []row{{Label: "GMST"}, {Label: "ERA"}}
	}
	gmst := astro.GreenwichMeanSiderealTime(ut1)
	era := astro.EarthRotationAngle(ut1)
	return []row{
		{Label: "GMST", Value: fmt.Sprintf("%s  %10.6f°", astro.FormatHours(gmst), gmst), OK: true},
		{Label: "ERA", Value: fmt.Sprintf("%s  %10.6f°", astro.FormatHours(era), era), OK: true},
	}
}

// recordRows shows the interpolated table record at at.
func recordRows(at timescale.Instant[timescale.UTC], table *eop.Table) []row {
	var rec eop.Record
	ok := false
	if table != nil {
		rec, ok = table.LookupUTC(at)
	}
	if !ok {
		return []row{{Label: "record"}}
	}

	prov := observedStyle.Render("observed")
	if rec.Provenance == eop.Predicted {
		prov = predictedStyle.Render("predicted")
	}
	return []row{
		{Label: "DAT", Value: fmt.Sprintf("%d s", rec.DAT), OK: true},
		{Label: "UT1-UTC", Value: fmt.Sprintf("%+.7f s", rec.UT1UTC), OK: true},
		{Label: "LOD", Value: fmt.Sprintf("%.7f s", rec.LOD), OK: true},
		{Label: "x, y", Value: fmt.Sprintf("%.6f\" %.6f\"", rec.X, rec.Y), OK: true},
		{Label: "dψ, dε", Value: fmt.Sprintf("%.6f\" %.6f\"", rec.DPSI, rec.DEPS), OK: true},
		{Label: "dX, dY", Value: fmt.Sprintf("%.6f\" %.6f\"", rec.DX, rec.DY), OK: true},
		{Label: "source", Value: prov, OK: true},
	}
}

// eventRows lists the newest events first.
func eventRows(events []state.Event, n int) []row {
	var rows []row
	for i := len(events) - 1; i >= 0 && len(rows) < n; i-- {
		e := events[i]
		detail := fmt.Sprintf("%s %s", e.Timestamp.Format("15:04:05"), e.Type)
		switch e.Type {
		case state.EventLeapSecond:
			detail += fmt.Sprintf(" DAT=%d", e.DAT)
		case state.EventReloadFailed:
			detail += " " + e.Error
		default:
			detail += fmt.Sprintf(" to MJD %.0f", e.LastMJD)
		}
		rows = append(rows, row{Label: "", Value: detail, OK: true})
	}
	return rows
}

func renderPanel(title string, rows []row) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(r.Label))
		if r.OK {
			b.WriteString(valueStyle.Render(r.Value))
		} else {
			b.WriteString(errorStyle.Render("no data"))
		}
	}
	return panelStyle.Render(b.String())
}

// renderEpoch lays out the panels for at. Wide terminals get two columns.
func renderEpoch(at timescale.Instant[timescale.UTC], p timescale.RotationProvider, snap state.Snapshot, width int) string {
	scales := renderPanel("Time scales", scaleRows(at, p))
	rotation := renderPanel("Earth rotation", rotationRows(at, p))
	record := renderPanel("Earth orientation", recordRows(at, snap.Table))

	left := lipgloss.JoinVertical(lipgloss.Left, scales, rotation)
	body := lipgloss.JoinVertical(lipgloss.Left, left, record)
	if width >= lipgloss.Width(left)+lipgloss.Width(record)+2 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", record)
	}

	if events := eventRows(snap.Events, 5); len(events) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, renderPanel("Events", events))
	}
	return body
}
