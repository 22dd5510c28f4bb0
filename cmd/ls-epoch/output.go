package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-epoch/internal/eop"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(12)

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))
)

const calendarLayout = "2006-01-02 15:04:05.000"

func field(w io.Writer, label, format string, args ...any) {
	fmt.Fprintf(w, "  %s%s\n", labelStyle.Render(label), fmt.Sprintf(format, args...))
}

// writeSummary prints what check reports about a table.
func writeSummary(w io.Writer, source string, table *eop.Table) {
	fmt.Fprintln(w, headerStyle.Render(source))
	field(w, "records", "%d", table.Len())

	first, last, ok := table.Span()
	if !ok {
		fmt.Fprintln(w, "  "+warnStyle.Render("table is empty"))
		return
	}
	field(w, "first", "MJD %.2f  %s UTC", first.MJD(), first.Calendar().Format(calendarLayout))
	field(w, "last", "MJD %.2f  %s UTC", last.MJD(), last.Calendar().Format(calendarLayout))

	records := table.Records()
	minDAT, maxDAT := records[0].DAT, records[0].DAT
	for _, r := range records[1:] {
		minDAT = min(minDAT, r.DAT)
		maxDAT = max(maxDAT, r.DAT)
	}
	field(w, "DAT", "%d s .. %d s", minDAT, maxDAT)

	if p, ok := table.Predicted(); ok {
		field(w, "predicted", "%s", warnStyle.Render(fmt.Sprintf("from MJD %.2f", p.Time.MJD())))
	} else {
		field(w, "predicted", "%s", okStyle.Render("none, all rows observed"))
	}
}

// writeRecord prints one looked-up record.
func writeRecord(w io.Writer, at string, r eop.Record) {
	fmt.Fprintln(w, headerStyle.Render(at))
	prov := okStyle.Render("observed")
	if r.Provenance == eop.Predicted {
		prov = warnStyle.Render("predicted")
	}
	field(w, "row", "MJD %.2f  %s UTC", r.Time.MJD(), r.Time.Calendar().Format(calendarLayout))
	field(w, "DAT", "%d s", r.DAT)
	field(w, "UT1-UTC", "%+.7f s", r.UT1UTC)
	field(w, "LOD", "%.7f s", r.LOD)
	field(w, "x, y", "%.6f\" %.6f\"", r.X, r.Y)
	field(w, "dpsi, deps", "%.6f\" %.6f\"", r.DPSI, r.DEPS)
	field(w, "dX, dY", "%.6f\" %.6f\"", r.DX, r.DY)
	field(w, "source", "%s", prov)
}
