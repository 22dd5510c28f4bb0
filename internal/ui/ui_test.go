package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-epoch/internal/eop"
	"github.com/litescript/ls-epoch/internal/state"
	"github.com/litescript/ls-epoch/internal/timescale"
)

const table = `MJD,X,Y,UT1-UTC,LOD,DPSI,DEPS,DX,DY,DAT,DATA_TYPE
60000,0.1,0.3,-0.5,0.001,0,0,0,0,37,O
60001,0.1,0.3,-0.5,0.001,0,0,0,0,37,P
`

var noon = time.Date(2023, 2, 25, 12, 0, 0, 0, time.UTC)

func loadedManager(t *testing.T) *state.Manager {
	t.Helper()
	tbl, err := eop.Parse(strings.NewReader(table))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mgr := state.NewManager(state.DefaultConfig())
	mgr.Update(tbl, "EOP-All.csv", 0, nil)
	return mgr
}

func values(rows []row) map[string]string {
	out := make(map[string]string)
	for _, r := range rows {
		if r.OK {
			out[r.Label] = r.Value
		} else {
			out[r.Label] = "-"
		}
	}
	return out
}

func TestScaleRows(t *testing.T) {
	at := timescale.FromCalendar[timescale.UTC](noon)

	got := values(scaleRows(at, loadedManager(t)))
	want := map[string]string{
		"UTC": "2023-02-25 12:00:00.000",
		"TAI": "2023-02-25 12:00:37.000",
		"TT":  "2023-02-25 12:01:09.184",
		"GPS": "2023-02-25 12:00:18.000",
		"UT1": "2023-02-25 11:59:59.500",
		"MJD": "60000.500000",
		"JD":  "2460001.000000",
	}
	for label, w := range want {
		if got[label] != w {
			t.Errorf("%s = %q, want %q", label, got[label], w)
		}
	}

	empty := values(scaleRows(at, state.NewManager(state.DefaultConfig())))
	for _, label := range []string{"TAI", "TT", "GPS", "UT1"} {
		if empty[label] != "-" {
			t.Errorf("%s without a table = %q, want no data", label, empty[label])
		}
	}
	if empty["UTC"] != want["UTC"] {
		t.Errorf("UTC without a table = %q", empty["UTC"])
	}
}

func TestRotationRows(t *testing.T) {
	at := timescale.FromCalendar[timescale.UTC](noon)

	rows := rotationRows(at, loadedManager(t))
	if len(rows) != 2 || !rows[0].OK || !rows[1].OK {
		t.Fatalf("rows = %+v", rows)
	}
	if !strings.Contains(rows[0].Value, "h") || !strings.HasSuffix(rows[0].Value, "°") {
		t.Errorf("GMST row = %q", rows[0].Value)
	}

	for _, r := range rotationRows(at, state.NewManager(state.DefaultConfig())) {
		if r.OK {
			t.Errorf("%s should have no data without a table", r.Label)
		}
	}
}

func TestRecordRows(t *testing.T) {
	mgr := loadedManager(t)
	at := timescale.FromCalendar[timescale.UTC](noon)

	got := values(recordRows(at, mgr.Table()))
	if got["DAT"] != "37 s" || got["UT1-UTC"] != "-0.5000000 s" {
		t.Errorf("record rows = %v", got)
	}
	if !strings.Contains(got["source"], "predicted") {
		t.Errorf("source = %q, want predicted (merged with the next row)", got["source"])
	}

	if rows := recordRows(at, nil); len(rows) != 1 || rows[0].OK {
		t.Errorf("rows without a table = %+v", rows)
	}
	late := timescale.FromCalendar[timescale.UTC](noon.AddDate(0, 0, 5))
	if rows := recordRows(late, mgr.Table()); rows[0].OK {
		t.Error("rows past the table should have no data")
	}
}

func TestEventRows(t *testing.T) {
	events := []state.Event{
		{Type: state.EventLoaded, LastMJD: 60001},
		{Type: state.EventLeapSecond, DAT: 38},
		{Type: state.EventReloadFailed, Error: "truncated"},
	}

	rows := eventRows(events, 2)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !strings.Contains(rows[0].Value, "RELOAD_FAILED truncated") {
		t.Errorf("newest row = %q", rows[0].Value)
	}
	if !strings.Contains(rows[1].Value, "LEAP_SECOND DAT=38") {
		t.Errorf("second row = %q", rows[1].Value)
	}
	if len(eventRows(nil, 5)) != 0 {
		t.Error("no events should give no rows")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	m := New(loadedManager(t), nil)
	m.now = func() time.Time { return noon }
	m.at = timescale.FromCalendar[timescale.UTC](noon)

	tests := []struct {
		key    string
		want   time.Time
		follow bool
	}{
		{"left", noon.AddDate(0, 0, -1), false},
		{"right", noon, false},
		{"up", noon.Add(time.Hour), false},
		{"down", noon, false},
		{"down", noon.Add(-time.Hour), false},
		{"n", noon, true},
	}

	for _, tt := range tests {
		next, _ := m.Update(key(tt.key))
		m = next.(Model)
		if got := m.At().Calendar(); !got.Equal(tt.want) {
			t.Errorf("after %s: at = %v, want %v", tt.key, got, tt.want)
		}
		if m.Following() != tt.follow {
			t.Errorf("after %s: following = %v, want %v", tt.key, m.Following(), tt.follow)
		}
	}
}

func TestTickFollowsClock(t *testing.T) {
	m := New(loadedManager(t), nil)
	later := noon.Add(90 * time.Second)

	next, cmd := m.Update(TickMsg(later))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if !m.At().Calendar().Equal(later) {
		t.Errorf("at = %v, want %v", m.At().Calendar(), later)
	}

	next, _ = m.Update(key("left"))
	next, _ = next.(Model).Update(TickMsg(later.Add(time.Minute)))
	if m = next.(Model); !m.At().Calendar().Equal(later.AddDate(0, 0, -1)) {
		t.Errorf("paused view moved with the clock: %v", m.At().Calendar())
	}
}

func TestClockInOtherZone(t *testing.T) {
	eastern := time.FixedZone("EST", -5*3600)
	local := noon.In(eastern)

	m := New(loadedManager(t), nil)
	m.now = func() time.Time { return local }

	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"now key", key("n")},
		{"tick", TickMsg(local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := m.Update(tt.msg)
			if got := next.(Model).At().Calendar(); !got.Equal(noon) {
				t.Errorf("at = %v, want %v", got, noon)
			}
		})
	}
}

func TestQuit(t *testing.T) {
	m := New(state.NewManager(state.DefaultConfig()), nil)
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestReload(t *testing.T) {
	mgr := loadedManager(t)
	calls := 0
	boom := errors.New("disk gone")
	m := New(mgr, func(context.Context) error {
		calls++
		return boom
	})

	next, cmd := m.Update(key("r"))
	m = next.(Model)
	if m.statusMsg != "Reloading..." || cmd == nil {
		t.Fatalf("status = %q, cmd = %v", m.statusMsg, cmd)
	}

	msg := cmd()
	if done, ok := msg.(ReloadDoneMsg); !ok || !errors.Is(done.Err, boom) || calls != 1 {
		t.Fatalf("reload message = %#v, calls = %d", msg, calls)
	}
	next, _ = m.Update(msg)
	if m = next.(Model); m.statusMsg != "Reload failed: disk gone" {
		t.Errorf("status = %q", m.statusMsg)
	}

	next, _ = m.Update(ReloadDoneMsg{})
	if m = next.(Model); m.statusMsg != "Reloaded 2 records" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestView(t *testing.T) {
	m := New(loadedManager(t), nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before sizing = %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	view := next.(Model).View()
	for _, want := range []string{"ls-epoch", "Time scales", "Earth rotation", "Earth orientation", "Events", "EOP-All.csv", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
