package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/litescript/ls-epoch/internal/eop"
	"github.com/litescript/ls-epoch/internal/logging"
	"github.com/litescript/ls-epoch/internal/metrics"
	"github.com/litescript/ls-epoch/internal/timescale"
)

const header = "MJD,X,Y,UT1-UTC,LOD,DPSI,DEPS,DX,DY,DAT,DATA_TYPE\n"

// csvRows renders one row per MJD with the given DAT values.
func csvRows(start float64, dats ...int64) string {
	var b strings.Builder
	b.WriteString(header)
	for i, dat := range dats {
		fmt.Fprintf(&b, "%v,0.1,0.2,-0.1,0,0,0,0,0,%d,O\n", start+float64(i), dat)
	}
	return b.String()
}

func tableOf(t *testing.T, data string) *eop.Table {
	t.Helper()
	table, err := eop.Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return table
}

func eventTypes(events []Event) []EventType {
	var out []EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())
	if m.HasData() {
		t.Error("new manager should have no data")
	}
	if m.Table() != nil {
		t.Error("new manager should have no table")
	}
	if _, ok := timescale.ConvertWith[timescale.TAI](timescale.FromMJD[timescale.UTC](0.5), m); ok {
		t.Error("conversion without a table should have no data")
	}
	if _, ok := timescale.UTCToUT1(timescale.FromMJD[timescale.UTC](0.5), m); ok {
		t.Error("UT1 without a table should have no data")
	}
}

func TestUpdateInstallsTable(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Update(tableOf(t, csvRows(0, 10, 10, 10)), "a.csv", time.Millisecond, nil)

	if !m.HasData() {
		t.Fatal("HasData() = false after update")
	}
	snap := m.Snapshot()
	if snap.Source != "a.csv" || snap.Table.Len() != 3 || snap.LastError != nil {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Events) != 1 || snap.Events[0].Type != EventLoaded {
		t.Fatalf("events = %v, want [LOADED]", eventTypes(snap.Events))
	}
	if snap.Events[0].ID == uuid.Nil {
		t.Error("event has no ID")
	}
	if snap.Events[0].LastMJD != 2 || snap.Events[0].Records != 3 {
		t.Errorf("LOADED event = %+v", snap.Events[0])
	}

	dat, ok := m.LeapOffsetUTC(timescale.FromMJD[timescale.UTC](0.5))
	if !ok || dat.Seconds() != 10 {
		t.Errorf("LeapOffsetUTC = %v, %v; want 10s", dat, ok)
	}
	if _, ok := m.RotationOffsetUT1(timescale.FromMJD[timescale.UT1](0.5)); !ok {
		t.Error("RotationOffsetUT1 should find data")
	}
}

func TestUpdateFailureKeepsTable(t *testing.T) {
	m := NewManager(DefaultConfig())
	first := tableOf(t, csvRows(0, 10, 10))
	m.Update(first, "a.csv", 0, nil)

	boom := errors.New("truncated file")
	m.Update(nil, "a.csv", 0, boom)

	snap := m.Snapshot()
	if snap.Table != first {
		t.Error("failed update replaced the table")
	}
	if !errors.Is(snap.LastError, boom) {
		t.Errorf("LastError = %v, want %v", snap.LastError, boom)
	}
	last := snap.Events[len(snap.Events)-1]
	if last.Type != EventReloadFailed || last.Error != "truncated file" {
		t.Errorf("last event = %+v", last)
	}
}

func TestUpdateDetectsExtensionAndLeapSecond(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Update(tableOf(t, csvRows(0, 36, 36)), "a.csv", 0, nil)
	m.Update(tableOf(t, csvRows(0, 36, 36, 37)), "a.csv", 0, nil)
	m.Update(tableOf(t, csvRows(0, 36, 36, 37)), "a.csv", 0, nil)

	got := eventTypes(m.Snapshot().Events)
	want := []EventType{EventLoaded, EventExtended, EventLeapSecond}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	leap := m.Snapshot().Events[2]
	if leap.DAT != 37 || leap.LastMJD != 2 {
		t.Errorf("LEAP_SECOND event = %+v", leap)
	}
}

func TestEventRingBuffer(t *testing.T) {
	m := NewManager(Config{MaxEvents: 3})
	for i := 0; i < 5; i++ {
		m.Update(nil, "a.csv", 0, fmt.Errorf("failure %d", i))
	}

	events := m.Snapshot().Events
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, e := range events {
		if want := fmt.Sprintf("failure %d", i+2); e.Error != want {
			t.Errorf("event %d = %q, want %q", i, e.Error, want)
		}
	}

	recent := m.RecentEvents(2)
	if len(recent) != 2 || recent[1].Error != "failure 4" {
		t.Errorf("RecentEvents(2) = %+v", recent)
	}
	if len(m.RecentEvents(10)) != 3 {
		t.Error("RecentEvents should cap at the buffer size")
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "EOP-All.csv")
	writeFile(t, path, csvRows(60000, 37, 37, 37))

	reg := prometheus.NewRegistry()
	m := NewManager(DefaultConfig())
	l := NewLoader(path, m, WithLogger(logging.Discard()), WithMetrics(metrics.NewReloads(reg)))

	if err := l.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if m.Table().Len() != 3 {
		t.Errorf("table has %d records, want 3", m.Table().Len())
	}

	writeFile(t, path, "")
	err := l.Reload(context.Background())
	if !errors.Is(err, eop.ErrMissingHeader) {
		t.Errorf("Reload() error = %v, want ErrMissingHeader", err)
	}
	if m.Table().Len() != 3 {
		t.Error("failed reload should keep the previous table")
	}

	n, err := testutil.GatherAndCount(reg, metrics.TableReloadsN)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("reload series = %d, want 2 (ok and error)", n)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	m := NewManager(DefaultConfig())
	l := NewLoader(filepath.Join(t.TempDir(), "absent.csv"), m)
	if err := l.Reload(context.Background()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Reload() error = %v, want fs.ErrNotExist", err)
	}
	if m.HasData() {
		t.Error("manager should still be empty")
	}
}

func TestLoaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewLoader("unused.csv", NewManager(DefaultConfig())).Load(ctx)
	if !errors.Is(res.Error, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", res.Error)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "EOP-All.csv")
	writeFile(t, path, csvRows(60000, 37, 37))

	m := NewManager(DefaultConfig())
	l := NewLoader(path, m)
	if err := l.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(l, 20*time.Millisecond, logging.Discard())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "unrelated.txt"), "ignored")
	writeFile(t, path, csvRows(60000, 37, 37, 37, 37))

	select {
	case err := <-w.Reloads:
		if err != nil {
			t.Fatalf("reload error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the file changed")
	}
	if m.Table().Len() != 4 {
		t.Errorf("table has %d records, want 4", m.Table().Len())
	}
}

func TestWatcherStop(t *testing.T) {
	w, err := NewWatcher(NewLoader("x.csv", NewManager(DefaultConfig())), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	w.Stop()
	if _, ok := <-w.Reloads; ok {
		t.Error("Reloads should be closed after Stop")
	}
	w.Stop()
}
