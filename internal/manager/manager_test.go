package manager

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deskshell/themed/internal/broadcast"
	"github.com/deskshell/themed/internal/logging"
	"github.com/deskshell/themed/internal/store"
	"github.com/deskshell/themed/internal/surface"
	"github.com/deskshell/themed/internal/theme"
)

// mockStore implements store.Store with injectable failures and write
// accounting.
type mockStore struct {
	mu      sync.Mutex
	records map[string][]byte
	readErr error
	writes  int
	deletes int
}

func newMockStore() *mockStore {
	return &mockStore{records: make(map[string][]byte)}
}

func (m *mockStore) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.records[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (m *mockStore) Write(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = data
	m.writes++
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	m.deletes++
	return nil
}

func (m *mockStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *mockStore) record(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[key]
	return data, ok
}

// mockAlerter records user-visible alerts.
type mockAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (a *mockAlerter) Alert(title, detail string) {
	a.mu.Lock()
	a.alerts = append(a.alerts, title+": "+detail)
	a.mu.Unlock()
}

func (a *mockAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

type fixture struct {
	manager *Manager
	store   *mockStore
	bus     *broadcast.Bus
	vars    *surface.VarSet
	alerter *mockAlerter
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	f := &fixture{
		store:   newMockStore(),
		bus:     broadcast.NewBus(),
		vars:    surface.NewVarSet(),
		alerter: &mockAlerter{},
	}

	mgr, err := New(cfg, f.store, f.bus, f.vars, f.alerter, logging.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.manager = mgr
	return f
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestInitializeMissingRecord(t *testing.T) {
	f := newFixture(t, Config{})
	f.manager.Initialize(context.Background())

	if f.alerter.count() != 0 {
		t.Errorf("unexpected alerts: %d", f.alerter.count())
	}
	if d := f.manager.Descriptor(); d != theme.Default() {
		t.Errorf("descriptor = %+v, want defaults", d)
	}

	// The render pass always runs, even for defaults.
	tests := map[string]string{
		surface.VarPrimaryHue:        "210",
		surface.VarPrimarySaturation: "41.18%",
		surface.VarPrimaryLightness:  "93.33%",
		surface.VarPrimaryAlpha:      "0.8",
		surface.VarPrimaryColor:      "#000000",
		surface.VarSidebarTitleColor: "#000000",
		surface.VarSidebarItemColor:  "#000000",
	}
	for name, want := range tests {
		got, ok := f.vars.Get(name)
		if !ok || got != want {
			t.Errorf("%s = %q (set=%v), want %q", name, got, ok, want)
		}
	}
}

func TestInitializeMalformedRecord(t *testing.T) {
	f := newFixture(t, Config{})
	f.store.records["theme.json"] = []byte(`{not json`)

	f.manager.Initialize(context.Background())

	if f.alerter.count() != 1 {
		t.Fatalf("alerts = %d, want 1", f.alerter.count())
	}
	if !strings.Contains(f.alerter.alerts[0], "theme.json") {
		t.Errorf("alert does not name the record: %q", f.alerter.alerts[0])
	}
	if d := f.manager.Descriptor(); d != theme.Default() {
		t.Errorf("descriptor = %+v, want defaults", d)
	}
	// Render still executed with default values.
	if hue, ok := f.vars.Get(surface.VarPrimaryHue); !ok || hue != "210" {
		t.Errorf("hue variable = %q", hue)
	}
}

func TestInitializeReadErrorIsSilent(t *testing.T) {
	f := newFixture(t, Config{})
	f.store.readErr = errors.New("store unreachable")

	f.manager.Initialize(context.Background())

	if f.alerter.count() != 0 {
		t.Errorf("read failures must not alert, got %d", f.alerter.count())
	}
	if d := f.manager.Descriptor(); d != theme.Default() {
		t.Errorf("descriptor = %+v, want defaults", d)
	}
}

func TestInitializePartialRecord(t *testing.T) {
	f := newFixture(t, Config{})
	f.store.records["theme.json"] = []byte(`{"colors":{"hue":45,"lightText":true}}`)

	f.manager.Initialize(context.Background())

	d := f.manager.Descriptor()
	if d.Hue != 45 || !d.LightText {
		t.Errorf("descriptor = %+v", d)
	}
	if d.Saturation != 41.18 || d.Alpha != 0.8 {
		t.Errorf("missing fields not defaulted: %+v", d)
	}
	if color, _ := f.vars.Get(surface.VarPrimaryColor); color != "#ffffff" {
		t.Errorf("primary color = %q, want light text", color)
	}
}

func TestInitializeBareDescriptorRecord(t *testing.T) {
	f := newFixture(t, Config{})
	f.store.records["theme.json"] = []byte(`{"hue":300,"alpha":0.5}`)

	f.manager.Initialize(context.Background())

	d := f.manager.Descriptor()
	if d.Hue != 300 || d.Alpha != 0.5 {
		t.Errorf("descriptor = %+v", d)
	}
	if d.Saturation != 41.18 {
		t.Errorf("missing fields not defaulted: %+v", d)
	}
}

func TestApplyMergesAndRenders(t *testing.T) {
	f := newFixture(t, Config{Debounce: time.Hour})
	ctx := context.Background()
	f.manager.Initialize(ctx)

	f.manager.Apply(ctx, theme.Update{Hue: floatPtr(120)})

	hue, err := f.manager.Get(theme.FieldHue)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hue != 120.0 {
		t.Errorf("Get(hue) = %v, want 120", hue)
	}
	// Merge semantics: untouched fields keep their prior values.
	if alpha, _ := f.manager.Get(theme.FieldAlpha); alpha != 0.8 {
		t.Errorf("Get(alpha) = %v, want 0.8", alpha)
	}
	if v, _ := f.vars.Get(surface.VarPrimaryHue); v != "120" {
		t.Errorf("hue variable = %q", v)
	}
}

func TestApplyBroadcastsPalette(t *testing.T) {
	f := newFixture(t, Config{Debounce: time.Hour})
	ctx := context.Background()

	var events []broadcast.Event
	f.bus.Subscribe(broadcast.TopicThemeChanged, func(e broadcast.Event) {
		events = append(events, e)
	})

	f.manager.Apply(ctx, theme.Update{Lightness: floatPtr(20), LightText: boolPtr(true)})

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	var payload ThemeChangedPayload
	if err := json.Unmarshal(events[0].Payload, &payload); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if payload.Palette.PrimaryHue != 210 {
		t.Errorf("primaryHue = %v", payload.Palette.PrimaryHue)
	}
	if payload.Palette.PrimaryLightness != "20%" {
		t.Errorf("primaryLightness = %q", payload.Palette.PrimaryLightness)
	}
	if payload.Palette.PrimaryColor != "#ffffff" {
		t.Errorf("primaryColor = %q", payload.Palette.PrimaryColor)
	}

	// Broadcasts are sticky so newly created instances catch up.
	var replayed bool
	f.bus.Subscribe(broadcast.TopicThemeChanged, func(broadcast.Event) { replayed = true })
	if !replayed {
		t.Error("expected sticky replay to a late subscriber")
	}
}

func TestDebounceCollapsesWrites(t *testing.T) {
	f := newFixture(t, Config{Debounce: 25 * time.Millisecond})
	ctx := context.Background()

	f.manager.Apply(ctx, theme.Update{Hue: floatPtr(10)})
	f.manager.Apply(ctx, theme.Update{Hue: floatPtr(20), Saturation: floatPtr(60)})

	time.Sleep(200 * time.Millisecond)

	if writes := f.store.writeCount(); writes != 1 {
		t.Fatalf("writes = %d, want exactly 1", writes)
	}

	data, ok := f.store.record("theme.json")
	if !ok {
		t.Fatal("expected persisted record")
	}
	var rec theme.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("decode persisted record: %v", err)
	}
	d := theme.Default()
	d.Merge(rec.Colors)
	if d.Hue != 20 || d.Saturation != 60 {
		t.Errorf("persisted state = %+v, want the second call's merge", d)
	}
}

func TestResetRestoresDefaultsAndDeletes(t *testing.T) {
	f := newFixture(t, Config{Debounce: 25 * time.Millisecond})
	ctx := context.Background()

	f.manager.Apply(ctx, theme.Update{Alpha: floatPtr(0.3)})
	f.manager.Reset(ctx)

	if alpha, _ := f.manager.Get(theme.FieldAlpha); alpha != 0.8 {
		t.Errorf("Get(alpha) after reset = %v, want 0.8", alpha)
	}
	if f.store.deletes != 1 {
		t.Errorf("deletes = %d, want 1", f.store.deletes)
	}

	// Reset cancels the pending debounced persist: nothing may land
	// after the delete.
	time.Sleep(200 * time.Millisecond)
	if writes := f.store.writeCount(); writes != 0 {
		t.Errorf("writes after reset = %d, want 0", writes)
	}
	if _, ok := f.store.record("theme.json"); ok {
		t.Error("stale write resurrected the deleted record")
	}
}

func TestFlushPersistsImmediately(t *testing.T) {
	f := newFixture(t, Config{Debounce: time.Hour})
	ctx := context.Background()

	f.manager.Apply(ctx, theme.Update{Hue: floatPtr(75)})
	f.manager.Flush(ctx)

	if writes := f.store.writeCount(); writes != 1 {
		t.Fatalf("writes = %d, want 1", writes)
	}
	// Flush with nothing pending is a no-op.
	f.manager.Flush(ctx)
	if writes := f.store.writeCount(); writes != 1 {
		t.Errorf("writes after idle flush = %d, want 1", writes)
	}
}

func TestSidebarFailureKeepsPrimaryVariables(t *testing.T) {
	f := newFixture(t, Config{Debounce: time.Hour})
	ctx := context.Background()
	f.manager.Initialize(ctx)

	f.manager.Apply(ctx, theme.Update{Hue: floatPtr(math.NaN())})

	// Primary variables reflect the (bad) value; the sidebar pipeline
	// failed and left its previous values in place.
	if v, _ := f.vars.Get(surface.VarPrimaryHue); v != "NaN" {
		t.Errorf("hue variable = %q", v)
	}
	if v, _ := f.vars.Get(surface.VarSidebarTitleColor); v != "#000000" {
		t.Errorf("sidebar title = %q, want previous value preserved", v)
	}
}

func TestDarkThemeSidebarUsesWhiteText(t *testing.T) {
	f := newFixture(t, Config{Debounce: time.Hour})
	ctx := context.Background()

	f.manager.Apply(ctx, theme.Update{Lightness: floatPtr(8), Alpha: floatPtr(1)})

	if v, _ := f.vars.Get(surface.VarSidebarTitleColor); v != "#ffffff" {
		t.Errorf("sidebar title = %q, want white on a dark background", v)
	}
	if v, _ := f.vars.Get(surface.VarSidebarItemColor); v != "#ffffff" {
		t.Errorf("sidebar item = %q, want white on a dark background", v)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}, nil, nil, surface.NewVarSet(), nil, logging.Nop()); err == nil {
		t.Error("expected error without a store")
	}
	if _, err := New(Config{}, newMockStore(), nil, nil, nil, logging.Nop()); err == nil {
		t.Error("expected error without a surface sink")
	}
}
