package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deskshell/themed/internal/logging"
	"github.com/deskshell/themed/internal/manager"
	"github.com/deskshell/themed/internal/store"
	"github.com/deskshell/themed/internal/surface"
	"github.com/deskshell/themed/internal/theme"
)

type nullStore struct{}

func (nullStore) Read(ctx context.Context, key string) ([]byte, error) {
	return nil, store.ErrNotFound
}
func (nullStore) Write(ctx context.Context, key string, data []byte) error { return nil }
func (nullStore) Delete(ctx context.Context, key string) error            { return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	mgr, err := manager.New(manager.Config{}, nullStore{}, nil, surface.NewVarSet(), nil, logging.Nop())
	if err != nil {
		t.Fatalf("manager.New: %v", err)
	}
	mgr.Initialize(context.Background())
	return NewModel(mgr)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAdjustHue(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(key("l"))
	m = updated.(Model)

	hue, err := m.manager.Get(theme.FieldHue)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hue != 215.0 {
		t.Errorf("hue = %v, want 215", hue)
	}
}

func TestHueWraps(t *testing.T) {
	m := newTestModel(t)

	// 30 steps of +5 from 210 crosses 360 and wraps.
	for i := 0; i < 31; i++ {
		updated, _ := m.Update(key("l"))
		m = updated.(Model)
	}

	hue, _ := m.manager.Get(theme.FieldHue)
	if hue != 5.0 {
		t.Errorf("hue = %v, want 5 after wrapping", hue)
	}
}

func TestCursorMovesBetweenControls(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(key("j"))
	m = updated.(Model)
	updated, _ = m.Update(key("l"))
	m = updated.(Model)

	sat, _ := m.manager.Get(theme.FieldSaturation)
	if sat != 43.18 {
		t.Errorf("saturation = %v, want 43.18", sat)
	}
	hue, _ := m.manager.Get(theme.FieldHue)
	if hue != 210.0 {
		t.Errorf("hue = %v, want untouched", hue)
	}
}

func TestToggleLightText(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(key("t"))
	m = updated.(Model)

	light, _ := m.manager.Get(theme.FieldLightText)
	if light != true {
		t.Errorf("lightText = %v, want true", light)
	}
}

func TestResetKey(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(key("l"))
	m = updated.(Model)
	updated, _ = m.Update(key("r"))
	m = updated.(Model)

	hue, _ := m.manager.Get(theme.FieldHue)
	if hue != 210.0 {
		t.Errorf("hue = %v, want default after reset", hue)
	}
}

func TestViewShowsControlsAndSwatches(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	for _, want := range []string{"Hue", "Saturation", "Lightness", "Alpha", "window", "sidebar"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
