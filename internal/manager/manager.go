// Package manager owns the live theme descriptor: it applies updates,
// derives the accessibility palette, pushes style variables to the
// rendering surface, persists changes and announces them on the
// broadcast channel.
package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/deskshell/themed/internal/broadcast"
	"github.com/deskshell/themed/internal/colormath"
	"github.com/deskshell/themed/internal/store"
	"github.com/deskshell/themed/internal/surface"
	"github.com/deskshell/themed/internal/theme"
)

// Alerter surfaces user-visible warnings, e.g. a corrupt settings file.
type Alerter interface {
	Alert(title, detail string)
}

// Config contains manager configuration.
type Config struct {
	// Key is the store record holding the persisted theme.
	// Default: "theme.json".
	Key string

	// Debounce is the cooldown window collapsing rapid Apply bursts
	// into a single durable write. Default: 500ms.
	Debounce time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Key:      "theme.json",
		Debounce: 500 * time.Millisecond,
	}
}

// Palette is the computed set of primary variables mirrored to other
// live instances.
type Palette struct {
	PrimaryHue        float64 `json:"primaryHue"`
	PrimarySaturation string  `json:"primarySaturation"`
	PrimaryLightness  string  `json:"primaryLightness"`
	PrimaryAlpha      float64 `json:"primaryAlpha"`
	PrimaryColor      string  `json:"primaryColor"`
}

// ThemeChangedPayload is the broadcast payload for TopicThemeChanged.
type ThemeChangedPayload struct {
	Palette Palette `json:"palette"`
}

// Manager is the theme state manager. All collaborators are injected;
// the manager never reaches for ambient globals.
type Manager struct {
	cfg       Config
	store     store.Store
	publisher broadcast.Publisher
	surface   surface.Sink
	alerter   Alerter
	logger    zerolog.Logger

	mu         sync.Mutex
	descriptor theme.Descriptor
	pending    *time.Timer
	persistSeq uint64
}

// New constructs a manager starting from the compiled-in defaults.
// Store and surface are required; publisher and alerter may be nil.
func New(cfg Config, st store.Store, pub broadcast.Publisher, sink surface.Sink, alerter Alerter, logger zerolog.Logger) (*Manager, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if sink == nil {
		return nil, errors.New("surface sink is required")
	}
	if cfg.Key == "" {
		cfg.Key = DefaultConfig().Key
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}

	return &Manager{
		cfg:        cfg,
		store:      st,
		publisher:  pub,
		surface:    sink,
		alerter:    alerter,
		logger:     logger,
		descriptor: theme.Default(),
	}, nil
}

// Initialize loads the persisted theme, falling back to defaults when
// the record is absent or unreadable, and always finishes with a full
// render pass so the surface variables are set deterministically.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.store.Read(ctx, m.cfg.Key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// First run, defaults apply.
	case err != nil:
		// Store-level failures stay in the log; alerting on every
		// degraded read would only add noise.
		m.logger.Error().Err(err).Str("key", m.cfg.Key).Msg("failed to read persisted theme")
	default:
		var rec theme.Record
		if jsonErr := json.Unmarshal(data, &rec); jsonErr != nil {
			m.logger.Warn().Err(jsonErr).Str("key", m.cfg.Key).Msg("discarding malformed persisted theme")
			if m.alerter != nil {
				m.alerter.Alert("Couldn't load your theme settings",
					fmt.Sprintf("%s: %v", m.cfg.Key, jsonErr))
			}
		} else {
			colors := rec.Colors
			if colors == (theme.Update{}) {
				// Tolerate a bare descriptor without the "colors"
				// envelope.
				if err := json.Unmarshal(data, &colors); err != nil {
					colors = theme.Update{}
				}
			}
			m.descriptor.Merge(colors)
		}
	}

	m.render(ctx)
}

// Apply merges the partial update onto the current descriptor, renders
// it, and schedules a debounced persist.
func (m *Manager) Apply(ctx context.Context, u theme.Update) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.descriptor.Merge(u)
	m.render(ctx)
	m.schedulePersist()
}

// Reset restores the compiled-in defaults, renders them, and deletes
// the persisted record immediately. Any pending debounced persist is
// cancelled first so a stale write cannot resurrect the deleted state.
func (m *Manager) Reset(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelPersist()
	m.descriptor = theme.Default()
	m.render(ctx)

	if err := m.store.Delete(ctx, m.cfg.Key); err != nil {
		m.logger.Error().Err(err).Str("key", m.cfg.Key).Msg("failed to delete persisted theme")
	}
}

// Get returns a single descriptor field by name.
func (m *Manager) Get(field string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.descriptor.Field(field)
}

// Descriptor returns a copy of the current descriptor.
func (m *Manager) Descriptor() theme.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.descriptor
}

// Flush forces any pending debounced persist to run now. Used on
// shutdown so the last interactive change is not lost.
func (m *Manager) Flush(ctx context.Context) {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return
	}
	m.cancelPersist()
	rec := theme.NewRecord(m.descriptor)
	m.mu.Unlock()

	m.persist(ctx, rec)
}

// render pushes every style variable for the current descriptor and
// broadcasts the resulting palette. Callers hold m.mu.
func (m *Manager) render(ctx context.Context) {
	d := m.descriptor

	hue := formatNumber(d.Hue)
	sat := formatNumber(d.Saturation) + "%"
	light := formatNumber(d.Lightness) + "%"
	alpha := formatNumber(d.Alpha)

	primary := colormath.Black
	if d.LightText {
		primary = colormath.White
	}

	m.surface.Set(surface.VarPrimaryHue, hue)
	m.surface.Set(surface.VarPrimarySaturation, sat)
	m.surface.Set(surface.VarPrimaryLightness, light)
	m.surface.Set(surface.VarPrimaryAlpha, alpha)
	m.surface.Set(surface.VarPrimaryColor, primary.Hex())

	// The sidebar pipeline is secondary: a failure here is logged and
	// must not undo the primary variables already set.
	if sidebar, err := sidebarTextColor(d); err != nil {
		m.logger.Error().Err(err).Msg("sidebar text color derivation failed")
	} else {
		m.surface.Set(surface.VarSidebarTitleColor, sidebar.Hex())
		m.surface.Set(surface.VarSidebarItemColor, sidebar.Hex())
	}

	if m.publisher == nil {
		return
	}
	payload := ThemeChangedPayload{Palette: Palette{
		PrimaryHue:        d.Hue,
		PrimarySaturation: sat,
		PrimaryLightness:  light,
		PrimaryAlpha:      d.Alpha,
		PrimaryColor:      primary.Hex(),
	}}
	if err := m.publisher.Publish(ctx, broadcast.TopicThemeChanged, payload, broadcast.WithSticky()); err != nil {
		m.logger.Error().Err(err).Msg("failed to broadcast theme change")
	}
}

// sidebarTextColor derives the sidebar text color: the themed color is
// composited over white the way the sidebar renders, then the better
// of black or white is chosen against that background.
func sidebarTextColor(d theme.Descriptor) (colormath.RGB, error) {
	for name, v := range map[string]float64{
		theme.FieldHue:        d.Hue,
		theme.FieldSaturation: d.Saturation,
		theme.FieldLightness:  d.Lightness,
		theme.FieldAlpha:      d.Alpha,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return colormath.RGB{}, fmt.Errorf("descriptor field %s is not finite: %v", name, v)
		}
	}

	background := colormath.BlendWithWhite(colormath.HSLToRGB(d.Hue, d.Saturation, d.Lightness), d.Alpha)
	return colormath.OptimalTextColor(background), nil
}

// schedulePersist restarts the debounce timer. Callers hold m.mu.
// The sequence number invalidates a callback that already fired but
// has not yet taken the lock when a newer Apply, Reset or Flush
// supersedes it.
func (m *Manager) schedulePersist() {
	if m.pending != nil {
		m.pending.Stop()
	}
	m.persistSeq++
	seq := m.persistSeq
	m.pending = time.AfterFunc(m.cfg.Debounce, func() {
		m.mu.Lock()
		if seq != m.persistSeq {
			m.mu.Unlock()
			return
		}
		m.pending = nil
		rec := theme.NewRecord(m.descriptor)
		m.mu.Unlock()

		m.persist(context.Background(), rec)
	})
}

// cancelPersist invalidates and stops any pending persist. Callers
// hold m.mu.
func (m *Manager) cancelPersist() {
	m.persistSeq++
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

// persist writes the record to the store. Failures are logged, never
// retried and never surfaced.
func (m *Manager) persist(ctx context.Context, rec theme.Record) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to encode theme record")
		return
	}
	if err := m.store.Write(ctx, m.cfg.Key, data); err != nil {
		m.logger.Error().Err(err).Str("key", m.cfg.Key).Msg("failed to persist theme")
	}
}

// formatNumber renders a float the way it was given, without a forced
// exponent or trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
