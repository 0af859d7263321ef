// Package tui provides an interactive terminal preview for adjusting
// the shell theme.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deskshell/themed/internal/colormath"
	"github.com/deskshell/themed/internal/manager"
	"github.com/deskshell/themed/internal/theme"
)

// control is one adjustable descriptor field.
type control struct {
	label string
	field string
	step  float64
	min   float64
	max   float64
	wrap  bool
}

var controls = []control{
	{label: "Hue", field: theme.FieldHue, step: 5, min: 0, max: 360, wrap: true},
	{label: "Saturation", field: theme.FieldSaturation, step: 2, min: 0, max: 100},
	{label: "Lightness", field: theme.FieldLightness, step: 2, min: 0, max: 100},
	{label: "Alpha", field: theme.FieldAlpha, step: 0.05, min: 0, max: 1},
}

// Model is the bubbletea model for the theme preview.
type Model struct {
	manager *manager.Manager
	cursor  int
}

// NewModel creates a preview driving the given manager.
func NewModel(m *manager.Manager) Model {
	return Model{manager: m}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(controls)-1 {
			m.cursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case " ", "t":
		d := m.manager.Descriptor()
		light := !d.LightText
		m.manager.Apply(context.Background(), theme.Update{LightText: &light})
	case "r":
		m.manager.Reset(context.Background())
	}
	return m, nil
}

// adjust moves the selected control by direction*step, wrapping the
// hue and clamping everything else.
func (m Model) adjust(direction float64) {
	ctl := controls[m.cursor]
	d := m.manager.Descriptor()

	value, err := d.Field(ctl.field)
	if err != nil {
		return
	}
	next := value.(float64) + direction*ctl.step
	if ctl.wrap {
		for next < ctl.min {
			next += ctl.max - ctl.min
		}
		for next >= ctl.max {
			next -= ctl.max - ctl.min
		}
	} else {
		if next < ctl.min {
			next = ctl.min
		}
		if next > ctl.max {
			next = ctl.max
		}
	}

	update := theme.Update{}
	switch ctl.field {
	case theme.FieldHue:
		update.Hue = &next
	case theme.FieldSaturation:
		update.Saturation = &next
	case theme.FieldLightness:
		update.Lightness = &next
	case theme.FieldAlpha:
		update.Alpha = &next
	}
	m.manager.Apply(context.Background(), update)
}

// View implements tea.Model.
func (m Model) View() string {
	d := m.manager.Descriptor()

	primary := colormath.HSLToRGB(d.Hue, d.Saturation, d.Lightness)
	sidebar := colormath.BlendWithWhite(primary, d.Alpha)
	sidebarText := colormath.OptimalTextColor(sidebar)
	primaryText := colormath.Black
	if d.LightText {
		primaryText = colormath.White
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("themed preview"))
	b.WriteString("\n\n")

	for i, ctl := range controls {
		value, _ := d.Field(ctl.field)
		line := fmt.Sprintf("%-11s %s %6.2f", ctl.label, slider(value.(float64), ctl.min, ctl.max), value.(float64))
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	lightText := "dark"
	if d.LightText {
		lightText = "light"
	}
	b.WriteString(fmt.Sprintf("  %-11s %s\n\n", "Text", lightText))

	b.WriteString(swatch("window", primary, primaryText))
	b.WriteString("\n")
	b.WriteString(swatch("sidebar", sidebar, sidebarText))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ select · ←/→ adjust · t text · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}

const sliderWidth = 24

// slider renders a fixed-width gauge for a value within [min,max].
func slider(value, min, max float64) string {
	filled := int((value - min) / (max - min) * sliderWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > sliderWidth {
		filled = sliderWidth
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", sliderWidth-filled) + "]"
}

// swatch renders a labeled preview block in the derived colors.
func swatch(label string, background, text colormath.RGB) string {
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(background.Hex())).
		Foreground(lipgloss.Color(text.Hex())).
		Padding(0, 2)
	return style.Render(fmt.Sprintf("%-8s %s on %s", label, text.Hex(), background.Hex()))
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
)
