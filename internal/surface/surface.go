// Package surface binds the theme engine to a rendering surface
// through named style-variable assignments.
package surface

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Style variable names set by the theme engine.
const (
	VarPrimaryHue        = "--primary-hue"
	VarPrimarySaturation = "--primary-saturation"
	VarPrimaryLightness  = "--primary-lightness"
	VarPrimaryAlpha      = "--primary-alpha"
	VarPrimaryColor      = "--primary-color"
	VarSidebarTitleColor = "--window-sidebar-title-color"
	VarSidebarItemColor  = "--window-sidebar-item-color"
)

// Sink accepts style-variable assignments. How the variables are
// rendered is not the engine's concern.
type Sink interface {
	Set(name, value string)
}

// VarSet is a Sink that records the latest value of each variable.
type VarSet struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewVarSet returns an empty variable set.
func NewVarSet() *VarSet {
	return &VarSet{vars: make(map[string]string)}
}

// Set records the variable, replacing any prior value.
func (v *VarSet) Set(name, value string) {
	v.mu.Lock()
	v.vars[name] = value
	v.mu.Unlock()
}

// Get returns the variable's current value.
func (v *VarSet) Get(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.vars[name]
	return value, ok
}

// CSS renders the variables as a :root custom-property block, names
// sorted for stable output.
func (v *VarSet) CSS() string {
	v.mu.RLock()
	names := make([]string, 0, len(v.vars))
	for name := range v.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %s;\n", name, v.vars[name])
	}
	b.WriteString("}\n")
	v.mu.RUnlock()
	return b.String()
}
