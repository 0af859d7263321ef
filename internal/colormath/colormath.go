// Package colormath provides the color-space conversions and WCAG
// accessibility metrics the theme engine derives text colors from.
// All functions are pure and safe for concurrent use.
package colormath

import (
	"fmt"
	"math"
)

// RGB is a color with integer channels in [0,255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Pure black and white, the two candidate text colors.
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

// Hex returns the color as a #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampChannel(c.R), clampChannel(c.G), clampChannel(c.B))
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// HSLToRGB converts hue in degrees and saturation/lightness percentages
// to an RGB color. Saturation zero is achromatic: all channels equal the
// lightness. Inputs are not validated; out-of-range values produce
// mathematically defined but visually meaningless output.
func HSLToRGB(hue, saturation, lightness float64) RGB {
	h := hue / 360
	s := saturation / 100
	l := lightness / 100

	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hueToChannel(p, q, h+1.0/3)
		g = hueToChannel(p, q, h)
		b = hueToChannel(p, q, h-1.0/3)
	}

	return RGB{
		R: int(math.Round(r * 255)),
		G: int(math.Round(g * 255)),
		B: int(math.Round(b * 255)),
	}
}

// hueToChannel maps a hue offset to a single channel value using the
// standard piecewise HSL helper with breakpoints at 1/6, 1/2 and 2/3.
func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// Luminance returns the WCAG 2.0 relative luminance of a color, in [0,1].
func Luminance(c RGB) float64 {
	r := linearize(float64(c.R) / 255)
	g := linearize(float64(c.G) / 255)
	b := linearize(float64(c.B) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// linearize converts an sRGB channel value to linear light.
func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between two colors, in
// [1,21]. The result is symmetric in its arguments.
func ContrastRatio(a, b RGB) float64 {
	la := Luminance(a)
	lb := Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// BlendWithWhite simulates compositing a color over a white background
// the way the sidebar surface renders: the effective opacity is
// 0.5 + 0.5*alpha, so it never drops below one half even at alpha zero.
func BlendWithWhite(c RGB, alpha float64) RGB {
	eff := 0.5 + 0.5*alpha
	return RGB{
		R: int(math.Round(float64(c.R)*eff + 255*(1-eff))),
		G: int(math.Round(float64(c.G)*eff + 255*(1-eff))),
		B: int(math.Round(float64(c.B)*eff + 255*(1-eff))),
	}
}

// OptimalTextColor picks pure black or pure white, whichever contrasts
// more against the background. Ties go to black. This is a best-effort
// binary choice and does not guarantee the AA 4.5:1 threshold.
func OptimalTextColor(background RGB) RGB {
	if ContrastRatio(background, Black) >= ContrastRatio(background, White) {
		return Black
	}
	return White
}
