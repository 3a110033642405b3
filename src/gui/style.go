package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Style is the overlay's look. It is read-only after construction.
type Style struct {
	Background color.NRGBA
	Border     color.NRGBA
	Text       color.NRGBA
	Output     color.NRGBA
	Analyze    color.NRGBA
	Close      color.NRGBA
	TextSize   float32
	Width      float32
	Height     float32
	Opacity    float64
}

// DefaultStyle returns the dark translucent panel with the Gemini accents.
func DefaultStyle(opacity float64) Style {
	if opacity <= 0 || opacity > 1 {
		opacity = 0.90
	}
	return Style{
		Background: color.NRGBA{R: 30, G: 30, B: 30, A: alpha(opacity)},
		Border:     color.NRGBA{R: 255, G: 185, B: 0, A: alpha(0.5)},
		Text:       color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Output:     color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
		Analyze:    color.NRGBA{R: 0x1a, G: 0x73, B: 0xe8, A: 0xff},
		Close:      color.NRGBA{R: 0xea, G: 0x43, B: 0x35, A: 0xff},
		TextSize:   13,
		Width:      350,
		Height:     500,
		Opacity:    opacity,
	}
}

func alpha(f float64) uint8 {
	return uint8(f*255 + 0.5)
}

// colorNameOutput colours the analysis text.
const colorNameOutput fyne.ThemeColorName = "overlayOutput"

// overlayTheme maps a Style onto fyne's theme names and falls back to the
// default dark theme for everything else.
type overlayTheme struct {
	style Style
	base  fyne.Theme
}

func newTheme(s Style) fyne.Theme {
	return &overlayTheme{style: s, base: theme.DefaultTheme()}
}

func (t *overlayTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case colorNameOutput:
		return t.style.Output
	case theme.ColorNameBackground, theme.ColorNameOverlayBackground, theme.ColorNameMenuBackground:
		return t.style.Background
	case theme.ColorNameForeground, theme.ColorNameForegroundOnPrimary, theme.ColorNameForegroundOnError:
		return t.style.Text
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return t.style.Analyze
	case theme.ColorNameError:
		return t.style.Close
	case theme.ColorNameSeparator, theme.ColorNameInputBorder:
		return t.style.Border
	case theme.ColorNameInputBackground, theme.ColorNameButton:
		return color.NRGBA{R: 45, G: 45, B: 45, A: 0xff}
	}
	return t.base.Color(name, theme.VariantDark)
}

func (t *overlayTheme) Font(s fyne.TextStyle) fyne.Resource {
	return t.base.Font(s)
}

func (t *overlayTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(n)
}

func (t *overlayTheme) Size(n fyne.ThemeSizeName) float32 {
	if n == theme.SizeNameText {
		return t.style.TextSize
	}
	return t.base.Size(n)
}
