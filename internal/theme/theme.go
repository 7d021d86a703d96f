// Package theme provides the colour table injected into syntax-highlighting
// styling and renders the highlighting stylesheet from it.
package theme

import (
	_ "embed"
	"sort"

	"git.home.luguber.info/inful/sitebuilder/internal/templates"
)

// StylesheetPath is the output path of the highlighting stylesheet, relative
// to the output root.
const StylesheetPath = "prism-duotone-light.css"

// Palette is the site colour scale: colour name -> shade (0 lightest) -> hex.
var Palette = map[string][10]string{
	"gray":    {"#faf8f5", "#efebe4", "#ddd6cb", "#b6ad9f", "#8f8577", "#6e6559", "#544c42", "#3d362e", "#2a241e", "#1a1612"},
	"amber":   {"#fff8eb", "#feebc8", "#fbd38d", "#f6ad55", "#ed8936", "#dd6b20", "#c05621", "#9c4221", "#7b341e", "#5a2a14"},
	"rust":    {"#fdf1ee", "#f9d9d0", "#f1b3a2", "#e68a73", "#d9674d", "#c44f35", "#a33f29", "#823220", "#622619", "#451a11"},
	"success": {"#f0fff4", "#c6f6d5", "#9ae6b4", "#68d391", "#48bb78", "#38a169", "#2f855a", "#276749", "#22543d", "#1c4532"},
	"danger":  {"#fff5f5", "#fed7d7", "#feb2b2", "#fc8181", "#f56565", "#e53e3e", "#c53030", "#9b2c2c", "#742a2a", "#63171b"},
	"warning": {"#fffff0", "#fefcbf", "#faf089", "#f6e05e", "#ecc94b", "#d69e2e", "#b7791f", "#975a16", "#744210", "#5f370e"},
	"info":    {"#ebf8ff", "#bee3f8", "#90cdf4", "#63b3ed", "#4299e1", "#3182ce", "#2b6cb0", "#2c5282", "#2a4365", "#1a365d"},
}

// Transparent is the colour used where the theme asks for no background.
const Transparent = "transparent"

// Table is a passive key -> colour lookup.
type Table map[string]string

func shade(name string, i int) string { return Palette[name][i] }

// Default returns the highlighting theme derived from Palette.
func Default() Table {
	return Table{
		"baseColor":            shade("gray", 8),
		"blockBackground":      shade("gray", 0),
		"commentColor":         shade("gray", 4),
		"diffAddAccent":        shade("success", 4),
		"diffAddBackground":    shade("success", 1),
		"diffDeleteAccent":     shade("danger", 4),
		"diffDeleteBackground": shade("danger", 1),
		"functionColor":        shade("amber", 4),
		"highlightAccent":      shade("warning", 4),
		"highlightBackground":  shade("warning", 1),
		"inlineCodeBackground": shade("gray", 1),
		"inlineCodeColor":      shade("gray", 5),
		"keywordColor":         shade("amber", 5),
		"operatorBackground":   Transparent,
		"operatorColor":        shade("rust", 5),
		"propertyColor":        shade("rust", 5),
		"punctuationColor":     shade("gray", 7),
		"selectedColor":        shade("rust", 5),
		"selectorColor":        shade("rust", 5),
		"variableColor":        shade("info", 4),
	}
}

// Lookup returns the colour for key.
func (t Table) Lookup(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Keys lists the table keys in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//go:embed prism.css.template
var stylesheetTemplate string

// Stylesheet renders the highlighting stylesheet with the table's colours.
// Keys missing from the table are left as placeholders.
func Stylesheet(t Table) string {
	return templates.Render(stylesheetTemplate, t)
}
