package components

import (
	"fmt"
	"strings"
)

// LinkStyles are the colour variants of the Link component.
var LinkStyles = map[string]string{
	"default": "text-amber-6 hover:text-amber-5 active:text-amber-7",
	"rust":    "text-rust-6 hover:text-rust-5 active:text-rust-7",
}

// Link renders a styled hyperlink. Props: color (default|rust), underline
// ("false" disables the hover underline), className (overrides conflicting
// utility classes); everything else is passed to the <a> element.
var Link = ComponentFunc(func(props Props, children string) (string, error) {
	color := props["color"]
	if color == "" {
		color = "default"
	}
	style, ok := LinkStyles[color]
	if !ok {
		return "", fmt.Errorf("link: unknown color %q", color)
	}

	base := classNames("cursor-pointer", style)
	if props["underline"] != "false" {
		base = classNames(base, "hover:underline")
	}

	attrs := passthrough(props, "color", "underline", "className", "class")
	attrs = append(attrs, attr{Key: "class", Val: overrideClasses(base, classNames(props["className"], props["class"]))})
	return element("a", attrs, children), nil
})

// overrideClasses drops base utility classes that conflict with one in
// override, then appends override.
func overrideClasses(base, override string) string {
	if override == "" {
		return base
	}
	groups := make(map[string]struct{})
	for _, c := range strings.Fields(override) {
		groups[utilityGroup(c)] = struct{}{}
	}
	var kept []string
	for _, c := range strings.Fields(base) {
		if _, conflict := groups[utilityGroup(c)]; !conflict {
			kept = append(kept, c)
		}
	}
	return classNames(strings.Join(kept, " "), override)
}

// utilityGroup returns the variant prefix plus the utility name of a class,
// e.g. "hover:text-amber-5" -> "hover:text".
func utilityGroup(class string) string {
	variant, utility := "", class
	if i := strings.LastIndexByte(class, ':'); i >= 0 {
		variant, utility = class[:i+1], class[i+1:]
	}
	if i := strings.IndexByte(utility, '-'); i > 0 {
		utility = utility[:i]
	}
	return variant + utility
}
