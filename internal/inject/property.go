package inject

import (
	"strconv"
	"strings"
)

// Kind identifies how a property's value is produced and formatted
type Kind int

const (
	// KindBool renders as "1" or "0"
	KindBool Kind = iota
	// KindInt renders in decimal
	KindInt
	// KindFloat renders with exactly two fractional digits and a '.' separator
	KindFloat
	// KindStatic renders a fixed string
	KindStatic
)

// String returns the kind's name as used in configuration files
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStatic:
		return "static"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name ("bool", "int", "float", "static")
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return KindBool, true
	case "int", "integer":
		return KindInt, true
	case "float":
		return KindFloat, true
	case "static", "string":
		return KindStatic, true
	}
	return 0, false
}

// Property is a named value rendered as a #define. Exactly one generator,
// selected by Kind, is set. Generators are invoked on every Value call so the
// define always reflects the current state.
type Property struct {
	Name string
	Kind Kind

	boolFn  func() bool
	intFn   func() int
	floatFn func() float64
	static  string
}

// Bool creates a boolean property
func Bool(name string, fn func() bool) Property {
	return Property{Name: name, Kind: KindBool, boolFn: fn}
}

// Int creates an integer property
func Int(name string, fn func() int) Property {
	return Property{Name: name, Kind: KindInt, intFn: fn}
}

// Float creates a floating-point property
func Float(name string, fn func() float64) Property {
	return Property{Name: name, Kind: KindFloat, floatFn: fn}
}

// Static creates a property with a fixed value
func Static(name, value string) Property {
	return Property{Name: name, Kind: KindStatic, static: value}
}

// Value returns the property's current value formatted for a #define.
// Formatting never depends on the process locale.
func (p Property) Value() string {
	switch p.Kind {
	case KindBool:
		if p.boolFn() {
			return "1"
		}
		return "0"
	case KindInt:
		return strconv.Itoa(p.intFn())
	case KindFloat:
		return strconv.FormatFloat(p.floatFn(), 'f', 2, 64)
	default:
		return p.static
	}
}

// Define returns the "#define NAME VALUE" line for the property, without a newline
func (p Property) Define() string {
	return "#define " + p.Name + " " + p.Value()
}
