package figure

import (
	"regexp"
	"strconv"
	"strings"
)

// ValueKind classifies a value string.
type ValueKind int

const (
	ValueSymbolic ValueKind = iota
	ValueNumeric
	ValueRatio
)

// Value is a parsed value string.
type Value struct {
	Raw  string
	Kind ValueKind
	Num  float64 // numeric value, or the first term of a ratio
	Den  float64 // second term of a ratio
	Unit string  // "°" for angles, otherwise the unit as written
}

// IsAngle reports whether v is a number in degrees.
func (v Value) IsAngle() bool { return v.Kind == ValueNumeric && v.Unit == "°" }

// Fraction returns Num/(Num+Den) for a ratio, the share of a segment taken
// by the first part.
func (v Value) Fraction() float64 {
	if v.Kind != ValueRatio || v.Num+v.Den == 0 {
		return 0
	}
	return v.Num / (v.Num + v.Den)
}

// Text returns the string to print on a diagram.
func (v Value) Text() string {
	switch v.Kind {
	case ValueNumeric:
		n := strconv.FormatFloat(v.Num, 'f', -1, 64)
		switch {
		case v.Unit == "":
			return n
		case v.Unit == "°":
			return n + "°"
		default:
			return n + " " + v.Unit
		}
	case ValueRatio:
		return strconv.FormatFloat(v.Num, 'f', -1, 64) + ":" + strconv.FormatFloat(v.Den, 'f', -1, 64)
	}
	return strings.TrimSpace(v.Raw)
}

var (
	numberRe = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))\s*(.*)$`)
	ratioRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*:\s*(\d+(?:\.\d+)?)$`)
)

// units maps accepted spellings to their canonical form.
var units = map[string]string{
	"":        "",
	"°":       "°",
	"º":       "°",
	"deg":     "°",
	"degree":  "°",
	"degrees": "°",
	"mm":      "mm",
	"cm":      "cm",
	"m":       "m",
	"km":      "km",
	"in":      "in",
	"ft":      "ft",
	"units":   "units",
	"mm²":     "mm²",
	"cm²":     "cm²",
	"m²":      "m²",
	"mm^2":    "mm²",
	"cm^2":    "cm²",
	"m^2":     "m²",
	"mm³":     "mm³",
	"cm³":     "cm³",
	"m³":      "m³",
	"mm^3":    "mm³",
	"cm^3":    "cm³",
	"m^3":     "m³",
}

// ParseValue reads a value string. Numbers with a known unit and ratios of
// two positive numbers are parsed; anything else is symbolic.
func ParseValue(s string) Value {
	raw := strings.TrimSpace(s)
	v := Value{Raw: s}

	if m := ratioRe.FindStringSubmatch(raw); m != nil {
		a, _ := strconv.ParseFloat(m[1], 64)
		b, _ := strconv.ParseFloat(m[2], 64)
		v.Kind, v.Num, v.Den = ValueRatio, a, b
		return v
	}

	m := numberRe.FindStringSubmatch(raw)
	if m == nil {
		return v
	}
	unit, ok := units[strings.ToLower(strings.TrimSpace(m[2]))]
	if !ok {
		return v
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return v
	}
	v.Kind, v.Num, v.Unit = ValueNumeric, n, unit
	return v
}
