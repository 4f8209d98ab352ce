package emotion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	MinValue     = 0.0
	MaxValue     = 100.0
	DefaultValue = "50"
)

// Core emotions present in every default vector.
const (
	Trust     = "trust"
	Intimacy  = "intimacy"
	Respect   = "respect"
	Hostility = "hostility"
	Annoyance = "annoyance"
	Curiosity = "curiosity"
	Wariness  = "wariness"
)

// CoreEmotions lists the seven emotions of the default vector.
var CoreEmotions = []string{Trust, Intimacy, Respect, Hostility, Annoyance, Curiosity, Wariness}

// Vector maps an emotion name to its intensity, kept as decimal text
// the way it is persisted ("50", "62.3").
type Vector map[string]string

// DefaultVector returns the seven core emotions at 50.
func DefaultVector() Vector {
	v := make(Vector, len(CoreEmotions))
	for _, name := range CoreEmotions {
		v[name] = DefaultValue
	}
	return v
}

// ParseVector decodes a persisted vector. The document must be a JSON object
// whose values are strings or numbers.
func ParseVector(data []byte) (Vector, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("emotion vector must be a JSON object")
	}
	var v Vector
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = Vector{}
	}
	return v, nil
}

// UnmarshalJSON accepts either string or numeric values and normalizes
// both to decimal text.
func (v *Vector) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("emotion vector: %w", err)
	}

	out := make(Vector, len(raw))
	for name, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 {
			return fmt.Errorf("emotion vector: empty value for %q", name)
		}
		switch value[0] {
		case '"':
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return fmt.Errorf("emotion vector: %q: %w", name, err)
			}
			out[name] = s
		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			var n json.Number
			if err := json.Unmarshal(value, &n); err != nil {
				return fmt.Errorf("emotion vector: %q: %w", name, err)
			}
			out[name] = n.String()
		default:
			return fmt.Errorf("emotion vector: value for %q is not a string or number", name)
		}
	}
	*v = out
	return nil
}

// Float parses the named emotion as a number.
func (v Vector) Float(name string) (float64, error) {
	raw, ok := v[name]
	if !ok {
		return 0, fmt.Errorf("emotion %q not present", name)
	}
	return parseValue(raw)
}

// Set clamps value to [0,100], rounds it to one decimal and stores it.
func (v Vector) Set(name string, value float64) {
	v[name] = FormatValue(value)
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Names returns the emotion names in sorted order.
func (v Vector) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal compares two vectors key by key. Numeric values compare as numbers,
// anything else as text.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for name, a := range v {
		b, ok := other[name]
		if !ok {
			return false
		}
		fa, errA := parseValue(a)
		fb, errB := parseValue(b)
		if errA == nil && errB == nil {
			if math.Abs(fa-fb) > 1e-9 {
				return false
			}
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}

// Clamp limits value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// FormatValue renders a clamped, one-decimal value ("50", "62.3").
func FormatValue(value float64) string {
	return strconv.FormatFloat(round1(Clamp(value, MinValue, MaxValue)), 'f', -1, 64)
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func parseValue(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid emotion value %q: %w", raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid emotion value %q", raw)
	}
	return f, nil
}
