package estimator

import (
	"encoding/json"
	"math"
	"strings"
)

// Attributes is the free-form details map of a job. Lookups never fail: a missing
// key or a value of the wrong type reads as the zero value.
type Attributes map[string]any

// Attributes above maxAttribute read as maxAttribute, and below -maxAttribute as
// -maxAttribute. No quantity exceeds maxQuantity.
const (
	maxAttribute = 1e9
	maxQuantity  = math.MaxInt32
)

func (a Attributes) Number(key string) float64 {
	return clamp(a.number(key))
}

func (a Attributes) number(key string) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	}

	return 0
}

func (a Attributes) Int(key string) int {
	return int(a.Number(key))
}

func (a Attributes) String(key string) string {
	s, _ := a[key].(string)
	return strings.TrimSpace(s)
}

func (a Attributes) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// is compares a string attribute case-insensitively.
func (a Attributes) is(key, value string) bool {
	return strings.EqualFold(a.String(key), value)
}

func clamp(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxAttribute:
		return maxAttribute
	case f < -maxAttribute:
		return -maxAttribute
	}

	return f
}

// ceil rounds up, ignoring float error below 1e-9 (400 * 1.10 / 20 is 22, not 23).
func ceil(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= maxQuantity:
		return maxQuantity
	}

	return int(math.Ceil(f - 1e-9))
}
