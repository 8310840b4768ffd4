package urlpattern

import (
	"maps"
	"strconv"

	"github.com/google/uuid"
)

// Conversion turns a raw path segment into a typed value. It reports false
// when the segment is not acceptable, which makes the whole route not match.
type Conversion func(raw string) (any, bool)

// Conversions maps a conversion name, as used in ":id(int)", to its function.
type Conversions map[string]Conversion

// Builtin returns a fresh copy of the built-in conversion set.
func Builtin() Conversions {
	return Conversions{
		"string":  convertString,
		"str":     convertString,
		"int":     convertInt,
		"integer": convertInt,
		"bool":    convertBool,
		"uuid":    convertUUID,
	}
}

// Merge returns a new set holding c overlaid with other. Neither input is
// modified.
func (c Conversions) Merge(other Conversions) Conversions {
	out := make(Conversions, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

func convertString(raw string) (any, bool) {
	return raw, true
}

func convertInt(raw string) (any, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return n, true
}

func convertBool(raw string) (any, bool) {
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return b, true
}

func convertUUID(raw string) (any, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return id, true
}
