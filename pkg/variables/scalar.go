package variables

import (
	"math"
	"strconv"
)

type scalarKind int

const (
	textKind scalarKind = iota
	intKind
	floatKind
)

// Scalar is a variable value: text, an integer or a floating-point number.
type Scalar struct {
	kind scalarKind
	text string
	i    int64
	f    float64
}

func Text(s string) Scalar {
	return Scalar{kind: textKind, text: s}
}

func Int(i int64) Scalar {
	return Scalar{kind: intKind, i: i}
}

func Float(f float64) Scalar {
	return Scalar{kind: floatKind, f: f}
}

// FromAny converts a decoded YAML/JSON value into a Scalar
func FromAny(v interface{}) (Scalar, bool) {
	switch val := v.(type) {
	case string:
		return Text(val), true
	case int:
		return Int(int64(val)), true
	case int64:
		return Int(val), true
	case uint64:
		if val > math.MaxInt64 {
			return Text(strconv.FormatUint(val, 10)), true
		}
		return Int(int64(val)), true
	case float64:
		return Float(val), true
	case float32:
		return Float(float64(val)), true
	case bool:
		return Text(strconv.FormatBool(val)), true
	}
	return Scalar{}, false
}

func (s Scalar) IsText() bool  { return s.kind == textKind }
func (s Scalar) IsInt() bool   { return s.kind == intKind }
func (s Scalar) IsFloat() bool { return s.kind == floatKind }

// String renders the value the way it is written into a Dockerfile.
func (s Scalar) String() string {
	switch s.kind {
	case intKind:
		return strconv.FormatInt(s.i, 10)
	case floatKind:
		return strconv.FormatFloat(s.f, 'f', -1, 64)
	}
	return s.text
}
