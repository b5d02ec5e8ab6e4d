package method

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrCoercion is returned when a supplied value cannot be converted to the
// declared parameter kind. The wrapped message names the offending value, its
// runtime type, and the target kind.
var ErrCoercion = errors.New("type coercion failed")

// Coerce converts an untyped argument value into the declared kind.
//
// Values arriving over the JSON boundary are string, float64, bool, nil,
// []any, or map[string]any; Coerce bridges those onto the declared kinds.
// Numeric results are normalized to int64 (integer) and float64 (float).
//
// Unknown kinds are lenient by design: the value passes through unchanged so
// an unanticipated kind never hard-fails a call. Callers that want to surface
// a warning for that case should check KnownParameterKind first.
func Coerce(value any, kind Kind) (any, error) {
	switch NormalizeKind(string(kind)) {
	case KindString:
		return coerceString(value, kind)
	case KindInteger:
		return coerceInteger(value, kind)
	case KindFloat:
		return coerceFloat(value, kind)
	case KindBoolean:
		return coerceBoolean(value), nil
	case KindObject:
		return coerceObject(value, kind)
	case KindArray:
		return coerceArray(value, kind)
	default:
		return value, nil
	}
}

func coerceString(value any, kind Kind) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return nil, coercionError(value, kind)
	}
}

func coerceInteger(value any, kind Kind) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		// Truncation toward zero, matching the behavior callers rely on
		// when a whole number arrives as a JSON float.
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, coercionError(value, kind)
		}
		return n, nil
	default:
		return nil, coercionError(value, kind)
	}
}

func coerceFloat(value any, kind Kind) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return float64(1), nil
		}
		return float64(0), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, coercionError(value, kind)
		}
		return f, nil
	default:
		return nil, coercionError(value, kind)
	}
}

// coerceBoolean never fails. Recognized boolean-like strings map directly;
// everything else falls through to generic truthiness. The permissive
// fallback is preserved for compatibility with existing callers.
func coerceBoolean(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case nil:
		return false
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func coerceObject(value any, kind Kind) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case string:
		var out map[string]any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, coercionError(value, kind)
		}
		return out, nil
	default:
		return nil, coercionError(value, kind)
	}
}

func coerceArray(value any, kind Kind) (any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case string:
		var out []any
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, coercionError(value, kind)
		}
		return out, nil
	default:
		return nil, coercionError(value, kind)
	}
}

func coercionError(value any, kind Kind) error {
	return fmt.Errorf("%w: cannot convert %v (%T) to %s", ErrCoercion, value, value, kind)
}
