package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a plain calendar date of the form "2006-01-02".
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// ParseDateTime parses an ISO-8601 timestamp with a numeric UTC offset, such
// as "2006-01-02T15:04:05+00:00". The offset is written with a colon, which
// the numeric-offset layout does not accept, so the last colon is dropped
// before parsing. Fractional seconds are accepted.
func ParseDateTime(s string) (time.Time, error) {
	compact := s
	if i := strings.LastIndexByte(compact, ':'); i >= 0 {
		compact = compact[:i] + compact[i+1:]
	}
	t, err := time.Parse("2006-01-02T15:04:05-0700", compact)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

// AgeAt computes an age in whole years at the reference date. A year counts
// once its birthday has passed, so the day before a birthday still yields the
// previous age.
func AgeAt(reference, birthday time.Time) int {
	age := reference.Year() - birthday.Year()
	if monthDay(reference) < monthDay(birthday) {
		age--
	}
	return age
}

func monthDay(t time.Time) int {
	return int(t.Month())*100 + t.Day()
}

var jsonNull = []byte("null")

// coerceFields converts the raw custom data fields of an entity according to
// the declared field set. Fields without a declaration are dropped. Null
// values stay as untyped nils so templates can test for them.
func coerceFields(raw map[string]json.RawMessage, kinds map[string]FieldKind) (map[string]any, error) {
	fields := make(map[string]any, len(raw))
	for name, value := range raw {
		kind, ok := kinds[name]
		if !ok {
			continue
		}
		v, err := coerceField(value, kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = v
	}
	return fields, nil
}

func coerceField(raw json.RawMessage, kind FieldKind) (any, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, nil
	}
	switch kind {
	case FieldString:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("expected a string, got %s", raw)
		}
		return v, nil
	case FieldBool:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("expected a bool, got %s", raw)
		}
		return v, nil
	case FieldInt:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("expected an int, got %s", raw)
		}
		return v, nil
	case FieldFloat:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("expected a float, got %s", raw)
		}
		return v, nil
	case FieldDate:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("expected a date string, got %s", raw)
		}
		t, err := ParseDate(v)
		if err != nil {
			return nil, err
		}
		return t, nil
	case FieldDatetime:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("expected a timestamp string, got %s", raw)
		}
		t, err := ParseDateTime(v)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unhandled field kind %v", kind)
	}
}
