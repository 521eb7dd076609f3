package frame

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dtype identifies the storage type of a column. The tags follow the
// pandas naming used in persisted loading-info metadata so that manifests
// written by other implementations load without translation.
type Dtype string

const (
	Int64    Dtype = "int64"
	Float64  Dtype = "float64"
	Bool     Dtype = "bool"
	Object   Dtype = "object"
	Category Dtype = "category"
	Datetime Dtype = "datetime64[ns]"
)

// Valid reports whether d is a known dtype tag.
func (d Dtype) Valid() bool {
	switch d {
	case Int64, Float64, Bool, Object, Category, Datetime:
		return true
	}
	return false
}

// CastError indicates a value could not be converted to a column's
// declared dtype.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type CastError struct {
	Column string
	Dtype  Dtype
	Value  any
	cause  error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast value %v in column %q to %s", e.Value, e.Column, e.Dtype)
}

func (e *CastError) Unwrap() error { return e.cause }

// datetimeLayouts are tried in order when casting strings to Datetime.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// castValue converts a single value to the given dtype. nil passes through
// untouched; it represents a missing value regardless of dtype.
func castValue(v any, d Dtype) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch d {
	case Int64:
		switch x := v.(type) {
		case int64:
			return x, nil
		case int:
			return int64(x), nil
		case float64:
			return int64(x), nil
		case string:
			if x == "" {
				return nil, nil
			}
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, err
			}
			return n, nil
		}
	case Float64:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		case int:
			return float64(x), nil
		case string:
			if x == "" {
				return nil, nil
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, err
			}
			return f, nil
		}
	case Bool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			if x == "" {
				return nil, nil
			}
			b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(x)))
			if err != nil {
				return nil, err
			}
			return b, nil
		}
	case Datetime:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			if x == "" {
				return nil, nil
			}
			var lastErr error
			for _, layout := range datetimeLayouts {
				t, err := time.Parse(layout, strings.TrimSpace(x))
				if err == nil {
					return t, nil
				}
				lastErr = err
			}
			return nil, lastErr
		}
	case Object, Category:
		// Anything goes; object columns keep their loaded representation.
		return v, nil
	}

	return nil, fmt.Errorf("unsupported conversion from %T", v)
}
