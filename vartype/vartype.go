// Package vartype defines the registry of variable types a persisted entity
// set can declare for its columns.
//
// Type tags are resolved through an immutable name-to-factory map built at
// process start. Tags that name no known type resolve to Unknown rather than
// failing, so manifests written by newer writers still load.
package vartype

import (
	"fmt"
)

// Type is the semantic type of one entity column.
type Type interface {
	// TypeString returns the stable tag used in persisted manifests.
	TypeString() string
}

// Parameterized is implemented by types carrying constructor arguments that
// must survive serialization.
type Parameterized interface {
	Type
	TypeArgs() map[string]any
}

// Args holds the constructor keyword arguments of an object-form type tag.
type Args map[string]any

func (a Args) str(key string) (string, bool, error) {
	v, ok := a[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("argument %q: expected string, got %T", key, v)
	}
	return s, true, nil
}

func (a Args) list(key string) ([]any, bool, error) {
	v, ok := a[key]
	if !ok {
		return nil, false, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, false, fmt.Errorf("argument %q: expected list, got %T", key, v)
	}
	return l, true, nil
}

// Factory constructs a type from its constructor arguments.
type Factory func(args Args) (Type, error)

type (
	// Index marks an entity's unique row identifier column.
	Index struct{}
	// ID marks a column referencing another entity's index.
	ID struct{}
	// Numeric marks a column of arbitrary real numbers.
	Numeric struct{}
	// Categorical marks a column drawn from a finite value set.
	Categorical struct{ Categories []any }
	// Ordinal marks a categorical column with a meaningful order.
	Ordinal struct{ Order []any }
	// Boolean marks a true/false column.
	Boolean struct{}
	// Text marks a free-form string column.
	Text struct{}
	// Datetime marks a point-in-time column, optionally with an explicit
	// parse format.
	Datetime struct{ Format string }
	// DatetimeTimeIndex marks the datetime column used as an entity's time
	// index.
	DatetimeTimeIndex struct{ Format string }
	// NumericTimeIndex marks a numeric column used as an entity's time index.
	NumericTimeIndex struct{}
	// Timedelta marks a duration column.
	Timedelta struct{}
	// LatLong marks a geographic coordinate pair column.
	LatLong struct{}
	// URL marks a column of URLs.
	URL struct{}
	// IPAddress marks a column of IP addresses.
	IPAddress struct{}
	// EmailAddress marks a column of e-mail addresses.
	EmailAddress struct{}
	// PhoneNumber marks a column of phone numbers.
	PhoneNumber struct{}
	// ZIPCode marks a column of postal codes.
	ZIPCode struct{}
	// CountryCode marks a column of ISO country codes.
	CountryCode struct{}
	// SubRegionCode marks a column of ISO sub-region codes.
	SubRegionCode struct{}
	// DateOfBirth marks a datetime column holding birth dates.
	DateOfBirth struct{}
	// FilePath marks a column of file system paths.
	FilePath struct{}
	// Unknown is the fallback for unrecognized type tags.
	Unknown struct{}
)

// Stable manifest tags.
const (
	IndexString             = "index"
	IDString                = "id"
	NumericString           = "numeric"
	CategoricalString       = "categorical"
	OrdinalString           = "ordinal"
	BooleanString           = "boolean"
	TextString              = "text"
	DatetimeString          = "datetime"
	DatetimeTimeIndexString = "datetime_time_index"
	NumericTimeIndexString  = "numeric_time_index"
	TimedeltaString         = "timedelta"
	LatLongString           = "latlong"
	URLString               = "url"
	IPAddressString         = "ip"
	EmailAddressString      = "email_address"
	PhoneNumberString       = "phone_number"
	ZIPCodeString           = "zipcode"
	CountryCodeString       = "country_code"
	SubRegionCodeString     = "sub_region_code"
	DateOfBirthString       = "date_of_birth"
	FilePathString          = "file_path"
	UnknownString           = "unknown"
)

func (Index) TypeString() string             { return IndexString }
func (ID) TypeString() string                { return IDString }
func (Numeric) TypeString() string           { return NumericString }
func (Categorical) TypeString() string       { return CategoricalString }
func (Ordinal) TypeString() string           { return OrdinalString }
func (Boolean) TypeString() string           { return BooleanString }
func (Text) TypeString() string              { return TextString }
func (Datetime) TypeString() string          { return DatetimeString }
func (DatetimeTimeIndex) TypeString() string { return DatetimeTimeIndexString }
func (NumericTimeIndex) TypeString() string  { return NumericTimeIndexString }
func (Timedelta) TypeString() string         { return TimedeltaString }
func (LatLong) TypeString() string           { return LatLongString }
func (URL) TypeString() string               { return URLString }
func (IPAddress) TypeString() string         { return IPAddressString }
func (EmailAddress) TypeString() string      { return EmailAddressString }
func (PhoneNumber) TypeString() string       { return PhoneNumberString }
func (ZIPCode) TypeString() string           { return ZIPCodeString }
func (CountryCode) TypeString() string       { return CountryCodeString }
func (SubRegionCode) TypeString() string     { return SubRegionCodeString }
func (DateOfBirth) TypeString() string       { return DateOfBirthString }
func (FilePath) TypeString() string          { return FilePathString }
func (Unknown) TypeString() string           { return UnknownString }

// TypeArgs implements Parameterized.
func (t Categorical) TypeArgs() map[string]any {
	if len(t.Categories) == 0 {
		return nil
	}
	return map[string]any{"categories": t.Categories}
}

// TypeArgs implements Parameterized.
func (t Ordinal) TypeArgs() map[string]any {
	if len(t.Order) == 0 {
		return nil
	}
	return map[string]any{"order": t.Order}
}

// TypeArgs implements Parameterized.
func (t Datetime) TypeArgs() map[string]any {
	if t.Format == "" {
		return nil
	}
	return map[string]any{"format": t.Format}
}

// TypeArgs implements Parameterized.
func (t DatetimeTimeIndex) TypeArgs() map[string]any {
	if t.Format == "" {
		return nil
	}
	return map[string]any{"format": t.Format}
}

func simple(t Type) Factory {
	return func(Args) (Type, error) { return t, nil }
}

// registry maps manifest type tags to factories. Built once, read-only
// afterwards.
var registry = map[string]Factory{
	IndexString:            simple(Index{}),
	IDString:               simple(ID{}),
	NumericString:          simple(Numeric{}),
	BooleanString:          simple(Boolean{}),
	TextString:             simple(Text{}),
	TimedeltaString:        simple(Timedelta{}),
	LatLongString:          simple(LatLong{}),
	URLString:              simple(URL{}),
	IPAddressString:        simple(IPAddress{}),
	EmailAddressString:     simple(EmailAddress{}),
	PhoneNumberString:      simple(PhoneNumber{}),
	ZIPCodeString:          simple(ZIPCode{}),
	CountryCodeString:      simple(CountryCode{}),
	SubRegionCodeString:    simple(SubRegionCode{}),
	DateOfBirthString:      simple(DateOfBirth{}),
	FilePathString:         simple(FilePath{}),
	UnknownString:          simple(Unknown{}),
	NumericTimeIndexString: simple(NumericTimeIndex{}),
	CategoricalString: func(args Args) (Type, error) {
		categories, _, err := args.list("categories")
		if err != nil {
			return nil, err
		}
		return Categorical{Categories: categories}, nil
	},
	OrdinalString: func(args Args) (Type, error) {
		order, _, err := args.list("order")
		if err != nil {
			return nil, err
		}
		return Ordinal{Order: order}, nil
	},
	DatetimeString: func(args Args) (Type, error) {
		format, _, err := args.str("format")
		if err != nil {
			return nil, err
		}
		return Datetime{Format: format}, nil
	},
	DatetimeTimeIndexString: func(args Args) (Type, error) {
		format, _, err := args.str("format")
		if err != nil {
			return nil, err
		}
		return DatetimeTimeIndex{Format: format}, nil
	},
}

// Lookup returns the factory registered for the given type tag.
func Lookup(name string) (Factory, bool) {
	f, ok := registry[name]
	return f, ok
}

// FromSpec resolves a manifest type tag plus constructor arguments to a
// Type. Unrecognized tags resolve to Unknown; malformed arguments for a
// known tag fail.
func FromSpec(name string, args map[string]any) (Type, error) {
	f, ok := registry[name]
	if !ok {
		return Unknown{}, nil
	}
	t, err := f(Args(args))
	if err != nil {
		return nil, fmt.Errorf("variable type %q: %w", name, err)
	}
	return t, nil
}
