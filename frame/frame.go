// Package frame provides the small columnar table that backs every entity.
//
// A Frame is an ordered collection of named, typed columns. It is
// deliberately minimal: it exists to carry loaded tabular data, apply the
// dtype casts declared in loading-info metadata, and round-trip through the
// csv, parquet and pickle codecs. It is not a general dataframe library.
package frame

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound is returned when a column lookup misses.
var ErrColumnNotFound = errors.New("column not found")

// Column is one named, typed column. Values holds one element per row;
// nil marks a missing value. The element type is determined by Dtype.
type Column struct {
	Name   string
	Dtype  Dtype
	Values []any
}

// Frame is an ordered set of equally sized columns.
type Frame struct {
	cols   []*Column
	byName map[string]int
}

// New creates a frame from the given columns. All columns must have the
// same length and unique names.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{byName: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Empty creates a zero-row frame whose columns and dtypes match the given
// schema. Columns missing from dtypes default to object.
func Empty(names []string, dtypes map[string]string) (*Frame, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		d := Object
		if s, ok := dtypes[name]; ok {
			d = Dtype(s)
			if !d.Valid() {
				return nil, fmt.Errorf("column %q: unknown dtype %q", name, s)
			}
		}
		cols = append(cols, &Column{Name: name, Dtype: d})
	}
	return New(cols...)
}

// AddColumn appends a column to the frame.
func (f *Frame) AddColumn(c *Column) error {
	if _, ok := f.byName[c.Name]; ok {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(f.cols) > 0 && len(c.Values) != f.NumRows() {
		return fmt.Errorf("column %q has %d rows, frame has %d", c.Name, len(c.Values), f.NumRows())
	}
	if f.byName == nil {
		f.byName = make(map[string]int)
	}
	f.byName[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0].Values)
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order.
func (f *Frame) Columns() []*Column { return f.cols }

// Column returns the column with the given name.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return f.cols[i], nil
}

// HasColumn reports whether the frame contains the given column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Dtypes returns the column name to dtype mapping.
func (f *Frame) Dtypes() map[string]string {
	dtypes := make(map[string]string, len(f.cols))
	for _, c := range f.cols {
		dtypes[c.Name] = string(c.Dtype)
	}
	return dtypes
}

// CastColumn converts every value of the named column to the given dtype.
// The cast is unconditional; a value that does not convert fails with a
// *CastError.
func (f *Frame) CastColumn(name string, d Dtype) error {
	if !d.Valid() {
		return fmt.Errorf("column %q: unknown dtype %q", name, d)
	}
	c, err := f.Column(name)
	if err != nil {
		return err
	}
	for i, v := range c.Values {
		cast, err := castValue(v, d)
		if err != nil {
			return &CastError{Column: name, Dtype: d, Value: v, cause: err}
		}
		c.Values[i] = cast
	}
	c.Dtype = d
	return nil
}

// Cast applies the declared dtype to every listed column. Columns named in
// dtypes must exist in the frame; a dtype entry with no matching column
// fails with ErrColumnNotFound.
func (f *Frame) Cast(dtypes map[string]string) error {
	for name := range dtypes {
		if !f.HasColumn(name) {
			return fmt.Errorf("declared dtype: %w: %q", ErrColumnNotFound, name)
		}
	}
	for _, c := range f.cols {
		s, ok := dtypes[c.Name]
		if !ok {
			continue
		}
		if err := f.CastColumn(c.Name, Dtype(s)); err != nil {
			return err
		}
	}
	return nil
}

// Apply replaces every value of the named column with fn(value).
func (f *Frame) Apply(name string, fn func(any) (any, error)) error {
	c, err := f.Column(name)
	if err != nil {
		return err
	}
	for i, v := range c.Values {
		out, err := fn(v)
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		c.Values[i] = out
	}
	return nil
}
