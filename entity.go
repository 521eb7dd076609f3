package entityset

import (
	"fmt"
	"time"

	"github.com/featureforge/entityset/frame"
	"github.com/featureforge/entityset/vartype"
)

// Variable is a typed column handle bound to an entity.
type Variable struct {
	ID                string
	Type              vartype.Type
	InterestingValues []any

	entity *Entity
}

// Entity returns the entity this variable is bound to.
func (v *Variable) Entity() *Entity { return v.entity }

// Entity is one table of an entity set.
type Entity struct {
	ID                 string
	Frame              *frame.Frame
	Index              string
	TimeIndex          string
	SecondaryTimeIndex map[string][]string

	variables     []*Variable
	byID          map[string]*Variable
	lastTimeIndex []time.Time
	es            *EntitySet
}

// Variables returns the bound variables in column order.
func (e *Entity) Variables() []*Variable { return e.variables }

// Variable returns the bound variable with the given id.
func (e *Entity) Variable(id string) (*Variable, error) {
	v, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q on entity %q", ErrVariableNotFound, id, e.ID)
	}
	return v, nil
}

// NumRows returns the number of rows in the entity's frame.
func (e *Entity) NumRows() int { return e.Frame.NumRows() }

// LastTimeIndex returns the derived last-time-index column, or nil if the
// bulk pass has not run for this entity.
func (e *Entity) LastTimeIndex() []time.Time { return e.lastTimeIndex }

// EntityConfig is the registration contract for adding an entity to an
// entity set.
type EntityConfig struct {
	// Index names the unique row identifier column.
	Index string
	// TimeIndex names the time index column, if any.
	TimeIndex string
	// SecondaryTimeIndex maps a secondary time index column to the columns
	// it governs.
	SecondaryTimeIndex map[string][]string
	// VariableTypes maps column ids to their semantic types. Columns not
	// listed get a type inferred from their dtype.
	VariableTypes map[string]vartype.Type
	// InterestingValues maps column ids to their recorded interesting
	// values.
	InterestingValues map[string][]any
}

// inferType derives a variable type from a column's storage dtype, used for
// columns with no declared type.
func inferType(d frame.Dtype) vartype.Type {
	switch d {
	case frame.Int64, frame.Float64:
		return vartype.Numeric{}
	case frame.Bool:
		return vartype.Boolean{}
	case frame.Datetime:
		return vartype.Datetime{}
	case frame.Category:
		return vartype.Categorical{}
	default:
		return vartype.Unknown{}
	}
}
