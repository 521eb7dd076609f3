package entityset

import (
	"fmt"

	"github.com/featureforge/entityset/frame"
)

// EntitySet is the reconstructed container of related tables and their
// relationships. Entities keep their registration order.
type EntitySet struct {
	ID string

	entities      map[string]*Entity
	order         []string
	relationships []*Relationship
	logger        *Logger
}

// New creates an empty entity set.
func New(id string) *EntitySet {
	return &EntitySet{
		ID:       id,
		entities: make(map[string]*Entity),
		logger:   NoopLogger(),
	}
}

// Entity returns the registered entity with the given id.
func (es *EntitySet) Entity(id string) (*Entity, error) {
	e, ok := es.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q in entity set %q", ErrEntityNotFound, id, es.ID)
	}
	return e, nil
}

// Entities returns all entities in registration order.
func (es *EntitySet) Entities() []*Entity {
	out := make([]*Entity, len(es.order))
	for i, id := range es.order {
		out[i] = es.entities[id]
	}
	return out
}

// Relationships returns all registered relationships in order.
func (es *EntitySet) Relationships() []*Relationship { return es.relationships }

// AddEntity registers a table under the given id and binds a typed variable
// to every column. The index and time index columns, when set, must exist in
// the frame.
func (es *EntitySet) AddEntity(id string, fr *frame.Frame, cfg EntityConfig) (*Entity, error) {
	if _, ok := es.entities[id]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateEntity, id)
	}
	if cfg.Index != "" && !fr.HasColumn(cfg.Index) {
		return nil, fmt.Errorf("entity %q: index column %q not in frame", id, cfg.Index)
	}
	if cfg.TimeIndex != "" && !fr.HasColumn(cfg.TimeIndex) {
		return nil, fmt.Errorf("entity %q: time index column %q not in frame", id, cfg.TimeIndex)
	}
	for secondary := range cfg.SecondaryTimeIndex {
		if !fr.HasColumn(secondary) {
			return nil, fmt.Errorf("entity %q: secondary time index column %q not in frame", id, secondary)
		}
	}

	e := &Entity{
		ID:                 id,
		Frame:              fr,
		Index:              cfg.Index,
		TimeIndex:          cfg.TimeIndex,
		SecondaryTimeIndex: cfg.SecondaryTimeIndex,
		byID:               make(map[string]*Variable, fr.NumCols()),
		es:                 es,
	}
	for _, c := range fr.Columns() {
		t, ok := cfg.VariableTypes[c.Name]
		if !ok || t == nil {
			t = inferType(c.Dtype)
		}
		v := &Variable{
			ID:                c.Name,
			Type:              t,
			InterestingValues: cfg.InterestingValues[c.Name],
			entity:            e,
		}
		e.variables = append(e.variables, v)
		e.byID[c.Name] = v
	}

	es.entities[id] = e
	es.order = append(es.order, id)
	return e, nil
}

// AddRelationship links a parent variable to a child variable. Both entities
// must already be registered.
func (es *EntitySet) AddRelationship(parentEntity, parentVariable, childEntity, childVariable string) (*Relationship, error) {
	pe, err := es.Entity(parentEntity)
	if err != nil {
		return nil, err
	}
	pv, err := pe.Variable(parentVariable)
	if err != nil {
		return nil, err
	}
	ce, err := es.Entity(childEntity)
	if err != nil {
		return nil, err
	}
	cv, err := ce.Variable(childVariable)
	if err != nil {
		return nil, err
	}

	r := &Relationship{Parent: pv, Child: cv}
	es.relationships = append(es.relationships, r)
	return r, nil
}
