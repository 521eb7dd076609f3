package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EntityDescription describes one table of an entity set.
type EntityDescription struct {
	ID          string                `json:"id"`
	Variables   []VariableDescription `json:"variables"`
	Index       string                `json:"index"`
	TimeIndex   string                `json:"time_index,omitempty"`
	Properties  EntityProperties      `json:"properties"`
	LoadingInfo LoadingInfo           `json:"loading_info"`
}

// EntityProperties carries entity-level flags and mappings.
type EntityProperties struct {
	SecondaryTimeIndex map[string][]string `json:"secondary_time_index,omitempty"`
	LastTimeIndex      bool                `json:"last_time_index"`
}

// VariableDescription describes one typed column.
type VariableDescription struct {
	ID         string             `json:"id"`
	Type       TypeSpec           `json:"type"`
	Properties VariableProperties `json:"properties"`
}

// VariableProperties carries column-level metadata.
type VariableProperties struct {
	InterestingValues []any `json:"interesting_values,omitempty"`
}

// LoadingInfo describes where and how an entity's backing data is stored.
type LoadingInfo struct {
	Type       string            `json:"type"`
	Location   string            `json:"location"`
	Params     map[string]any    `json:"params,omitempty"`
	Properties LoadingProperties `json:"properties"`
}

// LoadingProperties carries the per-column storage dtypes recorded at write
// time. They are applied unconditionally after load.
type LoadingProperties struct {
	Dtypes map[string]string `json:"dtypes"`
}

// RelationshipDescription references a parent (entity id, variable id) and a
// child (entity id, variable id).
type RelationshipDescription struct {
	Parent [2]string `json:"parent"`
	Child  [2]string `json:"child"`
}

// Entities is a mapping of entity id to description that preserves the key
// order of the JSON document it was decoded from. Reconstruction iterates
// entities in this stored order.
type Entities struct {
	order []string
	m     map[string]*EntityDescription
}

// IDs returns the entity ids in stored order.
func (e *Entities) IDs() []string { return e.order }

// Len returns the number of entities.
func (e *Entities) Len() int { return len(e.order) }

// Get returns the description for the given entity id.
func (e *Entities) Get(id string) (*EntityDescription, bool) {
	d, ok := e.m[id]
	return d, ok
}

// Set adds or replaces an entity description, appending to the stored order
// on first insertion.
func (e *Entities) Set(id string, d *EntityDescription) {
	if e.m == nil {
		e.m = make(map[string]*EntityDescription)
	}
	if _, ok := e.m[id]; !ok {
		e.order = append(e.order, id)
	}
	e.m[id] = d
}

// UnmarshalJSON decodes the entities object, recording key order.
func (e *Entities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("entities: expected object, got %v", tok)
	}
	e.order = nil
	e.m = make(map[string]*EntityDescription)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("entities: expected object key, got %v", keyTok)
		}
		var d EntityDescription
		if err := dec.Decode(&d); err != nil {
			return fmt.Errorf("entity %q: %w", key, err)
		}
		e.Set(key, &d)
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON encodes the entities object in stored order.
func (e Entities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range e.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.m[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TypeSpec is the type tag of a variable description: either a bare string
// naming a type, or an object carrying the type name under "value" plus
// constructor keyword arguments.
type TypeSpec struct {
	Value string
	Args  map[string]any
}

// UnmarshalJSON accepts both the string and the object form.
func (t *TypeSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Value = s
		t.Args = nil
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("type tag: expected string or object: %w", err)
	}
	v, ok := obj["value"]
	if !ok {
		return fmt.Errorf("type tag object is missing %q", "value")
	}
	name, ok := v.(string)
	if !ok {
		return fmt.Errorf("type tag %q field: expected string, got %T", "value", v)
	}
	delete(obj, "value")
	t.Value = name
	if len(obj) == 0 {
		obj = nil
	}
	t.Args = obj
	return nil
}

// MarshalJSON always emits the object form.
func (t TypeSpec) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(t.Args)+1)
	for k, v := range t.Args {
		obj[k] = v
	}
	obj["value"] = t.Value
	return json.Marshal(obj)
}
