package entityset

// Relationship links a parent entity's variable to a child entity's
// variable: many child rows reference one parent row.
type Relationship struct {
	Parent *Variable
	Child  *Variable
}

// ParentEntity returns the entity on the one side of the relationship.
func (r *Relationship) ParentEntity() *Entity { return r.Parent.entity }

// ChildEntity returns the entity on the many side of the relationship.
func (r *Relationship) ChildEntity() *Entity { return r.Child.entity }
