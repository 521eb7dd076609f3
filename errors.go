package entityset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEntityNotFound is returned when an entity id is not registered in
	// the entity set.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrVariableNotFound is returned when a variable id is not bound to an
	// entity.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrDuplicateEntity is returned when registering an entity id twice.
	ErrDuplicateEntity = errors.New("entity already exists")
)

// Formats are the supported loading format tags, in the order they are
// reported.
var Formats = []string{"csv", "parquet", "pickle"}

// UnsupportedFormatError indicates an entity declared a loading format this
// reader does not implement.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unknown loading format %q: must be one of the following formats: %s",
		e.Format, strings.Join(Formats, ", "))
}
