package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrUnmappedType is matched by every *UnmappedTypeError
	ErrUnmappedType = errors.New("unmapped type")
	// ErrTableNotFound is returned by lookups for tables absent from a loaded schema
	ErrTableNotFound = errors.New("table not found")
	// ErrOwnerNotFound is returned by an OwnerLookup when the catalog has no row for a table
	ErrOwnerNotFound = errors.New("owning schema not found")
	// ErrRelationResolution is matched by every *RelationError
	ErrRelationResolution = errors.New("relation resolution failed")
	// ErrDuplicatePrimaryKey is returned when a table reports more than one primary index
	ErrDuplicatePrimaryKey = errors.New("more than one primary key")
	// ErrDuplicateColumn is returned when a table reports the same column twice
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrSealed is returned when a blueprint is modified after its schema finished loading
	ErrSealed = errors.New("blueprint is sealed")
)

// UnmappedTypeError reports a vendor type name missing from the type map
type UnmappedTypeError struct {
	Name string
}

func (e *UnmappedTypeError) Error() string {
	return fmt.Sprintf("unmapped type %q", e.Name)
}

// Is makes errors.Is(err, ErrUnmappedType) hold
func (e *UnmappedTypeError) Is(target error) bool {
	return target == ErrUnmappedType
}

// RelationError reports a fault while resolving a foreign key
type RelationError struct {
	Table    Identifier
	Relation string
	Err      error
}

func (e *RelationError) Error() string {
	name := e.Relation
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("failed to resolve relation %s on %s: %v", name, e.Table, e.Err)
}

// Unwrap returns the underlying fault
func (e *RelationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRelationResolution) hold
func (e *RelationError) Is(target error) bool {
	return target == ErrRelationResolution
}
