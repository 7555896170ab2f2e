package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// OwnerLookup returns the schema that contains a table. Implementations return
// ErrOwnerNotFound when the catalog has no row for the table.
type OwnerLookup interface {
	SchemaOf(ctx context.Context, table string) (string, error)
}

// Warning describes relation metadata that was degraded instead of failing the load
type Warning struct {
	Table    Identifier
	Relation string
	Message  string
}

func (w Warning) String() string {
	if w.Table.Table == "" {
		return w.Message
	}
	if w.Relation == "" {
		return fmt.Sprintf("%s: %s", w.Table, w.Message)
	}
	return fmt.Sprintf("%s (%s): %s", w.Table, w.Relation, w.Message)
}

// RelationResolver builds relations from raw foreign keys, qualifying the target
// table with its owning schema unless it lives in the default schema.
type RelationResolver struct {
	lookup        OwnerLookup
	database      string
	defaultSchema string
	logger        logrus.FieldLogger

	owners   map[string]string
	warnings []Warning
}

// NewRelationResolver creates a resolver for relations inside database
func NewRelationResolver(lookup OwnerLookup, database, defaultSchema string, logger logrus.FieldLogger) *RelationResolver {
	if logger == nil {
		logger = discardLogger()
	}
	return &RelationResolver{
		lookup:        lookup,
		database:      database,
		defaultSchema: defaultSchema,
		logger:        logger,
		owners:        make(map[string]string),
	}
}

// Resolve converts the raw foreign key declared on table into a Relation.
// A missing catalog row degrades the target to an unqualified name and records a
// warning; any other lookup failure is returned as a *RelationError.
func (r *RelationResolver) Resolve(ctx context.Context, table Identifier, raw RawForeignKey) (Relation, error) {
	if len(raw.Columns) == 0 || len(raw.Columns) != len(raw.ForeignColumns) {
		return Relation{}, &RelationError{
			Table:    table,
			Relation: raw.Name,
			Err:      fmt.Errorf("%d local columns paired with %d referenced columns", len(raw.Columns), len(raw.ForeignColumns)),
		}
	}
	if raw.ForeignTable == "" {
		return Relation{}, &RelationError{Table: table, Relation: raw.Name, Err: errors.New("referenced table name is empty")}
	}

	owner, err := r.owner(ctx, raw.ForeignTable)
	switch {
	case errors.Is(err, ErrOwnerNotFound):
		w := Warning{
			Table:    table,
			Relation: raw.Name,
			Message:  fmt.Sprintf("owning schema of %s not found, target left unqualified", raw.ForeignTable),
		}
		r.warnings = append(r.warnings, w)
		r.logger.WithFields(logrus.Fields{
			"table":    table.String(),
			"relation": raw.Name,
			"target":   raw.ForeignTable,
		}).Warn("owning schema not found, relation target left unqualified")
		owner = ""
	case err != nil:
		return Relation{}, &RelationError{Table: table, Relation: raw.Name, Err: err}
	}

	return Relation{
		Name:       raw.Name,
		Columns:    cloneStrings(raw.Columns),
		References: cloneStrings(raw.ForeignColumns),
		Target: Target{
			Database: r.database,
			Table:    qualify(owner, raw.ForeignTable, r.defaultSchema),
		},
	}, nil
}

// Warnings returns the degradations recorded so far
func (r *RelationResolver) Warnings() []Warning {
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// owner memoizes SchemaOf per table name, including misses
func (r *RelationResolver) owner(ctx context.Context, table string) (string, error) {
	if owner, ok := r.owners[table]; ok {
		if owner == "" {
			return "", ErrOwnerNotFound
		}
		return owner, nil
	}

	owner, err := r.lookup.SchemaOf(ctx, table)
	if err != nil {
		if errors.Is(err, ErrOwnerNotFound) {
			r.owners[table] = ""
		}
		return "", err
	}
	if owner == "" {
		r.owners[table] = ""
		return "", ErrOwnerNotFound
	}
	r.owners[table] = owner
	return owner, nil
}
