package formatter

import (
	"github.com/jinzhu/inflection"
	"github.com/serenize/snaker"
	"github.com/tordrt/dbblueprint/internal/schema"
)

// ModelName returns the singular CamelCase name a generator would give the
// model of table, e.g. order_items -> OrderItem. The schema qualifier is ignored.
func ModelName(table schema.Identifier) string {
	return snaker.SnakeToCamel(inflection.Singular(table.Table))
}

// FieldName returns the CamelCase field name for a column, e.g. user_id -> UserID
func FieldName(column string) string {
	return snaker.SnakeToCamel(column)
}
