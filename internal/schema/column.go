package schema

// columnExtractor derives one attribute of a Column from a RawColumn
type columnExtractor func(types *TypeMap, raw RawColumn, col *Column) error

// columnExtractors are applied in order by NormalizeColumn
var columnExtractors = []columnExtractor{
	extractName,
	extractType,
	extractAutoincrement,
	extractNullable,
	extractDefault,
	extractComment,
}

// NormalizeColumn converts a raw column into its canonical record
func NormalizeColumn(types *TypeMap, raw RawColumn) (Column, error) {
	var col Column
	for _, extract := range columnExtractors {
		if err := extract(types, raw, &col); err != nil {
			return Column{}, err
		}
	}
	return col, nil
}

func extractName(_ *TypeMap, raw RawColumn, col *Column) error {
	col.Name = raw.Name
	return nil
}

func extractType(types *TypeMap, raw RawColumn, col *Column) error {
	t, err := types.Map(raw.TypeName)
	if err != nil {
		return err
	}
	col.Type = t
	// unsigned only carries meaning for integers
	col.Unsigned = t == TypeInteger && raw.Unsigned
	return nil
}

func extractAutoincrement(_ *TypeMap, raw RawColumn, col *Column) error {
	col.Autoincrement = raw.Autoincrement
	return nil
}

func extractNullable(_ *TypeMap, raw RawColumn, col *Column) error {
	col.Nullable = raw.Nullable
	return nil
}

func extractDefault(_ *TypeMap, raw RawColumn, col *Column) error {
	col.Default = cloneStringPtr(raw.Default)
	return nil
}

func extractComment(_ *TypeMap, raw RawColumn, col *Column) error {
	col.Comment = cloneStringPtr(raw.Comment)
	return nil
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
