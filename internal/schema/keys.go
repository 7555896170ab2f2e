package schema

import "fmt"

// ResolveKeys partitions the raw indexes of a table into its primary key and
// secondary indexes. A table without a primary index gets a primary key with no
// columns. Column order is kept as reported.
func ResolveKeys(raw []RawIndex) (Index, []Index, error) {
	primary := Index{Kind: IndexPrimary, Columns: []string{}}
	var (
		seenPrimary bool
		secondary   []Index
	)

	for _, idx := range raw {
		if idx.Primary {
			if seenPrimary {
				return Index{}, nil, fmt.Errorf("%w: %s", ErrDuplicatePrimaryKey, idx.Name)
			}
			seenPrimary = true
			primary.Columns = cloneStrings(idx.Columns)
			continue
		}

		kind := IndexPlain
		if idx.Unique {
			kind = IndexUnique
		}
		secondary = append(secondary, Index{
			Kind:    kind,
			Name:    idx.Name,
			Columns: cloneStrings(idx.Columns),
		})
	}

	return primary, secondary, nil
}
