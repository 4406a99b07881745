package schema

import "context"

// Source yields raw catalog rows for one database. Each driver implements
// the vendor-specific catalog queries; Snapshot is shared.
type Source interface {
	// ListTables returns the qualified names of all user tables the source
	// can introspect.
	ListTables(ctx context.Context) ([]QualifiedName, error)

	// ColumnRows returns the raw column rows of one table.
	ColumnRows(ctx context.Context, table QualifiedName) ([]ColumnRow, error)

	// PrimaryKeyRows returns the raw primary-key fragment rows of one table.
	PrimaryKeyRows(ctx context.Context, table QualifiedName) ([]KeyColumnRow, error)

	// ForeignKeyRows returns the raw foreign-key fragment rows owned by one
	// table (the table as referencing side).
	ForeignKeyRows(ctx context.Context, table QualifiedName) ([]ForeignKeyRow, error)

	// IndexRows returns the raw index fragment rows of one table, including
	// any statistics pseudo-rows the catalog reports.
	IndexRows(ctx context.Context, table QualifiedName) ([]IndexRow, error)
}

// Snapshot fetches the full raw-row snapshot for the given tables by
// orchestrating a Source. When tables is empty, every table the source
// lists is included. Shared across all drivers — no duplication in drivers.
func Snapshot(ctx context.Context, src Source, tables []QualifiedName) (Input, error) {
	var in Input

	if len(tables) == 0 {
		var err error
		tables, err = src.ListTables(ctx)
		if err != nil {
			return Input{}, err
		}
	}

	for _, t := range tables {
		cols, err := src.ColumnRows(ctx, t)
		if err != nil {
			return Input{}, err
		}
		in.Columns = append(in.Columns, cols...)

		pks, err := src.PrimaryKeyRows(ctx, t)
		if err != nil {
			return Input{}, err
		}
		in.PrimaryKeys = append(in.PrimaryKeys, pks...)

		fks, err := src.ForeignKeyRows(ctx, t)
		if err != nil {
			return Input{}, err
		}
		in.ForeignKeys = append(in.ForeignKeys, fks...)

		idxs, err := src.IndexRows(ctx, t)
		if err != nil {
			return Input{}, err
		}
		in.Indexes = append(in.Indexes, idxs...)
	}

	return in, nil
}
