package schema

import (
	"sort"

	"github.com/relmodel/relmodel/internal/errs"
	"github.com/relmodel/relmodel/internal/logger"
)

// Input is an immutable snapshot of the raw catalog rows for one
// introspection run: every included table's column, key, and index rows.
// Row order within each slice does not matter.
type Input struct {
	Columns     []ColumnRow
	PrimaryKeys []KeyColumnRow
	ForeignKeys []ForeignKeyRow
	Indexes     []IndexRow
}

// Builder assembles Models from catalog snapshots. A single Builder may be
// reused; each Build call threads its own synthesized-name counter, so
// builds are independent and safe to run in parallel on separate inputs.
type Builder struct {
	log *logger.Logger
}

// NewBuilder creates a Builder logging through log. A nil log uses the
// default logger.
func NewBuilder(log *logger.Logger) *Builder {
	if log == nil {
		log = logger.New(nil)
	}
	return &Builder{log: log}
}

// Build converts the snapshot into a fully resolved Model.
//
// Phases are strictly ordered: every table's columns are built before any
// foreign key resolves (foreign keys need the referenced table's column
// set), and a table's indices resolve only after its primary key and
// foreign keys (the index filters need both). The resulting tables are
// sorted by qualified name and the whole model is verified once; on any
// failure no partial model is returned.
func (b *Builder) Build(in Input) (*Model, error) {
	columnsByTable := make(map[QualifiedName][]ColumnRow)
	for _, r := range in.Columns {
		columnsByTable[r.Table] = append(columnsByTable[r.Table], r)
	}
	keysByTable := make(map[QualifiedName][]KeyColumnRow)
	for _, r := range in.PrimaryKeys {
		keysByTable[r.Table] = append(keysByTable[r.Table], r)
	}
	indexesByTable := make(map[QualifiedName][]IndexRow)
	for _, r := range in.Indexes {
		indexesByTable[r.Table] = append(indexesByTable[r.Table], r)
	}

	// Phase 1: columns and primary keys, per table.
	tables := make(map[QualifiedName]*Table, len(columnsByTable))
	pkNamesByTable := make(map[QualifiedName][]string, len(columnsByTable))

	for name, colRows := range columnsByTable {
		// Catalogs do not guarantee row order; declared ordinal wins.
		sort.SliceStable(colRows, func(i, j int) bool {
			return colRows[i].Position < colRows[j].Position
		})

		pkCols := pkColumnNames(keysByTable[name])
		pkNamesByTable[name] = pkCols

		t := &Table{Name: name, Columns: make([]*Column, 0, len(colRows))}
		seen := make(map[string]bool, len(colRows))
		for _, r := range colRows {
			col, err := buildColumn(r, pkCols)
			if err != nil {
				return nil, err
			}
			if seen[col.Name] {
				return nil, errs.Newf(errs.ErrKindConsistency,
					"table %s declares column %q twice", name, col.Name)
			}
			seen[col.Name] = true
			t.Columns = append(t.Columns, col)
		}
		tables[name] = t
	}

	// Synthesized names must not depend on map iteration order, so every
	// phase that may consume the counter walks the tables sorted by name.
	sortedNames := make([]QualifiedName, 0, len(tables))
	for name := range tables {
		sortedNames = append(sortedNames, name)
	}
	sort.Slice(sortedNames, func(i, j int) bool {
		return sortedNames[i].Less(sortedNames[j])
	})

	names := &nameCounter{}

	for _, name := range sortedNames {
		pk, err := resolvePrimaryKey(tables[name], keysByTable[name], names)
		if err != nil {
			return nil, err
		}
		tables[name].PrimaryKey = pk
	}

	// Phase 2: foreign keys, across the whole table set.
	fksByTable, err := resolveForeignKeys(in.ForeignKeys, tables, names)
	if err != nil {
		return nil, err
	}
	for name, fks := range fksByTable {
		tables[name].ForeignKeys = fks
	}

	// Phase 3: indices, per table.
	for _, name := range sortedNames {
		t := tables[name]
		indexes, err := resolveIndexes(t, indexesByTable[name], pkNamesByTable[name], t.ForeignKeys, names)
		if err != nil {
			return nil, err
		}
		t.Indexes = indexes
	}

	model := &Model{Tables: make([]*Table, 0, len(tables))}
	for _, name := range sortedNames {
		model.Tables = append(model.Tables, tables[name])
	}

	if err := verify(model); err != nil {
		return nil, err
	}

	b.log.With().Int("tables", len(model.Tables)).Logger().
		Debug("catalog snapshot resolved into model")

	return model, nil
}

// verify runs the global consistency check: every cross-reference held by a
// key or index must point at a column that is a genuine member (by
// identity) of its owning table's column sequence, and every foreign key's
// referenced table must be part of the model. A violation means the catalog
// handed us corrupt data and the whole build fails.
func verify(m *Model) error {
	members := make(map[*Column]bool)
	for _, t := range m.Tables {
		for _, c := range t.Columns {
			members[c] = true
		}
	}

	for _, t := range m.Tables {
		if pk := t.PrimaryKey; pk != nil {
			if len(pk.Columns) < 2 {
				return errs.Newf(errs.ErrKindConsistency,
					"primary key %q of %s materialised with %d columns", pk.Name, t.Name, len(pk.Columns))
			}
			for _, c := range pk.Columns {
				if c.Table != t.Name || !members[c] {
					return errs.Newf(errs.ErrKindConsistency,
						"primary key %q of %s holds foreign column %q", pk.Name, t.Name, c.Name)
				}
			}
		}

		for _, fk := range t.ForeignKeys {
			if len(fk.Columns) != len(fk.RefColumns) || len(fk.Columns) == 0 {
				return errs.Newf(errs.ErrKindConsistency,
					"foreign key %q of %s has mismatched column counts", fk.Name, t.Name)
			}
			ref := m.Table(fk.RefTable)
			if ref == nil {
				return errs.Newf(errs.ErrKindConsistency,
					"foreign key %q of %s references table %s absent from the model", fk.Name, t.Name, fk.RefTable)
			}
			for _, c := range fk.Columns {
				if c.Table != t.Name || !members[c] {
					return errs.Newf(errs.ErrKindConsistency,
						"foreign key %q of %s holds foreign column %q", fk.Name, t.Name, c.Name)
				}
			}
			for _, c := range fk.RefColumns {
				if c.Table != ref.Name || !members[c] {
					return errs.Newf(errs.ErrKindConsistency,
						"foreign key %q of %s references column %q not owned by %s", fk.Name, t.Name, c.Name, ref.Name)
				}
			}
		}

		for _, idx := range t.Indexes {
			for _, c := range idx.Columns {
				if c.Table != t.Name || !members[c] {
					return errs.Newf(errs.ErrKindConsistency,
						"index %q of %s holds foreign column %q", idx.Name, t.Name, c.Name)
				}
			}
		}
	}

	return nil
}
