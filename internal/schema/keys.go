package schema

import (
	"fmt"

	"github.com/relmodel/relmodel/internal/errs"
)

// nameCounter synthesizes placeholder names for keys and indices the
// catalog left unnamed. It is scoped to a single build so concurrent builds
// stay independent; synthesized names are unique within one build but not
// stable across builds.
type nameCounter struct {
	n int
}

func (c *nameCounter) next(kind string) string {
	c.n++
	return fmt.Sprintf("%s_%d", kind, c.n)
}

// pkColumnNames returns a table's primary-key column names in declared key
// sequence order, reconstructed from the table's key fragment rows.
func pkColumnNames(rows []KeyColumnRow) []string {
	groups := groupFragments(rows,
		func(r KeyColumnRow) QualifiedName { return r.Table },
		func(r KeyColumnRow) int { return r.Seq },
		QualifiedName.Less,
	)
	if len(groups) == 0 {
		return nil
	}
	names := make([]string, 0, len(groups[0].rows))
	for _, r := range groups[0].rows {
		names = append(names, r.Column)
	}
	return names
}

// resolvePrimaryKey materialises a table's primary key entity.
//
// Keys of cardinality 0 or 1 produce no entity: an absent key is absent,
// and a single-column key is folded into the column's PrimaryKey flag by
// buildColumn. Only keys spanning two or more columns become a PrimaryKey.
func resolvePrimaryKey(t *Table, rows []KeyColumnRow, names *nameCounter) (*PrimaryKey, error) {
	groups := groupFragments(rows,
		func(r KeyColumnRow) QualifiedName { return r.Table },
		func(r KeyColumnRow) int { return r.Seq },
		QualifiedName.Less,
	)
	if len(groups) == 0 || len(groups[0].rows) < 2 {
		return nil, nil
	}

	frags := groups[0].rows
	pk := &PrimaryKey{Table: t.Name, Columns: make([]*Column, 0, len(frags))}

	for _, r := range frags {
		col := t.Column(r.Column)
		if col == nil {
			return nil, errs.Newf(errs.ErrKindConsistency,
				"primary key of %s references unknown column %q", t.Name, r.Column)
		}
		pk.Columns = append(pk.Columns, col)
	}

	if frags[0].KeyName != nil && *frags[0].KeyName != "" {
		pk.Name = *frags[0].KeyName
	} else {
		pk.Name = names.next("pk")
	}

	return pk, nil
}

// fkGroupKey identifies one foreign key across its fragment rows. The
// four-part tuple keeps two same-named constraints on different table pairs
// apart, and separates multiple keys between the same pair of tables.
type fkGroupKey struct {
	RefTable QualifiedName
	Name     string
	RefKey   string
	Table    QualifiedName
}

func (k fkGroupKey) less(o fkGroupKey) bool {
	if k.RefTable != o.RefTable {
		return k.RefTable.Less(o.RefTable)
	}
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	if k.RefKey != o.RefKey {
		return k.RefKey < o.RefKey
	}
	return k.Table.Less(o.Table)
}

// resolveForeignKeys groups the foreign-key fragment rows of the entire
// introspected table set and resolves each group against the referencing
// and referenced tables' already-built column sets. All tables' columns
// must therefore exist before this runs.
//
// Fragments whose referenced table is not among the modeled tables are
// silently dropped: without the target's column set the key is not
// representable, and outward-pointing keys are expected when introspection
// is scoped to a subset of the database.
func resolveForeignKeys(rows []ForeignKeyRow, tables map[QualifiedName]*Table, names *nameCounter) (map[QualifiedName][]*ForeignKey, error) {
	kept := rows[:0:0]
	for _, r := range rows {
		if _, ok := tables[r.RefTable]; ok {
			kept = append(kept, r)
		}
	}

	groups := groupFragments(kept,
		func(r ForeignKeyRow) fkGroupKey {
			return fkGroupKey{
				RefTable: r.RefTable,
				Name:     strDeref(r.Name),
				RefKey:   strDeref(r.RefKeyName),
				Table:    r.Table,
			}
		},
		func(r ForeignKeyRow) int { return r.Seq },
		fkGroupKey.less,
	)

	out := make(map[QualifiedName][]*ForeignKey)
	for _, g := range groups {
		owner, ok := tables[g.key.Table]
		if !ok {
			return nil, errs.Newf(errs.ErrKindConsistency,
				"foreign key fragments reference unknown table %s", g.key.Table)
		}
		ref := tables[g.key.RefTable] // presence established by the filter above

		fk := &ForeignKey{
			Table:      owner.Name,
			RefTable:   ref.Name,
			Columns:    make([]*Column, 0, len(g.rows)),
			RefColumns: make([]*Column, 0, len(g.rows)),
			OnUpdate:   actionForRule(g.rows[0].UpdateRule),
			OnDelete:   actionForRule(g.rows[0].DeleteRule),
		}

		for _, r := range g.rows {
			col := owner.Column(r.Column)
			if col == nil {
				return nil, errs.Newf(errs.ErrKindConsistency,
					"foreign key on %s references unknown column %q", owner.Name, r.Column)
			}
			refCol := ref.Column(r.RefColumn)
			if refCol == nil {
				return nil, errs.Newf(errs.ErrKindConsistency,
					"foreign key on %s references unknown column %s.%q", owner.Name, ref.Name, r.RefColumn)
			}
			fk.Columns = append(fk.Columns, col)
			fk.RefColumns = append(fk.RefColumns, refCol)
		}

		// Each fragment contributes one column to each side, so a mismatch
		// here means the catalog handed us corrupt data.
		if len(fk.Columns) != len(fk.RefColumns) {
			return nil, errs.Newf(errs.ErrKindConsistency,
				"foreign key %q on %s: %d referencing columns vs %d referenced",
				g.key.Name, owner.Name, len(fk.Columns), len(fk.RefColumns))
		}

		if g.key.Name != "" {
			fk.Name = g.key.Name
		} else {
			fk.Name = names.next("fk")
		}

		out[owner.Name] = append(out[owner.Name], fk)
	}

	return out, nil
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
