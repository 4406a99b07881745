package schema

import "github.com/relmodel/relmodel/internal/errs"

// resolveIndexes groups one table's index fragment rows into Index entities
// and strips everything that is not a user-declared index:
//
//   - statistics pseudo-rows and fragments carrying no column are discarded
//     up front,
//   - a unique index whose column list equals the table's primary-key
//     column list is redundant with the key itself,
//   - any index whose column list equals a foreign key's referencing-column
//     list is a database-generated artifact of constraint enforcement.
//
// Requires the table's primary key and foreign keys to be resolved already.
func resolveIndexes(t *Table, rows []IndexRow, pkColumns []string, fks []*ForeignKey, names *nameCounter) ([]*Index, error) {
	frags := rows[:0:0]
	for _, r := range rows {
		if r.Type == IndexStatistic || r.Column == nil {
			continue
		}
		frags = append(frags, r)
	}

	groups := groupFragments(frags,
		func(r IndexRow) string { return strDeref(r.Name) },
		func(r IndexRow) int { return r.Seq },
		func(a, b string) bool { return a < b },
	)

	var indexes []*Index
	for _, g := range groups {
		idx := &Index{
			Table:   t.Name,
			Columns: make([]*Column, 0, len(g.rows)),
			Unique:  !g.rows[0].NonUnique,
		}

		colNames := make([]string, 0, len(g.rows))
		for _, r := range g.rows {
			col := t.Column(*r.Column)
			if col == nil {
				return nil, errs.Newf(errs.ErrKindConsistency,
					"index %q on %s references unknown column %q", g.key, t.Name, *r.Column)
			}
			idx.Columns = append(idx.Columns, col)
			colNames = append(colNames, col.Name)
		}

		if idx.Unique && equalNames(colNames, pkColumns) {
			continue
		}
		if backsForeignKey(colNames, fks) {
			continue
		}

		if g.key != "" {
			idx.Name = g.key
		} else {
			idx.Name = names.next("index")
		}

		indexes = append(indexes, idx)
	}

	return indexes, nil
}

// backsForeignKey reports whether cols exactly matches the referencing
// column list of any of the table's foreign keys.
func backsForeignKey(cols []string, fks []*ForeignKey) bool {
	for _, fk := range fks {
		if len(fk.Columns) != len(cols) {
			continue
		}
		match := true
		for i, c := range fk.Columns {
			if c.Name != cols[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
