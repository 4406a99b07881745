// Package sqlite implements schema.Source for SQLite using the sqlite_master
// table and the table_info / foreign_key_list / index_list pragmas.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/relmodel/relmodel/internal/database"
	"github.com/relmodel/relmodel/internal/schema"
)

// SQLite's fundamental datatype codes, used as the vendor type code. The
// declared column type is reduced to its storage affinity.
const (
	typeInteger = 1
	typeFloat   = 2
	typeText    = 3
	typeBlob    = 4
	typeNumeric = 5
)

// Source reads raw catalog rows from a SQLite database file. SQLite has no
// schemas or catalogs, so qualified names carry the bare table name.
type Source struct {
	db database.DB
}

// New creates a SQLite catalog source.
func New(db database.DB) *Source {
	return &Source{db: db}
}

// ListTables returns all user tables, excluding SQLite's internal ones.
func (s *Source) ListTables(ctx context.Context) ([]schema.QualifiedName, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.QualifiedName
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, schema.QualifiedName{Name: name})
	}
	return tables, rows.Err()
}

// ColumnRows returns the raw column rows of one table. Auto-increment is
// reported only for INTEGER PRIMARY KEY columns of tables declared with
// AUTOINCREMENT; plain rowid aliases do not set the flag, matching what the
// catalog actually records.
func (s *Source) ColumnRows(ctx context.Context, table schema.QualifiedName) ([]schema.ColumnRow, error) {
	autoInc, err := s.hasAutoincrement(ctx, table.Name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table.Name))
	if err != nil {
		return nil, fmt.Errorf("fetch columns for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.ColumnRow
	for rows.Next() {
		var (
			cid      int
			name     string
			declType string
			notNull  int
			def      *string
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &def, &pk); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}

		nullable := notNull == 0
		auto := autoInc && pk == 1 && strings.EqualFold(declType, "INTEGER")

		out = append(out, schema.ColumnRow{
			Table:         table,
			Name:          name,
			TypeCode:      affinityCode(declType),
			Position:      cid + 1,
			Nullable:      &nullable,
			AutoIncrement: &auto,
			Default:       def,
		})
	}
	return out, rows.Err()
}

// PrimaryKeyRows returns the raw primary-key fragment rows of one table,
// reconstructed from table_info's pk ordinal. SQLite does not name primary
// keys, so KeyName stays nil and the builder synthesizes one when needed.
func (s *Source) PrimaryKeyRows(ctx context.Context, table schema.QualifiedName) ([]schema.KeyColumnRow, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table.Name))
	if err != nil {
		return nil, fmt.Errorf("fetch primary key for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.KeyColumnRow
	for rows.Next() {
		var (
			cid      int
			name     string
			declType string
			notNull  int
			def      *string
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &def, &pk); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		if pk > 0 {
			out = append(out, schema.KeyColumnRow{
				Table:  table,
				Column: name,
				Seq:    pk,
			})
		}
	}
	return out, rows.Err()
}

// ForeignKeyRows returns the raw foreign-key fragment rows of one table.
// SQLite leaves constraints unnamed; the constraint id from the pragma is
// turned into a per-table name so distinct keys group apart.
func (s *Source) ForeignKeyRows(ctx context.Context, table schema.QualifiedName) ([]schema.ForeignKeyRow, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", table.Name))
	if err != nil {
		return nil, fmt.Errorf("fetch foreign keys for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.ForeignKeyRow
	for rows.Next() {
		var (
			id, seq            int
			refTable           string
			from               string
			to                 *string
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}
		if to == nil {
			// Implicit reference to the target's primary key; without a
			// referenced column name the fragment is not representable.
			continue
		}

		name := fmt.Sprintf("%s_fk_%d", table.Name, id)
		out = append(out, schema.ForeignKeyRow{
			Table:      table,
			Column:     from,
			RefTable:   schema.QualifiedName{Name: refTable},
			RefColumn:  *to,
			Name:       &name,
			Seq:        seq + 1,
			UpdateRule: ruleForText(onUpdate),
			DeleteRule: ruleForText(onDelete),
		})
	}
	return out, rows.Err()
}

// IndexRows returns the raw index fragment rows of one table, including the
// sqlite_autoindex entries backing primary keys and unique constraints
// (the builder filters them out). Expression members have cid -1 and
// surface as column-less fragments.
func (s *Source) IndexRows(ctx context.Context, table schema.QualifiedName) ([]schema.IndexRow, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("PRAGMA index_list(%q)", table.Name))
	if err != nil {
		return nil, fmt.Errorf("fetch indexes for %s: %w", table, err)
	}

	type indexMeta struct {
		name   string
		unique bool
	}
	var metas []indexMeta
	for rows.Next() {
		var (
			seq     int
			name    string
			unique  int
			origin  string
			partial int
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan index list row: %w", err)
		}
		metas = append(metas, indexMeta{name: name, unique: unique != 0})
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	var out []schema.IndexRow
	for _, meta := range metas {
		cols, err := s.indexColumns(ctx, meta.name)
		if err != nil {
			return nil, err
		}
		for i := range cols {
			name := meta.name
			out = append(out, schema.IndexRow{
				Table:     table,
				Name:      &name,
				Column:    cols[i].column,
				Seq:       cols[i].seq,
				NonUnique: !meta.unique,
				Type:      schema.IndexOther,
			})
		}
	}
	return out, nil
}

type indexColumn struct {
	column *string
	seq    int
}

func (s *Source) indexColumns(ctx context.Context, index string) ([]indexColumn, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf("PRAGMA index_info(%q)", index))
	if err != nil {
		return nil, fmt.Errorf("fetch index columns for %q: %w", index, err)
	}
	defer rows.Close()

	var out []indexColumn
	for rows.Next() {
		var (
			seqno int
			cid   int
			name  *string
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("scan index column row: %w", err)
		}
		out = append(out, indexColumn{column: name, seq: seqno + 1})
	}
	return out, rows.Err()
}

// hasAutoincrement reports whether the table was declared with
// AUTOINCREMENT, read from its CREATE statement in sqlite_master.
func (s *Source) hasAutoincrement(ctx context.Context, table string) (bool, error) {
	const q = `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`

	var ddl *string
	if err := s.db.QueryRow(ctx, q, table).Scan(&ddl); err != nil {
		return false, fmt.Errorf("fetch table DDL for %q: %w", table, err)
	}
	return ddl != nil && strings.Contains(strings.ToUpper(*ddl), "AUTOINCREMENT"), nil
}

// ruleForText maps the pragma's action text to rule codes.
func ruleForText(rule string) schema.RuleCode {
	switch strings.ToUpper(rule) {
	case "CASCADE":
		return schema.RuleCascade
	case "RESTRICT":
		return schema.RuleRestrict
	case "SET NULL":
		return schema.RuleSetNull
	case "SET DEFAULT":
		return schema.RuleSetDefault
	default:
		return schema.RuleNoAction
	}
}

// affinityCode reduces a declared column type to SQLite's fundamental
// datatype code via the standard affinity rules.
func affinityCode(declType string) int {
	t := strings.ToUpper(declType)
	switch {
	case strings.Contains(t, "INT"):
		return typeInteger
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return typeText
	case t == "" || strings.Contains(t, "BLOB"):
		return typeBlob
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return typeFloat
	default:
		return typeNumeric
	}
}
