// Package postgres implements schema.Source for PostgreSQL using the
// pg_catalog system tables.
package postgres

import (
	"context"
	"fmt"

	"github.com/relmodel/relmodel/internal/database"
	"github.com/relmodel/relmodel/internal/schema"
)

// Source reads raw catalog rows from a PostgreSQL database. The vendor type
// code it reports is the column type's pg_type OID.
type Source struct {
	db     database.DB
	schema string
}

// New creates a Postgres catalog source scoped to the given schema
// (usually "public").
func New(db database.DB, schemaName string) *Source {
	if schemaName == "" {
		schemaName = "public"
	}
	return &Source{db: db, schema: schemaName}
}

// ListTables returns all user-defined base tables in the configured schema.
func (s *Source) ListTables(ctx context.Context) ([]schema.QualifiedName, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := s.db.Query(ctx, q, s.schema)
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
		tables = append(tables, schema.QualifiedName{Name: name, Schema: s.schema})
	}
	return tables, rows.Err()
}

// ColumnRows returns the raw column rows of one table. Auto-increment is
// derived from identity columns and nextval() serial defaults.
func (s *Source) ColumnRows(ctx context.Context, table schema.QualifiedName) ([]schema.ColumnRow, error) {
	const q = `
		SELECT a.attname,
		       a.attnum::int,
		       NOT a.attnotnull,
		       pg_get_expr(ad.adbin, ad.adrelid),
		       a.atttypid::int,
		       a.attidentity <> ''
		       OR COALESCE(pg_get_expr(ad.adbin, ad.adrelid) LIKE 'nextval(%', false)
		FROM pg_catalog.pg_attribute a
		JOIN pg_catalog.pg_class c ON c.oid = a.attrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_catalog.pg_attrdef ad
		  ON ad.adrelid = a.attrelid AND ad.adnum = a.attnum
		WHERE n.nspname = $1
		  AND c.relname = $2
		  AND a.attnum > 0
		  AND NOT a.attisdropped
		ORDER BY a.attnum`

	rows, err := s.db.Query(ctx, q, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch columns for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.ColumnRow
	for rows.Next() {
		var (
			r        schema.ColumnRow
			nullable bool
			def      *string
			autoInc  bool
		)
		if err := rows.Scan(&r.Name, &r.Position, &nullable, &def, &r.TypeCode, &autoInc); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		r.Table = table
		r.Nullable = &nullable
		r.AutoIncrement = &autoInc
		r.Default = def
		out = append(out, r)
	}
	return out, rows.Err()
}

// PrimaryKeyRows returns the raw primary-key fragment rows of one table.
func (s *Source) PrimaryKeyRows(ctx context.Context, table schema.QualifiedName) ([]schema.KeyColumnRow, error) {
	const q = `
		SELECT tc.constraint_name,
		       kcu.column_name,
		       kcu.ordinal_position::int
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema    = $1
		  AND tc.table_name      = $2`

	rows, err := s.db.Query(ctx, q, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch primary key for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.KeyColumnRow
	for rows.Next() {
		var (
			r    schema.KeyColumnRow
			name string
		)
		if err := rows.Scan(&name, &r.Column, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan primary key row: %w", err)
		}
		r.Table = table
		r.KeyName = &name
		out = append(out, r)
	}
	return out, rows.Err()
}

// ForeignKeyRows returns the raw foreign-key fragment rows owned by one
// table, one row per referencing/referenced column pair.
func (s *Source) ForeignKeyRows(ctx context.Context, table schema.QualifiedName) ([]schema.ForeignKeyRow, error) {
	const q = `
		SELECT con.conname,
		       refn.nspname,
		       refc.relname,
		       a.attname,
		       ra.attname,
		       k.ord::int,
		       con.confupdtype::text,
		       con.confdeltype::text,
		       refidx.relname
		FROM pg_catalog.pg_constraint con
		JOIN pg_catalog.pg_class c ON c.oid = con.conrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_catalog.pg_class refc ON refc.oid = con.confrelid
		JOIN pg_catalog.pg_namespace refn ON refn.oid = refc.relnamespace
		LEFT JOIN pg_catalog.pg_class refidx ON refidx.oid = con.conindid
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(attnum, refattnum, ord)
		JOIN pg_catalog.pg_attribute a
		  ON a.attrelid = con.conrelid AND a.attnum = k.attnum
		JOIN pg_catalog.pg_attribute ra
		  ON ra.attrelid = con.confrelid AND ra.attnum = k.refattnum
		WHERE con.contype = 'f'
		  AND n.nspname = $1
		  AND c.relname = $2`

	rows, err := s.db.Query(ctx, q, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch foreign keys for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.ForeignKeyRow
	for rows.Next() {
		var (
			r                schema.ForeignKeyRow
			name, refSchema  string
			refTable         string
			updRule, delRule string
			refKey           *string
		)
		if err := rows.Scan(&name, &refSchema, &refTable, &r.Column, &r.RefColumn,
			&r.Seq, &updRule, &delRule, &refKey); err != nil {
			return nil, fmt.Errorf("scan foreign key row: %w", err)
		}
		r.Table = table
		r.RefTable = schema.QualifiedName{Name: refTable, Schema: refSchema}
		r.Name = &name
		r.RefKeyName = refKey
		r.UpdateRule = ruleForConftype(updRule)
		r.DeleteRule = ruleForConftype(delRule)
		out = append(out, r)
	}
	return out, rows.Err()
}

// IndexRows returns the raw index fragment rows of one table, including
// the unique indexes Postgres creates to back primary keys and constraints
// (the builder filters those out). Expression members have no column and
// surface as column-less fragments.
func (s *Source) IndexRows(ctx context.Context, table schema.QualifiedName) ([]schema.IndexRow, error) {
	const q = `
		SELECT ic.relname,
		       a.attname,
		       k.ord::int,
		       NOT ix.indisunique
		FROM pg_catalog.pg_index ix
		JOIN pg_catalog.pg_class ic ON ic.oid = ix.indexrelid
		JOIN pg_catalog.pg_class c ON c.oid = ix.indrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
		LEFT JOIN pg_catalog.pg_attribute a
		  ON a.attrelid = ix.indrelid AND a.attnum = k.attnum
		WHERE n.nspname = $1
		  AND c.relname = $2`

	rows, err := s.db.Query(ctx, q, table.Schema, table.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch indexes for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.IndexRow
	for rows.Next() {
		var (
			r    schema.IndexRow
			name string
		)
		if err := rows.Scan(&name, &r.Column, &r.Seq, &r.NonUnique); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		r.Table = table
		r.Name = &name
		r.Type = schema.IndexOther
		out = append(out, r)
	}
	return out, rows.Err()
}

// ruleForConftype maps pg_constraint confupdtype/confdeltype characters to
// the catalog rule codes.
func ruleForConftype(c string) schema.RuleCode {
	switch c {
	case "c":
		return schema.RuleCascade
	case "r":
		return schema.RuleRestrict
	case "n":
		return schema.RuleSetNull
	case "d":
		return schema.RuleSetDefault
	default: // "a"
		return schema.RuleNoAction
	}
}
