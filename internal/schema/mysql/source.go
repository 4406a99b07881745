// Package mysql implements schema.Source for MySQL using
// information_schema.
package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/relmodel/relmodel/internal/database"
	"github.com/relmodel/relmodel/internal/schema"
)

// Source reads raw catalog rows from a MySQL database. The vendor type code
// it reports is the MySQL wire-protocol field type of the column's declared
// data type.
type Source struct {
	db     database.DB
	schema string
}

// New creates a MySQL catalog source scoped to the given database. An empty
// name falls back to the connection's default database.
func New(db database.DB, schemaName string) *Source {
	return &Source{db: db, schema: schemaName}
}

// schemaArg returns the bind value selecting the scoped database, or nil
// to fall back to DATABASE(). MySQL treats schema and database as the same
// thing.
func (s *Source) schemaArg() any {
	if s.schema != "" {
		return s.schema
	}
	return nil
}

// ListTables returns all user-defined base tables in the configured database.
func (s *Source) ListTables(ctx context.Context) ([]schema.QualifiedName, error) {
	const q = `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(?, DATABASE())
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := s.db.Query(ctx, q, s.schemaArg())
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []schema.QualifiedName
	for rows.Next() {
		var db, name string
		if err := rows.Scan(&db, &name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, schema.QualifiedName{Name: name, Schema: db})
	}
	return tables, rows.Err()
}

// ColumnRows returns the raw column rows of one table.
func (s *Source) ColumnRows(ctx context.Context, table schema.QualifiedName) ([]schema.ColumnRow, error) {
	const q = `
		SELECT column_name,
		       ordinal_position,
		       is_nullable = 'YES',
		       column_default,
		       data_type,
		       extra LIKE '%auto_increment%'
		FROM information_schema.columns
		WHERE table_schema = COALESCE(?, DATABASE())
		  AND table_name   = ?
		ORDER BY ordinal_position`

	rows, err := s.db.Query(ctx, q, orDefault(table.Schema, s.schemaArg()), table.Name)
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
			dataType string
			autoInc  bool
		)
		if err := rows.Scan(&r.Name, &r.Position, &nullable, &def, &dataType, &autoInc); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		r.Table = table
		r.TypeCode = fieldTypeCode(dataType)
		r.Nullable = &nullable
		r.AutoIncrement = &autoInc
		r.Default = quoteStringDefault(def, dataType)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PrimaryKeyRows returns the raw primary-key fragment rows of one table.
func (s *Source) PrimaryKeyRows(ctx context.Context, table schema.QualifiedName) ([]schema.KeyColumnRow, error) {
	const q = `
		SELECT tc.constraint_name,
		       kcu.column_name,
		       kcu.ordinal_position
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		 AND tc.table_name      = kcu.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema    = COALESCE(?, DATABASE())
		  AND tc.table_name      = ?`

	rows, err := s.db.Query(ctx, q, orDefault(table.Schema, s.schemaArg()), table.Name)
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
// table.
func (s *Source) ForeignKeyRows(ctx context.Context, table schema.QualifiedName) ([]schema.ForeignKeyRow, error) {
	const q = `
		SELECT kcu.constraint_name,
		       kcu.referenced_table_schema,
		       kcu.referenced_table_name,
		       kcu.column_name,
		       kcu.referenced_column_name,
		       kcu.ordinal_position,
		       rc.update_rule,
		       rc.delete_rule,
		       rc.unique_constraint_name
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
		  ON rc.constraint_schema = kcu.constraint_schema
		 AND rc.constraint_name   = kcu.constraint_name
		WHERE kcu.table_schema = COALESCE(?, DATABASE())
		  AND kcu.table_name   = ?
		  AND kcu.referenced_table_name IS NOT NULL`

	rows, err := s.db.Query(ctx, q, orDefault(table.Schema, s.schemaArg()), table.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch foreign keys for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.ForeignKeyRow
	for rows.Next() {
		var (
			r                schema.ForeignKeyRow
			name             string
			refSchema        string
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
		r.UpdateRule = ruleForText(updRule)
		r.DeleteRule = ruleForText(delRule)
		out = append(out, r)
	}
	return out, rows.Err()
}

// IndexRows returns the raw index fragment rows of one table. The PRIMARY
// index and the indexes MySQL creates to enforce foreign keys are included;
// the builder filters them out.
func (s *Source) IndexRows(ctx context.Context, table schema.QualifiedName) ([]schema.IndexRow, error) {
	const q = `
		SELECT index_name,
		       column_name,
		       seq_in_index,
		       non_unique,
		       index_type
		FROM information_schema.statistics
		WHERE table_schema = COALESCE(?, DATABASE())
		  AND table_name   = ?`

	rows, err := s.db.Query(ctx, q, orDefault(table.Schema, s.schemaArg()), table.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch indexes for %s: %w", table, err)
	}
	defer rows.Close()

	var out []schema.IndexRow
	for rows.Next() {
		var (
			r         schema.IndexRow
			name      string
			nonUnique int
			idxType   string
		)
		if err := rows.Scan(&name, &r.Column, &r.Seq, &nonUnique, &idxType); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		r.Table = table
		r.Name = &name
		r.NonUnique = nonUnique != 0
		if strings.EqualFold(idxType, "HASH") {
			r.Type = schema.IndexHashed
		} else {
			r.Type = schema.IndexOther
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ruleForText maps referential_constraints rule text to rule codes.
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

// quoteStringDefault wraps textual defaults in single quotes: MySQL stores
// string defaults unquoted in information_schema, but the builder's literal
// parser expects SQL quoting to tell strings from numbers.
func quoteStringDefault(def *string, dataType string) *string {
	if def == nil {
		return nil
	}
	switch strings.ToLower(dataType) {
	case "char", "varchar", "text", "tinytext", "mediumtext", "longtext",
		"enum", "set":
		quoted := "'" + *def + "'"
		return &quoted
	default:
		return def
	}
}

// orDefault prefers the table's own schema qualifier over the source-level
// scope, keeping COALESCE(?, DATABASE()) semantics intact.
func orDefault(tableSchema string, fallback any) any {
	if tableSchema != "" {
		return tableSchema
	}
	return fallback
}

// fieldTypeCodes maps information_schema data type names to MySQL
// wire-protocol field type codes.
var fieldTypeCodes = map[string]int{
	"decimal":    246,
	"tinyint":    1,
	"smallint":   2,
	"int":        3,
	"float":      4,
	"double":     5,
	"timestamp":  7,
	"bigint":     8,
	"mediumint":  9,
	"date":       10,
	"time":       11,
	"datetime":   12,
	"year":       13,
	"varchar":    15,
	"bit":        16,
	"json":       245,
	"enum":       247,
	"set":        248,
	"tinyblob":   249,
	"mediumblob": 250,
	"longblob":   251,
	"blob":       252,
	"tinytext":   249,
	"mediumtext": 250,
	"longtext":   251,
	"text":       252,
	"char":       254,
	"binary":     254,
	"varbinary":  253,
	"geometry":   255,
}

// fieldTypeCode looks up a data type's wire-protocol code. Unknown types
// map to 0 (DECIMAL), which is harmless: the code is opaque to the builder.
func fieldTypeCode(dataType string) int {
	if code, ok := fieldTypeCodes[strings.ToLower(dataType)]; ok {
		return code
	}
	return 0
}
