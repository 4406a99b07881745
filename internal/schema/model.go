// Package schema builds a normalized, fully cross-referenced relational
// model from raw database catalog rows.
//
// Catalog introspection APIs return flat, denormalized fragment rows: one
// row per column, one row per key column, one row per index column. This
// package reconciles them into composite entities — tables with columns,
// primary keys, foreign keys, and indices — with all cross-references
// resolved to the actual *Column values of the owning tables, so downstream
// consumers (code generators) never perform name lookups.
//
// The model is built in one pass over an immutable snapshot of catalog rows
// and is never mutated afterwards.
package schema

import "strconv"

// ReferentialAction is a foreign key's resolved ON UPDATE / ON DELETE action.
type ReferentialAction int

const (
	ActionCascade ReferentialAction = iota
	ActionRestrict
	ActionNoAction
	ActionSetNull
	ActionSetDefault
)

func (a ReferentialAction) String() string {
	switch a {
	case ActionCascade:
		return "CASCADE"
	case ActionRestrict:
		return "RESTRICT"
	case ActionSetNull:
		return "SET NULL"
	case ActionSetDefault:
		return "SET DEFAULT"
	default:
		return "NO ACTION"
	}
}

// actionForRule maps a catalog rule code to its action. Unrecognised codes
// fall back to NO ACTION rather than failing: catalog metadata varies
// across vendors and over-strict handling would make the builder unusable.
func actionForRule(code RuleCode) ReferentialAction {
	switch code {
	case RuleCascade:
		return ActionCascade
	case RuleRestrict:
		return ActionRestrict
	case RuleSetNull:
		return ActionSetNull
	case RuleSetDefault:
		return ActionSetDefault
	default:
		return ActionNoAction
	}
}

// DefaultKind tags the representable forms of a column default value.
type DefaultKind int

const (
	DefaultInt DefaultKind = iota
	DefaultFloat
	DefaultString
)

// DefaultValue is a column's parsed default. Only integer, decimal, and
// quoted-string literals are representable; anything else the catalog
// reports (function calls, vendor expressions) is deliberately not encoded.
type DefaultValue struct {
	Kind  DefaultKind
	Int   int64
	Float float64
	Str   string
}

func (d DefaultValue) String() string {
	switch d.Kind {
	case DefaultInt:
		return strconv.FormatInt(d.Int, 10)
	case DefaultFloat:
		return strconv.FormatFloat(d.Float, 'g', -1, 64)
	default:
		return d.Str
	}
}

// Column is a single table column. A single-column primary key is folded
// into the column itself via the PrimaryKey flag; only composite keys are
// materialised as a PrimaryKey entity.
type Column struct {
	Name          string
	Table         QualifiedName
	TypeCode      int // vendor-specific type code, mapped to language types elsewhere
	Nullable      bool
	AutoIncrement bool
	PrimaryKey    bool          // set when this column alone is the table's primary key
	Default       *DefaultValue // nil when the column has no representable default
}

// PrimaryKey is a composite primary key. It exists only for keys spanning
// two or more columns; Columns preserves the key's declared sequence order.
type PrimaryKey struct {
	Name    string // synthesized when the catalog did not name the key
	Table   QualifiedName
	Columns []*Column
}

// ForeignKey is a resolved foreign key, owned by its referencing table.
// Columns and RefColumns have equal length and correspond position for
// position; RefColumns are the referenced table's own *Column values.
type ForeignKey struct {
	Name       string
	Table      QualifiedName // referencing table
	Columns    []*Column     // referencing columns, in key sequence order
	RefTable   QualifiedName
	RefColumns []*Column // referenced columns, in key sequence order
	OnUpdate   ReferentialAction
	OnDelete   ReferentialAction
}

// Index is a resolved index. Indices that merely back the table's primary
// key or a foreign key are catalog artifacts of constraint enforcement and
// never appear in the model.
type Index struct {
	Name    string
	Table   QualifiedName
	Columns []*Column
	Unique  bool
}

// Table is a fully resolved table.
type Table struct {
	Name        QualifiedName
	Columns     []*Column     // in the catalog's declared ordinal order
	PrimaryKey  *PrimaryKey   // nil unless the key spans two or more columns
	ForeignKeys []*ForeignKey
	Indexes     []*Index
}

// Column returns the table's column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Model is the assembled schema model: all introspected tables, sorted by
// qualified table name. It is read-only once built.
type Model struct {
	Tables []*Table
}

// Table returns the table with the given qualified name, or nil.
func (m *Model) Table(name QualifiedName) *Table {
	for _, t := range m.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}
