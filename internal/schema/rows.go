package schema

import "strings"

// QualifiedName identifies a table by name plus optional schema and catalog.
// It is comparable and is used as a map key throughout the builder.
type QualifiedName struct {
	Name    string
	Schema  string // empty when the catalog reports none
	Catalog string // empty when the catalog reports none
}

// String renders the name with dot-separated qualifiers, omitting empty ones.
func (q QualifiedName) String() string {
	parts := make([]string, 0, 3)
	if q.Catalog != "" {
		parts = append(parts, q.Catalog)
	}
	if q.Schema != "" {
		parts = append(parts, q.Schema)
	}
	parts = append(parts, q.Name)
	return strings.Join(parts, ".")
}

// Less orders qualified names structurally: catalog, then schema, then name.
func (q QualifiedName) Less(o QualifiedName) bool {
	if q.Catalog != o.Catalog {
		return q.Catalog < o.Catalog
	}
	if q.Schema != o.Schema {
		return q.Schema < o.Schema
	}
	return q.Name < o.Name
}

// RuleCode is the catalog's encoding of a foreign key's ON UPDATE / ON DELETE
// rule. The values follow the JDBC DatabaseMetaData importedKey* constants,
// which is the contract catalog sources normalise to.
type RuleCode int16

const (
	RuleCascade    RuleCode = 0
	RuleRestrict   RuleCode = 1
	RuleSetNull    RuleCode = 2
	RuleNoAction   RuleCode = 3
	RuleSetDefault RuleCode = 4
)

// IndexType is the catalog's index type code, following the JDBC
// DatabaseMetaData tableIndex* constants. Only IndexStatistic matters to the
// builder: such rows describe table statistics, not a real index, and are
// discarded.
type IndexType int16

const (
	IndexStatistic IndexType = 0
	IndexClustered IndexType = 1
	IndexHashed    IndexType = 2
	IndexOther     IndexType = 3
)

// ColumnRow is one raw catalog row describing a single table column.
type ColumnRow struct {
	Table         QualifiedName
	Name          string
	TypeCode      int     // vendor-specific type code
	Position      int     // declared ordinal of the column within its table
	Nullable      *bool   // nil when the catalog does not report nullability
	AutoIncrement *bool   // nil when the catalog does not report it
	Default       *string // textual default-value literal, nil when absent
}

// KeyColumnRow is one raw catalog row describing a single column's
// participation in a table's primary key.
type KeyColumnRow struct {
	Table   QualifiedName
	KeyName *string // nil when the catalog did not name the key
	Column  string
	Seq     int // sequence position of the column within the key
}

// ForeignKeyRow is one raw catalog row describing a single column pair of a
// foreign key: the referencing column and the referenced column it maps to.
type ForeignKeyRow struct {
	Table      QualifiedName // referencing table
	Column     string        // referencing column
	RefTable   QualifiedName // referenced table
	RefColumn  string        // referenced column
	Name       *string       // foreign key constraint name, nil when unnamed
	RefKeyName *string       // name of the referenced key, nil when unknown
	Seq        int           // sequence position of the column pair within the key
	UpdateRule RuleCode
	DeleteRule RuleCode
}

// IndexRow is one raw catalog row describing a single column's participation
// in an index. Statistics rows carry no column.
type IndexRow struct {
	Table     QualifiedName
	Name      *string // nil when the catalog did not name the index
	Column    *string // nil for statistics rows and expression members
	Seq       int     // sequence position of the column within the index
	NonUnique bool
	Type      IndexType
}
