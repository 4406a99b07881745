// Package export renders a resolved schema model into a serialisable
// document for consumption by code generators and the HTTP API. The
// document is plain data: every cross-reference has already been flattened
// to column names by the model's construction guarantees.
package export

import (
	"time"

	"github.com/relmodel/relmodel/internal/schema"
)

// Document is the serialisable form of a schema.Model.
type Document struct {
	Source      string     `yaml:"source,omitempty" json:"source,omitempty"`
	ExtractedAt time.Time  `yaml:"extracted_at" json:"extracted_at"`
	Tables      []TableDoc `yaml:"tables" json:"tables"`
}

// TableDoc is the serialisable form of one table.
type TableDoc struct {
	Name        string          `yaml:"name" json:"name"`
	Schema      string          `yaml:"schema,omitempty" json:"schema,omitempty"`
	Catalog     string          `yaml:"catalog,omitempty" json:"catalog,omitempty"`
	Columns     []ColumnDoc     `yaml:"columns" json:"columns"`
	PrimaryKey  *KeyDoc         `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	ForeignKeys []ForeignKeyDoc `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`
	Indexes     []IndexDoc      `yaml:"indexes,omitempty" json:"indexes,omitempty"`
}

// ColumnDoc is the serialisable form of one column.
type ColumnDoc struct {
	Name          string `yaml:"name" json:"name"`
	TypeCode      int    `yaml:"type_code" json:"type_code"`
	Nullable      bool   `yaml:"nullable" json:"nullable"`
	AutoIncrement bool   `yaml:"auto_increment,omitempty" json:"auto_increment,omitempty"`
	PrimaryKey    bool   `yaml:"primary_key,omitempty" json:"primary_key,omitempty"`
	Default       string `yaml:"default,omitempty" json:"default,omitempty"`
}

// KeyDoc is the serialisable form of a composite primary key.
type KeyDoc struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []string `yaml:"columns,flow" json:"columns"`
}

// ForeignKeyDoc is the serialisable form of one foreign key.
type ForeignKeyDoc struct {
	Name       string   `yaml:"name" json:"name"`
	Columns    []string `yaml:"columns,flow" json:"columns"`
	RefTable   string   `yaml:"ref_table" json:"ref_table"`
	RefColumns []string `yaml:"ref_columns,flow" json:"ref_columns"`
	OnUpdate   string   `yaml:"on_update" json:"on_update"`
	OnDelete   string   `yaml:"on_delete" json:"on_delete"`
}

// IndexDoc is the serialisable form of one index.
type IndexDoc struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []string `yaml:"columns,flow" json:"columns"`
	Unique  bool     `yaml:"unique" json:"unique"`
}

// NewDocument flattens a model into a Document. source names the database
// the model was introspected from and may be empty.
func NewDocument(m *schema.Model, source string) Document {
	doc := Document{
		Source:      source,
		ExtractedAt: time.Now().UTC(),
		Tables:      make([]TableDoc, 0, len(m.Tables)),
	}

	for _, t := range m.Tables {
		td := TableDoc{
			Name:    t.Name.Name,
			Schema:  t.Name.Schema,
			Catalog: t.Name.Catalog,
			Columns: make([]ColumnDoc, 0, len(t.Columns)),
		}

		for _, c := range t.Columns {
			cd := ColumnDoc{
				Name:          c.Name,
				TypeCode:      c.TypeCode,
				Nullable:      c.Nullable,
				AutoIncrement: c.AutoIncrement,
				PrimaryKey:    c.PrimaryKey,
			}
			if c.Default != nil {
				cd.Default = c.Default.String()
			}
			td.Columns = append(td.Columns, cd)
		}

		if pk := t.PrimaryKey; pk != nil {
			td.PrimaryKey = &KeyDoc{Name: pk.Name, Columns: columnNames(pk.Columns)}
		}

		for _, fk := range t.ForeignKeys {
			td.ForeignKeys = append(td.ForeignKeys, ForeignKeyDoc{
				Name:       fk.Name,
				Columns:    columnNames(fk.Columns),
				RefTable:   fk.RefTable.String(),
				RefColumns: columnNames(fk.RefColumns),
				OnUpdate:   fk.OnUpdate.String(),
				OnDelete:   fk.OnDelete.String(),
			})
		}

		for _, idx := range t.Indexes {
			td.Indexes = append(td.Indexes, IndexDoc{
				Name:    idx.Name,
				Columns: columnNames(idx.Columns),
				Unique:  idx.Unique,
			})
		}

		doc.Tables = append(doc.Tables, td)
	}

	return doc
}

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
