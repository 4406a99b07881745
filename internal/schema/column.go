package schema

import (
	"strconv"
	"strings"

	"github.com/relmodel/relmodel/internal/errs"
)

// buildColumn converts one raw catalog column row into a Column.
//
// pkColumns is the table's complete, sequence-ordered primary-key column
// name list: the folded PrimaryKey flag depends on the total key
// cardinality, not on anything visible in the row itself. Pure function of
// its inputs.
func buildColumn(row ColumnRow, pkColumns []string) (*Column, error) {
	if row.Name == "" {
		return nil, errs.Newf(errs.ErrKindMalformedInput,
			"column row for table %s has no column name", row.Table)
	}

	// Nullability defaults to true when the catalog does not report it.
	nullable := true
	if row.Nullable != nil {
		nullable = *row.Nullable
	}

	col := &Column{
		Name:          row.Name,
		Table:         row.Table,
		TypeCode:      row.TypeCode,
		Nullable:      nullable,
		AutoIncrement: row.AutoIncrement != nil && *row.AutoIncrement,
	}

	if row.Default != nil {
		col.Default = parseDefault(*row.Default)
	}

	if len(pkColumns) == 1 && pkColumns[0] == row.Name {
		col.PrimaryKey = true
	}

	return col, nil
}

// parseDefault interprets a textual default-value literal, trying in order:
// integer literal, decimal literal, single-quoted string literal, and the
// literal token NULL (meaning "no default"). Any other literal form —
// function calls, vendor expressions — is silently dropped rather than
// encoded. Lossy on purpose: not every vendor default is representable.
func parseDefault(lit string) *DefaultValue {
	s := strings.TrimSpace(lit)
	if s == "" {
		return nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &DefaultValue{Kind: DefaultInt, Int: i}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &DefaultValue{Kind: DefaultFloat, Float: f}
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return &DefaultValue{Kind: DefaultString, Str: s[1 : len(s)-1]}
	}
	if strings.EqualFold(s, "NULL") {
		return nil
	}

	return nil
}
