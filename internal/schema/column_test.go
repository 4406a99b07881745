package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmodel/relmodel/internal/errs"
)

func TestBuildColumn(t *testing.T) {
	row := ColumnRow{
		Table:    qn("orders"),
		Name:     "status",
		TypeCode: 1043,
		Position: 3,
		Nullable: boolp(false),
		Default:  strp("'open'"),
	}

	col, err := buildColumn(row, nil)
	require.NoError(t, err)

	assert.Equal(t, "status", col.Name)
	assert.Equal(t, qn("orders"), col.Table)
	assert.Equal(t, 1043, col.TypeCode)
	assert.False(t, col.Nullable)
	assert.False(t, col.AutoIncrement)
	require.NotNil(t, col.Default)
	assert.Equal(t, DefaultString, col.Default.Kind)
	assert.Equal(t, "open", col.Default.Str)
}

func TestBuildColumn_MissingName(t *testing.T) {
	_, err := buildColumn(ColumnRow{Table: qn("orders")}, nil)
	require.Error(t, err)
	assert.True(t, errs.IsMalformedInput(err))
}

func TestBuildColumn_PrimaryKeyFlag(t *testing.T) {
	tests := []struct {
		name      string
		pkColumns []string
		want      bool
	}{
		{"sole key column", []string{"id"}, true},
		{"different key column", []string{"code"}, false},
		{"member of composite key", []string{"id", "region"}, false},
		{"no key at all", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := buildColumn(ColumnRow{Table: qn("t"), Name: "id", Position: 1}, tt.pkColumns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, col.PrimaryKey)
		})
	}
}

func TestParseDefault(t *testing.T) {
	tests := []struct {
		name string
		lit  string
		want *DefaultValue
	}{
		{"integer", "42", &DefaultValue{Kind: DefaultInt, Int: 42}},
		{"negative integer", "-7", &DefaultValue{Kind: DefaultInt, Int: -7}},
		{"decimal", "3.14", &DefaultValue{Kind: DefaultFloat, Float: 3.14}},
		{"quoted string", "'open'", &DefaultValue{Kind: DefaultString, Str: "open"}},
		{"empty quoted string", "''", &DefaultValue{Kind: DefaultString, Str: ""}},
		{"padded literal", "  10 ", &DefaultValue{Kind: DefaultInt, Int: 10}},
		{"null token", "NULL", nil},
		{"null token lowercase", "null", nil},
		{"function call dropped", "now()", nil},
		{"vendor expression dropped", "nextval('orders_id_seq'::regclass)", nil},
		{"empty literal", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDefault(tt.lit))
		})
	}
}
