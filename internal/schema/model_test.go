package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualifiedName_String(t *testing.T) {
	tests := []struct {
		name string
		qn   QualifiedName
		want string
	}{
		{"bare name", QualifiedName{Name: "orders"}, "orders"},
		{"schema qualified", QualifiedName{Name: "orders", Schema: "public"}, "public.orders"},
		{"fully qualified", QualifiedName{Name: "orders", Schema: "sales", Catalog: "shop"}, "shop.sales.orders"},
		{"catalog without schema", QualifiedName{Name: "orders", Catalog: "shop"}, "shop.orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.qn.String())
		})
	}
}

func TestQualifiedName_Less(t *testing.T) {
	a := QualifiedName{Name: "a", Schema: "public"}
	b := QualifiedName{Name: "b", Schema: "public"}
	other := QualifiedName{Name: "a", Schema: "sales"}

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Less(other)) // schema compares before name
	assert.False(t, a.Less(a))
}

func TestActionForRule(t *testing.T) {
	tests := []struct {
		code RuleCode
		want ReferentialAction
	}{
		{RuleCascade, ActionCascade},
		{RuleRestrict, ActionRestrict},
		{RuleSetNull, ActionSetNull},
		{RuleNoAction, ActionNoAction},
		{RuleSetDefault, ActionSetDefault},
		{RuleCode(99), ActionNoAction}, // unknown codes degrade to NO ACTION
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, actionForRule(tt.code))
	}
}

func TestReferentialAction_String(t *testing.T) {
	assert.Equal(t, "CASCADE", ActionCascade.String())
	assert.Equal(t, "RESTRICT", ActionRestrict.String())
	assert.Equal(t, "NO ACTION", ActionNoAction.String())
	assert.Equal(t, "SET NULL", ActionSetNull.String())
	assert.Equal(t, "SET DEFAULT", ActionSetDefault.String())
}

func TestDefaultValue_String(t *testing.T) {
	assert.Equal(t, "42", DefaultValue{Kind: DefaultInt, Int: 42}.String())
	assert.Equal(t, "3.14", DefaultValue{Kind: DefaultFloat, Float: 3.14}.String())
	assert.Equal(t, "open", DefaultValue{Kind: DefaultString, Str: "open"}.String())
}

func TestTable_Column(t *testing.T) {
	tbl := &Table{
		Name: qn("orders"),
		Columns: []*Column{
			{Name: "id"},
			{Name: "status"},
		},
	}

	assert.Same(t, tbl.Columns[1], tbl.Column("status"))
	assert.Nil(t, tbl.Column("missing"))
}

func TestModel_Table(t *testing.T) {
	m := &Model{Tables: []*Table{{Name: qn("orders")}}}

	assert.Same(t, m.Tables[0], m.Table(qn("orders")))
	assert.Nil(t, m.Table(qn("missing")))
}
