package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relmodel/relmodel/internal/schema"
)

func TestAffinityCode(t *testing.T) {
	tests := []struct {
		declType string
		want     int
	}{
		{"INTEGER", typeInteger},
		{"int", typeInteger},
		{"BIGINT", typeInteger},
		{"UNSIGNED BIG INT", typeInteger},
		{"VARCHAR(255)", typeText},
		{"NCHAR(55)", typeText},
		{"CLOB", typeText},
		{"TEXT", typeText},
		{"BLOB", typeBlob},
		{"", typeBlob},
		{"REAL", typeFloat},
		{"DOUBLE PRECISION", typeFloat},
		{"FLOAT", typeFloat},
		{"NUMERIC", typeNumeric},
		{"DECIMAL(10,5)", typeNumeric},
		{"BOOLEAN", typeNumeric},
		{"DATE", typeNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.declType, func(t *testing.T) {
			assert.Equal(t, tt.want, affinityCode(tt.declType))
		})
	}
}

func TestRuleForText(t *testing.T) {
	assert.Equal(t, schema.RuleCascade, ruleForText("CASCADE"))
	assert.Equal(t, schema.RuleRestrict, ruleForText("restrict"))
	assert.Equal(t, schema.RuleSetNull, ruleForText("SET NULL"))
	assert.Equal(t, schema.RuleSetDefault, ruleForText("SET DEFAULT"))
	assert.Equal(t, schema.RuleNoAction, ruleForText("NO ACTION"))
	assert.Equal(t, schema.RuleNoAction, ruleForText(""))
}
