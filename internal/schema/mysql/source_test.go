package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmodel/relmodel/internal/schema"
)

func TestFieldTypeCode(t *testing.T) {
	tests := []struct {
		dataType string
		want     int
	}{
		{"int", 3},
		{"INT", 3},
		{"bigint", 8},
		{"varchar", 15},
		{"text", 252},
		{"longtext", 251},
		{"char", 254},
		{"json", 245},
		{"enum", 247},
		{"decimal", 246},
		{"some_future_type", 0},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			assert.Equal(t, tt.want, fieldTypeCode(tt.dataType))
		})
	}
}

func TestRuleForText(t *testing.T) {
	assert.Equal(t, schema.RuleCascade, ruleForText("CASCADE"))
	assert.Equal(t, schema.RuleRestrict, ruleForText("RESTRICT"))
	assert.Equal(t, schema.RuleSetNull, ruleForText("SET NULL"))
	assert.Equal(t, schema.RuleSetDefault, ruleForText("SET DEFAULT"))
	assert.Equal(t, schema.RuleNoAction, ruleForText("NO ACTION"))
}

func TestQuoteStringDefault(t *testing.T) {
	open := "open"
	ten := "10"

	quoted := quoteStringDefault(&open, "varchar")
	require.NotNil(t, quoted)
	assert.Equal(t, "'open'", *quoted)

	quoted = quoteStringDefault(&open, "enum")
	require.NotNil(t, quoted)
	assert.Equal(t, "'open'", *quoted)

	// numeric defaults pass through untouched
	passthrough := quoteStringDefault(&ten, "int")
	require.NotNil(t, passthrough)
	assert.Equal(t, "10", *passthrough)

	assert.Nil(t, quoteStringDefault(nil, "varchar"))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, any("sales"), orDefault("sales", nil))
	assert.Nil(t, orDefault("", nil))
}
