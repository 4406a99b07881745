package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relmodel/relmodel/internal/schema"
)

func TestRuleForConftype(t *testing.T) {
	tests := []struct {
		conftype string
		want     schema.RuleCode
	}{
		{"c", schema.RuleCascade},
		{"r", schema.RuleRestrict},
		{"n", schema.RuleSetNull},
		{"d", schema.RuleSetDefault},
		{"a", schema.RuleNoAction},
		{"", schema.RuleNoAction},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ruleForConftype(tt.conftype))
	}
}
