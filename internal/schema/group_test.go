package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frag struct {
	key string
	seq int
	val string
}

func TestGroupFragments(t *testing.T) {
	rows := []frag{
		{key: "b", seq: 2, val: "b2"},
		{key: "a", seq: 1, val: "a1"},
		{key: "b", seq: 1, val: "b1"},
		{key: "a", seq: 2, val: "a2"},
		{key: "b", seq: 3, val: "b3"},
	}

	groups := groupFragments(rows,
		func(r frag) string { return r.key },
		func(r frag) int { return r.seq },
		func(x, y string) bool { return x < y },
	)

	require.Len(t, groups, 2)

	// groups sorted by key
	assert.Equal(t, "a", groups[0].key)
	assert.Equal(t, "b", groups[1].key)

	// rows within a group sorted by sequence, regardless of arrival order
	assert.Equal(t, []frag{{"a", 1, "a1"}, {"a", 2, "a2"}}, groups[0].rows)
	assert.Equal(t, []frag{{"b", 1, "b1"}, {"b", 2, "b2"}, {"b", 3, "b3"}}, groups[1].rows)
}

func TestGroupFragments_StableWithinEqualSeq(t *testing.T) {
	rows := []frag{
		{key: "k", seq: 1, val: "first"},
		{key: "k", seq: 1, val: "second"},
	}

	groups := groupFragments(rows,
		func(r frag) string { return r.key },
		func(r frag) int { return r.seq },
		func(x, y string) bool { return x < y },
	)

	require.Len(t, groups, 1)
	assert.Equal(t, "first", groups[0].rows[0].val)
	assert.Equal(t, "second", groups[0].rows[1].val)
}

func TestGroupFragments_Empty(t *testing.T) {
	groups := groupFragments(nil,
		func(r frag) string { return r.key },
		func(r frag) int { return r.seq },
		func(x, y string) bool { return x < y },
	)
	assert.Empty(t, groups)
}
