package schema

import "sort"

// fragmentGroup is one composite entity's worth of catalog fragment rows,
// ordered by sequence position.
type fragmentGroup[K comparable, R any] struct {
	key  K
	rows []R
}

// groupFragments collapses flat fragment rows into ordered groups.
//
// Three catalog views — primary keys, foreign keys, indices — share the
// same shape: many rows, one per participating column, that must become a
// single composite entity with a well-defined column order. The routine is
// written once and specialised by each resolver:
//
//  1. rows are grouped by key,
//  2. within each group, rows are sorted by sequence position, recovering
//     the declared column order independent of catalog row-return order,
//  3. the groups themselves are sorted by keyLess, so model output order is
//     stable across runs against the same catalog.
func groupFragments[K comparable, R any](
	rows []R,
	key func(R) K,
	seq func(R) int,
	keyLess func(K, K) bool,
) []fragmentGroup[K, R] {
	byKey := make(map[K][]R)
	var keys []K
	for _, r := range rows {
		k := key(r)
		if _, ok := byKey[k]; !ok {
			keys = append(keys, k)
		}
		byKey[k] = append(byKey[k], r)
	}

	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	groups := make([]fragmentGroup[K, R], 0, len(keys))
	for _, k := range keys {
		g := fragmentGroup[K, R]{key: k, rows: byKey[k]}
		sort.SliceStable(g.rows, func(i, j int) bool { return seq(g.rows[i]) < seq(g.rows[j]) })
		groups = append(groups, g)
	}
	return groups
}
