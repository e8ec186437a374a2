package pushdown

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edge-gateway/internal/model"
)

func testDevice(t *testing.T, deviceType model.DeviceType) *model.Device {
	t.Helper()
	d, err := model.NewDevice("test-device", deviceType, "test:conn")
	require.NoError(t, err)
	return d
}

func newTestOptimizer() *Optimizer {
	return NewOptimizer(zerolog.Nop())
}

func TestAnalyseSelectStarNoWhere(t *testing.T) {
	o := newTestOptimizer()
	plan := o.Analyse("SELECT * FROM readings", testDevice(t, model.DeviceTypeRelational))

	assert.Empty(t, plan.PushedColumns)
	assert.Empty(t, plan.PushedPredicates)
	assert.Empty(t, plan.LocalPredicates)
	assert.True(t, plan.HasFullPushdown())
	assert.Zero(t, plan.PushedLimit)
}

func TestAnalyseExplicitColumnsSimplePredicates(t *testing.T) {
	o := newTestOptimizer()
	sql := "SELECT a,b FROM t WHERE a=1 AND b IN (2,3)"
	plan := o.Analyse(sql, testDevice(t, model.DeviceTypeRelational))

	assert.Equal(t, []string{"a", "b"}, plan.PushedColumns)
	assert.Equal(t, []string{"a=1", "b IN (2,3)"}, plan.PushedPredicates)
	assert.Empty(t, plan.LocalPredicates)
	assert.True(t, plan.HasFullPushdown())

	// Full pushdown with explicit columns forwards the query unchanged.
	assert.Equal(t, sql, o.RewriteForDevice(sql, plan))
}

func TestAnalyseNonCapableDeviceKeepsWholeWhereLocal(t *testing.T) {
	o := newTestOptimizer()
	sql := "SELECT a,b FROM t WHERE a=1 AND b IN (2,3)"
	plan := o.Analyse(sql, testDevice(t, model.DeviceTypeFile))

	assert.Empty(t, plan.PushedPredicates)
	require.Len(t, plan.LocalPredicates, 1)
	assert.Equal(t, "a=1 AND b IN (2,3)", plan.LocalPredicates[0])
	assert.False(t, plan.HasFullPushdown())

	rewritten := o.RewriteForDevice(sql, plan)
	assert.Equal(t, "SELECT a,b FROM t WHERE 1=1", rewritten)
}

func TestAnalyseLimitVariants(t *testing.T) {
	o := newTestOptimizer()
	dev := testDevice(t, model.DeviceTypeRelational)

	plan := o.Analyse("SELECT * FROM t LIMIT 50", dev)
	assert.Equal(t, 50, plan.PushedLimit)

	plan = o.Analyse("SELECT * FROM t FETCH FIRST 50 ROWS ONLY", dev)
	assert.Equal(t, 50, plan.PushedLimit)

	// Limit pushdown is always attempted, capability or not.
	plan = o.Analyse("SELECT * FROM t LIMIT 7", testDevice(t, model.DeviceTypeStream))
	assert.Equal(t, 7, plan.PushedLimit)
}

func TestAnalyseOrderByOnlyForSortCapable(t *testing.T) {
	o := newTestOptimizer()
	sql := "SELECT a FROM t WHERE a > 3 ORDER BY a DESC"

	plan := o.Analyse(sql, testDevice(t, model.DeviceTypeRelational))
	assert.Equal(t, "a DESC", plan.PushedOrderBy)

	// REST devices push predicates but not sorting.
	plan = o.Analyse(sql, testDevice(t, model.DeviceTypeRest))
	assert.Empty(t, plan.PushedOrderBy)
	assert.Equal(t, []string{"a > 3"}, plan.PushedPredicates)
}

func TestAnalyseWhereStopsAtClauseBoundary(t *testing.T) {
	o := newTestOptimizer()
	plan := o.Analyse("SELECT a FROM t WHERE a=1 ORDER BY a LIMIT 10", testDevice(t, model.DeviceTypeRelational))

	assert.Equal(t, []string{"a=1"}, plan.PushedPredicates)
	assert.Equal(t, "a", plan.PushedOrderBy)
	assert.Equal(t, 10, plan.PushedLimit)
}

func TestAnalyseSubqueryStaysLocal(t *testing.T) {
	o := newTestOptimizer()
	sql := "SELECT a FROM t WHERE a IN (SELECT id FROM other) AND b = 2"
	plan := o.Analyse(sql, testDevice(t, model.DeviceTypeRelational))

	assert.Equal(t, []string{"b = 2"}, plan.PushedPredicates)
	assert.Equal(t, []string{"a IN (SELECT id FROM other)"}, plan.LocalPredicates)
	assert.False(t, plan.HasFullPushdown())

	rewritten := o.RewriteForDevice(sql, plan)
	assert.Equal(t, "SELECT a FROM t WHERE 1=1 AND b = 2", rewritten)
}

func TestAnalyseParenthesizedOrGroupNotDecomposed(t *testing.T) {
	o := newTestOptimizer()
	sql := "SELECT a FROM t WHERE (a = 1 OR b = 2) AND c = 3"
	plan := o.Analyse(sql, testDevice(t, model.DeviceTypeRelational))

	// The OR group travels as one fragment; the AND inside parens would
	// never split it either.
	assert.Equal(t, []string{"(a = 1 OR b = 2)", "c = 3"}, plan.PushedPredicates)
	assert.Empty(t, plan.LocalPredicates)
}

func TestAnalyseAndInsideParensDoesNotSplit(t *testing.T) {
	o := newTestOptimizer()
	sql := "SELECT a FROM t WHERE (a = 1 AND b = 2) OR c = 3"
	plan := o.Analyse(sql, testDevice(t, model.DeviceTypeRelational))

	require.Len(t, plan.PushedPredicates, 1)
	assert.Equal(t, "(a = 1 AND b = 2) OR c = 3", plan.PushedPredicates[0])
}

func TestAnalyseComparisonGrammar(t *testing.T) {
	o := newTestOptimizer()
	dev := testDevice(t, model.DeviceTypeRelational)

	cases := []struct {
		name     string
		where    string
		pushable bool
	}{
		{"equality", "a = 1", true},
		{"inequality", "a != 1", true},
		{"angle inequality", "a <> 1", true},
		{"ordering", "a >= 10", true},
		{"like", "name LIKE 'abc%'", true},
		{"is null", "a IS NULL", true},
		{"is not null", "a IS NOT NULL", true},
		{"udf call", "LOWER(a) || b", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := o.Analyse("SELECT x FROM t WHERE "+tc.where, dev)
			if tc.pushable {
				assert.NotEmpty(t, plan.PushedPredicates, "expected %q pushed", tc.where)
				assert.Empty(t, plan.LocalPredicates)
			} else {
				assert.Empty(t, plan.PushedPredicates)
				assert.NotEmpty(t, plan.LocalPredicates, "expected %q local", tc.where)
			}
		})
	}
}

func TestAnalyseBetweenSplitsOnItsAnd(t *testing.T) {
	o := newTestOptimizer()
	plan := o.Analyse("SELECT x FROM t WHERE a BETWEEN 1 AND 10", testDevice(t, model.DeviceTypeRelational))

	// The splitter does not special-case the AND inside BETWEEN, so the
	// range degrades into a pushed head and a local tail.
	assert.Equal(t, []string{"a BETWEEN 1"}, plan.PushedPredicates)
	assert.Equal(t, []string{"10"}, plan.LocalPredicates)
}

func TestAnalyseMultiByteLiteralsSplitSafely(t *testing.T) {
	o := newTestOptimizer()
	dev := testDevice(t, model.DeviceTypeRelational)

	// U+017F uppercases to ASCII "S", so a case-folded copy of the clause
	// would be shorter than the original bytes.
	var plan *Plan
	require.NotPanics(t, func() {
		plan = o.Analyse("SELECT a FROM t WHERE name = 'ſſſ' AND b = 1", dev)
	})
	assert.Equal(t, []string{"name = 'ſſſ'", "b = 1"}, plan.PushedPredicates)
	assert.Empty(t, plan.LocalPredicates)

	plan = o.Analyse("SELECT a FROM t WHERE city = 'Zürich' and population > 100000", dev)
	assert.Equal(t, []string{"city = 'Zürich'", "population > 100000"}, plan.PushedPredicates)
	assert.Empty(t, plan.LocalPredicates)
}

func TestIsSimplePredicateGrammar(t *testing.T) {
	assert.True(t, isSimplePredicate("a BETWEEN 1 AND 10"))
	assert.True(t, isSimplePredicate("region IN ('eu', 'us')"))
	assert.False(t, isSimplePredicate("id IN (SELECT id FROM archived)"))
	assert.False(t, isSimplePredicate("COALESCE(a, b)"))
	assert.False(t, isSimplePredicate("TRUE"))
}

func TestAnalyseUnparseableQueryDegradesSafely(t *testing.T) {
	o := newTestOptimizer()
	plan := o.Analyse("EXPLAIN PLAN FOR something weird", testDevice(t, model.DeviceTypeRelational))

	assert.Empty(t, plan.PushedColumns)
	assert.Empty(t, plan.PushedPredicates)
	assert.Empty(t, plan.LocalPredicates)
	assert.Zero(t, plan.PushedLimit)
}

func TestRewriteReplacesEveryOccurrence(t *testing.T) {
	o := newTestOptimizer()
	plan := &Plan{LocalPredicates: []string{"a = 1"}}

	// Literal substitution hits both occurrences; a documented ambiguity
	// of the text-based rewrite.
	rewritten := o.RewriteForDevice("SELECT * FROM t WHERE a = 1 OR (a = 1)", plan)
	assert.Equal(t, "SELECT * FROM t WHERE 1=1 OR (1=1)", rewritten)
}

func TestPlanSummary(t *testing.T) {
	o := newTestOptimizer()
	plan := o.Analyse("SELECT a,b FROM t WHERE a=1 LIMIT 5", testDevice(t, model.DeviceTypeRelational))

	assert.Contains(t, plan.Summary, "a b")
	assert.Contains(t, plan.Summary, "a=1")
	assert.Contains(t, plan.Summary, "limit=5")

	starPlan := o.Analyse("SELECT * FROM t", testDevice(t, model.DeviceTypeRelational))
	assert.Contains(t, starPlan.Summary, "columns=*")
	assert.Contains(t, starPlan.Summary, "limit=none")
}
