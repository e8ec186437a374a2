package pushdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"edge-gateway/internal/model"
)

// Device types that evaluate comparison predicates natively. REST devices
// qualify because filter parameters map onto simple comparisons.
var predicateCapable = map[model.DeviceType]bool{
	model.DeviceTypeRelational: true,
	model.DeviceTypeRest:       true,
}

// Device types that sort natively.
var sortCapable = map[model.DeviceType]bool{
	model.DeviceTypeRelational: true,
}

// Clause-boundary patterns for lightweight SQL inspection. This is a
// heuristic text pass over a single flat SELECT, not a parser.
var (
	selectColsPat = regexp.MustCompile(`(?is)^\s*SELECT\s+(.+?)\s+FROM\b`)
	wherePat      = regexp.MustCompile(`(?is)\bWHERE\s+(.+?)(?:\s+(?:GROUP\s+BY|ORDER\s+BY|LIMIT|FETCH)\b|$)`)
	orderByPat    = regexp.MustCompile(`(?is)\bORDER\s+BY\s+(.+?)(?:\s+(?:LIMIT|FETCH)\b|$)`)
	limitPat      = regexp.MustCompile(`(?is)\bLIMIT\s+(\d+)|\bFETCH\s+FIRST\s+(\d+)\s+ROWS\s+ONLY`)

	// Comparison grammar safe to forward: =, !=, <>, ordering operators,
	// LIKE, IN, BETWEEN, IS [NOT] NULL.
	simplePredicatePat = regexp.MustCompile(
		`(?i)\b\w+\s*(?:=|!=|<>|>=|<=|>|<|\bLIKE\b|\bIN\b|\bBETWEEN\b|\bIS\s+(?:NOT\s+)?NULL\b)`)
)

// Optimizer classifies which fragments of a query the target device can
// evaluate natively and which stay with the caller, so the gateway avoids
// transferring unfiltered data and avoids sending syntax the device cannot
// execute. Analysis never fails: anything unrecognized degrades to "nothing
// pushed, everything local", which is always safe.
type Optimizer struct {
	logger zerolog.Logger
}

// NewOptimizer creates an optimizer.
func NewOptimizer(logger zerolog.Logger) *Optimizer {
	return &Optimizer{
		logger: logger.With().Str("component", "pushdown_optimizer").Logger(),
	}
}

// Analyse inspects sql in the context of the target device and returns a
// plan. Never returns nil.
func (o *Optimizer) Analyse(sql string, dev *model.Device) *Plan {
	o.logger.Debug().
		Str("device_name", dev.Name()).
		Str("device_type", string(dev.Type())).
		Str("sql", sql).
		Msg("analysing query for pushdown")

	plan := &Plan{}

	// Projection pushdown. A bare * means no explicit columns, nothing
	// to push.
	if cols := extractSelectColumns(sql); len(cols) > 0 && !containsStar(cols) {
		plan.PushedColumns = cols
	}

	// Predicate pushdown. Non-capable devices keep the whole WHERE
	// clause as a single local fragment.
	if predicateCapable[dev.Type()] {
		o.classifyPredicates(sql, plan)
	} else if where := extractWhereClause(sql); where != "" {
		plan.LocalPredicates = append(plan.LocalPredicates, where)
	}

	// ORDER BY pushdown.
	if sortCapable[dev.Type()] {
		plan.PushedOrderBy = extractOrderBy(sql)
	}

	// LIMIT pushdown is attempted regardless of device capability.
	plan.PushedLimit = extractLimit(sql)

	plan.summarize()

	o.logger.Info().
		Str("device_name", dev.Name()).
		Str("plan", plan.Summary).
		Msg("pushdown plan ready")

	return plan
}

// RewriteForDevice applies the plan to the original SQL, producing the
// statement actually sent to the device. With full pushdown and explicit
// columns the query goes out unchanged. Otherwise each local-predicate
// fragment is replaced with the tautology 1=1 so the device does not choke
// on syntax it cannot evaluate. Replacement is literal text substitution;
// if the same fragment text appears twice in one query every occurrence is
// replaced, a known limitation of the heuristic design.
func (o *Optimizer) RewriteForDevice(originalSQL string, plan *Plan) string {
	if plan.HasFullPushdown() && len(plan.PushedColumns) > 0 {
		return originalSQL
	}

	rewritten := originalSQL
	for _, local := range plan.LocalPredicates {
		rewritten = strings.ReplaceAll(rewritten, local, "1=1")
	}
	return rewritten
}

func (o *Optimizer) classifyPredicates(sql string, plan *Plan) {
	where := extractWhereClause(sql)
	if where == "" {
		return
	}

	for _, fragment := range splitTopLevelAnd(where) {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		if isSimplePredicate(fragment) {
			plan.PushedPredicates = append(plan.PushedPredicates, fragment)
		} else {
			plan.LocalPredicates = append(plan.LocalPredicates, fragment)
			o.logger.Debug().Str("predicate", fragment).Msg("predicate retained for local evaluation")
		}
	}
}

// isSimplePredicate accepts fragments matching the comparison grammar and
// rejects anything containing a nested SELECT.
func isSimplePredicate(fragment string) bool {
	if strings.Contains(fragment, "(") && strings.Contains(strings.ToLower(fragment), "select") {
		return false
	}
	return simplePredicatePat.MatchString(fragment)
}

func extractSelectColumns(sql string) []string {
	m := selectColsPat.FindStringSubmatch(sql)
	if m == nil {
		return nil
	}
	raw := strings.TrimSpace(m[1])
	if raw == "*" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.TrimSpace(p))
	}
	return cols
}

func containsStar(cols []string) bool {
	for _, c := range cols {
		if c == "*" {
			return true
		}
	}
	return false
}

func extractWhereClause(sql string) string {
	m := wherePat.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func extractOrderBy(sql string) string {
	m := orderByPat.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractLimit recognizes LIMIT n and FETCH FIRST n ROWS ONLY; 0 means no
// limit found.
func extractLimit(sql string) int {
	m := limitPat.FindStringSubmatch(sql)
	if m == nil {
		return 0
	}
	val := m[1]
	if val == "" {
		val = m[2]
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}

// splitTopLevelAnd splits a WHERE clause on AND conjunctions outside any
// parentheses. Parenthesized groups, including OR groups, travel as a
// single undecomposed fragment. Matching is done on the original bytes so
// multi-byte runes in string literals never shift the scan.
func splitTopLevelAnd(where string) []string {
	var fragments []string
	depth := 0
	start := 0

	for i := 0; i < len(where); i++ {
		switch where[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && i+3 <= len(where) && strings.EqualFold(where[i:i+3], "AND") &&
				boundaryBefore(where, i) && boundaryAfter(where, i+3) {
				fragments = append(fragments, where[start:i])
				i += 2
				start = i + 1
			}
		}
	}
	fragments = append(fragments, where[start:])

	return fragments
}

func boundaryBefore(s string, i int) bool {
	return i == 0 || !isWordByte(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	return i >= len(s) || !isWordByte(s[i])
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
