package pushdown

import (
	"fmt"
	"strconv"
	"strings"
)

// Plan describes what the optimizer was able to delegate to the target
// device and what remains the caller's responsibility after rows come back.
type Plan struct {
	// PushedColumns are the columns explicitly requested in the SELECT
	// clause; empty means the device returns all columns.
	PushedColumns []string `json:"pushedColumns"`

	// PushedPredicates are WHERE fragments the device evaluates natively.
	PushedPredicates []string `json:"pushedPredicates"`

	// LocalPredicates are WHERE fragments the device cannot evaluate.
	// The engine does not filter these itself; it only reports them.
	LocalPredicates []string `json:"localPredicates"`

	// PushedOrderBy is the ORDER BY clause forwarded to sort-capable
	// devices, empty otherwise.
	PushedOrderBy string `json:"pushedOrderBy,omitempty"`

	// PushedLimit is the row limit forwarded to the device; 0 means
	// unbounded.
	PushedLimit int `json:"pushedLimit,omitempty"`

	// Summary is a human-readable rendering for logs and query plans.
	Summary string `json:"summary"`
}

// HasFullPushdown reports whether the device evaluates every predicate,
// i.e. nothing is left for local evaluation.
func (p *Plan) HasFullPushdown() bool {
	return len(p.LocalPredicates) == 0
}

func (p *Plan) summarize() {
	cols := "*"
	if len(p.PushedColumns) > 0 {
		cols = "[" + strings.Join(p.PushedColumns, " ") + "]"
	}
	limit := "none"
	if p.PushedLimit > 0 {
		limit = strconv.Itoa(p.PushedLimit)
	}
	p.Summary = fmt.Sprintf("PushdownPlan[columns=%s, pushedPredicates=%v, localPredicates=%v, limit=%s]",
		cols, p.PushedPredicates, p.LocalPredicates, limit)
}
