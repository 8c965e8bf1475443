package invariant

import (
	"sort"
	"sync"
)

// CoverageTracker records which invariants have actually been exercised by
// a Validator over the tracker's lifetime, and which transitions could not
// be classified into any registered category. It never marks a coverage
// report complete: new attack surface always arrives faster than the
// catalog can be extended to cover it, so IsComplete is a hard-coded false
// rather than a computed one.
type CoverageTracker struct {
	mu            sync.Mutex
	catalog       *Catalog
	checked       map[string]struct{}
	unclassified  []string
}

// NewCoverageTracker builds a tracker scoped to catalog.
func NewCoverageTracker(catalog *Catalog) *CoverageTracker {
	return &CoverageTracker{
		catalog: catalog,
		checked: make(map[string]struct{}),
	}
}

// RecordChecked marks the given invariant ids as having been exercised at
// least once.
func (t *CoverageTracker) RecordChecked(ids ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		t.checked[id] = struct{}{}
	}
}

// RecordUnclassified logs a transition (by human-readable description) that
// no registered invariant category could meaningfully evaluate.
func (t *CoverageTracker) RecordUnclassified(description string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unclassified = append(t.unclassified, description)
}

// CategoryCoverage is the per-category breakdown of a CoverageReport.
type CategoryCoverage struct {
	Total     int
	Covered   int
	Uncovered []string
}

// Gap is one coverage shortfall the report surfaces for triage.
type Gap struct {
	Category     Category
	Severity     Severity
	UncoveredIDs []string
	Descriptions []string // populated only for the synthetic "unclassified" gap
}

// CoverageReport summarizes exercised vs. registered invariants.
type CoverageReport struct {
	Total      int
	Covered    int
	Percentage float64
	ByCategory map[Category]CategoryCoverage
	Gaps       []Gap
	IsComplete bool
}

// unclassifiedGapCategory is a sentinel category used only inside a
// CoverageReport's synthetic gap entry for transitions no real category
// could classify. It is never registered in a Catalog.
const unclassifiedGapCategory Category = "Unclassified"

// Report computes a snapshot of coverage against the tracker's catalog.
func (t *CoverageTracker) Report() CoverageReport {
	t.mu.Lock()
	checked := make(map[string]struct{}, len(t.checked))
	for id := range t.checked {
		checked[id] = struct{}{}
	}
	unclassified := append([]string{}, t.unclassified...)
	t.mu.Unlock()

	byCategory := make(map[Category]CategoryCoverage)
	var gaps []Gap
	total, covered := 0, 0

	for _, cat := range t.catalog.Categories() {
		invs := t.catalog.ByCategory(cat)
		cc := CategoryCoverage{Total: len(invs)}
		for _, inv := range invs {
			total++
			if _, ok := checked[inv.ID]; ok {
				covered++
				cc.Covered++
			} else {
				cc.Uncovered = append(cc.Uncovered, inv.ID)
			}
		}
		sort.Strings(cc.Uncovered)
		byCategory[cat] = cc
		if len(cc.Uncovered) > 0 {
			gaps = append(gaps, Gap{
				Category:     cat,
				Severity:     GapSeverityFor(cat),
				UncoveredIDs: cc.Uncovered,
			})
		}
	}

	if len(unclassified) > 0 {
		gaps = append(gaps, Gap{
			Category:     unclassifiedGapCategory,
			Severity:     SeverityMedium,
			Descriptions: unclassified,
		})
	}

	sort.Slice(gaps, func(i, j int) bool { return gaps[i].Category < gaps[j].Category })

	pct := 0.0
	if total > 0 {
		pct = float64(covered) / float64(total)
	}

	return CoverageReport{
		Total:      total,
		Covered:    covered,
		Percentage: pct,
		ByCategory: byCategory,
		Gaps:       gaps,
		IsComplete: false,
	}
}
