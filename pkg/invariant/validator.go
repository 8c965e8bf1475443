package invariant

import (
	"sort"

	"github.com/sentinelcore/core/pkg/state"
)

// Classification summarizes a validation run at a glance.
type Classification string

const (
	// ClassificationNoIssue means every checked invariant held.
	ClassificationNoIssue Classification = "no_issue"
	// ClassificationSignal is never derived by Validate itself; it exists
	// for callers that want to downgrade a bug after their own triage
	// (e.g. a known false positive pending catalog fix).
	ClassificationSignal Classification = "signal"
	// ClassificationBug means at least one invariant was violated.
	ClassificationBug Classification = "bug"
)

// Violation is one invariant that failed against a specific transition.
type Violation struct {
	ID               string
	Name             string
	Category         Category
	Severity         Severity
	Confidence       float64
	ViolationMessage string
}

// ValidationResult is the outcome of running a set of invariants against a
// transition.
type ValidationResult struct {
	IsValid           bool
	Violations        []Violation
	CheckedInvariants []string
	Classification    Classification
}

// Validator runs invariants from a Catalog against state transitions.
type Validator struct {
	catalog  *Catalog
	coverage *CoverageTracker
}

// NewValidator builds a Validator over catalog. If coverage is non-nil,
// every invariant this validator checks is also recorded against it.
func NewValidator(catalog *Catalog, coverage *CoverageTracker) *Validator {
	return &Validator{catalog: catalog, coverage: coverage}
}

// Validate runs every invariant in the catalog against (before, after).
func (v *Validator) Validate(before, after state.Snapshot) ValidationResult {
	return v.run(v.catalog.All(), before, after)
}

// ValidateCategories runs only the invariants belonging to the given
// categories.
func (v *Validator) ValidateCategories(before, after state.Snapshot, categories ...Category) ValidationResult {
	var invs []Invariant
	for _, cat := range categories {
		invs = append(invs, v.catalog.ByCategory(cat)...)
	}
	return v.run(invs, before, after)
}

// SingleResult is the outcome of checking one specific invariant.
type SingleResult struct {
	Passed    bool
	Violation *Violation
}

// ValidateInvariant runs a single invariant by id. The second return value
// is false if id is not registered in the catalog.
func (v *Validator) ValidateInvariant(id string, before, after state.Snapshot) (SingleResult, bool) {
	inv, ok := v.catalog.Get(id)
	if !ok {
		return SingleResult{}, false
	}
	if v.coverage != nil {
		v.coverage.RecordChecked(id)
	}
	if inv.Check(before, after) {
		return SingleResult{Passed: true}, true
	}
	return SingleResult{Violation: violationFor(inv)}, true
}

func (v *Validator) run(invs []Invariant, before, after state.Snapshot) ValidationResult {
	checked := make([]string, 0, len(invs))
	var violations []Violation
	for _, inv := range invs {
		checked = append(checked, inv.ID)
		if !inv.Check(before, after) {
			violations = append(violations, *violationFor(inv))
		}
	}
	sort.Strings(checked)

	if v.coverage != nil {
		v.coverage.RecordChecked(checked...)
	}

	return ValidationResult{
		IsValid:           len(violations) == 0,
		Violations:        violations,
		CheckedInvariants: checked,
		Classification:    classify(violations),
	}
}

func violationFor(inv Invariant) *Violation {
	return &Violation{
		ID:               inv.ID,
		Name:             inv.Name,
		Category:         inv.Category,
		Severity:         SeverityFor(inv.Category),
		Confidence:       1.0,
		ViolationMessage: inv.ViolationMessage,
	}
}

func classify(violations []Violation) Classification {
	if len(violations) == 0 {
		return ClassificationNoIssue
	}
	return ClassificationBug
}
