package invariant

// Severity ranks how serious a violation is, independent of how confident
// the detector is that it fired correctly.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// severityByCategory is the fixed derivation table: severity is a function
// of category alone, never of the specific invariant or the values involved
// in the violation.
var severityByCategory = map[Category]Severity{
	Monetary:          SeverityCritical,
	Authorization:     SeverityHigh,
	Trust:             SeverityHigh,
	DataIntegrity:     SeverityHigh,
	SessionManagement: SeverityHigh,
	Workflow:          SeverityMedium,
	InputValidation:   SeverityMedium,
	RateLimiting:      SeverityMedium,
	Custom:            SeverityMedium,
}

// SeverityFor returns the derived severity for a category.
func SeverityFor(c Category) Severity {
	if s, ok := severityByCategory[c]; ok {
		return s
	}
	return SeverityMedium
}

// gapSeverityByCategory extends the same idea to coverage gaps. Monetary and
// Authorization/Trust/SessionManagement gaps keep the same severity as a
// violation in those categories; DataIntegrity gaps drop to Medium and
// InputValidation/RateLimiting/Custom gaps drop to Low.
var gapSeverityByCategory = map[Category]Severity{
	Monetary:          SeverityCritical,
	Authorization:     SeverityHigh,
	Trust:             SeverityHigh,
	SessionManagement: SeverityHigh,
	DataIntegrity:     SeverityMedium,
	Workflow:          SeverityMedium,
	InputValidation:   SeverityLow,
	RateLimiting:      SeverityLow,
	Custom:            SeverityLow,
}

// GapSeverityFor returns the derived severity for a coverage gap in category c.
func GapSeverityFor(c Category) Severity {
	if s, ok := gapSeverityByCategory[c]; ok {
		return s
	}
	return SeverityLow
}
