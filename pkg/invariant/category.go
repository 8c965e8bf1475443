package invariant

// Category groups invariants by the security concern they check.
type Category string

const (
	Authorization     Category = "Authorization"
	Monetary          Category = "Monetary"
	Workflow          Category = "Workflow"
	Trust             Category = "Trust"
	DataIntegrity     Category = "DataIntegrity"
	SessionManagement Category = "SessionManagement"
	InputValidation   Category = "InputValidation"
	RateLimiting      Category = "RateLimiting"
	Custom            Category = "Custom"
)

// AllCategories lists every category, in a stable order used for
// deterministic report iteration.
var AllCategories = []Category{
	Authorization, Monetary, Workflow, Trust, DataIntegrity,
	SessionManagement, InputValidation, RateLimiting, Custom,
}
