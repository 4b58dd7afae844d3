package finding

// Severity indicates how serious a validation finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Category groups findings by the kind of check that produced them.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryFormat     Category = "format"
	CategoryBusiness   Category = "business"
	CategoryCompliance Category = "compliance"
)

// Finding is a single validation or parse-time observation. Findings are
// never raised as errors; callers decide whether error-severity findings
// are blocking.
type Finding struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
	Category Category       `json:"category"`
	Path     string         `json:"path,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// Result is the ordered output of a validation run.
type Result struct {
	Findings []Finding `json:"findings"`
	Valid    bool      `json:"valid"`
}

// NewResult derives the validity flag: a result is valid when no
// error-severity finding is present.
func NewResult(findings []Finding) Result {
	valid := true
	for _, f := range findings {
		if f.Severity == SeverityError {
			valid = false
			break
		}
	}
	return Result{Findings: findings, Valid: valid}
}
