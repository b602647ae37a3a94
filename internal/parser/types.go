// Package parser orchestrates the full posting pipeline: URL classification,
// fetch, extraction, image analysis, model call, and response validation.
package parser

// ParsedJobPosting is the structured result for a single position. Field
// names mirror the model's JSON contract.
type ParsedJobPosting struct {
	Company                 string   `json:"company" validate:"required"`
	Position                string   `json:"position" validate:"required"`
	JobDescription          string   `json:"jobDescription"`
	Requirements            []string `json:"requirements"`
	PreferredQualifications []string `json:"preferredQualifications,omitempty"`
	RequiredExperience      string   `json:"requiredExperience,omitempty"`
	TechStack               []string `json:"techStack,omitempty"`
	SalaryRange             *string  `json:"salaryRange,omitempty"`
	Location                *string  `json:"location,omitempty"`
	EmploymentType          *string  `json:"employmentType,omitempty"`
	Deadline                *string  `json:"deadline,omitempty"`
	Benefits                []string `json:"benefits,omitempty"`
	CompanySize             *string  `json:"companySize,omitempty"`
}

// ErrorCode classifies why a page could not be parsed into one posting.
type ErrorCode string

const (
	CodeLoginRequired     ErrorCode = "LOGIN_REQUIRED"
	CodeExpired           ErrorCode = "EXPIRED"
	CodeNotJobPosting     ErrorCode = "NOT_JOB_POSTING"
	CodeMultiplePositions ErrorCode = "MULTIPLE_POSITIONS"
)

var knownErrorCodes = map[ErrorCode]bool{
	CodeLoginRequired:     true,
	CodeExpired:           true,
	CodeNotJobPosting:     true,
	CodeMultiplePositions: true,
}

// PositionSummary is one entry in a multi-position listing. Summary is the
// one-line description the user picks the position by.
type PositionSummary struct {
	Position string  `json:"position"`
	Summary  string  `json:"summary,omitempty"`
	Location *string `json:"location,omitempty"`
}

// CompanyPositions groups a listing's positions under their company.
type CompanyPositions struct {
	Company   string            `json:"company"`
	Positions []PositionSummary `json:"positions"`
}

// ParseError is the structured "page understood but not parseable" outcome.
// It is data, not a Go error: the pipeline succeeded and this is its verdict.
type ParseError struct {
	Code      ErrorCode          `json:"code"`
	Message   string             `json:"message"`
	Companies []CompanyPositions `json:"companies,omitempty"`
}

// ParseResult is a tagged union: exactly one of Posting or Failure is set.
type ParseResult struct {
	Posting *ParsedJobPosting `json:"success,omitempty"`
	Failure *ParseError       `json:"error,omitempty"`
}

// OK reports whether the result carries a posting.
func (r *ParseResult) OK() bool {
	return r.Posting != nil
}
