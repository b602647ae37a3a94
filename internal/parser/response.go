package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dayoung-dev/joblens/internal/llm"
	"github.com/dayoung-dev/joblens/internal/schemas"
)

// responseEnvelope is the raw model reply before validation. Success is kept
// as raw JSON so the schema check sees exactly what the model produced.
type responseEnvelope struct {
	Success json.RawMessage `json:"success"`
	Error   *rawParseError  `json:"error"`
}

// rawParseError tolerates both the current companies-grouped shape and the
// legacy flat positions list some model versions still emit.
type rawParseError struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	Companies []CompanyPositions `json:"companies"`
	Positions []legacyPosition   `json:"positions"`
}

type legacyPosition struct {
	Company  string  `json:"company"`
	Position string  `json:"position"`
	Summary  string  `json:"summary"`
	Location *string `json:"location"`
}

// DecodeResponse turns a raw model reply into a ParseResult. Any reply that
// cannot be mapped onto the contract comes back as ErrParseAIFailed.
func DecodeResponse(raw string) (*ParseResult, error) {
	payload := isolateJSON(llm.CleanJSONBlock(raw))
	if payload == "" {
		return nil, aiFailed("no JSON object in response", nil)
	}

	var envelope responseEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, aiFailed("response is not valid JSON", err)
	}

	switch {
	case envelope.Success != nil && envelope.Error != nil:
		return nil, aiFailed("response carries both success and error", nil)
	case envelope.Success != nil:
		return decodeSuccess(envelope.Success)
	case envelope.Error != nil:
		return decodeError(envelope.Error)
	default:
		return nil, aiFailed("response carries neither success nor error", nil)
	}
}

func decodeSuccess(raw json.RawMessage) (*ParseResult, error) {
	if err := schemas.ValidateJobPosting(string(raw)); err != nil {
		return nil, aiFailed("success payload failed schema validation", err)
	}
	var posting ParsedJobPosting
	if err := json.Unmarshal(raw, &posting); err != nil {
		return nil, aiFailed("success payload did not decode", err)
	}
	NormalizeJobPosting(&posting)

	// Normalization can empty a field that passed the schema as whitespace.
	if err := validator.New().Struct(&posting); err != nil {
		return nil, aiFailed("success payload missing required fields", err)
	}
	return &ParseResult{Posting: &posting}, nil
}

func decodeError(raw *rawParseError) (*ParseResult, error) {
	code := ErrorCode(strings.ToUpper(strings.TrimSpace(raw.Code)))
	if !knownErrorCodes[code] {
		return nil, aiFailed(fmt.Sprintf("unknown error code %q", raw.Code), nil)
	}
	if raw.Message == "" {
		return nil, aiFailed("error payload missing message", nil)
	}

	companies := raw.Companies
	if len(companies) == 0 && len(raw.Positions) > 0 {
		companies = regroupPositions(raw.Positions)
	}

	return &ParseResult{Failure: &ParseError{
		Code:      code,
		Message:   raw.Message,
		Companies: companies,
	}}, nil
}

// regroupPositions converts the legacy flat list into the grouped shape,
// preserving first-seen company order.
func regroupPositions(flat []legacyPosition) []CompanyPositions {
	index := make(map[string]int, len(flat))
	grouped := make([]CompanyPositions, 0, len(flat))
	for _, p := range flat {
		company := strings.TrimSpace(p.Company)
		if company == "" {
			company = "(알 수 없는 회사)"
		}
		i, ok := index[company]
		if !ok {
			i = len(grouped)
			index[company] = i
			grouped = append(grouped, CompanyPositions{Company: company})
		}
		grouped[i].Positions = append(grouped[i].Positions, PositionSummary{
			Position: strings.TrimSpace(p.Position),
			Summary:  strings.TrimSpace(p.Summary),
			Location: p.Location,
		})
	}
	return grouped
}

// isolateJSON cuts the first balanced top-level object out of text. Models
// occasionally wrap the JSON in prose despite instructions.
func isolateJSON(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
