package parser

import (
	"errors"
	"fmt"
)

// ErrParseAIFailed marks model output that could not be turned into a valid
// result: not JSON, neither success nor error envelope, or schema-invalid.
var ErrParseAIFailed = errors.New("PARSE_AI_FAILED: model response did not match the contract")

func aiFailed(detail string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %v", ErrParseAIFailed, detail, cause)
	}
	return fmt.Errorf("%w: %s", ErrParseAIFailed, detail)
}
