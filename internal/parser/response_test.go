package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSuccessJSON = `{"success": {
	"company": "토스",
	"position": "백엔드 엔지니어",
	"jobDescription": "송금 및 결제 서버 API 설계와 개발",
	"requirements": ["Go 또는 Java 서버 개발 경력 3년 이상"],
	"preferredQualifications": ["Kubernetes 운영 경험"],
	"requiredExperience": "3년 이상",
	"techStack": ["golang", "k8s", "PostgreSQL"],
	"location": "서울 강남구",
	"employmentType": "정규직"
}}`

func TestDecodeResponseSuccess(t *testing.T) {
	result, err := DecodeResponse(validSuccessJSON)
	require.NoError(t, err)
	require.True(t, result.OK())

	assert.Equal(t, "토스", result.Posting.Company)
	assert.Equal(t, "백엔드 엔지니어", result.Posting.Position)
	// Normalization canonicalizes tech spellings.
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, result.Posting.TechStack)
}

func TestDecodeResponseStripsFencesAndProse(t *testing.T) {
	wrapped := "Here is the result:\n```json\n" + validSuccessJSON + "\n```\nLet me know if you need anything else."
	result, err := DecodeResponse(wrapped)
	require.NoError(t, err)
	assert.True(t, result.OK())
}

func TestDecodeResponseErrorEnvelope(t *testing.T) {
	raw := `{"error": {"code": "LOGIN_REQUIRED", "message": "로그인 후 확인할 수 있는 공고입니다."}}`
	result, err := DecodeResponse(raw)
	require.NoError(t, err)

	require.False(t, result.OK())
	assert.Equal(t, CodeLoginRequired, result.Failure.Code)
	assert.Contains(t, result.Failure.Message, "로그인")
}

func TestDecodeResponseMultiplePositionsGrouped(t *testing.T) {
	raw := `{"error": {
		"code": "MULTIPLE_POSITIONS",
		"message": "여러 포지션이 있습니다.",
		"companies": [
			{"company": "토스", "positions": [
				{"position": "백엔드 엔지니어", "summary": "결제 서버 개발"},
				{"position": "프론트엔드 엔지니어", "summary": "홈 화면 개편"}
			]},
			{"company": "당근", "positions": [{"position": "SRE", "summary": "플랫폼 안정화"}]}
		]
	}}`

	result, err := DecodeResponse(raw)
	require.NoError(t, err)
	require.False(t, result.OK())
	require.Len(t, result.Failure.Companies, 2)
	require.Len(t, result.Failure.Companies[0].Positions, 2)
	assert.Equal(t, "결제 서버 개발", result.Failure.Companies[0].Positions[0].Summary)
	assert.Equal(t, "플랫폼 안정화", result.Failure.Companies[1].Positions[0].Summary)
}

func TestDecodeResponseLegacyFlatPositionsRegrouped(t *testing.T) {
	// Older model versions emit a flat positions list; it must be regrouped
	// by company, preserving first-seen order.
	raw := `{"error": {
		"code": "MULTIPLE_POSITIONS",
		"message": "여러 포지션이 있습니다.",
		"positions": [
			{"company": "토스", "position": "백엔드 엔지니어", "summary": "결제 서버 개발", "location": "서울"},
			{"company": "당근", "position": "SRE", "summary": "플랫폼 안정화"},
			{"company": "토스", "position": "프론트엔드 엔지니어"}
		]
	}}`

	result, err := DecodeResponse(raw)
	require.NoError(t, err)
	require.False(t, result.OK())

	companies := result.Failure.Companies
	require.Len(t, companies, 2)
	assert.Equal(t, "토스", companies[0].Company)
	require.Len(t, companies[0].Positions, 2)
	assert.Equal(t, "백엔드 엔지니어", companies[0].Positions[0].Position)
	assert.Equal(t, "결제 서버 개발", companies[0].Positions[0].Summary)
	require.NotNil(t, companies[0].Positions[0].Location)
	assert.Equal(t, "서울", *companies[0].Positions[0].Location)
	assert.Equal(t, "프론트엔드 엔지니어", companies[0].Positions[1].Position)
	assert.Equal(t, "당근", companies[1].Company)
}

func TestDecodeResponseUnparseable(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "the page looks like a job posting for a backend role"},
		{"neither branch", `{"status": "ok"}`},
		{"both branches", `{"success": {"company":"a","position":"b","jobDescription":"c","requirements":[]}, "error": {"code":"EXPIRED","message":"x"}}`},
		{"unknown error code", `{"error": {"code": "RATE_LIMITED", "message": "x"}}`},
		{"error without message", `{"error": {"code": "EXPIRED"}}`},
		{"schema-invalid success", `{"success": {"company": "토스"}}`},
		{"whitespace-only company", `{"success": {"company": "  ", "position": "SRE", "jobDescription": "d", "requirements": []}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeResponse(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParseAIFailed), "expected ErrParseAIFailed, got %v", err)
		})
	}
}

func TestIsolateJSONIgnoresBracesInStrings(t *testing.T) {
	raw := `noise {"a": "value with } brace", "b": {"c": 1}} trailing`
	assert.Equal(t, `{"a": "value with } brace", "b": {"c": 1}}`, isolateJSON(raw))
}
