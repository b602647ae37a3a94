package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dayoung-dev/joblens/internal/fetch"
	"github.com/dayoung-dev/joblens/internal/parser"
	"github.com/dayoung-dev/joblens/internal/sites"
	"github.com/dayoung-dev/joblens/internal/urlguard"
)

type fakeService struct {
	result  *parser.ParseResult
	err     error
	lastURL string
	target  parser.Target
}

func (f *fakeService) Parse(_ context.Context, rawURL string, target parser.Target) (*parser.ParseResult, error) {
	f.lastURL = rawURL
	f.target = target
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeService) SiteSupport(rawURL string) sites.Classification {
	if strings.Contains(rawURL, "linkedin") {
		return sites.Classification{Support: sites.SupportBlocked, Domain: "linkedin.com"}
	}
	return sites.Classification{Support: sites.SupportUnknown}
}

func newTestServer(service ParseService) *Server {
	return New(":0", service, zap.NewNop())
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleParseSuccess(t *testing.T) {
	service := &fakeService{result: &parser.ParseResult{
		Posting: &parser.ParsedJobPosting{
			Company:      "토스",
			Position:     "백엔드 엔지니어",
			Requirements: []string{"Go 경력 3년 이상"},
		},
	}}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodPost, "/api/parse",
		`{"url": "https://www.wanted.co.kr/wd/1", "selected_company": "토스", "selected_position": "백엔드 엔지니어"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://www.wanted.co.kr/wd/1", service.lastURL)
	assert.Equal(t, "토스", service.target.Company)

	var result parser.ParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.OK())
	assert.Equal(t, "백엔드 엔지니어", result.Posting.Position)
}

func TestHandleParseStructuredFailureIs200(t *testing.T) {
	service := &fakeService{result: &parser.ParseResult{
		Failure: &parser.ParseError{Code: parser.CodeExpired, Message: "마감된 공고입니다."},
	}}
	srv := newTestServer(service)

	rec := doRequest(t, srv, http.MethodPost, "/api/parse", `{"url": "https://www.wanted.co.kr/wd/2"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result parser.ParseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result.OK())
	assert.Equal(t, parser.CodeExpired, result.Failure.Code)
}

func TestHandleParseErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ssrf refused", fmt.Errorf("validate: %w", urlguard.ErrSSRFBlocked), http.StatusBadRequest},
		{"oversized page", fmt.Errorf("fetch: %w", fetch.ErrResponseTooLarge), http.StatusRequestEntityTooLarge},
		{"unusable model output", fmt.Errorf("decode: %w", parser.ErrParseAIFailed), http.StatusBadGateway},
		{"upstream status", &fetch.StatusError{URL: "https://x.com", StatusCode: 403}, http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(&fakeService{err: tc.err})
			rec := doRequest(t, srv, http.MethodPost, "/api/parse", `{"url": "https://example.com/1"}`)
			assert.Equal(t, tc.want, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleParseBadRequests(t *testing.T) {
	srv := newTestServer(&fakeService{})

	rec := doRequest(t, srv, http.MethodPost, "/api/parse", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/parse", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSiteSupport(t *testing.T) {
	srv := newTestServer(&fakeService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/site-support?url=https://www.linkedin.com/jobs/view/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SiteSupportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "blocked", resp.Support)
	assert.Equal(t, "linkedin.com", resp.Domain)

	rec = doRequest(t, srv, http.MethodGet, "/api/site-support", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeService{})
	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&fakeService{})
	rec := doRequest(t, srv, http.MethodOptions, "/api/parse", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
