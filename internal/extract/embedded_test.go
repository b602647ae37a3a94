package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobDetailJSON = `{
	"position": "백엔드 엔지니어",
	"company": "토스",
	"requirements": ["Go 또는 Java 기반 서버 개발 경력 3년 이상", "대규모 트래픽 환경에서의 서비스 운영 경험", "관계형 데이터베이스 및 메시지 큐 사용 경험"],
	"preferredPoints": ["Kubernetes 기반 배포 환경 운영 경험", "결제 도메인에 대한 이해"],
	"mainTasks": ["송금 및 결제 서버 API 설계와 개발", "레거시 시스템 개선 및 성능 최적화", "장애 대응 및 서비스 안정화 작업"],
	"intro": "토스 코어 서버팀에서 수백만 사용자가 매일 사용하는 금융 서비스를 함께 만들 백엔드 엔지니어를 찾습니다.",
	"salary": "협의 후 결정",
	"location": "서울특별시 강남구 테헤란로 131"
}`

func TestExtractFromEmbeddedStatePrimaryPath(t *testing.T) {
	raw := fmt.Sprintf(`{"props":{"pageProps":{"jobDetail":%s}}}`, jobDetailJSON)

	text, probe, drifted := extractFromEmbeddedState(raw)
	assert.Equal(t, "props.pageProps.jobDetail", probe)
	assert.False(t, drifted)
	assert.Contains(t, text, "백엔드 엔지니어")
	assert.Contains(t, text, "토스")
	assert.Contains(t, text, "서버 개발 경력 3년 이상")
	assert.Contains(t, text, "테헤란로 131")
}

func TestExtractFromEmbeddedStateFallbackPathReportsDrift(t *testing.T) {
	raw := fmt.Sprintf(`{"props":{"pageProps":{"initialData":{"job":%s}}}}`, jobDetailJSON)

	text, probe, drifted := extractFromEmbeddedState(raw)
	assert.Equal(t, "props.pageProps.initialData.job", probe)
	assert.True(t, drifted)
	assert.Contains(t, text, "토스")
}

func TestExtractFromEmbeddedStateDehydratedQueries(t *testing.T) {
	raw := fmt.Sprintf(`{"props":{"pageProps":{"dehydratedState":{"queries":[
		{"state":{"data":{"unrelated":true}}},
		{"state":{"data":{"job":%s}}}
	]}}}}`, jobDetailJSON)

	text, probe, drifted := extractFromEmbeddedState(raw)
	assert.Equal(t, "props.pageProps.dehydratedState.queries[].state.data", probe)
	assert.True(t, drifted)
	assert.Contains(t, text, "백엔드 엔지니어")
}

func TestExtractFromEmbeddedStateStructuralSearch(t *testing.T) {
	// Job object buried at an unregistered path; only the bounded search
	// can find it.
	raw := fmt.Sprintf(`{"a":{"b":{"c":%s}}}`, jobDetailJSON)

	text, probe, drifted := extractFromEmbeddedState(raw)
	assert.Equal(t, "structural-search", probe)
	assert.True(t, drifted)
	assert.Contains(t, text, "토스")
}

func TestStructuralSearchDepthBound(t *testing.T) {
	// Nested deeper than the search bound: must not be found.
	raw := fmt.Sprintf(`{"l1":{"l2":{"l3":{"l4":{"l5":{"l6":{"l7":%s}}}}}}}`, jobDetailJSON)

	text, _, _ := extractFromEmbeddedState(raw)
	assert.Empty(t, text)
}

func TestExtractFromEmbeddedStateRejectsNonJobObjects(t *testing.T) {
	raw := `{"props":{"pageProps":{"jobDetail":{"position":"x"}}}}`

	text, _, _ := extractFromEmbeddedState(raw)
	assert.Empty(t, text)
}

func TestExtractFromEmbeddedStateGarbageJSON(t *testing.T) {
	text, _, _ := extractFromEmbeddedState("{not json")
	assert.Empty(t, text)
}

func TestExtractEndToEndWithNextData(t *testing.T) {
	html := fmt.Sprintf(`<html><body>
		<div id="__next">loading...</div>
		<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"jobDetail":%s}}}</script>
	</body></html>`, jobDetailJSON)

	content, err := Extract(html, "https://www.wanted.co.kr/wd/12345", loadRegistry(t), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "embedded-state", content.Strategy)
	assert.Contains(t, content.Text, "백엔드 엔지니어")
	assert.Empty(t, diagnosticsContaining(content.Diagnostics, "drift"))
}

func TestExtractEndToEndSchemaDriftLogsDiagnostic(t *testing.T) {
	html := fmt.Sprintf(`<html><body>
		<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"initialData":{"job":%s}}}}</script>
	</body></html>`, jobDetailJSON)

	content, err := Extract(html, "https://www.wanted.co.kr/wd/12346", loadRegistry(t), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "embedded-state", content.Strategy)
	require.NotEmpty(t, diagnosticsContaining(content.Diagnostics, "drifted"))
}

func diagnosticsContaining(diags []string, substr string) []string {
	var out []string
	for _, d := range diags {
		if strings.Contains(d, substr) {
			out = append(out, d)
		}
	}
	return out
}
