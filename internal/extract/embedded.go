package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SPA boards serialize their page state as JSON inside the document. The
// schema under that blob changes without notice, so the job object is
// located by trying an ordered list of access paths; the last resort is a
// bounded structural search for anything job-shaped.

// readEmbeddedState pulls the raw framework-state JSON out of the document.
// Must run before cleanup removes script tags.
func readEmbeddedState(doc *goquery.Document) string {
	for _, selector := range []string{"script#__NEXT_DATA__", "script#__NUXT_DATA__"} {
		if raw := strings.TrimSpace(doc.Find(selector).First().Text()); raw != "" {
			return raw
		}
	}
	return ""
}

// stateProbe is one candidate access path. Probes are evaluated in order
// and the first success short-circuits.
type stateProbe struct {
	name string
	find func(root map[string]any) (map[string]any, bool)
}

var stateProbes = []stateProbe{
	{
		name: "props.pageProps.jobDetail",
		find: func(root map[string]any) (map[string]any, bool) {
			return digObject(root, "props", "pageProps", "jobDetail")
		},
	},
	{
		name: "props.pageProps.initialData.job",
		find: func(root map[string]any) (map[string]any, bool) {
			return digObject(root, "props", "pageProps", "initialData", "job")
		},
	},
	{
		name: "props.pageProps.dehydratedState.queries[].state.data",
		find: findInDehydratedQueries,
	},
	{
		name: "structural-search",
		find: func(root map[string]any) (map[string]any, bool) {
			return structuralSearch(root, 0)
		},
	},
}

// maxSearchDepth bounds the structural fallback so a pathological blob
// cannot blow the stack or the latency budget.
const maxSearchDepth = 5

// extractFromEmbeddedState walks the probes over raw JSON. drifted reports
// that a non-primary probe succeeded, which means the board's schema moved
// and the primary path should be updated.
func extractFromEmbeddedState(raw string) (text string, probeName string, drifted bool) {
	var root map[string]any
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return "", "", false
	}

	for i, probe := range stateProbes {
		node, ok := probe.find(root)
		if !ok || !jobShaped(node) {
			continue
		}
		return renderJobNode(node), probe.name, i > 0
	}
	return "", "", false
}

func digObject(node map[string]any, path ...string) (map[string]any, bool) {
	current := node
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func findInDehydratedQueries(root map[string]any) (map[string]any, bool) {
	dehydrated, ok := digObject(root, "props", "pageProps", "dehydratedState")
	if !ok {
		return nil, false
	}
	queries, ok := dehydrated["queries"].([]any)
	if !ok {
		return nil, false
	}
	for _, q := range queries {
		query, ok := q.(map[string]any)
		if !ok {
			continue
		}
		state, ok := query["state"].(map[string]any)
		if !ok {
			continue
		}
		data, ok := state["data"].(map[string]any)
		if !ok {
			continue
		}
		if jobShaped(data) {
			return data, true
		}
		// One more level: some boards nest the posting under data.job.
		if job, ok := data["job"].(map[string]any); ok && jobShaped(job) {
			return job, true
		}
	}
	return nil, false
}

// structuralSearch looks for any object that simultaneously has
// position-, company-, and requirement-shaped fields.
func structuralSearch(node any, depth int) (map[string]any, bool) {
	if depth > maxSearchDepth {
		return nil, false
	}
	switch v := node.(type) {
	case map[string]any:
		if jobShaped(v) {
			return v, true
		}
		for _, child := range v {
			if found, ok := structuralSearch(child, depth+1); ok {
				return found, true
			}
		}
	case []any:
		for _, child := range v {
			if found, ok := structuralSearch(child, depth+1); ok {
				return found, true
			}
		}
	}
	return nil, false
}

var (
	positionKeys    = []string{"position", "title", "name", "positionName", "jobTitle"}
	companyKeys     = []string{"company", "companyName", "company_name", "corpName"}
	requirementKeys = []string{"requirements", "requirement", "qualification", "qualifications", "mainTasks", "main_tasks", "jobDescription", "description", "intro", "preferredPoints"}
)

func jobShaped(node map[string]any) bool {
	return hasAnyKey(node, positionKeys) &&
		hasAnyKey(node, companyKeys) &&
		hasAnyKey(node, requirementKeys)
}

func hasAnyKey(node map[string]any, keys []string) bool {
	for _, k := range keys {
		if v, ok := node[k]; ok && v != nil {
			return true
		}
	}
	return false
}

// renderJobNode flattens the job object into labeled lines: the known
// fields first, then remaining string leaves in stable order.
func renderJobNode(node map[string]any) string {
	var sb strings.Builder
	written := make(map[string]bool)

	writeField := func(key string) {
		if written[key] {
			return
		}
		value, ok := node[key]
		if !ok || value == nil {
			return
		}
		if rendered := renderValue(value, 0); rendered != "" {
			fmt.Fprintf(&sb, "%s: %s\n", key, rendered)
			written[key] = true
		}
	}

	for _, group := range [][]string{positionKeys, companyKeys, requirementKeys} {
		for _, key := range group {
			writeField(key)
		}
	}

	rest := make([]string, 0, len(node))
	for key := range node {
		if !written[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		writeField(key)
	}

	return strings.TrimSpace(sb.String())
}

// renderValue stringifies scalars, joins lists, and flattens shallow
// objects. Depth is bounded; the goal is prompt text, not serialization.
func renderValue(value any, depth int) string {
	if depth > 2 {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case []any:
		var parts []string
		for _, item := range v {
			if rendered := renderValue(item, depth+1); rendered != "" {
				parts = append(parts, rendered)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			if rendered := renderValue(v[k], depth+1); rendered != "" {
				parts = append(parts, k+": "+rendered)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
