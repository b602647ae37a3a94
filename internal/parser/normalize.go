package parser

import "strings"

// canonicalTech maps the spellings Korean boards actually use to one
// canonical form. Lookup is case-insensitive.
var canonicalTech = map[string]string{
	"golang":     "Go",
	"go언어":       "Go",
	"자바":         "Java",
	"자바스크립트":     "JavaScript",
	"js":         "JavaScript",
	"타입스크립트":     "TypeScript",
	"ts":         "TypeScript",
	"파이썬":        "Python",
	"코틀린":        "Kotlin",
	"스프링":        "Spring",
	"스프링부트":      "Spring Boot",
	"springboot": "Spring Boot",
	"리액트":        "React",
	"react.js":   "React",
	"reactjs":    "React",
	"뷰":          "Vue.js",
	"vue":        "Vue.js",
	"node":       "Node.js",
	"nodejs":     "Node.js",
	"노드":         "Node.js",
	"k8s":        "Kubernetes",
	"쿠버네티스":      "Kubernetes",
	"도커":         "Docker",
	"postgres":   "PostgreSQL",
	"마이에스큐엘":     "MySQL",
	"몽고디비":       "MongoDB",
	"mongo":      "MongoDB",
	"레디스":        "Redis",
	"카프카":        "Kafka",
	"aws":        "AWS",
	"지라":         "Jira",
	"깃":          "Git",
	"깃허브":        "GitHub",
}

// canonicalEmployment folds the common board phrasings of employment type.
var canonicalEmployment = map[string]string{
	"정규":     "정규직",
	"full-time": "정규직",
	"fulltime":  "정규직",
	"계약":     "계약직",
	"contract":  "계약직",
	"인턴십":    "인턴",
	"intern":    "인턴",
	"internship": "인턴",
	"파트타임":   "파트타임",
	"part-time": "파트타임",
}

// NormalizeTechStack trims, canonicalizes, and de-duplicates a tech list,
// preserving first-seen order.
func NormalizeTechStack(stack []string) []string {
	seen := make(map[string]bool, len(stack))
	out := make([]string, 0, len(stack))
	for _, entry := range stack {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if canonical, ok := canonicalTech[strings.ToLower(entry)]; ok {
			entry = canonical
		}
		key := strings.ToLower(entry)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entry)
	}
	return out
}

// NormalizeJobPosting cleans a decoded posting in place: whitespace trim on
// every field, empty-item removal, tech canonicalization, and employment
// type folding.
func NormalizeJobPosting(p *ParsedJobPosting) {
	p.Company = strings.TrimSpace(p.Company)
	p.Position = strings.TrimSpace(p.Position)
	p.JobDescription = strings.TrimSpace(p.JobDescription)
	p.RequiredExperience = strings.TrimSpace(p.RequiredExperience)

	p.Requirements = cleanList(p.Requirements)
	p.PreferredQualifications = cleanList(p.PreferredQualifications)
	p.Benefits = cleanList(p.Benefits)
	p.TechStack = NormalizeTechStack(p.TechStack)

	p.SalaryRange = cleanOptional(p.SalaryRange)
	p.Location = cleanOptional(p.Location)
	p.Deadline = cleanOptional(p.Deadline)
	p.CompanySize = cleanOptional(p.CompanySize)

	if p.EmploymentType != nil {
		trimmed := strings.TrimSpace(*p.EmploymentType)
		if canonical, ok := canonicalEmployment[strings.ToLower(trimmed)]; ok {
			trimmed = canonical
		}
		p.EmploymentType = nonEmpty(trimmed)
	}
}

func cleanList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return nonEmpty(strings.TrimSpace(*s))
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
