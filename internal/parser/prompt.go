package parser

import (
	"strings"

	"github.com/google/generative-ai-go/genai"

	"github.com/dayoung-dev/joblens/internal/fetch"
	"github.com/dayoung-dev/joblens/internal/images"
	"github.com/dayoung-dev/joblens/internal/prompts"
)

const promptFile = "parser.json"

// Target narrows extraction to one position when the page lists several.
type Target struct {
	Company  string
	Position string
}

func (t Target) set() bool {
	return t.Company != "" || t.Position != ""
}

// SystemPrompt returns the extraction contract given to the model.
func SystemPrompt() string {
	return prompts.MustGet(promptFile, "system-job-extraction")
}

// BuildTextPrompt assembles the parts for a text-only extraction call.
func BuildTextPrompt(pageURL, text string, target Target) []genai.Part {
	body := prompts.Format(prompts.MustGet(promptFile, "user-text"), map[string]string{
		"URL":  pageURL,
		"Text": text,
	})
	parts := []genai.Part{genai.Text(body)}
	return appendTargetDirective(parts, target)
}

// BuildVisionPrompt assembles a multimodal call: intro text, then the page
// screenshots, then the downloaded posting images.
func BuildVisionPrompt(pageURL, text string, screenshots []fetch.Screenshot, downloaded []images.Downloaded, target Target) []genai.Part {
	body := prompts.Format(prompts.MustGet(promptFile, "user-vision-intro"), map[string]string{
		"URL":  pageURL,
		"Text": text,
	})
	parts := []genai.Part{genai.Text(body)}

	for _, shot := range screenshots {
		parts = append(parts, genai.ImageData(imageFormat(shot.MIMEType), shot.Data))
	}
	for _, img := range downloaded {
		parts = append(parts, genai.ImageData(imageFormat(img.MIMEType), img.Data))
	}
	return appendTargetDirective(parts, target)
}

func appendTargetDirective(parts []genai.Part, target Target) []genai.Part {
	if !target.set() {
		return parts
	}
	directive := prompts.Format(prompts.MustGet(promptFile, "target-directive"), map[string]string{
		"Company":  target.Company,
		"Position": target.Position,
	})
	return append(parts, genai.Text(directive))
}

// imageFormat converts a MIME type to the bare format genai.ImageData wants.
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(mimeType, "image/")
	if i := strings.IndexByte(format, ';'); i >= 0 {
		format = format[:i]
	}
	if format == "" || format == mimeType {
		return "jpeg"
	}
	return strings.TrimSpace(format)
}
