package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dayoung-dev/joblens/internal/parser"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs a human-readable summary of a parse result.
func (p *Printer) PrintResult(result *parser.ParseResult) {
	if result == nil {
		return
	}
	if result.OK() {
		p.printPosting(result.Posting)
		return
	}
	p.printFailure(result.Failure)
}

func (p *Printer) printPosting(posting *parser.ParsedJobPosting) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Company:   %s\n", posting.Company))
	sb.WriteString(fmt.Sprintf("Position:  %s\n", posting.Position))
	if posting.RequiredExperience != "" {
		sb.WriteString(fmt.Sprintf("Experience: %s\n", posting.RequiredExperience))
	}
	if posting.Location != nil {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", *posting.Location))
	}
	if posting.EmploymentType != nil {
		sb.WriteString(fmt.Sprintf("Type:      %s\n", *posting.EmploymentType))
	}
	sb.WriteString("\n")

	writeList(&sb, "Requirements", posting.Requirements, maxItemsToShow)
	writeList(&sb, "Preferred", posting.PreferredQualifications, 3)
	if len(posting.TechStack) > 0 {
		sb.WriteString(fmt.Sprintf("Tech Stack: %s\n", strings.Join(posting.TechStack, ", ")))
	}

	p.printBox("PARSED JOB POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) printFailure(failure *parser.ParseError) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Code:    %s\n", failure.Code))
	sb.WriteString(fmt.Sprintf("Message: %s\n", failure.Message))

	if len(failure.Companies) > 0 {
		sb.WriteString("\nPositions on this page:\n")
		for _, company := range failure.Companies {
			sb.WriteString(fmt.Sprintf("  %s\n", company.Company))
			count := min(len(company.Positions), maxItemsToShow)
			for i := 0; i < count; i++ {
				p := company.Positions[i]
				if p.Summary != "" {
					sb.WriteString(fmt.Sprintf("    • %s (%s)\n", p.Position, p.Summary))
				} else {
					sb.WriteString(fmt.Sprintf("    • %s\n", p.Position))
				}
			}
			if len(company.Positions) > maxItemsToShow {
				sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(company.Positions)-maxItemsToShow))
			}
		}
	}

	p.printBox("NOT PARSED", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}
