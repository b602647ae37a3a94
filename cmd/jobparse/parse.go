package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dayoung-dev/joblens/internal/observability"
	"github.com/dayoung-dev/joblens/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse URL [URL...]",
	Short: "Parse job posting URLs into structured JSON",
	Long:  "Fetch each posting URL, extract its content, and parse it with the model. Results are printed as JSON, one object per URL, in input order.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

var (
	parseCompany     string
	parsePosition    string
	parseConcurrency int
)

func init() {
	parseCmd.Flags().StringVar(&parseCompany, "company", "", "Restrict extraction to this company on multi-position pages")
	parseCmd.Flags().StringVar(&parsePosition, "position", "", "Restrict extraction to this position on multi-position pages")
	parseCmd.Flags().IntVar(&parseConcurrency, "concurrency", 3, "Maximum URLs parsed in parallel")
	rootCmd.AddCommand(parseCmd)
}

type parseOutput struct {
	URL    string              `json:"url"`
	Result *parser.ParseResult `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer application.close()

	target := parser.Target{Company: parseCompany, Position: parsePosition}

	var mu sync.Mutex
	outputs := make(map[int]parseOutput, len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, rawURL := range args {
		g.Go(func() error {
			result, err := application.service.Parse(gctx, rawURL, target)
			out := parseOutput{URL: rawURL, Result: result}
			if err != nil {
				out.Error = err.Error()
			}
			mu.Lock()
			outputs[i] = out
			mu.Unlock()
			return nil
		})
	}
	// Workers record failures in their output instead of returning them.
	_ = g.Wait()

	indices := make([]int, 0, len(outputs))
	for i := range outputs {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	printer := observability.NewPrinter(os.Stderr)
	var failed bool
	for _, i := range indices {
		out := outputs[i]
		if out.Error != "" {
			failed = true
		}

		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(encoded))

		if application.cfg.Verbose {
			printer.PrintResult(out.Result)
		}
	}

	if failed {
		return fmt.Errorf("one or more URLs failed to parse")
	}
	return nil
}
