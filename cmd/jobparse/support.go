package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dayoung-dev/joblens/internal/sites"
)

var supportCmd = &cobra.Command{
	Use:   "support URL [URL...]",
	Short: "Classify URLs against the site registry without fetching them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSupport,
}

var supportSitesFile string

func init() {
	supportCmd.Flags().StringVar(&supportSitesFile, "sites", "", "Path to an alternate site registry JSON file")
	rootCmd.AddCommand(supportCmd)
}

func runSupport(_ *cobra.Command, args []string) error {
	var (
		registry *sites.Registry
		err      error
	)
	if supportSitesFile != "" {
		registry, err = sites.LoadFile(supportSitesFile)
	} else {
		registry, err = sites.Load()
	}
	if err != nil {
		return fmt.Errorf("load site registry: %w", err)
	}

	for _, rawURL := range args {
		classification := registry.Classify(rawURL)
		if classification.Domain != "" {
			fmt.Printf("%s\t%s\t%s\n", rawURL, classification.Support, classification.Domain)
		} else {
			fmt.Printf("%s\t%s\n", rawURL, classification.Support)
		}
	}
	return nil
}
