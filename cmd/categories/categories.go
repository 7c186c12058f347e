// Package categories handles category registry commands
package categories

import (
	"github.com/spf13/cobra"

	"github.com/mar-formanite/finwise/cmd/root"
	"github.com/mar-formanite/finwise/internal/store"
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the known spending categories",
	Long: `Categories lists every category in the registry. Categories are
created from the seed file or on first sight of a classifier label.`,
	Run: listFunc,
}

var seedFile string

func init() {
	Cmd.Flags().StringVarP(&seedFile, "seed", "s", "", "Seed the registry from this YAML file before listing")
}

func listFunc(cmd *cobra.Command, args []string) {
	s, err := root.OpenStore()
	if err != nil {
		root.Log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = s.Close() }()

	if seedFile != "" {
		configs, err := store.LoadSeedFile(seedFile)
		if err != nil {
			root.Log.Fatalf("Failed to load seed file: %v", err)
		}
		created, err := s.SeedCategories(cmd.Context(), configs)
		if err != nil {
			root.Log.Fatalf("Failed to seed categories: %v", err)
		}
		root.Log.Infof("Created %d categories from %s", created, seedFile)
	}

	categories, err := s.ListCategories(cmd.Context())
	if err != nil {
		root.Log.Fatalf("Failed to list categories: %v", err)
	}
	for _, cat := range categories {
		cmd.Printf("%s\t%s\n", cat.Name, cat.Description)
	}
}
