// Package classify handles the expense classification command
package classify

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mar-formanite/finwise/cmd/root"
	"github.com/mar-formanite/finwise/internal/common"
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify [description]",
	Short: "Classify expense descriptions using the trained model",
	Long: `Classify predicts the spending category for a description given as
arguments, or for every row of a CSV file given with --input. The CSV
file needs a "description" column.`,
	Run: classifyFunc,
}

var (
	inputFile string
	explain   bool
)

// inputRow maps one row of the batch input CSV.
type inputRow struct {
	Description string `csv:"description"`
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "CSV file with descriptions to classify in batch")
	Cmd.Flags().BoolVarP(&explain, "explain", "e", false, "Include the top contributing vocabulary terms")
}

func classifyFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Classify command called")

	cls := root.NewClassifier()

	if inputFile != "" {
		rows, err := common.ReadCSVFile[inputRow](inputFile)
		if err != nil {
			root.Log.Fatalf("Failed to read input file: %v", err)
		}

		descriptions := make([]string, len(rows))
		for i, row := range rows {
			descriptions[i] = row.Description
		}

		categories, err := cls.ClassifyMany(descriptions)
		if err != nil {
			root.Log.Fatalf("Failed to classify: %v", err)
		}
		for i, category := range categories {
			cmd.Printf("%s: %s\n", descriptions[i], category)
		}
		return
	}

	description := strings.Join(args, " ")
	if description == "" {
		root.Log.Fatal("Provide a description as arguments or a CSV file with --input")
	}

	result, err := cls.Classify(description, explain)
	if err != nil {
		root.Log.Fatalf("Failed to classify: %v", err)
	}

	cmd.Printf("Category: %s\n", result.Category)
	cmd.Printf("Confidence: %.2f\n", result.Confidence)
	if explain {
		cmd.Printf("Explanation: %s\n", result.Explanation)
	}
	if result.Degraded {
		root.Log.Warnf("Prediction degraded: %s", result.Reason)
	}
}
