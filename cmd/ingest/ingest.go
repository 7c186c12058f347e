// Package ingest handles the transaction ingestion command
package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mar-formanite/finwise/cmd/root"
	"github.com/mar-formanite/finwise/internal/ai"
	"github.com/mar-formanite/finwise/internal/batch"
	"github.com/mar-formanite/finwise/internal/common"
	"github.com/mar-formanite/finwise/internal/models"
	"github.com/mar-formanite/finwise/internal/pipeline"
	"github.com/mar-formanite/finwise/internal/receiptparser"
	"github.com/mar-formanite/finwise/internal/store"
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest one expense input and classify its transactions",
	Long: `Ingest normalizes one input - a receipt image, an annotation document,
a voice transcript, an SMS body or a manual "text|amount" entry - into
transaction candidates and classifies each one. With --dir, every receipt
image in the directory is processed as a batch.`,
	Run: ingestFunc,
}

var (
	inputType  string
	inputData  string
	inputDir   string
	outputFile string
	save       bool
)

func init() {
	Cmd.Flags().StringVarP(&inputType, "type", "t", "", "Input channel: receipt_image, receipt_annotation, voice, manual or sms")
	Cmd.Flags().StringVarP(&inputData, "data", "i", "", "Input payload: a file path or the raw text, depending on the channel")
	Cmd.Flags().StringVar(&inputDir, "dir", "", "Process every receipt image in this directory")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write results to this CSV file in addition to stdout")
	Cmd.Flags().BoolVarP(&save, "save", "s", false, "Persist classified transactions to the database")
	Cmd.MarkFlagsRequiredTogether("type", "data")
	Cmd.MarkFlagsMutuallyExclusive("data", "dir")
}

func ingestFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Ingest command called")

	if inputDir == "" && inputData == "" {
		root.Log.Fatal("Provide either --type with --data, or --dir")
	}

	opts := pipeline.Options{
		Engine: receiptparser.NewTesseractEngine(
			root.Cfg.OCR.Binary, root.Cfg.OCR.Languages),
		MinReceiptAmount: decimal.NewFromFloat(root.Cfg.Ingest.MinReceiptAmount),
		Logger:           root.Logger(),
	}
	if root.Cfg.AI.Enabled {
		client := ai.NewGeminiClient(root.Cfg.AI.APIKey, root.Cfg.AI.Model, root.Logger())
		defer func() { _ = client.Close() }()
		opts.AI = client
		opts.AIThreshold = root.Cfg.AI.ConfidenceThreshold
	}

	var st *store.Store
	if save {
		s, err := root.OpenStore()
		if err != nil {
			root.Log.Fatalf("Failed to open database: %v", err)
		}
		defer func() { _ = s.Close() }()
		opts.Resolver = s
		st = s
	}

	p := pipeline.New(root.NewClassifier(), opts)

	var results []models.CandidateResult
	if inputDir != "" {
		var summary batch.Summary
		var err error
		results, summary, err = batch.ProcessDirectory(cmd.Context(), p, inputDir, root.Logger())
		if err != nil {
			root.Log.Fatalf("Failed to process directory: %v", err)
		}
		root.Log.Infof("Processed %d files: %d candidates, %d errors",
			summary.Files, summary.Candidates, summary.Errors)
	} else {
		results = p.Process(cmd.Context(), []models.Input{
			{Type: models.InputType(inputType), Data: inputData},
		})
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		root.Log.Fatalf("Failed to encode results: %v", err)
	}
	fmt.Println(string(out))

	if outputFile != "" {
		if err := common.WriteResultsToCSV(results, outputFile); err != nil {
			root.Log.Fatalf("Failed to write CSV output: %v", err)
		}
	}

	if st != nil {
		saved, err := st.SaveTransactions(cmd.Context(), results)
		if err != nil {
			root.Log.Fatalf("Failed to save transactions: %v", err)
		}
		root.Log.Infof("Saved %d transactions", len(saved))
	}
}
