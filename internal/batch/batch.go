// Package batch provides functionality for batch processing directories of
// receipt images.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
	"github.com/mar-formanite/finwise/internal/pipeline"
)

// Image extensions picked up when scanning a directory.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Summary aggregates the outcome of one batch run.
type Summary struct {
	Files      int
	Candidates int
	Errors     int
	ByCategory map[string]int
}

// ProcessDirectory runs every receipt image in dir through the pipeline, in
// lexical filename order, and aggregates a per-category summary. Files the
// pipeline cannot process surface as error records in the results; they do
// not stop the batch.
func ProcessDirectory(ctx context.Context, p *pipeline.Pipeline, dir string, log logging.Logger) ([]models.CandidateResult, Summary, error) {
	if log == nil {
		log = logging.Default()
	}

	files, err := listImages(dir)
	if err != nil {
		return nil, Summary{}, err
	}
	log.Info("Processing receipt directory",
		logging.Field{Key: logging.FieldFile, Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)})

	inputs := make([]models.Input, len(files))
	for i, file := range files {
		inputs[i] = models.Input{Type: models.InputReceiptImage, Data: file}
	}

	results := p.Process(ctx, inputs)
	summary := summarize(files, results)
	log.Info("Finished receipt directory",
		logging.Field{Key: logging.FieldCount, Value: summary.Candidates})
	return results, summary, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func summarize(files []string, results []models.CandidateResult) Summary {
	summary := Summary{
		Files:      len(files),
		ByCategory: make(map[string]int),
	}
	for _, res := range results {
		if res.IsError() {
			summary.Errors++
			continue
		}
		summary.Candidates++
		summary.ByCategory[res.Candidate.Category]++
	}
	return summary
}
