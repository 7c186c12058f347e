// Package common provides shared CSV input and output helpers.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

var log = logging.Default()

// Delimiter is the global CSV delimiter, configurable via environment variable.
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		// Use first rune only
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string) ([]TCSVRow, error) {
	log.WithField(logging.FieldFile, filePath).Info("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		log.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.Info("Successfully read CSV data",
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// resultRow is the flat CSV projection of one CandidateResult. Well-formed
// candidates leave the error column empty; error records leave everything
// but the error column empty.
type resultRow struct {
	Text        string `csv:"text"`
	Amount      string `csv:"amount"`
	Source      string `csv:"source"`
	Category    string `csv:"category"`
	Confidence  string `csv:"confidence"`
	Explanation string `csv:"explanation"`
	Image       string `csv:"image"`
	Error       string `csv:"error"`
}

// WriteResultsToCSV writes candidate results to a CSV file, one row per
// result in order, error records included.
func WriteResultsToCSV(results []models.CandidateResult, csvFile string) error {
	if results == nil {
		return fmt.Errorf("cannot write nil results to CSV")
	}

	log.WithField(logging.FieldFile, csvFile).Info("Writing results to CSV file",
		logging.Field{Key: logging.FieldCount, Value: len(results)})

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		log.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]resultRow, 0, len(results))
	for _, res := range results {
		if res.IsError() {
			rows = append(rows, resultRow{Error: res.Error})
			continue
		}
		c := res.Candidate
		rows = append(rows, resultRow{
			Text:        c.Text,
			Amount:      c.Amount.StringFixed(2),
			Source:      string(c.Source),
			Category:    c.Category,
			Confidence:  fmt.Sprintf("%.2f", c.Confidence),
			Explanation: c.Explanation,
			Image:       c.Image,
		})
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("Failed to marshal results to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.Info("Successfully wrote results to CSV file",
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}
