// Package annotationparser normalizes pre-annotated receipt datasets: an XML
// document of images with labeled boxes, where boxes tagged "item" or
// "total" carry the transcribed text of a receipt line. Each such box yields
// one candidate tagged with the source image it came from.
package annotationparser

import (
	"context"
	"os"
	"strings"

	"gopkg.in/xmlpath.v2"

	"github.com/mar-formanite/finwise/internal/extract"
	"github.com/mar-formanite/finwise/internal/ingesterror"
	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// Box labels that carry receipt line text.
var candidateLabels = map[string]bool{
	"item":  true,
	"total": true,
}

var (
	imagePath = xmlpath.MustCompile("/annotations/image")
	namePath  = xmlpath.MustCompile("@name")
	boxPath   = xmlpath.MustCompile("box")
	labelPath = xmlpath.MustCompile("@label")
	textPath  = xmlpath.MustCompile("attribute")
)

// Parser normalizes annotation documents.
type Parser struct {
	log logging.Logger
}

// New creates an annotation document parser.
func New(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	return &Parser{log: logger}
}

// Normalize parses the annotation document at the given path. A malformed
// document yields a single error record.
func (p *Parser) Normalize(_ context.Context, data string) []models.CandidateResult {
	docPath := strings.TrimSpace(data)
	log := p.log.WithField(logging.FieldFile, docPath)

	root, err := loadDocument(docPath)
	if err != nil {
		annErr := &ingesterror.AnnotationError{FilePath: docPath, Err: err}
		log.WithError(annErr).Warn("Failed to parse annotation document")
		return []models.CandidateResult{models.Errf("Failed to parse annotations: %v", err)}
	}

	var results []models.CandidateResult
	images := imagePath.Iter(root)
	for images.Next() {
		imageNode := images.Node()
		imageName, _ := namePath.String(imageNode)

		boxes := boxPath.Iter(imageNode)
		for boxes.Next() {
			boxNode := boxes.Node()
			label, ok := labelPath.String(boxNode)
			if !ok || !candidateLabels[label] {
				continue
			}

			text, _ := textPath.String(boxNode)
			res := extract.Amount(text)
			itemText := res.Description
			if itemText == "" {
				itemText = strings.TrimSpace(text)
			}
			if itemText == "" {
				// An empty text attribute carries nothing to classify.
				continue
			}

			results = append(results, models.OK(models.Candidate{
				Text:   itemText,
				Amount: res.Amount,
				Source: models.SourceReceiptAnnotation,
				Image:  imageName,
			}))
		}
	}

	log.Info("Normalized annotation document",
		logging.Field{Key: logging.FieldCount, Value: len(results)})
	return results
}

func loadDocument(docPath string) (*xmlpath.Node, error) {
	f, err := os.Open(docPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return xmlpath.Parse(f)
}
