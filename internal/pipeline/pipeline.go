// Package pipeline wires the ingestion stages together: dispatch each input
// to its channel normalizer, classify every well-formed candidate, and
// resolve the predicted category against the registry. Results come back in
// input order, with per-item failures carried as error records rather than
// aborting the batch.
package pipeline

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mar-formanite/finwise/internal/ai"
	"github.com/mar-formanite/finwise/internal/annotationparser"
	"github.com/mar-formanite/finwise/internal/classifier"
	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/manualparser"
	"github.com/mar-formanite/finwise/internal/models"
	"github.com/mar-formanite/finwise/internal/normalizer"
	"github.com/mar-formanite/finwise/internal/receiptparser"
	"github.com/mar-formanite/finwise/internal/smsparser"
	"github.com/mar-formanite/finwise/internal/voiceparser"
)

// CategoryResolver resolves classifier labels against the durable category
// registry, creating unseen categories on first use.
type CategoryResolver interface {
	GetOrCreateCategory(ctx context.Context, name string) (models.Category, error)
}

// Options configures optional pipeline behavior. The zero value gives a
// pipeline with no persistence, no AI fallback and no receipt amount filter.
type Options struct {
	// Engine is the OCR engine for receipt images. Nil falls back to the
	// tesseract binary on PATH.
	Engine receiptparser.Engine
	// Resolver, when set, registers each predicted category before the
	// result is returned.
	Resolver CategoryResolver
	// AI, when set, is consulted for candidates the local model classified
	// degraded or below AIThreshold.
	AI          ai.Client
	AIThreshold float64
	// MinReceiptAmount drops receipt-channel candidates below the given
	// amount. OCR noise on receipts tends to produce zero-amount lines.
	MinReceiptAmount decimal.Decimal

	Logger logging.Logger
}

// Pipeline is the ingestion orchestrator.
type Pipeline struct {
	normalizers map[models.InputType]normalizer.Normalizer
	classifier  *classifier.Classifier
	opts        Options
	log         logging.Logger
}

// New creates a pipeline around the given classifier.
func New(cls *classifier.Classifier, opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	return &Pipeline{
		normalizers: map[models.InputType]normalizer.Normalizer{
			models.InputReceiptImage:      receiptparser.New(opts.Engine, log),
			models.InputReceiptAnnotation: annotationparser.New(log),
			models.InputVoice:             voiceparser.New(log),
			models.InputManual:            manualparser.New(log),
			models.InputSMS:               smsparser.New(log),
		},
		classifier: cls,
		opts:       opts,
		log:        log,
	}
}

// Process runs every input through its normalizer and classifies the
// resulting candidates. Unknown input types yield exactly one error record
// in place; they never abort the rest of the batch. A classifier artifact
// failure, by contrast, fails the whole run with a single error record,
// since every subsequent item would fail the same way.
func (p *Pipeline) Process(ctx context.Context, inputs []models.Input) []models.CandidateResult {
	// Never nil: callers serialize the results as a JSON list.
	results := []models.CandidateResult{}
	for _, in := range inputs {
		batch, fatal := p.processOne(ctx, in)
		if fatal != nil {
			return []models.CandidateResult{
				models.Errf("Failed to load classification model: %v", fatal),
			}
		}
		results = append(results, batch...)
	}
	p.log.Info("Processed inputs",
		logging.Field{Key: logging.FieldCount, Value: len(results)})
	return results
}

func (p *Pipeline) processOne(ctx context.Context, in models.Input) ([]models.CandidateResult, error) {
	inputType, err := models.ParseInputType(string(in.Type))
	if err != nil {
		p.log.Warn("Rejected input with unknown type",
			logging.Field{Key: logging.FieldChannel, Value: string(in.Type)})
		return []models.CandidateResult{models.Errf("Invalid input type")}, nil
	}

	var results []models.CandidateResult
	for _, res := range p.normalizers[inputType].Normalize(ctx, in.Data) {
		if res.IsError() {
			results = append(results, res)
			continue
		}
		if p.dropBelowMinimum(*res.Candidate) {
			continue
		}

		classified, err := p.classify(ctx, *res.Candidate)
		if err != nil {
			return nil, err
		}
		results = append(results, models.OK(classified))
	}
	return results, nil
}

// dropBelowMinimum applies the receipt amount floor. Other channels carry
// user-entered amounts and are never filtered.
func (p *Pipeline) dropBelowMinimum(c models.Candidate) bool {
	if p.opts.MinReceiptAmount.IsZero() {
		return false
	}
	if c.Source != models.SourceReceipt && c.Source != models.SourceReceiptAnnotation {
		return false
	}
	return c.Amount.LessThan(p.opts.MinReceiptAmount)
}

func (p *Pipeline) classify(ctx context.Context, c models.Candidate) (models.Candidate, error) {
	res, err := p.classifier.Classify(c.Text, true)
	if err != nil {
		return models.Candidate{}, err
	}

	c.Category = res.Category
	c.Confidence = res.Confidence
	c.Explanation = res.Explanation

	if p.wantsSecondOpinion(res) {
		p.consultAI(ctx, &c)
	}
	p.resolveCategory(ctx, &c)
	return c, nil
}

func (p *Pipeline) wantsSecondOpinion(res classifier.Result) bool {
	if p.opts.AI == nil {
		return false
	}
	return res.Degraded || res.Confidence < p.opts.AIThreshold
}

// consultAI asks the AI client for a second opinion. Failures leave the
// local result standing.
func (p *Pipeline) consultAI(ctx context.Context, c *models.Candidate) {
	labels, err := p.classifier.Labels()
	if err != nil {
		return
	}

	suggestion, err := p.opts.AI.Suggest(ctx, *c, labels)
	if err != nil {
		p.log.WithError(err).Warn("AI suggestion failed, keeping local result")
		return
	}

	p.log.Info("Applied AI category suggestion",
		logging.Field{Key: logging.FieldCategory, Value: suggestion.Category})
	c.Category = suggestion.Category
	if suggestion.Explanation != "" {
		c.Explanation = suggestion.Explanation
	}
}

// resolveCategory registers the predicted category. When the registry is
// unavailable the candidate falls back to Miscellaneous rather than being
// dropped.
func (p *Pipeline) resolveCategory(ctx context.Context, c *models.Candidate) {
	if p.opts.Resolver == nil {
		return
	}

	cat, err := p.opts.Resolver.GetOrCreateCategory(ctx, c.Category)
	if err != nil {
		p.log.WithError(err).Warn("Failed to resolve category, falling back",
			logging.Field{Key: logging.FieldCategory, Value: c.Category})
		c.Category = models.CategoryMiscellaneous
		return
	}
	c.Category = cat.Name
}
