// Package classifier assigns a spending category to a transaction
// description using a pretrained text classification bundle: a TF-IDF
// vectorizer, a trained model and a label decoder.
//
// The bundle is loaded lazily, exactly once per Classifier. A load failure is
// sticky: every subsequent call keeps failing until the artifacts are fixed
// and the process restarts. After a successful load the bundle is read-only
// and shared by unlimited concurrent callers.
package classifier

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

// Number of vocabulary terms surfaced in an explanation.
const explanationTerms = 5

// Result is the outcome of a single classification. Degraded distinguishes
// "the model chose Miscellaneous" from "the model failed and Miscellaneous
// was substituted"; callers that only care about the label can ignore it.
type Result struct {
	Category    string
	Confidence  float64
	Explanation string
	Degraded    bool
	Reason      string
}

// Classifier is an explicitly constructed handle around the artifact bundle.
// It holds no package-level state; pass it to whoever needs it.
type Classifier struct {
	dir     string
	log     logging.Logger
	once    sync.Once
	bundle  *Bundle
	loadErr error

	termsOnce sync.Once
	columns   []string
}

// New creates a Classifier that will load its artifacts from dir on first
// use. A nil logger falls back to the default adapter.
func New(dir string, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Classifier{dir: dir, log: logger}
}

// load performs the one-time guarded artifact load.
func (c *Classifier) load() error {
	c.once.Do(func() {
		bundle, err := LoadBundle(c.dir)
		if err != nil {
			c.loadErr = err
			c.log.WithError(err).Error("Failed to load classifier artifacts",
				logging.Field{Key: logging.FieldModelDir, Value: c.dir})
			return
		}
		c.bundle = bundle
		c.log.Info("Classifier artifacts loaded",
			logging.Field{Key: logging.FieldModelDir, Value: c.dir},
			logging.Field{Key: "labels", Value: len(bundle.Labels)},
			logging.Field{Key: "features", Value: bundle.Vectorizer.Features()})
	})
	return c.loadErr
}

// Classify maps one description to a category with a confidence score in
// [0,100]. The returned error is non-nil only when the artifact bundle could
// not be loaded; inference failures degrade to the Miscellaneous fallback
// and are reported through Result.Degraded instead.
//
// An empty or whitespace description short-circuits before the bundle is
// touched.
func (c *Classifier) Classify(description string, explain bool) (Result, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Result{
			Category:    models.CategoryMiscellaneous,
			Confidence:  0.0,
			Explanation: models.ExplanationEmptyDescription,
			Degraded:    true,
			Reason:      "empty description",
		}, nil
	}

	if err := c.load(); err != nil {
		return Result{}, err
	}

	result, err := c.predict(description, explain)
	if err != nil {
		c.log.WithError(err).Warn("Classification failed, using fallback category")
		return Result{
			Category:    models.CategoryMiscellaneous,
			Confidence:  0.0,
			Explanation: models.ExplanationFallback,
			Degraded:    true,
			Reason:      err.Error(),
		}, nil
	}
	return result, nil
}

// ClassifyMany classifies a batch of descriptions in one vectorize+predict
// pass. It returns labels only; the batch path is a performance-oriented
// subset of the single-item contract. Empty input yields empty output.
func (c *Classifier) ClassifyMany(descriptions []string) ([]string, error) {
	if len(descriptions) == 0 {
		return []string{}, nil
	}
	if err := c.load(); err != nil {
		return nil, err
	}

	cleaned := make([]string, len(descriptions))
	for i, d := range descriptions {
		cleaned[i] = strings.TrimSpace(d)
	}

	vectors := c.bundle.Vectorizer.TransformAll(cleaned)
	categories := make([]string, len(vectors))
	for i, vec := range vectors {
		if cleaned[i] == "" {
			categories[i] = models.CategoryMiscellaneous
			continue
		}
		label, err := c.bundle.DecodeLabel(c.bundle.Model.Predict(vec))
		if err != nil {
			categories[i] = models.CategoryMiscellaneous
			continue
		}
		categories[i] = label
	}
	return categories, nil
}

// Labels returns the decoder's known category names. It forces the lazy load.
func (c *Classifier) Labels() ([]string, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return append([]string(nil), c.bundle.Labels...), nil
}

func (c *Classifier) predict(description string, explain bool) (result Result, err error) {
	// The artifact contract is untrusted data; a malformed bundle must end
	// as a degraded result, never a crash.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prediction panicked: %v", r)
		}
	}()

	vec := c.bundle.Vectorizer.Transform(description)
	class := c.bundle.Model.Predict(vec)
	category, err := c.bundle.DecodeLabel(class)
	if err != nil {
		return Result{}, err
	}

	confidence := 0.0
	if probs, ok := c.bundle.Model.Proba(vec); ok {
		best := 0.0
		for _, p := range probs {
			if p > best {
				best = p
			}
		}
		confidence = math.Round(best*100*100) / 100
	}

	explanation := "Predicted by the trained expense categorization model"
	if explain {
		explanation = c.explanation()
	}

	return Result{
		Category:    category,
		Confidence:  confidence,
		Explanation: explanation,
	}, nil
}

// explanation surfaces the vocabulary terms with the highest global feature
// importance. This is a coarse, model-global rationale - it names the terms
// the model weighs most overall, not a causal attribution for one prediction.
func (c *Classifier) explanation() string {
	importance := c.bundle.Model.FeatureImportance()
	if len(importance) == 0 {
		return "No feature importance available for this model"
	}

	c.termsOnce.Do(func() {
		c.columns = make([]string, c.bundle.Vectorizer.Features())
		for term, col := range c.bundle.Vectorizer.Vocabulary {
			if col >= 0 && col < len(c.columns) {
				c.columns[col] = term
			}
		}
	})

	var terms []string
	for _, col := range c.bundle.Model.TopFeatures(explanationTerms) {
		if col < len(c.columns) && c.columns[col] != "" {
			terms = append(terms, c.columns[col])
		}
	}
	if len(terms) == 0 {
		return "No feature importance available for this model"
	}
	return "Top contributing terms (model-global importance): " + strings.Join(terms, ", ")
}
