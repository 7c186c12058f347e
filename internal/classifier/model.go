package classifier

import (
	"fmt"
	"math"
	"sort"
)

// Model kinds understood by the inference code. Linear models expose
// per-label probabilities through a softmax over their decision scores;
// margin models only expose the winning label.
const (
	ModelKindLinear = "linear"
	ModelKindMargin = "margin"
)

// Model is the trained classifier half of the artifact bundle: one weight
// row per class over the vectorizer's feature columns, plus intercepts.
type Model struct {
	Kind       string      `json:"kind"`
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

func (m *Model) validate(features, classes int) error {
	if m.Kind != ModelKindLinear && m.Kind != ModelKindMargin {
		return fmt.Errorf("unsupported model kind %q", m.Kind)
	}
	if len(m.Weights) != classes {
		return fmt.Errorf("model has %d weight rows for %d labels", len(m.Weights), classes)
	}
	if len(m.Intercepts) != classes {
		return fmt.Errorf("model has %d intercepts for %d labels", len(m.Intercepts), classes)
	}
	for i, row := range m.Weights {
		if len(row) != features {
			return fmt.Errorf("weight row %d has %d columns, vectorizer has %d features", i, len(row), features)
		}
	}
	return nil
}

// scores computes the raw decision score for every class.
func (m *Model) scores(vec []float64) []float64 {
	scores := make([]float64, len(m.Weights))
	for class, row := range m.Weights {
		s := m.Intercepts[class]
		for col, w := range row {
			if vec[col] != 0 {
				s += w * vec[col]
			}
		}
		scores[class] = s
	}
	return scores
}

// Predict returns the index of the winning class.
func (m *Model) Predict(vec []float64) int {
	scores := m.scores(vec)
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}

// Proba returns the per-class probability vector and true when the model
// kind supports probability estimates.
func (m *Model) Proba(vec []float64) ([]float64, bool) {
	if m.Kind != ModelKindLinear {
		return nil, false
	}
	scores := m.scores(vec)
	return softmax(scores), true
}

// FeatureImportance returns one global importance value per feature column:
// the sum of absolute class weights for that column. This is a model-global
// measure, not a per-prediction attribution.
func (m *Model) FeatureImportance() []float64 {
	if len(m.Weights) == 0 {
		return nil
	}
	importance := make([]float64, len(m.Weights[0]))
	for _, row := range m.Weights {
		for col, w := range row {
			importance[col] += math.Abs(w)
		}
	}
	return importance
}

// TopFeatures returns the indices of the n most important feature columns,
// most important first.
func (m *Model) TopFeatures(n int) []int {
	importance := m.FeatureImportance()
	idx := make([]int, len(importance))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return importance[idx[a]] > importance[idx[b]]
	})
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}

func softmax(scores []float64) []float64 {
	max := math.Inf(-1)
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
