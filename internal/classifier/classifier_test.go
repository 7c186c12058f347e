package classifier

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	return New("testdata", &logging.MockLogger{})
}

func TestClassifyKnownVocabulary(t *testing.T) {
	tests := []struct {
		description string
		expected    string
	}{
		{"Uber ride", "Transport"},
		{"Careem ride to airport", "Transport"},
		{"Carrefour market", "Groceries"},
		{"KFC order", "Eating_Out"},
		{"Foodpanda order", "Eating_Out"},
		{"IESCO BILL PAYMENT", "Utilities"},
		{"Medicine pharmacy", "Healthcare"},
	}

	c := newTestClassifier(t)
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			result, err := c.Classify(tt.description, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Category)
			assert.False(t, result.Degraded)
			assert.Greater(t, result.Confidence, 0.0)
			assert.LessOrEqual(t, result.Confidence, 100.0)
		})
	}
}

func TestClassifyReturnsKnownLabel(t *testing.T) {
	c := newTestClassifier(t)
	labels, err := c.Labels()
	require.NoError(t, err)

	for _, desc := range []string{"Uber ride", "random text with no vocabulary", "x"} {
		result, err := c.Classify(desc, false)
		require.NoError(t, err)
		known := result.Category == models.CategoryMiscellaneous
		for _, l := range labels {
			if l == result.Category {
				known = true
			}
		}
		assert.True(t, known, "category %q must be a decoder label or Miscellaneous", result.Category)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 100.0)
	}
}

func TestClassifyEmptyDescription(t *testing.T) {
	c := newTestClassifier(t)

	for _, desc := range []string{"", "   ", "\t\n"} {
		result, err := c.Classify(desc, false)
		require.NoError(t, err)
		assert.Equal(t, models.CategoryMiscellaneous, result.Category)
		assert.Equal(t, 0.0, result.Confidence)
		assert.True(t, result.Degraded)
		assert.Equal(t, models.ExplanationEmptyDescription, result.Explanation)
	}

	// The short-circuit must not touch the bundle.
	missing := New(filepath.Join(t.TempDir(), "nowhere"), &logging.MockLogger{})
	result, err := missing.Classify("", false)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMiscellaneous, result.Category)
}

func TestClassifyExplain(t *testing.T) {
	c := newTestClassifier(t)

	result, err := c.Classify("Uber ride", true)
	require.NoError(t, err)
	assert.Contains(t, result.Explanation, "uber ride")
	assert.Contains(t, result.Explanation, "model-global")
}

func TestClassifyExplainMarginModel(t *testing.T) {
	// A margin model exposes no probabilities: confidence stays 0.
	dir := copyArtifacts(t, map[string]string{
		ModelFile: `{"kind":"margin","weights":[[0,0,0,0,0,0,0,2,2,1.2,0,0,0,0,2,0],[0,0,0,0,2,2,1.4,0,0,0,0,0,0,0,0,0],[0,0,0,0,0,0,0,0,0,0,0,0,2,2,0,0],[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0],[2,2,2.4,2,0,0,0,0,0,0,0,0,0,0,0,1.6],[0,0,0,0,0,0,0,0,0,0,1.6,2.2,0,0,0,0]],"intercepts":[0,0,0,0.1,0,0]}`,
	})

	c := New(dir, &logging.MockLogger{})
	result, err := c.Classify("Uber ride", true)
	require.NoError(t, err)
	assert.Equal(t, "Transport", result.Category)
	assert.Equal(t, 0.0, result.Confidence)
	assert.False(t, result.Degraded)
}

func TestClassifyManyAgreesWithSingle(t *testing.T) {
	c := newTestClassifier(t)

	descriptions := []string{"Uber ride", "Carrefour market", "KFC order", "", "IESCO bill"}
	batch, err := c.ClassifyMany(descriptions)
	require.NoError(t, err)
	require.Len(t, batch, len(descriptions))

	for i, desc := range descriptions {
		single, err := c.Classify(desc, false)
		require.NoError(t, err)
		assert.Equal(t, single.Category, batch[i], "disagreement for %q", desc)
	}
}

func TestClassifyManyEmpty(t *testing.T) {
	c := newTestClassifier(t)

	categories, err := c.ClassifyMany(nil)
	require.NoError(t, err)
	assert.Empty(t, categories)

	categories, err = c.ClassifyMany([]string{})
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestMissingArtifactsAreSticky(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	log := &logging.MockLogger{}
	c := New(dir, log)

	_, err := c.Classify("Uber ride", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), VectorizerFile)
	assert.Contains(t, err.Error(), ModelFile)
	assert.Contains(t, err.Error(), LabelsFile)

	// Second call fails identically without retrying the load.
	_, err2 := c.Classify("Carrefour market", false)
	require.Error(t, err2)
	assert.Equal(t, err.Error(), err2.Error())

	_, err = c.ClassifyMany([]string{"Uber ride"})
	require.Error(t, err)
}

func TestConcurrentFirstLoad(t *testing.T) {
	c := newTestClassifier(t)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.Classify("Uber ride", false)
			require.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "Transport", r.Category)
	}
}

func TestCorruptModelDegrades(t *testing.T) {
	// A bundle that loads but misbehaves at inference time must degrade,
	// not crash: simulate with a weight row wider than the feature vector.
	c := newTestClassifier(t)
	require.NoError(t, c.load())
	c.bundle.Model.Weights[4] = append(c.bundle.Model.Weights[4], 1.0)

	result, err := c.Classify("Uber ride", false)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMiscellaneous, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.Reason)
	assert.Equal(t, models.ExplanationFallback, result.Explanation)
}

// copyArtifacts clones the testdata bundle into a temp dir, replacing the
// files named in overrides.
func copyArtifacts(t *testing.T, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{VectorizerFile, ModelFile, LabelsFile} {
		if body, ok := overrides[name]; ok {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
			continue
		}
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}
	return dir
}
