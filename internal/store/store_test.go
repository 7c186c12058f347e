package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mar-formanite/finwise/internal/logging"
	"github.com/mar-formanite/finwise/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "finwise.db"), &logging.MockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetOrCreateCategory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cat, err := s.GetOrCreateCategory(ctx, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", cat.Name)
	assert.Equal(t, models.DefaultCategoryDescription("Groceries"), cat.Description)
	assert.NotZero(t, cat.ID)

	// Second call returns the same row, not a duplicate.
	again, err := s.GetOrCreateCategory(ctx, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, again.ID)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
}

func TestGetOrCreateCategoryConcurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const workers = 10
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := s.GetOrCreateCategory(ctx, "Transport")
			ids[i], errs[i] = cat.ID, err
		}(i)
	}
	wg.Wait()

	// Racing resolvers all observe the single created row.
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Transport", categories[0].Name)
}

func TestGetCategoryByNameMissing(t *testing.T) {
	s := openTestStore(t)

	cat, err := s.GetCategoryByName(context.Background(), "Nonexistent")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestSeedCategories(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetOrCreateCategory(ctx, "Transport")
	require.NoError(t, err)

	created, err := s.SeedCategories(ctx, []models.CategoryConfig{
		{Name: "Transport", Description: "Rides and fuel"},
		{Name: "Utilities", Description: "Electricity, gas and water bills"},
		{Name: "Healthcare"},
		{Name: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Healthcare", categories[0].Name)
	assert.Equal(t, models.DefaultCategoryDescription("Healthcare"), categories[0].Description)

	// Seeding never overwrites an existing category's description.
	transport, err := s.GetCategoryByName(ctx, "Transport")
	require.NoError(t, err)
	require.NotNil(t, transport)
	assert.Equal(t, models.DefaultCategoryDescription("Transport"), transport.Description)
}

func TestSaveTransactionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	txn, err := s.SaveTransaction(ctx, models.Candidate{
		Text:        "Uber ride",
		Amount:      decimal.RequireFromString("450.50"),
		Source:      models.SourceManual,
		Category:    "Transport",
		Confidence:  92.15,
		Explanation: "Predicted by the trained expense categorization model",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "Transport", txn.Category)

	txns, err := s.ListTransactions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, txn.ID, txns[0].ID)
	assert.Equal(t, "Uber ride", txns[0].Text)
	assert.True(t, decimal.RequireFromString("450.50").Equal(txns[0].Amount))
	assert.Equal(t, models.SourceManual, txns[0].Source)
	assert.InDelta(t, 92.15, txns[0].Confidence, 1e-9)
}

func TestSaveTransactionDefaultsCategory(t *testing.T) {
	s := openTestStore(t)

	txn, err := s.SaveTransaction(context.Background(), models.Candidate{
		Text:   "mystery charge",
		Amount: decimal.NewFromInt(10),
		Source: models.SourceSMS,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMiscellaneous, txn.Category)
}

func TestSaveTransactionsSkipsErrors(t *testing.T) {
	s := openTestStore(t)

	saved, err := s.SaveTransactions(context.Background(), []models.CandidateResult{
		models.OK(models.Candidate{
			Text:     "Bread",
			Amount:   decimal.NewFromInt(80),
			Source:   models.SourceReceipt,
			Category: "Groceries",
		}),
		models.Errf("Failed to load image: missing.png"),
		models.OK(models.Candidate{
			Text:     "Milk",
			Amount:   decimal.NewFromInt(120),
			Source:   models.SourceReceipt,
			Category: "Groceries",
		}),
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Bread", saved[0].Text)
	assert.Equal(t, "Milk", saved[1].Text)
}

func TestSaveTransactionsPartialOnFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveTransactions(ctx, []models.CandidateResult{
		models.OK(models.Candidate{
			Text:     "Bread",
			Amount:   decimal.NewFromInt(80),
			Source:   models.SourceReceipt,
			Category: "Groceries",
		}),
		models.OK(models.Candidate{Category: "Groceries"}),
	})
	require.Error(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Bread", saved[0].Text)

	// Rows persisted before the failing candidate remain committed.
	txns, err := s.ListTransactions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Bread", txns[0].Text)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "finwise.db")
	s, err := Open(path, &logging.MockLogger{})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("", &logging.MockLogger{})
	require.Error(t, err)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`categories:
  - name: Groceries
    description: Food and household supplies
  - name: Transport
`), 0o600))

	configs, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "Groceries", configs[0].Name)
	assert.Equal(t, "Food and household supplies", configs[0].Description)
	assert.Empty(t, configs[1].Description)
}

func TestLoadSeedFileMissing(t *testing.T) {
	configs, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, configs)
}

func TestLoadSeedFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: {not a list"), 0o600))

	_, err := LoadSeedFile(path)
	require.Error(t, err)
}
