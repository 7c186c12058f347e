package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mar-formanite/finwise/internal/models"
)

// LoadSeedFile reads a YAML category seed file. A missing file is not an
// error and yields no categories, so first runs work without one.
func LoadSeedFile(path string) ([]models.CategoryConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return cfg.Categories, nil
}
