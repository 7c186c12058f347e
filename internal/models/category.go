package models

import "time"

// Category is a persisted spending category. Categories are created on first
// unseen classifier label and never deleted or renamed by this core.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryConfig is one entry in the category seed file.
type CategoryConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// CategoriesConfig is the structure of the categories YAML seed file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// DefaultCategoryDescription is the generated description used when the
// registry auto-creates a category for an unseen classifier label.
func DefaultCategoryDescription(name string) string {
	return "Auto-created category for " + name
}
