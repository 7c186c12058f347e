package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mar-formanite/finwise/internal/ingesterror"
)

// Artifact file names inside the model directory. The offline trainer writes
// exactly these three files; together they form one immutable bundle.
const (
	VectorizerFile = "vectorizer.json"
	ModelFile      = "model.json"
	LabelsFile     = "labels.json"
)

// Bundle is the loaded classifier artifact set: vectorizer, model and label
// decoder. It is immutable after load and safe for concurrent readers.
type Bundle struct {
	Vectorizer Vectorizer
	Model      Model
	Labels     []string
}

type labelsDoc struct {
	Labels []string `json:"labels"`
}

// LoadBundle reads and validates the artifact bundle from dir. All missing
// files are reported at once so a misconfigured deployment shows the full
// damage in a single error.
func LoadBundle(dir string) (*Bundle, error) {
	var missing []string
	for _, name := range []string{VectorizerFile, ModelFile, LabelsFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ingesterror.ModelLoadError{Dir: dir, Missing: missing}
	}

	var b Bundle
	if err := readJSON(filepath.Join(dir, VectorizerFile), &b.Vectorizer); err != nil {
		return nil, &ingesterror.ModelLoadError{Dir: dir, Err: err}
	}
	var labels labelsDoc
	if err := readJSON(filepath.Join(dir, LabelsFile), &labels); err != nil {
		return nil, &ingesterror.ModelLoadError{Dir: dir, Err: err}
	}
	b.Labels = labels.Labels
	if err := readJSON(filepath.Join(dir, ModelFile), &b.Model); err != nil {
		return nil, &ingesterror.ModelLoadError{Dir: dir, Err: err}
	}

	if err := b.validate(); err != nil {
		return nil, &ingesterror.ModelLoadError{Dir: dir, Err: err}
	}
	return &b, nil
}

func (b *Bundle) validate() error {
	if len(b.Labels) == 0 {
		return fmt.Errorf("label decoder is empty")
	}
	if b.Vectorizer.Features() == 0 {
		return fmt.Errorf("vectorizer has no features")
	}
	if b.Vectorizer.NGramMin < 1 || b.Vectorizer.NGramMax < b.Vectorizer.NGramMin {
		return fmt.Errorf("invalid n-gram range [%d,%d]", b.Vectorizer.NGramMin, b.Vectorizer.NGramMax)
	}
	for term, col := range b.Vectorizer.Vocabulary {
		if col < 0 || col >= b.Vectorizer.Features() {
			return fmt.Errorf("vocabulary term %q maps to column %d outside %d features", term, col, b.Vectorizer.Features())
		}
	}
	return b.Model.validate(b.Vectorizer.Features(), len(b.Labels))
}

// DecodeLabel maps a class index back to its category name.
func (b *Bundle) DecodeLabel(index int) (string, error) {
	if index < 0 || index >= len(b.Labels) {
		return "", fmt.Errorf("label index %d out of range [0,%d)", index, len(b.Labels))
	}
	return b.Labels[index], nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}
