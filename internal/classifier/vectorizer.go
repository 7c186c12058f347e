package classifier

import (
	"math"
	"regexp"
	"strings"
)

// Vectorizer maps a description string to a fixed-length TF-IDF feature
// vector. Its fields mirror the trainer's artifact contract: a vocabulary of
// terms (unigrams and bigrams) mapped to column indices, one IDF weight per
// column, and the tokenization flags the trainer used.
type Vectorizer struct {
	Lowercase  bool           `json:"lowercase"`
	NGramMin   int            `json:"ngram_min"`
	NGramMax   int            `json:"ngram_max"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// Word tokens of at least two characters, the trainer's token rule.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_]+`)

// Features returns the width of the produced vectors.
func (v *Vectorizer) Features() int {
	return len(v.IDF)
}

// Transform converts one description into a dense, L2-normalized TF-IDF
// vector. Terms outside the vocabulary are ignored.
func (v *Vectorizer) Transform(text string) []float64 {
	vec := make([]float64, v.Features())
	if v.Lowercase {
		text = strings.ToLower(text)
	}

	tokens := tokenRe.FindAllString(text, -1)
	for n := v.NGramMin; n <= v.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := strings.Join(tokens[i:i+n], " ")
			col, ok := v.Vocabulary[term]
			if !ok || col < 0 || col >= len(vec) {
				continue
			}
			vec[col] += v.IDF[col]
		}
	}

	normalize(vec)
	return vec
}

// TransformAll vectorizes a batch in one pass.
func (v *Vectorizer) TransformAll(texts []string) [][]float64 {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = v.Transform(text)
	}
	return vectors
}

func normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
