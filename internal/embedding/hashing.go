package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

// hashingEmbedder is the default provider: a hashed bag-of-words vector.
// It needs no vocabulary preparation and no external service, so the same
// text always maps to the same vector regardless of ingestion order.
type hashingConfig struct {
	Dimension int `json:"dimension"`
}

type hashingEmbedder struct {
	dimension    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

const defaultHashingDimension = 512

func init() {
	Register("hashing", createHashingEmbedder)
}

func createHashingEmbedder(args interface{}) (Embedder, error) {
	cfg := &hashingConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = defaultHashingDimension
	}
	return &hashingEmbedder{
		dimension:    cfg.Dimension,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
		stopwords:    defaultStopwords(),
	}, nil
}

func (e *hashingEmbedder) Name() string { return "hashing" }

func (e *hashingEmbedder) Dimension() int { return e.dimension }

func (e *hashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	tokens := e.tokenize(text)
	if len(tokens) == 0 {
		return vec, nil
	}
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dimension]++
	}
	// L2 normalize so dot products behave as cosine similarity.
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

func (e *hashingEmbedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of",
		"in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been",
		"being", "it", "this", "that", "these", "those", "from", "up", "down", "over",
		"under", "than", "so", "such", "into", "about", "between", "through", "during",
		"before", "after", "above", "below", "out", "off", "own", "same", "too", "very",
		"can", "will", "just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
