package vecstore

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions is the hashed-embedding vector size.
const DefaultDimensions = 256

// Embedder turns text into a vector the store can index and search.
type Embedder interface {
	Embed(text string) []float32
}

// HashEmbedder is a deterministic local embedder: tokens are feature-hashed
// into a fixed-size vector with log term-frequency weighting. No network, no
// model files; quality is good enough for short scouting notes.
type HashEmbedder struct {
	Dimensions int
}

// NewHashEmbedder builds an embedder with the default dimensions.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{Dimensions: DefaultDimensions}
}

// Embed implements Embedder.
func (e *HashEmbedder) Embed(text string) []float32 {
	dims := e.Dimensions
	if dims <= 0 {
		dims = DefaultDimensions
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}

	vec := make([]float64, dims)
	for tok, count := range tf {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()

		index := int(sum % uint32(dims))
		sign := 1.0
		if (sum>>31)&1 == 1 {
			sign = -1
		}
		vec[index] += sign * (1.0 + math.Log(float64(count)))
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)

	out := make([]float32, dims)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 2 {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
