package recommend

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/gonum/floats"
)

// tokenPattern is compiled once; tokens are runs of letters and digits.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// VectorSpace holds an ordered vocabulary and one L2-normalized TF-IDF row
// vector per input document, in input order. Vocabulary and rows are always
// built together from the same document set; a VectorSpace is never reused
// across catalogs with different content because the IDF weights depend on
// the corpus.
type VectorSpace struct {
	Vocabulary map[string]int // term -> column index
	Terms      []string       // column index -> term, lexicographic
	Rows       [][]float64    // unit rows, one per document
}

// Len returns the number of document rows.
func (vs *VectorSpace) Len() int { return len(vs.Rows) }

// Vectorize turns an ordered document list into a VectorSpace.
//
// Tokenization lower-cases, NFKC-normalizes and splits on word boundaries;
// English stop words are dropped. Term weights are raw term frequency times
// smoothed IDF, ln((1+N)/(1+df)) + 1, and every row is scaled to unit
// Euclidean length so cosine similarity reduces to a dot product.
//
// An empty document list yields an empty space (zero rows, empty vocabulary).
// The output is deterministic: the vocabulary is ordered lexicographically,
// so identical inputs produce identical spaces.
func Vectorize(documents []string) *VectorSpace {
	vs := &VectorSpace{Vocabulary: make(map[string]int)}
	if len(documents) == 0 {
		return vs
	}

	tokenized := make([][]string, len(documents))
	df := make(map[string]int)
	for i, doc := range documents {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vs.Terms = terms
	idf := make([]float64, len(terms))
	n := float64(len(documents))
	for i, term := range terms {
		vs.Vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vs.Rows = make([][]float64, len(documents))
	for i, tokens := range tokenized {
		row := make([]float64, len(terms))
		for _, tok := range tokens {
			col := vs.Vocabulary[tok]
			row[col] += idf[col]
		}
		if l2 := floats.Norm(row, 2); l2 > 0 {
			floats.Scale(1/l2, row)
		}
		vs.Rows[i] = row
	}

	return vs
}

// MeanVector computes the column-wise mean of the given rows, the profile
// vector for a subset of courses. The mean of a single row equals that row.
func (vs *VectorSpace) MeanVector(rowIndices []int) []float64 {
	mean := make([]float64, len(vs.Terms))
	if len(rowIndices) == 0 {
		return mean
	}
	for _, idx := range rowIndices {
		floats.Add(mean, vs.Rows[idx])
	}
	floats.Scale(1/float64(len(rowIndices)), mean)
	return mean
}

func tokenize(text string) []string {
	text = norm.NFKC.String(strings.ToLower(text))
	raw := tokenPattern.FindAllString(text, -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
