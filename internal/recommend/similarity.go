package recommend

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Scored pairs a corpus row index with its cosine similarity to a query.
type Scored struct {
	Index int
	Score float64
}

// Rank scores every corpus row against the query vector and returns up to
// topN results in descending score order, ties broken by ascending row
// index. Both query and rows are unit vectors, so the dot product is the
// cosine similarity and scores fall in [0, 1].
//
// A zero-row corpus yields an empty ranking, not an error. A topN larger
// than the corpus returns all rows ranked.
func Rank(query []float64, space *VectorSpace, topN int) []Scored {
	if space.Len() == 0 || topN <= 0 {
		return nil
	}

	scored := make([]Scored, space.Len())
	for i, row := range space.Rows {
		scored[i] = Scored{Index: i, Score: floats.Dot(query, row)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	if topN < len(scored) {
		scored = scored[:topN]
	}
	return scored
}

// RankAll is the batch form of Rank: one ranked neighbor list per query
// vector, each against the same corpus.
func RankAll(queries [][]float64, space *VectorSpace, topN int) [][]Scored {
	out := make([][]Scored, len(queries))
	for i, q := range queries {
		out[i] = Rank(q, space, topN)
	}
	return out
}
