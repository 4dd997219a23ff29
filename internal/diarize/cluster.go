package diarize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Cluster groups embedding vectors into exactly k clusters using
// hierarchical agglomerative clustering with Euclidean distance and
// average linkage. It returns one label in [0, k) per input row, numbered
// by order of first appearance. Non-finite values (from degenerate or
// empty audio slices) are zeroed before clustering.
func Cluster(embeddings [][]float64, k int) ([]int, error) {
	n := len(embeddings)
	if k <= 0 {
		return nil, fmt.Errorf("cluster count must be positive, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("cluster count %d exceeds segment count %d", k, n)
	}

	dim := len(embeddings[0])
	for i, row := range embeddings {
		if len(row) != dim {
			return nil, fmt.Errorf("embedding row %d has %d dimensions, expected %d", i, len(row), dim)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				row[j] = 0
			}
		}
	}

	// Pairwise Euclidean distances between all rows.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := floats.Distance(embeddings[i], embeddings[j], 2)
			dist[i][j], dist[j][i] = d, d
		}
	}

	// Start with singleton clusters and merge the closest pair until
	// exactly k remain.
	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}
	for len(clusters) > k {
		bi, bj := 0, 1
		best := math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if d := averageLinkage(dist, clusters[i], clusters[j]); d < best {
					best, bi, bj = d, i, j
				}
			}
		}
		clusters[bi] = append(clusters[bi], clusters[bj]...)
		clusters = append(clusters[:bj], clusters[bj+1:]...)
	}

	// Number clusters by their earliest member so labeling is stable
	// for identical input.
	labels := make([]int, n)
	order := make([]int, len(clusters))
	for ci, members := range clusters {
		earliest := members[0]
		for _, m := range members {
			if m < earliest {
				earliest = m
			}
		}
		order[ci] = earliest
	}
	for next := 0; next < len(clusters); next++ {
		ci := 0
		for i := 1; i < len(clusters); i++ {
			if order[i] < order[ci] {
				ci = i
			}
		}
		for _, m := range clusters[ci] {
			labels[m] = next
		}
		order[ci] = math.MaxInt
	}

	return labels, nil
}

// averageLinkage is the mean pairwise distance between two clusters.
func averageLinkage(dist [][]float64, a, b []int) float64 {
	sum := 0.0
	for _, i := range a {
		for _, j := range b {
			sum += dist[i][j]
		}
	}
	return sum / float64(len(a)*len(b))
}
