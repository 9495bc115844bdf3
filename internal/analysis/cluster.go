package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"eduviz/domain/analytics"
	"eduviz/domain/gradebook"
)

const (
	minClusterStudents = 10
	maxClusters        = 4
	clusterSeed        = 42
	kmeansMaxIter      = 100
	clusterIDSample    = 10
)

// ClusterStudents groups students by performance profile (mean grade, grade
// count, grade std) using k-means over standardized features. The RNG is
// seeded, so repeated runs over the same table produce the same clusters.
// Returns a diagnostic instead of results when fewer than ten students
// qualify.
func ClusterStudents(t *gradebook.Table, minRecords int) (map[string]analytics.ClusterInfo, string) {
	aggs := studentAggregates(t, minRecords)
	if len(aggs) < minClusterStudents {
		return nil, "not enough students for cluster analysis"
	}

	features := make([][3]float64, len(aggs))
	for i, a := range aggs {
		features[i] = [3]float64{a.AvgGrade, float64(a.GradeCount), a.GradeStd}
	}
	standardize(features)

	k := len(aggs) / 3
	if k > maxClusters {
		k = maxClusters
	}
	assignments := kmeans(features, k, rand.New(rand.NewSource(clusterSeed)))

	out := make(map[string]analytics.ClusterInfo, k)
	for c := 0; c < k; c++ {
		var avgs []float64
		var ids []string
		for i, a := range aggs {
			if assignments[i] != c {
				continue
			}
			avgs = append(avgs, a.AvgGrade)
			if len(ids) < clusterIDSample {
				ids = append(ids, a.StudentID)
			}
		}
		if len(avgs) == 0 {
			continue
		}
		out[fmt.Sprintf("cluster_%d", c)] = analytics.ClusterInfo{
			StudentCount: len(avgs),
			AvgGradeMean: stat.Mean(avgs, nil),
			AvgGradeStd:  sampleStd(avgs),
			StudentIDs:   ids,
		}
	}
	return out, ""
}

// standardize centers each feature column and scales it by its sample std in
// place. A constant column keeps its centered values (divisor 1).
func standardize(features [][3]float64) {
	for col := 0; col < 3; col++ {
		values := make([]float64, len(features))
		for i, f := range features {
			values[i] = f[col]
		}
		mean := stat.Mean(values, nil)
		std := sampleStd(values)
		if std == 0 {
			std = 1
		}
		for i := range features {
			features[i][col] = (features[i][col] - mean) / std
		}
	}
}

// kmeans runs Lloyd's algorithm with centroids initialized from k distinct
// random points. Returns the cluster index per feature row.
func kmeans(features [][3]float64, k int, rng *rand.Rand) []int {
	centroids := make([][3]float64, k)
	for i, idx := range rng.Perm(len(features))[:k] {
		centroids[i] = features[idx]
	}

	assignments := make([]int, len(features))
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, f := range features {
			best, bestDist := 0, math.Inf(1)
			for c, ctr := range centroids {
				if d := sqDist(f, ctr); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([][3]float64, k)
		counts := make([]int, k)
		for i, f := range features {
			c := assignments[i]
			for col := 0; col < 3; col++ {
				sums[c][col] += f[col]
			}
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Reseed an emptied centroid on a random point.
				centroids[c] = features[rng.Intn(len(features))]
				continue
			}
			for col := 0; col < 3; col++ {
				centroids[c][col] = sums[c][col] / float64(counts[c])
			}
		}
	}
	return assignments
}

func sqDist(a, b [3]float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
