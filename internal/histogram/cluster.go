package histogram

import (
	"container/heap"
	"runtime"
	"sync"
)

// MaxClusters bounds the number of distinct code tables a context map
// may reference.
const MaxClusters = 64

// ClusteringType trades search thoroughness for speed across Cluster's
// three modes, mirroring the reference's ClusteringType enum.
type ClusteringType int

const (
	// ClusteringBest runs the full pairwise greedy merge search: every
	// pair of active clusters is a merge candidate, evaluated by its
	// exact combined-entropy cost, until the cluster count is at or
	// below the requested bound. Slowest, highest quality; this is the
	// algorithm Cluster has always run.
	ClusteringBest ClusteringType = iota
	// ClusteringFast restricts merge candidates to histograms within
	// fastNeighborWindow slots of each other in input order instead of
	// every pair, trading some merge quality for an O(n*window) search
	// instead of O(n^2). If those candidates run out while the cluster
	// count is still above the bound, every pair of the remaining
	// clusters becomes a candidate.
	ClusteringFast
	// ClusteringFastest skips the cost-driven search entirely: once the
	// input exceeds maxClusters, histograms are folded into contiguous
	// fixed-size buckets by input order with no entropy evaluation.
	ClusteringFastest
)

// fastNeighborWindow bounds how far apart (in original input order) two
// histograms may be and still be considered as a merge candidate under
// ClusteringFast.
const fastNeighborWindow = 8

// clusterParallelThreshold is the input size past which Cluster's
// independent per-histogram work (cost warmup, the final context-map
// remap) is worth handing to goroutines instead of running inline; below
// it dispatch overhead would outweigh the work saved.
const clusterParallelThreshold = 64

// pair is one candidate merge in the greedy clustering search: merging
// clusters idx1 and idx2 changes total cost by costDiff (more negative
// is a better merge).
type pair struct {
	idx1, idx2 int
	costDiff   float64
}

type pairHeap []pair

func (q pairHeap) Len() int            { return len(q) }
func (q pairHeap) Less(i, j int) bool  { return q[i].costDiff < q[j].costDiff }
func (q pairHeap) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pairHeap) Push(x interface{}) { *q = append(*q, x.(pair)) }
func (q *pairHeap) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Cluster merges histos down to at most maxClusters entries under the
// search thoroughness clusteringType selects, returning the resulting
// cluster-center histograms and, for every input histogram, the cluster
// index it was assigned to (contextMap[i] indexes into the returned
// slice).
func Cluster(histos []*Histogram, maxClusters int, clusteringType ClusteringType) ([]*Histogram, []uint16) {
	n := len(histos)
	if n == 0 {
		return nil, nil
	}
	if maxClusters <= 0 || maxClusters > MaxClusters {
		maxClusters = MaxClusters
	}

	switch clusteringType {
	case ClusteringFastest:
		return clusterFastest(histos, maxClusters)
	case ClusteringFast:
		return clusterSearch(histos, maxClusters, fastNeighborWindow)
	default:
		return clusterSearch(histos, maxClusters, 0)
	}
}

// clusterFastest buckets histograms by contiguous input order with no
// entropy evaluation at all: the cheapest possible way to bound the
// cluster count.
func clusterFastest(histos []*Histogram, maxClusters int) ([]*Histogram, []uint16) {
	n := len(histos)
	if n <= maxClusters {
		centers := make([]*Histogram, n)
		contextMap := make([]uint16, n)
		for i, h := range histos {
			c := New(len(h.Counts))
			c.CopyFrom(h)
			centers[i] = c
			contextMap[i] = uint16(i)
		}
		return centers, contextMap
	}

	bucketSize := (n + maxClusters - 1) / maxClusters
	numBuckets := (n + bucketSize - 1) / bucketSize
	centers := make([]*Histogram, numBuckets)
	contextMap := make([]uint16, n)
	for b := 0; b < numBuckets; b++ {
		start := b * bucketSize
		end := start + bucketSize
		if end > n {
			end = n
		}
		c := New(len(histos[start].Counts))
		for i := start; i < end; i++ {
			c.AddHistogram(histos[i])
			contextMap[i] = uint16(b)
		}
		centers[b] = c
	}
	return centers, contextMap
}

// clusterSearch runs the pairwise greedy merge search. window == 0
// considers every pair (ClusteringBest); window > 0 restricts candidate
// pairs to histograms within window slots of each other in input order
// (ClusteringFast).
func clusterSearch(histos []*Histogram, maxClusters, window int) ([]*Histogram, []uint16) {
	n := len(histos)

	clusters := make([]*Histogram, n)
	owner := make([]int, n)
	active := make([]bool, n)

	parallelFor(n, func(i int) {
		c := New(len(histos[i].Counts))
		c.CopyFrom(histos[i])
		clusters[i] = c
		owner[i] = i
		active[i] = true
		clusters[i].PopulationCost() // warm the cost cache up front
	})

	cost := func(i int) float64 { return clusters[i].PopulationCost() }

	pq := &pairHeap{}
	heap.Init(pq)
	pushPair := func(i, j int) {
		if i == j {
			return
		}
		if i > j {
			i, j = j, i
		}
		combined := CombinedEntropy(clusters[i], clusters[j]) + headerCostEstimate(combinedAlphabet(clusters[i], clusters[j]))
		diff := combined - cost(i) - cost(j)
		heap.Push(pq, pair{idx1: i, idx2: j, costDiff: diff})
	}
	withinWindow := func(i, j int) bool {
		if window <= 0 {
			return true
		}
		d := i - j
		if d < 0 {
			d = -d
		}
		return d <= window
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if withinWindow(i, j) {
				pushPair(i, j)
			}
		}
	}

	activeCount := n
	for activeCount > maxClusters {
		if pq.Len() == 0 {
			if window <= 0 {
				break
			}
			// The windowed candidates are exhausted above the bound:
			// widen to every pair of the remaining clusters.
			window = 0
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					if active[i] && active[j] {
						pushPair(i, j)
					}
				}
			}
			continue
		}
		p := heap.Pop(pq).(pair)
		if !active[p.idx1] || !active[p.idx2] {
			continue
		}
		// Merge idx2 into idx1.
		clusters[p.idx1].AddHistogram(clusters[p.idx2])
		active[p.idx2] = false
		clusters[p.idx2] = nil
		for i := range owner {
			if owner[i] == p.idx2 {
				owner[i] = p.idx1
			}
		}
		activeCount--
		for i := 0; i < n; i++ {
			if active[i] && i != p.idx1 && withinWindow(i, p.idx1) {
				pushPair(i, p.idx1)
			}
		}
	}

	// Compact remaining active clusters into a dense result slice and
	// remap owners to indices into it.
	var centers []*Histogram
	remap := make(map[int]int, activeCount)
	for i := 0; i < n; i++ {
		if active[i] {
			remap[i] = len(centers)
			centers = append(centers, clusters[i])
		}
	}
	contextMap := make([]uint16, n)
	parallelFor(n, func(i int) {
		contextMap[i] = uint16(remap[owner[i]])
	})
	return centers, contextMap
}

// parallelFor calls fn(i) for every i in [0, n). Below
// clusterParallelThreshold it runs inline; at or above it, work is
// split across runtime.GOMAXPROCS(0) goroutines, each owning a disjoint
// range of indices, so no two goroutines ever touch the same
// histogram's mutable state.
func parallelFor(n int, fn func(i int)) {
	if n < clusterParallelThreshold {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	chunk := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func combinedAlphabet(a, b *Histogram) int {
	n, _ := a.NonZeroSymbols()
	m, _ := b.NonZeroSymbols()
	if n > m {
		return n
	}
	return m
}
