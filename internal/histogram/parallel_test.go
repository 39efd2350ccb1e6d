package histogram

import (
	"sync/atomic"
	"testing"
)

func TestParallelForVisitsEveryIndexExactlyOnce(t *testing.T) {
	const n = 200 // above clusterParallelThreshold, exercises the goroutine path
	var visits [n]int32
	parallelFor(n, func(i int) {
		atomic.AddInt32(&visits[i], 1)
	})
	for i, v := range visits {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want exactly 1", i, v)
		}
	}
}

func TestParallelForBelowThresholdRunsInline(t *testing.T) {
	const n = 10
	var visits [n]int32
	parallelFor(n, func(i int) {
		visits[i]++
	})
	for i, v := range visits {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want exactly 1", i, v)
		}
	}
}

func TestClusterLargeInputUsesParallelPaths(t *testing.T) {
	histos := buildSkewedHistograms(clusterParallelThreshold + 20)
	centers, contextMap := Cluster(histos, 5, ClusteringBest)
	if len(centers) > 5 {
		t.Fatalf("expected at most 5 clusters, got %d", len(centers))
	}
	if len(contextMap) != len(histos) {
		t.Fatalf("context map length %d != input length %d", len(contextMap), len(histos))
	}
	for _, c := range contextMap {
		if int(c) >= len(centers) {
			t.Fatalf("context map entry %d out of range of %d clusters", c, len(centers))
		}
	}
}
