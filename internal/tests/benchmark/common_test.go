package benchmark

import (
	"fmt"
	"runtime"
	"testing"
)

// ElementCounts are the worklist and key counts used for scaling runs.
var ElementCounts = []int{1000, 10000, 100000}

// SmallElementCounts for quick benchmarks.
var SmallElementCounts = []int{1000, 10000}

// ShardCounts are the shard counts compared by the map benchmarks.
var ShardCounts = []int{1, 8, 64}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithCounts runs a benchmark function for each count.
func runWithCounts(b *testing.B, name string, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("%s_%d", name, count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
