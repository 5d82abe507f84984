package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/multh-go/pkg/cmap"
)

// MapSource is the view of a cmap.Map the collector reads.
type MapSource interface {
	Len() int
	Stats() []cmap.ShardStats
}

// MapCollector exports the entry count and per-shard statistics of a map
// at scrape time.
type MapCollector struct {
	src       MapSource
	entries   *prometheus.Desc
	shardLen  *prometheus.Desc
	shardCap  *prometheus.Desc
	imbalance *prometheus.Desc
}

var _ prometheus.Collector = (*MapCollector)(nil)

// NewMapCollector creates a collector for the map named name.
func NewMapCollector(name string, src MapSource) *MapCollector {
	labels := prometheus.Labels{"map": name}
	return &MapCollector{
		src: src,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "map", "entries"),
			"Entries stored in the map.",
			nil, labels),
		shardLen: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "map", "shard_entries"),
			"Entries stored in one shard.",
			[]string{"shard"}, labels),
		shardCap: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "map", "shard_capacity"),
			"Allocated entry capacity of one shard.",
			[]string{"shard"}, labels),
		imbalance: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "map", "shard_imbalance_ratio"),
			"Largest shard size divided by the mean shard size.",
			nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *MapCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.shardLen
	ch <- c.shardCap
	ch <- c.imbalance
}

// Collect implements prometheus.Collector.
func (c *MapCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.src.Len()))

	stats := c.src.Stats()
	total, largest := 0, 0
	for _, s := range stats {
		shard := strconv.Itoa(s.Index)
		ch <- prometheus.MustNewConstMetric(c.shardLen, prometheus.GaugeValue, float64(s.Len), shard)
		ch <- prometheus.MustNewConstMetric(c.shardCap, prometheus.GaugeValue, float64(s.Cap), shard)
		total += s.Len
		largest = max(largest, s.Len)
	}
	ch <- prometheus.MustNewConstMetric(c.imbalance, prometheus.GaugeValue, Imbalance(largest, total, len(stats)))
}

// Imbalance returns largest divided by the mean of total over shards, or 0
// for an empty map.
func Imbalance(largest, total, shards int) float64 {
	if total == 0 || shards == 0 {
		return 0
	}
	return float64(largest) * float64(shards) / float64(total)
}
