package telemetry

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// otelCollector exposes the instruments of an OTel meter provider, runtime
// and otelsql stats included, on a Prometheus registry. It is unchecked: the
// set of metrics is only known after a collection.
type otelCollector struct {
	reader *sdkmetric.ManualReader
	logger *zap.Logger
}

func newOTELCollector(reader *sdkmetric.ManualReader, logger *zap.Logger) *otelCollector {
	return &otelCollector{reader: reader, logger: logger}
}

func (c *otelCollector) Describe(chan<- *prometheus.Desc) {}

func (c *otelCollector) Collect(ch chan<- prometheus.Metric) {
	var rm metricdata.ResourceMetrics
	if err := c.reader.Collect(context.Background(), &rm); err != nil {
		c.logger.Warn("Failed to collect otel metrics", zap.Error(err))
		return
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			name := promName(m.Name)

			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				collectSum(ch, name, m.Description, data)
			case metricdata.Sum[float64]:
				collectSum(ch, name, m.Description, data)
			case metricdata.Gauge[int64]:
				collectGauge(ch, name, m.Description, data)
			case metricdata.Gauge[float64]:
				collectGauge(ch, name, m.Description, data)
			case metricdata.Histogram[int64]:
				collectHistogram(ch, name, m.Description, data)
			case metricdata.Histogram[float64]:
				collectHistogram(ch, name, m.Description, data)
			}
		}
	}
}

func collectSum[N int64 | float64](ch chan<- prometheus.Metric, name, help string, sum metricdata.Sum[N]) {
	valueType := prometheus.GaugeValue
	if sum.IsMonotonic {
		valueType = prometheus.CounterValue
	}

	for _, dp := range sum.DataPoints {
		keys, values := labels(dp.Attributes)
		desc := prometheus.NewDesc(name, help, keys, nil)
		ch <- prometheus.MustNewConstMetric(desc, valueType, float64(dp.Value), values...)
	}
}

func collectGauge[N int64 | float64](ch chan<- prometheus.Metric, name, help string, gauge metricdata.Gauge[N]) {
	for _, dp := range gauge.DataPoints {
		keys, values := labels(dp.Attributes)
		desc := prometheus.NewDesc(name, help, keys, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(dp.Value), values...)
	}
}

func collectHistogram[N int64 | float64](ch chan<- prometheus.Metric, name, help string, histogram metricdata.Histogram[N]) {
	for _, dp := range histogram.DataPoints {
		// otel counts per bucket, prometheus cumulatively
		buckets := make(map[float64]uint64, len(dp.Bounds))
		var cumulative uint64
		for i, bound := range dp.Bounds {
			if i < len(dp.BucketCounts) {
				cumulative += dp.BucketCounts[i]
			}
			buckets[bound] = cumulative
		}

		keys, values := labels(dp.Attributes)
		desc := prometheus.NewDesc(name, help, keys, nil)
		ch <- prometheus.MustNewConstHistogram(desc, dp.Count, float64(dp.Sum), buckets, values...)
	}
}

func labels(set attribute.Set) ([]string, []string) {
	keys := make([]string, 0, set.Len())
	values := make([]string, 0, set.Len())

	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		keys = append(keys, promName(string(kv.Key)))
		values = append(values, kv.Value.Emit())
	}

	return keys, values
}

// promName maps process.runtime.go.goroutines to process_runtime_go_goroutines.
func promName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		default:
			return '_'
		}
	}, name)
}
