package index

import "fmt"

// Metric selects the distance function used for nearest-neighbor queries.
// The metric is fixed when an index is created and applies to every query;
// mixing metrics over one collection is undefined.
type Metric int

const (
	// MetricSquaredL2 ranks by squared Euclidean distance.
	MetricSquaredL2 Metric = iota + 1
	// MetricInnerProduct ranks by inner product, which equals cosine
	// similarity when the stored and query vectors are L2-normalized.
	MetricInnerProduct
)

// String returns the canonical name used in snapshot manifests.
func (m Metric) String() string {
	switch m {
	case MetricSquaredL2:
		return "squared_l2"
	case MetricInnerProduct:
		return "inner_product"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// ParseMetric maps a manifest name back to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "squared_l2":
		return MetricSquaredL2, nil
	case "inner_product":
		return MetricInnerProduct, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", name)
	}
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	return m == MetricSquaredL2 || m == MetricInnerProduct
}

// Distance reduces both metrics to a value where smaller means closer.
// Squared L2 is used directly; inner product p becomes 1-p, the cosine
// distance for normalized vectors.
func (m Metric) Distance(a, b []float32) float64 {
	switch m {
	case MetricInnerProduct:
		return 1 - dotProduct(a, b)
	default:
		return squaredL2(a, b)
	}
}

// Similarity converts a distance to the reported [0,1] similarity score.
// The transform 1/(1+d) is monotonic in d and independent of the rest of
// the result batch, so scores are comparable across queries.
func Similarity(d float64) float64 {
	if d < 0 {
		d = 0
	}
	return 1 / (1 + d)
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// squaredL2 calculates the squared Euclidean distance between two vectors.
// The square root is skipped: ranking only needs the ordering.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return sum
}
