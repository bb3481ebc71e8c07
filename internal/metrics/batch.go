package metrics

import "time"

// BatchCollector tracks items of a batch run as they start and finish.
type BatchCollector struct{}

func NewBatchCollector() *BatchCollector {
	return &BatchCollector{}
}

func (c *BatchCollector) ItemStarted(operation string) {
	BatchActiveItems.Inc()
}

func (c *BatchCollector) ItemCompleted(operation string, duration time.Duration) {
	BatchActiveItems.Dec()
	BatchItemsTotal.WithLabelValues(operation, "success").Inc()
	BatchItemDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *BatchCollector) ItemFailed(operation string, duration time.Duration) {
	BatchActiveItems.Dec()
	BatchItemsTotal.WithLabelValues(operation, "error").Inc()
	BatchItemDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
