package metrics

import (
	"sync"
	"time"
)

// RequestMetric stores basic information about an HTTP request. Served
// as JSON at /metrics for the terminal dashboard.
type RequestMetric struct {
	Endpoint string        `json:"endpoint"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration"`
}

const maxRequestMetrics = 1000

var (
	mu         sync.Mutex
	metricList []RequestMetric
)

// Record adds a new metric entry in a thread-safe way. The list is
// capped; oldest entries drop first.
func Record(endpoint string, status int, duration time.Duration) {
	mu.Lock()
	metricList = append(metricList, RequestMetric{Endpoint: endpoint, Status: status, Duration: duration})
	if len(metricList) > maxRequestMetrics {
		metricList = metricList[len(metricList)-maxRequestMetrics:]
	}
	mu.Unlock()
}

// List returns a copy of the collected metrics.
func List() []RequestMetric {
	mu.Lock()
	defer mu.Unlock()
	copied := make([]RequestMetric, len(metricList))
	copy(copied, metricList)
	return copied
}
