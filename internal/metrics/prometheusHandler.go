package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "job_processing_duration_seconds",
	Help:    "Total time spent processing one job.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120, 300},
}, []string{"type", "status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var embeddingFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "embedding_fallback_total",
	Help: "Chunks that got a random fallback vector because the embed call failed",
})

var notificationsSent = promauto.NewCounter(prometheus.CounterOpts{
	Name: "job_notifications_sent_total",
	Help: "Snapshots pushed to subscribed observers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func IncrementEmbeddingFallbacks() {
	embeddingFallbacks.Inc()
}

func IncrementNotificationsSent() {
	notificationsSent.Inc()
}

func CaptureJobMetrics(jobType string, status string, timeElapsed time.Duration) {
	jobDuration.WithLabelValues(jobType, status).Observe(timeElapsed.Seconds())
}

func CaptureDependencyLatency(service string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(service).Observe(timeElapsed.Seconds())
}
