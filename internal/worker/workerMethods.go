package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/metrics"
)

func executeJob(jobId string) {
	start := time.Now()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, jobId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobExecutionTimeout)
	defer cancel()
	logger.Debug("Processing job:", "job Id:", jobId)

	processed, err := _jobService.ProcessJob(ctx, jobId)
	if err != nil {
		logger.Error("Job processing failed", "job Id:", jobId, "err", err)
	}
	// Record total time at the end
	metrics.CaptureJobMetrics(string(processed.Type), string(processed.Status), time.Since(start))
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}
