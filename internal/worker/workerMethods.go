package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/ingest"
	"github.com/docuchat/RagAPI/internal/metrics"
)

// ingestion embeds in batches against an external service, give it room
const taskTimeout = 2 * time.Minute

func executeTask(task ingest.Task) {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, task.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, taskTimeout)
	defer cancel()

	logger.Debug("Processing task:", "file hash:", task.FileHash)
	record := _ingestService.ProcessFile(ctx, task)
	logger.Debug("Finished task:", "file hash:", task.FileHash, "status", record.Status)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}
