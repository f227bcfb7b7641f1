package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docuchat/RagAPI/internal/domain/docModel"
	"github.com/docuchat/RagAPI/internal/ingest"
)

// MockIngestService to track if tasks are executed
type MockIngestService struct {
	ProcessedCount int32
}

func (m *MockIngestService) RegisterUpload(ctx context.Context, path string, filename string, size int64) (docModel.FileRecord, bool, error) {
	return docModel.FileRecord{}, true, nil
}

func (m *MockIngestService) ProcessFile(ctx context.Context, task ingest.Task) docModel.FileRecord {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return docModel.FileRecord{FileHash: task.FileHash, Status: docModel.StatusCompleted}
}

func (m *MockIngestService) IndexText(ctx context.Context, text string, tags map[string]string) ([]string, error) {
	return nil, nil
}

func (m *MockIngestService) DeleteFile(ctx context.Context, fileHash string) (docModel.FileRecord, bool, error) {
	return docModel.FileRecord{}, false, nil
}

func (m *MockIngestService) ListFiles(ctx context.Context) ([]docModel.FileRecord, error) {
	return nil, nil
}

func (m *MockIngestService) GetFile(ctx context.Context, fileHash string) (docModel.FileRecord, bool) {
	return docModel.FileRecord{}, false
}

func (m *MockIngestService) FileStats(ctx context.Context) (docModel.LedgerStats, error) {
	return docModel.LedgerStats{}, nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	queue := &Queue{
		TaskChannel:       make(chan ingest.Task, 10),
		DispatcherChannel: make(chan bool, 10),
	}
	mockIngest := &MockIngestService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(mockIngest, queue)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		queue.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a task", func(t *testing.T) {
		queue.TaskChannel <- ingest.Task{FileHash: "test-1"}

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockIngest.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 task processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}
