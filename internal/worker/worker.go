package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/docuchat/RagAPI/internal/config"
	"github.com/docuchat/RagAPI/internal/ingest"
	"github.com/docuchat/RagAPI/internal/metrics"
	"github.com/docuchat/RagAPI/pkg/logger_i"
)

var (
	_ingestService     ingest.Service
	_queue             *Queue
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	currentWorkerCount int64
	logger             *logger_i.Logger
)

// Queue buffers ingestion tasks between the upload handler and the pool.
// Sends block once the buffer is full, backpressure instead of unbounded
// memory growth.
type Queue struct {
	TaskChannel       chan ingest.Task
	RequestCount      int64
	DispatcherChannel chan bool
}

func InitQueue() *Queue {
	return &Queue{
		TaskChannel:       make(chan ingest.Task, config.BufferLimit),
		DispatcherChannel: make(chan bool),
	}
}

// Enqueue queues one task and signals the dispatcher. Ingestion batches
// against external services, so every queued file is a reason to grow the
// pool, idle workers retire on their own.
func (q *Queue) Enqueue(task ingest.Task) {
	metrics.IncrementTasksInQueue()
	q.TaskChannel <- task

	atomic.AddInt64(&q.RequestCount, 1)
	metrics.StartDispatcherSignalCount()
	q.DispatcherChannel <- true
}

func InitServices(ingestService ingest.Service, queue *Queue) {
	_ingestService = ingestService
	_queue = queue
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("WorkerPool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range _queue.DispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) < config.MaxWorkerCount {
			logger.Info("Creating new worker", "WorkerCount :", currentWorkerCount)
			createWorker()
		}
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	logger.Info("Created new worker")
}

func worker() {
	for {
		select {
		case task := <-_queue.TaskChannel:
			executeTask(task)
			metrics.DecrementTasksInQueue()

		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return

		case <-time.After(config.IdleWorkerTimeout):
			// idle, retire unless we are the floor
			if atomic.LoadInt64(&currentWorkerCount) > config.MinWorkerCount {
				removeWorker("Idle worker timeout - Removed worker")
				return
			}
		}
	}
}
