package moderation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"go-resources/internal/logger"
)

var (
	ErrQueueFull   = errors.New("moderation queue is full")
	ErrQueueClosed = errors.New("moderation queue is closed")
)

// Runner 执行单个资源的审核
type Runner interface {
	Run(ctx context.Context, id uint) error
}

type job struct {
	resourceID uint
	runID      string
	enqueued   time.Time
}

// Queue 有界审核队列,固定数量的 worker 消费。
// 同一资源在排队或处理中时不会重复入队。
type Queue struct {
	runner  Runner
	workers int
	jobs    chan job
	metrics *Metrics
	log     logger.Logger

	mu       sync.Mutex
	pending  map[uint]struct{}
	closed   bool
	started  bool
	group    *errgroup.Group
	runCtx   context.Context
	cancelFn context.CancelFunc
}

func NewQueue(runner Runner, size, workers int, m *Metrics, log logger.Logger) *Queue {
	if size <= 0 {
		size = 100
	}
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Queue{
		runner:  runner,
		workers: workers,
		jobs:    make(chan job, size),
		metrics: m,
		log:     log,
		pending: make(map[uint]struct{}),
	}
}

// Start 启动 worker。ctx 取消时正在执行的审核会收到取消信号。
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	q.runCtx, q.cancelFn = context.WithCancel(ctx)
	q.group = &errgroup.Group{}

	for i := 0; i < q.workers; i++ {
		worker := i
		q.group.Go(func() error {
			for j := range q.jobs {
				if q.runCtx.Err() != nil {
					// 剩余任务保持 pending,由定时巡检重新投递
					q.forget(j.resourceID)
					continue
				}
				q.process(q.runCtx, worker, j)
			}
			return nil
		})
	}
	q.log.Info("Moderation queue started",
		logger.Int("workers", q.workers),
		logger.Int("capacity", cap(q.jobs)),
	)
}

// Enqueue 非阻塞入队
func (q *Queue) Enqueue(resourceID uint) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.metrics.dropped("closed")
		return ErrQueueClosed
	}
	if _, ok := q.pending[resourceID]; ok {
		q.log.Debug("Resource already queued", logger.Uint("resource_id", resourceID))
		return nil
	}

	j := job{resourceID: resourceID, runID: uuid.NewString(), enqueued: time.Now()}
	select {
	case q.jobs <- j:
		q.pending[resourceID] = struct{}{}
		q.metrics.queueDepth(len(q.jobs))
		return nil
	default:
		q.metrics.dropped("full")
		return ErrQueueFull
	}
}

// Len 排队中的任务数
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Shutdown 停止接收新任务并等待队列排空。ctx 到期时取消剩余审核。
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	started := q.started
	q.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- q.group.Wait() }()

	select {
	case err := <-done:
		q.cancelFn()
		q.log.Info("Moderation queue drained")
		return err
	case <-ctx.Done():
		q.cancelFn()
		<-done
		q.log.Warn("Moderation queue shutdown timed out, in-flight runs cancelled")
		return fmt.Errorf("drain moderation queue: %w", ctx.Err())
	}
}

func (q *Queue) process(ctx context.Context, worker int, j job) {
	log := q.log.With(
		logger.String("run_id", j.runID),
		logger.Uint("resource_id", j.resourceID),
		logger.Int("worker", worker),
	)

	q.metrics.queueDepth(len(q.jobs))
	q.metrics.workerBusy(1)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Moderation worker panic", logger.Any("panic", r))
		}
		q.metrics.workerBusy(-1)
		q.forget(j.resourceID)
	}()

	log.Debug("Moderation started", logger.Duration("waited", time.Since(j.enqueued)))
	if err := q.runner.Run(ctx, j.resourceID); err != nil {
		log.Error("Moderation finished with error", logger.Error(err))
	}
}

func (q *Queue) forget(resourceID uint) {
	q.mu.Lock()
	delete(q.pending, resourceID)
	q.mu.Unlock()
}
