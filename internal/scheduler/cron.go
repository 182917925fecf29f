package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"go-resources/config"
	"go-resources/internal/logger"
)

const sweepBatch = 50

// PendingFinder 查询长时间停留在 pending 的资源
type PendingFinder interface {
	PendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]uint, error)
}

// Enqueuer 重新投递审核
type Enqueuer interface {
	Enqueue(resourceID uint) error
}

// Purger 清理过期缓存
type Purger interface {
	Purge() int
}

type Scheduler struct {
	cron    *cron.Cron
	pending PendingFinder
	queue   Enqueuer
	cache   Purger
	config  config.CronConfig
	log     logger.Logger
	now     func() time.Time

	onRequeue    func(n int)
	sweepEntryID cron.EntryID
	purgeEntryID cron.EntryID
}

func NewScheduler(pending PendingFinder, queue Enqueuer, cache Purger, cfg config.CronConfig, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		pending: pending,
		queue:   queue,
		cache:   cache,
		config:  cfg,
		log:     log,
		now:     time.Now,
	}
}

// OnRequeue 每次巡检重新投递后回调,用于计数
func (s *Scheduler) OnRequeue(fn func(n int)) {
	s.onRequeue = fn
}

func (s *Scheduler) Start() error {
	var err error

	// pending 巡检
	s.sweepEntryID, err = s.cron.AddFunc(s.config.SweepInterval, func() {
		s.log.Info("[Cron] Sweeping stale pending resources...")
		s.Sweep(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule sweep %q: %w", s.config.SweepInterval, err)
	}

	// 缓存清理,redis 自带过期不需要
	if s.cache != nil {
		s.purgeEntryID, err = s.cron.AddFunc(s.config.CachePurgeInterval, func() {
			removed := s.cache.Purge()
			s.log.Debug("[Cron] Cache purged", logger.Int("removed", removed))
		})
		if err != nil {
			return fmt.Errorf("schedule cache purge %q: %w", s.config.CachePurgeInterval, err)
		}
	}

	s.cron.Start()
	s.log.Info("[Cron] Scheduler started",
		logger.String("sweep", s.config.SweepInterval),
		logger.String("cache_purge", s.config.CachePurgeInterval))
	return nil
}

// Sweep 重新投递超过宽限期仍在 pending 的资源,返回成功投递数量。
// 队列满时停止,剩下的等下一轮。
func (s *Scheduler) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.config.PendingGrace)
	ids, err := s.pending.PendingOlderThan(ctx, cutoff, sweepBatch)
	if err != nil {
		s.log.Error("[Cron] Query pending resources failed", logger.Error(err))
		return 0
	}

	requeued := 0
	for _, id := range ids {
		if err := s.queue.Enqueue(id); err != nil {
			s.log.Warn("[Cron] Requeue stopped", logger.Uint("resource_id", id), logger.Error(err))
			break
		}
		requeued++
	}

	if requeued > 0 {
		s.log.Info("[Cron] Requeued stale resources", logger.Int("count", requeued))
		if s.onRequeue != nil {
			s.onRequeue(requeued)
		}
	}
	return requeued
}

// NextSweepTime 获取下次巡检时间
func (s *Scheduler) NextSweepTime() time.Time {
	entry := s.cron.Entry(s.sweepEntryID)
	return entry.Next
}

// NextPurgeTime 获取下次缓存清理时间
func (s *Scheduler) NextPurgeTime() time.Time {
	entry := s.cron.Entry(s.purgeEntryID)
	return entry.Next
}

// Stop 停止调度并等待正在运行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
