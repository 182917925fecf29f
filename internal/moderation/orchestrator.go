package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-resources/internal/enrichment"
	"go-resources/internal/logger"
	"go-resources/internal/model"
)

// ReasonCheckFailed 自动检查出错时写入的标记,等待人工复核
const ReasonCheckFailed = "Automated check failed, queued for manual review"

const recoveryTimeout = 5 * time.Second

// ErrResourceNotFound 资源不存在
var ErrResourceNotFound = errors.New("resource not found")

// ResourceStore 审核读写资源所需的存储
type ResourceStore interface {
	FindResource(ctx context.Context, id uint) (*model.Resource, error)
	SaveResource(ctx context.Context, r *model.Resource) error
}

// ImageFinder 为资源找一张配图
type ImageFinder interface {
	Find(ctx context.Context, title, category string) (enrichment.Image, error)
}

// Orchestrator 对单个资源执行审核并写回状态
type Orchestrator struct {
	store   ResourceStore
	pages   *PageChecker
	videos  *VideoChecker
	images  ImageFinder
	metrics *Metrics
	log     logger.Logger
}

func NewOrchestrator(store ResourceStore, pages *PageChecker, videos *VideoChecker, images ImageFinder, m *Metrics, log logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{
		store:   store,
		pages:   pages,
		videos:  videos,
		images:  images,
		metrics: m,
		log:     log,
	}
}

// Run 审核资源。无论成功与否,资源最终都不会停留在 pending。
func (o *Orchestrator) Run(ctx context.Context, id uint) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("moderation panic: %v", r)
		}
		if err != nil && ctx.Err() != nil {
			// 服务关闭中断,资源保持 pending 等待巡检重新投递
			o.log.Warn("Moderation interrupted", logger.Uint("resource_id", id), logger.Error(err))
		} else if err != nil {
			o.metrics.runFailed()
			o.log.Error("Moderation run failed", logger.Uint("resource_id", id), logger.Error(err))
			if recErr := o.markForManualReview(ctx, id); recErr != nil {
				err = errors.Join(err, recErr)
			}
		}
		o.metrics.observeRun(time.Since(start))
	}()

	res, err := o.store.FindResource(ctx, id)
	if errors.Is(err, ErrResourceNotFound) {
		o.log.Warn("Resource not found, nothing to moderate", logger.Uint("resource_id", id))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load resource %d: %w", id, err)
	}

	checker, v := o.check(ctx, res)
	if ctx.Err() != nil {
		return fmt.Errorf("moderate resource %d: %w", id, ctx.Err())
	}
	o.metrics.recordVerdict(checker, v)

	if v.Approved() {
		res.Status = model.StatusApproved
		res.RejectionReason = ""
		o.attachImage(ctx, res)
	} else {
		reason, _ := v.Reason()
		res.Status = model.StatusRejected
		res.RejectionReason = reason
	}

	if err := o.store.SaveResource(ctx, res); err != nil {
		return fmt.Errorf("save resource %d: %w", id, err)
	}

	o.log.Info("Resource moderated",
		logger.Uint("resource_id", id),
		logger.String("checker", checker),
		logger.String("status", string(res.Status)),
		logger.String("source", string(v.Source())),
		logger.Float64("confidence", v.Confidence()),
		logger.Bool("cached", v.Cached()),
	)
	return nil
}

func (o *Orchestrator) check(ctx context.Context, res *model.Resource) (string, Verdict) {
	if IsVideoURL(res.URL) {
		return "video", o.videos.Check(ctx, res.URL)
	}
	return "page", o.pages.Check(ctx, res.URL, res.Title)
}

// 配图失败不影响通过,退回分类占位图
func (o *Orchestrator) attachImage(ctx context.Context, res *model.Resource) {
	if o.images != nil {
		img, err := o.images.Find(ctx, res.Title, res.Category)
		if err == nil && img.URL != "" {
			res.ImageURL = img.URL
			res.ImageAttribution = img.Attribution()
			return
		}
		o.log.Warn("Image enrichment failed, using placeholder",
			logger.Uint("resource_id", res.ID),
			logger.Error(err),
		)
	}
	res.ImageURL = enrichment.PlaceholderFor(res.Category)
	res.ImageAttribution = ""
}

// 重新加载资源并标记为待人工复核
func (o *Orchestrator) markForManualReview(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recoveryTimeout)
	defer cancel()

	res, err := o.store.FindResource(ctx, id)
	if errors.Is(err, ErrResourceNotFound) {
		o.metrics.recovery("not_found")
		return nil
	}
	if err != nil {
		o.metrics.recovery("failed")
		return fmt.Errorf("recovery load resource %d: %w", id, err)
	}

	res.Status = model.StatusRejected
	res.RejectionReason = ReasonCheckFailed
	if err := o.store.SaveResource(ctx, res); err != nil {
		o.metrics.recovery("failed")
		o.log.Error("Recovery save failed, resource needs operator attention",
			logger.Uint("resource_id", id), logger.Error(err))
		return fmt.Errorf("recovery save resource %d: %w", id, err)
	}
	o.metrics.recovery("marked")
	return nil
}
