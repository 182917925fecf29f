package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-resources/internal/model"
)

type StatusService struct {
	db *gorm.DB
}

type SystemStatus struct {
	// 资源统计
	TotalResources    int64 `json:"total_resources"`
	PendingResources  int64 `json:"pending_resources"`
	ApprovedResources int64 `json:"approved_resources"`
	RejectedResources int64 `json:"rejected_resources"`

	TotalUsers int64 `json:"total_users"`

	// 审核队列
	QueueDepth   int `json:"queue_depth"`
	CacheEntries int `json:"cache_entries"`

	// 定时任务信息
	NextSweepTime time.Time `json:"next_sweep_time"`
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// GetSystemStatus 获取系统状态
func (s *StatusService) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	status := &SystemStatus{}
	db := s.db.WithContext(ctx)

	counts := []struct {
		dst    *int64
		status model.ResourceStatus
	}{
		{&status.PendingResources, model.StatusPending},
		{&status.ApprovedResources, model.StatusApproved},
		{&status.RejectedResources, model.StatusRejected},
	}
	if err := db.Model(&model.Resource{}).Count(&status.TotalResources).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if err := db.Model(&model.Resource{}).Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	if err := db.Model(&model.User{}).Count(&status.TotalUsers).Error; err != nil {
		return nil, err
	}

	return status, nil
}
