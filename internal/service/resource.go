package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"go-resources/internal/logger"
	"go-resources/internal/model"
	"go-resources/internal/moderation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUserNotFound = errors.New("user not found")
)

// Screener 提交时的同步检查
type Screener interface {
	Screen(ctx context.Context, title, category, url string) error
}

// Enqueuer 投递后台审核
type Enqueuer interface {
	Enqueue(resourceID uint) error
}

type ResourceService struct {
	db       *gorm.DB
	screener Screener
	queue    Enqueuer
	log      logger.Logger
}

func NewResourceService(db *gorm.DB, screener Screener, queue Enqueuer, log logger.Logger) *ResourceService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResourceService{db: db, screener: screener, queue: queue, log: log}
}

// SetQueue 队列依赖资源存储,构造完成后再注入
func (s *ResourceService) SetQueue(q Enqueuer) {
	s.queue = q
}

// UserSummary 资源提交者
type UserSummary struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// ResourceView 列表展示用,附带当前用户的点赞/收藏状态
type ResourceView struct {
	ID               uint         `json:"id"`
	Title            string       `json:"title"`
	Category         string       `json:"category"`
	URL              string       `json:"url"`
	ImageURL         string       `json:"imageUrl,omitempty"`
	ImageAttribution string       `json:"imageAttribution,omitempty"`
	User             *UserSummary `json:"user,omitempty"`
	NoOfLikes        int          `json:"noOfLikes"`
	IsLikedByUser    bool         `json:"isLikedByUser"`
	IsSavedByUser    bool         `json:"isSavedByUser"`
	CreatedAt        time.Time    `json:"createdAt"`
}

// Create 检查并保存新资源,状态为 pending,随后投递审核
func (s *ResourceService) Create(ctx context.Context, userID uint, title, category, url string) (*model.Resource, error) {
	title, category, url = strings.TrimSpace(title), strings.TrimSpace(category), strings.TrimSpace(url)
	if title == "" || category == "" || url == "" {
		return nil, fmt.Errorf("%w: title, category and url are required", ErrInvalidInput)
	}

	if s.screener != nil {
		if err := s.screener.Screen(ctx, title, category, url); err != nil {
			return nil, err
		}
	}

	res := &model.Resource{
		Title:    title,
		Category: category,
		URL:      url,
		UserID:   &userID,
		Status:   model.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(res).Error; err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	// 入队失败时资源保持 pending,由定时巡检补投
	if s.queue != nil {
		if err := s.queue.Enqueue(res.ID); err != nil {
			s.log.Warn("Enqueue moderation failed, left for sweep",
				logger.Uint("resource_id", res.ID), logger.Error(err))
		}
	}
	return res, nil
}

// ListApproved 已通过的资源。早期数据没有状态字段,同样展示。
func (s *ResourceService) ListApproved(ctx context.Context, currentUser uint) ([]ResourceView, error) {
	var resources []model.Resource
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Likes").
		Preload("Saves").
		Where("status = ? OR status = '' OR status IS NULL", model.StatusApproved).
		Order("created_at DESC").
		Find(&resources).Error
	if err != nil {
		return nil, err
	}

	views := make([]ResourceView, 0, len(resources))
	for i := range resources {
		views = append(views, toView(&resources[i], currentUser))
	}
	return views, nil
}

// ToggleLike 点赞/取消点赞
func (s *ResourceService) ToggleLike(ctx context.Context, resourceID, userID uint) (*ResourceView, error) {
	return s.toggle(ctx, "Likes", "resource_likes", resourceID, userID)
}

// ToggleSave 收藏/取消收藏
func (s *ResourceService) ToggleSave(ctx context.Context, resourceID, userID uint) (*ResourceView, error) {
	return s.toggle(ctx, "Saves", "resource_saves", resourceID, userID)
}

func (s *ResourceService) toggle(ctx context.Context, assoc, joinTable string, resourceID, userID uint) (*ResourceView, error) {
	db := s.db.WithContext(ctx)

	var res model.Resource
	if err := db.First(&res, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderation.ErrResourceNotFound
		}
		return nil, err
	}
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var n int64
	if err := db.Table(joinTable).Where("resource_id = ? AND user_id = ?", resourceID, userID).Count(&n).Error; err != nil {
		return nil, err
	}

	association := db.Model(&res).Association(assoc)
	var err error
	if n > 0 {
		err = association.Delete(&user)
	} else {
		err = association.Append(&user)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle %s: %w", strings.ToLower(assoc), err)
	}

	if err := db.Preload("User").Preload("Likes").Preload("Saves").First(&res, resourceID).Error; err != nil {
		return nil, err
	}
	view := toView(&res, userID)
	return &view, nil
}

func toView(r *model.Resource, currentUser uint) ResourceView {
	v := ResourceView{
		ID:               r.ID,
		Title:            r.Title,
		Category:         r.Category,
		URL:              r.URL,
		ImageURL:         r.ImageURL,
		ImageAttribution: r.ImageAttribution,
		NoOfLikes:        len(r.Likes),
		CreatedAt:        r.CreatedAt,
	}
	if r.User != nil {
		v.User = &UserSummary{ID: r.User.ID, Email: r.User.Email}
	}
	for _, u := range r.Likes {
		if u.ID == currentUser {
			v.IsLikedByUser = true
		}
	}
	for _, u := range r.Saves {
		if u.ID == currentUser {
			v.IsSavedByUser = true
		}
	}
	return v
}

// FindResource 按 ID 读取资源
func (s *ResourceService) FindResource(ctx context.Context, id uint) (*model.Resource, error) {
	var res model.Resource
	if err := s.db.WithContext(ctx).First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moderation.ErrResourceNotFound
		}
		return nil, err
	}
	return &res, nil
}

// SaveResource 只写回审核相关字段
func (s *ResourceService) SaveResource(ctx context.Context, r *model.Resource) error {
	result := s.db.WithContext(ctx).Model(r).
		Select("Status", "RejectionReason", "ImageURL", "ImageAttribution").
		Updates(r)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return moderation.ErrResourceNotFound
	}
	return nil
}

// GetResourceStatus 提交者查询自己资源的审核状态
func (s *ResourceService) GetResourceStatus(ctx context.Context, resourceID, userID uint) (*model.Resource, error) {
	res, err := s.FindResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if res.UserID == nil || *res.UserID != userID {
		return nil, moderation.ErrResourceNotFound
	}
	return res, nil
}

// PendingOlderThan 创建时间早于 cutoff 仍在 pending 的资源
func (s *ResourceService) PendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&model.Resource{}).
		Where("status = ? AND created_at < ?", model.StatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
