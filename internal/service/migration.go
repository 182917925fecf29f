package service

import (
	"context"
	"fmt"
	"time"

	"go-resources/internal/enrichment"
	"go-resources/internal/logger"
	"go-resources/internal/model"
)

// DefaultCategoryMapping 旧分类到新分类。值为空串表示测试数据,跳过。
var DefaultCategoryMapping = map[string]string{
	"DSA Practice":   "Practice & Coding Challenges",
	"Practice":       "Practice & Coding Challenges",
	"Documentation":  "Documentation & References",
	"Courses":        "Learning & Courses",
	"System Design":  "System Design & Architecture",
	"Tools":          "Tools & Utilities",
	"Cheatsheets":    "Quick References & Cheatsheets",
	"Learning Tools": "Learning Resources & Guides",
	"Theory":         "Learning Resources & Guides",
	"Collections":    "Collections & Open Source",
	"Open Source":    "Collections & Open Source",
	"Roadmaps":       "Learning Resources & Guides",
	"testing":        "",
	"testing 2":      "",
	"Education":      "Learning & Courses",
}

// MigrationResult 批量任务统计
type MigrationResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// RemapCategories 按映射表批量改分类
func (s *ResourceService) RemapCategories(ctx context.Context, mapping map[string]string) (MigrationResult, error) {
	var result MigrationResult

	var resources []model.Resource
	if err := s.db.WithContext(ctx).Find(&resources).Error; err != nil {
		return result, err
	}
	s.log.Info("Remapping categories", logger.Int("resources", len(resources)))

	for _, r := range resources {
		next, known := mapping[r.Category]
		switch {
		case !known:
			s.log.Warn("Unknown category", logger.String("category", r.Category), logger.String("title", r.Title))
			result.Skipped++
		case next == "":
			s.log.Info("Skipping test resource", logger.String("title", r.Title))
			result.Skipped++
		default:
			err := s.db.WithContext(ctx).Model(&model.Resource{}).
				Where("id = ?", r.ID).
				Update("category", next).Error
			if err != nil {
				return result, fmt.Errorf("update resource %d: %w", r.ID, err)
			}
			result.Updated++
		}
	}
	return result, nil
}

// PhotoSearcher 按关键词搜图
type PhotoSearcher interface {
	RandomPhoto(ctx context.Context, query string) (enrichment.Image, error)
}

// BackfillImages 按标题重新配图,标题搜不到时退回分类。onlyMissing 为 true 时只处理没有图片的资源。
func (s *ResourceService) BackfillImages(ctx context.Context, photos PhotoSearcher, delay time.Duration, onlyMissing bool) (MigrationResult, error) {
	var result MigrationResult

	q := s.db.WithContext(ctx).Model(&model.Resource{})
	if onlyMissing {
		q = q.Where("image_url = '' OR image_url IS NULL")
	}
	var resources []model.Resource
	if err := q.Order("id ASC").Find(&resources).Error; err != nil {
		return result, err
	}
	s.log.Info("Backfilling images", logger.Int("resources", len(resources)))

	for i, r := range resources {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}

		img, err := photos.RandomPhoto(ctx, enrichment.CleanTitleForSearch(r.Title))
		if err != nil {
			fallback := r.Category
			if fallback == "" {
				fallback = "programming"
			}
			s.log.Warn("Title search failed, trying category",
				logger.Uint("resource_id", r.ID), logger.String("category", fallback), logger.Error(err))
			img, err = photos.RandomPhoto(ctx, fallback)
		}
		if err != nil {
			s.log.Error("Could not fetch image", logger.Uint("resource_id", r.ID), logger.Error(err))
			result.Failed++
			continue
		}

		err = s.db.WithContext(ctx).Model(&model.Resource{}).Where("id = ?", r.ID).
			Updates(map[string]any{"image_url": img.URL, "image_attribution": img.Attribution()}).Error
		if err != nil {
			return result, fmt.Errorf("update resource %d: %w", r.ID, err)
		}
		result.Updated++
	}
	return result, nil
}
