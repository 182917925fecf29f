package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"go-resources/internal/cache"
)

const articlesCacheKey = "articles"

// Article 外部技术文章
type Article struct {
	Title       string     `json:"title"`
	Link        string     `json:"url"`
	Description string     `json:"description"`
	Author      string     `json:"author,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ArticleService 拉取技术文章 Feed,结果短时间缓存
type ArticleService struct {
	parser  *gofeed.Parser
	feedURL string
	cache   cache.Cache[[]Article]
}

func NewArticleService(feedURL string, ttl time.Duration) *ArticleService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ArticleService{
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
		cache:   cache.NewMemory[[]Article](ttl),
	}
}

// List 获取文章列表
func (s *ArticleService) List(ctx context.Context) ([]Article, error) {
	if articles, ok := s.cache.Get(ctx, articlesCacheKey); ok {
		return articles, nil
	}

	parsed, err := s.parser.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a := Article{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Tags:        item.Categories,
			PublishedAt: item.PublishedParsed,
		}
		if item.Author != nil {
			a.Author = item.Author.Name
		}
		articles = append(articles, a)
	}

	s.cache.Set(ctx, articlesCacheKey, articles)
	return articles, nil
}
