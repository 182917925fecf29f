package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-resources/internal/cache"
	"go-resources/internal/logger"
	"go-resources/internal/scraper"
)

const (
	contentApproveThreshold = 0.3
	titleDecisionThreshold  = 0.5

	DefaultMinConfidence    = 0.7
	DefaultScrapeTimeout    = 10 * time.Second
	DefaultMaxContentLength = 3000
)

const (
	reasonInvalidURL      = "Invalid or potentially unsafe URL format."
	reasonBlockedDomain   = "Content from this domain is not permitted."
	reasonTitleNegative   = "Title indicates non-educational content."
	reasonScrapeTimeout   = "Website response timeout. Manual review required."
	reasonScrapeError     = "Unable to access website for verification. Manual review required."
	reasonSetupError      = "Technical error during content verification. Manual review required."
	reasonLowConfidence   = "Unable to determine content type with confidence. Manual review required."
	reasonContentNegative = "Content analysis suggests non-educational material."
)

// PageScraper 抓取页面元数据
type PageScraper interface {
	Scrape(ctx context.Context, url string) (*scraper.Page, error)
}

// PageConfig 通用网页检查参数
type PageConfig struct {
	MinConfidence    float64
	ScrapeTimeout    time.Duration
	MaxContentLength int
	MaxURLLength     int
	Keywords         Keywords
	Domains          *DomainClassifier
}

// PageChecker 通用网页检查: URL 校验、缓存、域名名单、标题预判、抓取打分
type PageChecker struct {
	guard         URLGuard
	domains       *DomainClassifier
	titleScorer   *ContentScorer
	contentScorer *ContentScorer
	scraper       PageScraper
	cache         cache.Cache[Verdict]
	metrics       *Metrics
	log           logger.Logger

	minConfidence    float64
	scrapeTimeout    time.Duration
	maxContentLength int
}

func NewPageChecker(cfg PageConfig, s PageScraper, c cache.Cache[Verdict], m *Metrics, log logger.Logger) *PageChecker {
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = DefaultMinConfidence
	}
	if cfg.ScrapeTimeout <= 0 {
		cfg.ScrapeTimeout = DefaultScrapeTimeout
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = DefaultMaxContentLength
	}
	if cfg.Domains == nil {
		cfg.Domains = DefaultDomainClassifier()
	}
	if cfg.Keywords.empty() {
		cfg.Keywords = DefaultKeywords()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &PageChecker{
		guard:            URLGuard{MaxLength: cfg.MaxURLLength},
		domains:          cfg.Domains,
		titleScorer:      NewContentScorer(cfg.Keywords, TitleFullConfidenceWords),
		contentScorer:    NewContentScorer(cfg.Keywords, ContentFullConfidenceWords),
		scraper:          s,
		cache:            c,
		metrics:          m,
		log:              log,
		minConfidence:    cfg.MinConfidence,
		scrapeTimeout:    cfg.ScrapeTimeout,
		maxContentLength: cfg.MaxContentLength,
	}
}

// Guard 抓取器重定向时复用同一套 URL 校验
func (c *PageChecker) Guard() URLGuard {
	return c.guard
}

// Check 检查网页是否为学习内容
func (c *PageChecker) Check(ctx context.Context, rawURL, title string) Verdict {
	u, err := c.guard.Validate(rawURL)
	if err != nil {
		c.log.Warn("URL rejected by guard", logger.String("url", truncate(rawURL, 200)), logger.Error(err))
		return Reject(SourceInvalidURL, reasonInvalidURL, 1)
	}

	key := rawURL + "|" + title
	if v, ok := c.cache.Get(ctx, key); ok {
		c.metrics.cacheHit()
		return v.AsCached()
	}
	c.metrics.cacheMiss()

	v := c.decide(ctx, u.Hostname(), rawURL, title)
	if ctx.Err() == nil {
		c.cache.Set(ctx, key, v)
	}
	return v
}

func (c *PageChecker) decide(ctx context.Context, host, rawURL, title string) Verdict {
	switch c.domains.Classify(host) {
	case DomainAllow:
		return Approve(SourceDomainAllowlist, 1)
	case DomainBlock:
		return Reject(SourceDomainBlocklist, reasonBlockedDomain, 1)
	}

	if strings.TrimSpace(title) != "" {
		score := c.titleScorer.Score(title)
		if score.Confidence > c.minConfidence {
			switch {
			case score.NormalizedScore < -titleDecisionThreshold:
				return Reject(SourceTitleAnalysis, reasonTitleNegative, score.Confidence)
			case score.NormalizedScore > titleDecisionThreshold:
				return Approve(SourceTitleAnalysis, score.Confidence)
			}
		}
	}

	return c.scrapeAndScore(ctx, rawURL, title)
}

type scrapeResult struct {
	page *scraper.Page
	err  error
}

// 抓取超时后直接给出结论,后台请求的结果丢弃
func (c *PageChecker) scrapeAndScore(ctx context.Context, rawURL, title string) Verdict {
	ctx, cancel := context.WithTimeout(ctx, c.scrapeTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan scrapeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- scrapeResult{err: fmt.Errorf("scraper panic: %v", r)}
			}
		}()
		page, err := c.scraper.Scrape(ctx, rawURL)
		done <- scrapeResult{page: page, err: err}
	}()

	var res scrapeResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	c.metrics.observeScrape(time.Since(start))

	if res.err != nil {
		switch {
		case errors.Is(res.err, context.DeadlineExceeded):
			c.log.Warn("Scrape timed out", logger.String("url", rawURL), logger.Duration("timeout", c.scrapeTimeout))
			return Reject(SourceScrapingTimeout, reasonScrapeTimeout, 0)
		case errors.Is(res.err, scraper.ErrSetup):
			c.log.Error("Scrape setup failed", logger.String("url", rawURL), logger.Error(res.err))
			return Reject(SourceSetupError, reasonSetupError, 0)
		default:
			c.log.Warn("Scrape failed", logger.String("url", rawURL), logger.Error(res.err))
			return Reject(SourceScrapingError, reasonScrapeError, 0)
		}
	}

	score, rec := c.contentScorer.Recommend(c.pageText(title, res.page), c.minConfidence)
	switch rec {
	case RecommendApprove:
		return Approve(SourceContentAnalysis, score.Confidence)
	case RecommendReject:
		return Reject(SourceContentAnalysis, reasonContentNegative, score.Confidence)
	default:
		return Reject(SourceLowConfidence, reasonLowConfidence, score.Confidence)
	}
}

func (c *PageChecker) pageText(title string, page *scraper.Page) string {
	if page == nil {
		return title
	}
	parts := []string{
		title,
		page.Title,
		page.Description,
		strings.Join(page.Keywords, " "),
		truncate(page.BodyText, c.maxContentLength),
	}
	return strings.Join(parts, " ")
}

// truncate 按字符截断
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
