package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-resources/internal/cache"
	"go-resources/internal/logger"
	"go-resources/internal/scraper"
)

func newTestPageChecker(s PageScraper, cfg PageConfig) *PageChecker {
	if cfg.ScrapeTimeout == 0 {
		cfg.ScrapeTimeout = time.Second
	}
	return NewPageChecker(cfg, s, cache.NewMemory[Verdict](time.Hour), nil, logger.NewNop())
}

func TestPageChecker_RejectsUnsafeURLsWithoutScraping(t *testing.T) {
	s := &fakeScraper{}
	c := newTestPageChecker(s, PageConfig{})

	for _, raw := range []string{
		"http://127.0.0.1/admin",
		"http://169.254.169.254/latest/meta-data",
		"http://169.254.1.2/",
		"file:///etc/passwd",
		"https://free.tk/course",
		"https://free.tk./course",
		"http://localhost./admin",
		"",
	} {
		v := c.Check(context.Background(), raw, "Complete Python Tutorial")
		assert.False(t, v.Approved(), raw)
		assert.Equal(t, SourceInvalidURL, v.Source(), raw)
		reason, ok := v.Reason()
		assert.True(t, ok)
		assert.Equal(t, reasonInvalidURL, reason)
	}
	assert.Zero(t, s.Calls())
}

func TestPageChecker_DomainLists(t *testing.T) {
	s := &fakeScraper{}
	c := newTestPageChecker(s, PageConfig{})

	v := c.Check(context.Background(), "https://sub.github.com/org/repo", "Funny memes")
	assert.True(t, v.Approved())
	assert.Equal(t, SourceDomainAllowlist, v.Source())
	assert.Equal(t, 1.0, v.Confidence())
	_, ok := v.Reason()
	assert.False(t, ok)

	// 域名检查先于标题
	v = c.Check(context.Background(), "https://www.tiktok.com/@someone/video/1", "Funny TikTok Compilation Fails")
	assert.False(t, v.Approved())
	assert.Equal(t, SourceDomainBlocklist, v.Source())
	assert.Equal(t, 1.0, v.Confidence())

	assert.Zero(t, s.Calls())
}

func TestPageChecker_TitleDecides(t *testing.T) {
	s := &fakeScraper{}
	c := newTestPageChecker(s, PageConfig{})

	v := c.Check(context.Background(), "https://example.com/js", "Complete JavaScript Tutorial for Beginners")
	assert.True(t, v.Approved())
	assert.Equal(t, SourceTitleAnalysis, v.Source())
	assert.Greater(t, v.Confidence(), 0.7)

	v = c.Check(context.Background(), "https://example.com/v", "Funny TikTok Compilation Fails")
	assert.False(t, v.Approved())
	assert.Equal(t, SourceTitleAnalysis, v.Source())
	reason, _ := v.Reason()
	assert.Equal(t, reasonTitleNegative, reason)

	assert.Zero(t, s.Calls())
}

func TestPageChecker_ScrapeOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		scraper    *fakeScraper
		cfg        PageConfig
		approved   bool
		source     Source
		wantReason string
	}{
		{
			name:     "educational content",
			scraper:  &fakeScraper{page: &scraper.Page{Title: "Notes", BodyText: filler + " programming tutorial python"}},
			approved: true,
			source:   SourceContentAnalysis,
		},
		{
			name:       "non educational content",
			scraper:    &fakeScraper{page: &scraper.Page{BodyText: filler + " funny prank compilation"}},
			source:     SourceContentAnalysis,
			wantReason: reasonContentNegative,
		},
		{
			name:       "no signal",
			scraper:    &fakeScraper{page: &scraper.Page{BodyText: filler}},
			source:     SourceLowConfidence,
			wantReason: reasonLowConfidence,
		},
		{
			name:       "short page",
			scraper:    &fakeScraper{page: &scraper.Page{BodyText: "python tutorial"}},
			source:     SourceLowConfidence,
			wantReason: reasonLowConfidence,
		},
		{
			name:       "keywords past content limit are ignored",
			scraper:    &fakeScraper{page: &scraper.Page{BodyText: filler + " programming tutorial python"}},
			cfg:        PageConfig{MaxContentLength: len(filler)},
			source:     SourceLowConfidence,
			wantReason: reasonLowConfidence,
		},
		{
			name:       "timeout",
			scraper:    &fakeScraper{delay: 2 * time.Second},
			cfg:        PageConfig{ScrapeTimeout: 50 * time.Millisecond},
			source:     SourceScrapingTimeout,
			wantReason: reasonScrapeTimeout,
		},
		{
			name:       "network error",
			scraper:    &fakeScraper{err: errors.New("connection refused")},
			source:     SourceScrapingError,
			wantReason: reasonScrapeError,
		},
		{
			name:       "setup error",
			scraper:    &fakeScraper{err: fmt.Errorf("%w: bad request", scraper.ErrSetup)},
			source:     SourceSetupError,
			wantReason: reasonSetupError,
		},
		{
			name:       "scraper panic",
			scraper:    &fakeScraper{panicMsg: "boom"},
			source:     SourceScrapingError,
			wantReason: reasonScrapeError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestPageChecker(tc.scraper, tc.cfg)
			v := c.Check(context.Background(), "https://example.com/article", "My notes")

			assert.Equal(t, tc.approved, v.Approved())
			assert.Equal(t, tc.source, v.Source())
			if !tc.approved {
				reason, ok := v.Reason()
				require.True(t, ok)
				assert.Equal(t, tc.wantReason, reason)
				if strings.Contains(reason, "Manual review") {
					assert.NotEqual(t, SourceContentAnalysis, v.Source())
				}
			}
			assert.Equal(t, 1, tc.scraper.Calls())
		})
	}
}

func TestPageChecker_CachesVerdicts(t *testing.T) {
	s := &fakeScraper{page: &scraper.Page{BodyText: filler + " programming tutorial python"}}
	c := newTestPageChecker(s, PageConfig{})

	first := c.Check(context.Background(), "https://example.com/a", "My notes")
	require.True(t, first.Approved())
	assert.False(t, first.Cached())

	second := c.Check(context.Background(), "https://example.com/a", "My notes")
	assert.True(t, second.Approved())
	assert.True(t, second.Cached())
	assert.Equal(t, first.Source(), second.Source())
	assert.Equal(t, 1, s.Calls())

	// 标题不同,缓存键不同
	c.Check(context.Background(), "https://example.com/a", "Other notes")
	assert.Equal(t, 2, s.Calls())
}

func TestPageChecker_CancelledContextIsNotCached(t *testing.T) {
	s := &fakeScraper{delay: time.Second}
	c := newTestPageChecker(s, PageConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := c.Check(ctx, "https://example.com/a", "My notes")
	assert.False(t, v.Approved())

	_, ok := c.cache.Get(context.Background(), "https://example.com/a|My notes")
	assert.False(t, ok)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "héllo", truncate("héllo", 0))
}
