// Package scraper 抓取网页标题、描述、关键词和正文文本
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"
)

const (
	DefaultRequestTimeout = 5 * time.Second
	DefaultMaxRedirects   = 3
	defaultMaxBodyBytes   = 2 << 20
	defaultUserAgent      = "Mozilla/5.0 (compatible; go-resources-moderator/1.0)"
)

// ErrSetup 请求还没发出就失败了(URL 或请求构造错误)
var ErrSetup = errors.New("scraper setup failed")

// Page 抓取结果
type Page struct {
	Title       string
	Description string
	Keywords    []string
	BodyText    string
}

type Options struct {
	RequestTimeout time.Duration
	MaxRedirects   int
	// RedirectCheck 每次重定向前校验目标地址
	RedirectCheck func(*url.URL) error
	Limiter       *rate.Limiter
}

type Scraper struct {
	client  *http.Client
	limiter *rate.Limiter
}

func New(opts Options) *Scraper {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}

	client := &http.Client{
		Timeout: opts.RequestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > opts.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", opts.MaxRedirects)
			}
			if opts.RedirectCheck != nil {
				if err := opts.RedirectCheck(req.URL); err != nil {
					return fmt.Errorf("redirect to %s refused: %w", req.URL.Host, err)
				}
			}
			return nil
		},
	}
	return &Scraper{client: client, limiter: opts.Limiter}
}

// Scrape 抓取并解析页面
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status code %d", pageURL.Host, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, defaultMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return parse(body, resp.Request.URL)
}

func parse(body []byte, pageURL *url.URL) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{
		Title:       firstNonEmpty(doc.Find("title").First().Text(), metaContent(doc, "meta[property='og:title']")),
		Description: firstNonEmpty(metaContent(doc, "meta[name='description']"), metaContent(doc, "meta[property='og:description']")),
		Keywords:    splitKeywords(metaContent(doc, "meta[name='keywords']")),
	}

	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		page.BodyText = collapseSpace(article.TextContent)
	}
	if page.BodyText == "" {
		doc.Find("script,style,noscript").Remove()
		page.BodyText = collapseSpace(doc.Find("body").Text())
	}
	return page, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
