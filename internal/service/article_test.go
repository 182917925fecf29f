package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <title>DEV</title>
  <link>https://dev.to</link>
  <description>feed</description>
  <item>
    <title>Understanding Go channels</title>
    <link>https://dev.to/someone/go-channels</link>
    <dc:creator>Someone</dc:creator>
    <pubDate>Mon, 01 Jan 2024 10:00:00 +0000</pubDate>
    <description>A walkthrough of buffered channels.</description>
    <category>go</category>
    <category>concurrency</category>
  </item>
  <item>
    <title>CSS grid in five minutes</title>
    <link>https://dev.to/other/css-grid</link>
    <description>Quick tour.</description>
  </item>
</channel>
</rss>`

func TestArticleService_List(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	svc := NewArticleService(srv.URL, time.Minute)

	articles, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "Understanding Go channels", first.Title)
	assert.Equal(t, "https://dev.to/someone/go-channels", first.Link)
	assert.Equal(t, "Someone", first.Author)
	assert.Equal(t, []string{"go", "concurrency"}, first.Tags)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2024, first.PublishedAt.Year())

	// 第二次命中缓存
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestArticleService_ListUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewArticleService(srv.URL, time.Minute).List(context.Background())
	assert.Error(t, err)
}
