// Package youtube 查询视频元数据
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

var (
	// ErrVideoNotFound 视频不存在、已删除或私有
	ErrVideoNotFound = errors.New("video not found")
	ErrNoAPIKey      = errors.New("youtube api key not configured")
)

// Video 视频元数据
type Video struct {
	ID          string
	Title       string
	Description string
	Tags        []string
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		} `json:"snippet"`
	} `json:"items"`
}

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL, apiKey string, timeout time.Duration, limiter *rate.Limiter) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Video 按 ID 获取视频 snippet
func (c *Client) Video(ctx context.Context, id string) (*Video, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", id)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrVideoNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("API返回错误 (%d): %s", resp.StatusCode, string(body))
	}

	var parsed videosResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, ErrVideoNotFound
	}

	item := parsed.Items[0]
	return &Video{
		ID:          item.ID,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		Tags:        item.Snippet.Tags,
	}, nil
}
