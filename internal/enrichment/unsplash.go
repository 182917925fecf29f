package enrichment

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

const DefaultUnsplashURL = "https://api.unsplash.com"

var (
	ErrNoAccessKey = errors.New("unsplash access key not configured")
	ErrNoImage     = errors.New("no image in unsplash response")
)

type randomPhotoResponse struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
}

// Unsplash 随机图片接口客户端
type Unsplash struct {
	baseURL   string
	accessKey string
	client    *http.Client
	limiter   *rate.Limiter
}

func NewUnsplash(baseURL, accessKey string, timeout time.Duration, limiter *rate.Limiter) *Unsplash {
	if baseURL == "" {
		baseURL = DefaultUnsplashURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Unsplash{
		baseURL:   baseURL,
		accessKey: accessKey,
		client:    &http.Client{Timeout: timeout},
		limiter:   limiter,
	}
}

// RandomPhoto 按关键词取一张横版图片
func (u *Unsplash) RandomPhoto(ctx context.Context, query string) (Image, error) {
	if u.accessKey == "" {
		return Image{}, ErrNoAccessKey
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/photos/random?"+q.Encode(), http.NoBody)
	if err != nil {
		return Image{}, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return Image{}, err
		}
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Image{}, fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("unsplash API返回错误 (%d): %s", resp.StatusCode, string(body))
	}

	var photo randomPhotoResponse
	if err := json.Unmarshal(body, &photo); err != nil {
		return Image{}, fmt.Errorf("解析响应失败: %w", err)
	}
	if photo.URLs.Regular == "" {
		return Image{}, ErrNoImage
	}

	return Image{
		URL:                  photo.URLs.Regular,
		PhotographerName:     photo.User.Name,
		PhotographerUsername: photo.User.Username,
	}, nil
}

// Find 按标题和分类配图
func (u *Unsplash) Find(ctx context.Context, title, category string) (Image, error) {
	return u.RandomPhoto(ctx, BuildQuery(title, category))
}
