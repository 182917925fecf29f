package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultSafeBrowsingURL = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

type threatRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string      `json:"threatTypes"`
		PlatformTypes    []string      `json:"platformTypes"`
		ThreatEntryTypes []string      `json:"threatEntryTypes"`
		ThreatEntries    []threatEntry `json:"threatEntries"`
	} `json:"threatInfo"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type threatResponse struct {
	Matches []json.RawMessage `json:"matches"`
}

// SafeBrowsing 恶意链接查询客户端
type SafeBrowsing struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewSafeBrowsing(endpoint, apiKey string, timeout time.Duration) *SafeBrowsing {
	if endpoint == "" {
		endpoint = DefaultSafeBrowsingURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SafeBrowsing{endpoint: endpoint, apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

// IsSafe 没有任何威胁匹配即为安全
func (s *SafeBrowsing) IsSafe(ctx context.Context, rawURL string) (bool, error) {
	var body threatRequest
	body.Client.ClientID = "go-resources"
	body.Client.ClientVersion = "1.0.0"
	body.ThreatInfo.ThreatTypes = []string{
		"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE", "POTENTIALLY_HARMFUL_APPLICATION",
	}
	body.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	body.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	body.ThreatInfo.ThreatEntries = []threatEntry{{URL: rawURL}}

	var resp threatResponse
	if err := postJSON(ctx, s.client, s.endpoint, s.apiKey, body, &resp); err != nil {
		return false, fmt.Errorf("safe browsing: %w", err)
	}
	return len(resp.Matches) == 0, nil
}

func postJSON(ctx context.Context, client *http.Client, endpoint, apiKey string, in, out any) error {
	jsonBody, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint+"?key="+url.QueryEscape(apiKey), bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API返回错误 (%d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}
