package screening

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const DefaultPerspectiveURL = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Perspective 文本毒性打分客户端
type Perspective struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewPerspective(endpoint, apiKey string, timeout time.Duration) *Perspective {
	if endpoint == "" {
		endpoint = DefaultPerspectiveURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Perspective{endpoint: endpoint, apiKey: apiKey, client: &http.Client{Timeout: timeout}}
}

// Toxicity 返回 TOXICITY 分数
func (p *Perspective) Toxicity(ctx context.Context, text string) (float64, error) {
	var body analyzeRequest
	body.Comment.Text = text
	body.RequestedAttributes = map[string]struct{}{"TOXICITY": {}}

	var resp analyzeResponse
	if err := postJSON(ctx, p.client, p.endpoint, p.apiKey, body, &resp); err != nil {
		return 0, fmt.Errorf("perspective: %w", err)
	}
	score, ok := resp.AttributeScores["TOXICITY"]
	if !ok {
		return 0, errors.New("perspective: response has no TOXICITY score")
	}
	return score.SummaryScore.Value, nil
}
