// Package moderation 判断用户提交的资源是否属于学习内容并且安全
package moderation

import (
	"encoding/json"
	"math"
)

// Source 判定来源,写入日志和指标用于审计
type Source string

const (
	SourceDomainAllowlist Source = "domain_allowlist"
	SourceDomainBlocklist Source = "domain_blocklist"
	SourceTitleAnalysis   Source = "title_analysis"
	SourceContentAnalysis Source = "content_analysis"
	SourceScrapingTimeout Source = "scraping_timeout"
	SourceScrapingError   Source = "scraping_error"
	SourceSetupError      Source = "setup_error"
	SourceLowConfidence   Source = "low_confidence"
	SourceManualReview    Source = "manual_review_fallback"
	SourceInvalidURL      Source = "invalid_url"
	SourceVideoAnalysis   Source = "video_analysis"
	SourceVideoNotFound   Source = "video_not_found"
	SourceUpstreamError   Source = "upstream_error"
)

// Verdict 一次检查的结论。只能通过 Approve / Reject 构造,
// 通过的结论没有拒绝原因。
type Verdict struct {
	approved   bool
	reason     string
	source     Source
	confidence float64
	cached     bool
}

// Approve 通过
func Approve(source Source, confidence float64) Verdict {
	return Verdict{approved: true, source: source, confidence: clamp01(confidence)}
}

// Reject 拒绝,reason 会展示给提交者
func Reject(source Source, reason string, confidence float64) Verdict {
	return Verdict{source: source, reason: reason, confidence: clamp01(confidence)}
}

func (v Verdict) Approved() bool      { return v.approved }
func (v Verdict) Source() Source      { return v.source }
func (v Verdict) Confidence() float64 { return v.confidence }
func (v Verdict) Cached() bool        { return v.cached }

// Reason 拒绝原因,通过时 ok 为 false
func (v Verdict) Reason() (reason string, ok bool) {
	if v.approved {
		return "", false
	}
	return v.reason, true
}

// AsCached 标记为缓存命中
func (v Verdict) AsCached() Verdict {
	v.cached = true
	return v
}

type verdictJSON struct {
	Approved   bool    `json:"approved"`
	Reason     string  `json:"reason,omitempty"`
	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence"`
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(verdictJSON{
		Approved:   v.approved,
		Reason:     v.reason,
		Source:     v.source,
		Confidence: v.confidence,
	})
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var raw verdictJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Approved {
		*v = Approve(raw.Source, raw.Confidence)
	} else {
		*v = Reject(raw.Source, raw.Reason, raw.Confidence)
	}
	return nil
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}
