// Package screening 提交资源时的同步安全检查: 恶意链接、毒性文本、脏话
package screening

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"go-resources/internal/logger"
)

// DefaultToxicityThreshold 毒性分数超过该值即拒绝
const DefaultToxicityThreshold = 0.7

// ErrRejected 提交未通过检查
var ErrRejected = errors.New("submission rejected")

// RejectionError 拒绝原因,Message 直接返回给用户
type RejectionError struct {
	Field   string
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

func (e *RejectionError) Is(target error) bool { return target == ErrRejected }

func reject(field, msg string) error {
	return &RejectionError{Field: field, Message: msg}
}

// URLSafety 恶意链接查询
type URLSafety interface {
	IsSafe(ctx context.Context, url string) (bool, error)
}

// ToxicityScorer 文本毒性打分,返回 [0,1]
type ToxicityScorer interface {
	Toxicity(ctx context.Context, text string) (float64, error)
}

// Screener 依次执行各项检查,任一失败即拒绝。
// 外部服务出错时按不安全处理;未配置的服务直接跳过。
type Screener struct {
	safety    URLSafety
	toxicity  ToxicityScorer
	profanity *Profanity
	threshold float64
	log       logger.Logger
}

func NewScreener(safety URLSafety, toxicity ToxicityScorer, profanity *Profanity, log logger.Logger) *Screener {
	if log == nil {
		log = logger.NewNop()
	}
	return &Screener{
		safety:    safety,
		toxicity:  toxicity,
		profanity: profanity,
		threshold: DefaultToxicityThreshold,
		log:       log,
	}
}

// Screen 检查一次提交,拒绝时返回 *RejectionError
func (s *Screener) Screen(ctx context.Context, title, category, rawURL string) error {
	var (
		urlSafe      = true
		titleSafe    = true
		categorySafe = true
	)

	g, gctx := errgroup.WithContext(ctx)
	if s.safety != nil {
		g.Go(func() error {
			ok, err := s.safety.IsSafe(gctx, rawURL)
			if err != nil {
				s.log.Warn("URL safety lookup failed", logger.String("url", rawURL), logger.Error(err))
			}
			urlSafe = ok && err == nil
			return nil
		})
	}
	if s.toxicity != nil {
		g.Go(func() error {
			titleSafe = s.nonToxic(gctx, "title", title)
			return nil
		})
		g.Go(func() error {
			categorySafe = s.nonToxic(gctx, "category", category)
			return nil
		})
	}
	_ = g.Wait()

	switch {
	case !urlSafe:
		return reject("url", "unsafe url link")
	case !titleSafe:
		return reject("title", "Title contains inappropriate content")
	case !categorySafe:
		return reject("category", "Category contains inappropriate content")
	}

	if s.profanity != nil {
		switch {
		case s.profanity.Contains(title):
			return reject("title", "Title contains inappropriate words")
		case s.profanity.Contains(category):
			return reject("category", "Category contains inappropriate words")
		case s.profanity.Contains(rawURL):
			return reject("url", "url contains inappropriate words")
		}
	}
	return nil
}

func (s *Screener) nonToxic(ctx context.Context, field, text string) bool {
	score, err := s.toxicity.Toxicity(ctx, text)
	if err != nil {
		s.log.Warn("Toxicity lookup failed", logger.String("field", field), logger.Error(err))
		return false
	}
	return score <= s.threshold
}
