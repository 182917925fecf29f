package moderation

import (
	"math"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// 页面内容满 50 个词才给满置信度;标题天然很短,单独使用较小的基数
const (
	ContentFullConfidenceWords = 50
	TitleFullConfidenceWords   = 8
)

// ContentScore 一次打分结果
type ContentScore struct {
	RawScore        int
	NormalizedScore float64
	TotalMatches    int
	Confidence      float64
}

// Recommendation 文本分析建议
type Recommendation string

const (
	RecommendApprove      Recommendation = "APPROVE"
	RecommendReject       Recommendation = "REJECT"
	RecommendManualReview Recommendation = "MANUAL_REVIEW"
)

// ContentScorer 加权关键词打分。关键词按子串匹配,
// 用 Aho-Corasick 一次扫描完成。
type ContentScorer struct {
	// Matcher 内部带计数状态,Match 不能并发调用
	mu        sync.Mutex
	matcher   *ahocorasick.Matcher
	weights   [][]int // 模式下标 -> 命中的各组权重
	fullWords int
}

// NewContentScorer 构造打分器,fullWords 为满置信度所需词数
func NewContentScorer(kw Keywords, fullWords int) *ContentScorer {
	if fullWords <= 0 {
		fullWords = ContentFullConfidenceWords
	}

	index := make(map[string]int)
	var patterns []string
	var weights [][]int

	add := func(words []string, weight int) {
		for _, w := range words {
			p := NormalizeText(w)
			if p == "" {
				continue
			}
			i, ok := index[p]
			if !ok {
				i = len(patterns)
				index[p] = i
				patterns = append(patterns, p)
				weights = append(weights, nil)
			}
			weights[i] = append(weights[i], weight)
		}
	}
	add(kw.StrongEducational, weightStrongEducational)
	add(kw.Educational, weightEducational)
	add(kw.StrongNegative, weightStrongNegative)
	add(kw.Negative, weightNegative)

	s := &ContentScorer{weights: weights, fullWords: fullWords}
	if len(patterns) > 0 {
		s.matcher = ahocorasick.NewStringMatcher(patterns)
	}
	return s
}

// Score 对文本打分
func (s *ContentScorer) Score(text string) ContentScore {
	normalized := NormalizeText(text)
	if normalized == "" || s.matcher == nil {
		return ContentScore{}
	}

	s.mu.Lock()
	hits := s.matcher.Match([]byte(normalized))
	s.mu.Unlock()

	var score ContentScore
	for _, i := range hits {
		for _, w := range s.weights[i] {
			score.RawScore += w
			score.TotalMatches++
		}
	}
	if score.TotalMatches == 0 {
		return score
	}

	words := len(strings.Split(normalized, " "))
	lengthFactor := math.Min(float64(words)/float64(s.fullWords), 1)
	score.NormalizedScore = float64(score.RawScore) / float64(score.TotalMatches) * lengthFactor
	score.Confidence = math.Min(math.Abs(score.NormalizedScore), 1)
	return score
}

// Recommend 按内容分析的阈值给出建议
func (s *ContentScorer) Recommend(text string, minConfidence float64) (ContentScore, Recommendation) {
	score := s.Score(text)
	switch {
	case score.Confidence <= minConfidence:
		return score, RecommendManualReview
	case score.NormalizedScore > contentApproveThreshold:
		return score, RecommendApprove
	default:
		return score, RecommendReject
	}
}
