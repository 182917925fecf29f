package moderation

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var filler = strings.Repeat("lorem ipsum dolor sit amet ", 12)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Hello,   WORLD!! ", "hello world"},
		{"Tutoríal — Básico", "tutorial basico"},
		{"node.js/express", "node js express"},
		{"ｆｕｌｌ width", "full width"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeText(tc.in), tc.in)
	}
}

func TestContentScorer_Title(t *testing.T) {
	s := NewContentScorer(DefaultKeywords(), TitleFullConfidenceWords)

	good := s.Score("Complete JavaScript Tutorial for Beginners")
	assert.Greater(t, good.NormalizedScore, 0.5)
	assert.Greater(t, good.Confidence, 0.7)
	assert.Equal(t, 4, good.TotalMatches) // tutorial, beginners, javascript, java
	assert.Equal(t, 8, good.RawScore)

	bad := s.Score("Funny TikTok Compilation Fails")
	assert.Less(t, bad.NormalizedScore, -0.5)
	assert.InDelta(t, 1.0, bad.Confidence, 1e-9)
	assert.Equal(t, -14, bad.RawScore)
}

func TestContentScorer_Content(t *testing.T) {
	s := NewContentScorer(DefaultKeywords(), ContentFullConfidenceWords)

	t.Run("no matches", func(t *testing.T) {
		score := s.Score(filler)
		assert.Equal(t, ContentScore{}, score)
	})

	t.Run("short text is discounted", func(t *testing.T) {
		score := s.Score("python tutorial")
		// (3+1)/2 * 2/50
		assert.InDelta(t, 0.08, score.NormalizedScore, 1e-9)
		assert.InDelta(t, 0.08, score.Confidence, 1e-9)
	})

	t.Run("long text gets full length factor", func(t *testing.T) {
		score := s.Score(filler + " programming tutorial python")
		assert.Equal(t, 3, score.TotalMatches)
		assert.InDelta(t, 7.0/3.0, score.NormalizedScore, 1e-9)
		assert.InDelta(t, 1.0, score.Confidence, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, ContentScore{}, s.Score("  !!  "))
	})
}

func TestContentScorer_Recommend(t *testing.T) {
	s := NewContentScorer(DefaultKeywords(), ContentFullConfidenceWords)

	_, rec := s.Recommend(filler+" python tutorial", 0.7)
	assert.Equal(t, RecommendApprove, rec)

	_, rec = s.Recommend(filler+" funny prank", 0.7)
	assert.Equal(t, RecommendReject, rec)

	_, rec = s.Recommend("python", 0.7)
	assert.Equal(t, RecommendManualReview, rec)
}

func TestContentScorer_CustomKeywords(t *testing.T) {
	s := NewContentScorer(Keywords{
		StrongEducational: []string{"gopher"},
		Negative:          []string{"gopher"},
	}, 1)

	score := s.Score("gopher")
	assert.Equal(t, 2, score.TotalMatches)
	assert.Equal(t, 1, score.RawScore)
}

func TestContentScorer_Concurrent(t *testing.T) {
	s := NewContentScorer(DefaultKeywords(), TitleFullConfidenceWords)
	want := s.Score("Complete JavaScript Tutorial for Beginners")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, s.Score("Complete JavaScript Tutorial for Beginners"))
			}
		}()
	}
	wg.Wait()
}
